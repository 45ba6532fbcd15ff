package mesher

import (
	"fmt"
	"strconv"
)

// Generator names a mesh generator.
type Generator string

const (
	GeneratorTetlib    Generator = "tetlib"
	GeneratorNglib     Generator = "nglib"
	GeneratorElmerGrid Generator = "elmergrid"
)

// Control holds the parameters handed to a generator. Values are kept as the
// strings users type; generators parse what they need.
type Control struct {
	Generator           Generator `mapstructure:"generator" yaml:"generator" json:"generator"`
	TetlibControl       string    `mapstructure:"tetlib" yaml:"tetlib" json:"tetlib"`
	NglibMaxH           string    `mapstructure:"nglib_maxh" yaml:"nglib_maxh" json:"nglib_maxh"`
	NglibFineness       string    `mapstructure:"nglib_fineness" yaml:"nglib_fineness" json:"nglib_fineness"`
	NglibBackgroundMesh string    `mapstructure:"nglib_bgmesh" yaml:"nglib_bgmesh" json:"nglib_bgmesh"`
	ElmerGridControl    string    `mapstructure:"elmergrid" yaml:"elmergrid" json:"elmergrid"`
	ElementCodes        string    `mapstructure:"element_codes" yaml:"element_codes" json:"element_codes"`
}

// DefaultControl returns the stock parameters with the tetlib generator.
func DefaultControl() Control {
	return Control{
		Generator:           GeneratorTetlib,
		TetlibControl:       "nnJApq1.414V",
		NglibMaxH:           "1000000",
		NglibFineness:       "0.5",
		NglibBackgroundMesh: "",
		ElmerGridControl:    "-relh 1.0",
		ElementCodes:        "",
	}
}

// NglibParams parses the numeric nglib parameters.
func (c Control) NglibParams() (maxH, fineness float64, err error) {
	if maxH, err = strconv.ParseFloat(c.NglibMaxH, 64); err != nil {
		return 0, 0, fmt.Errorf("nglib max h %q: %w", c.NglibMaxH, err)
	}
	if fineness, err = strconv.ParseFloat(c.NglibFineness, 64); err != nil {
		return 0, 0, fmt.Errorf("nglib fineness %q: %w", c.NglibFineness, err)
	}
	return maxH, fineness, nil
}

// Arguments returns the control string of the selected generator.
func (c Control) Arguments() string {
	switch c.Generator {
	case GeneratorTetlib:
		return c.TetlibControl
	case GeneratorElmerGrid:
		return c.ElmerGridControl
	case GeneratorNglib:
		return "-maxh " + c.NglibMaxH + " -fineness " + c.NglibFineness
	}
	return ""
}
