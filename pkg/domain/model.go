package domain

import "fmt"

// ModelDescription is the top-level header of the model description.
type ModelDescription struct {
	Bodies             int `json:"bodies"`
	BodyForces         int `json:"body_forces"`
	BodyEquations      int `json:"body_equations"`
	Materials          int `json:"materials"`
	BoundaryConditions int `json:"boundary_conditions"`
	InitialConditions  int `json:"initial_conditions"`
	MeshParameters     int `json:"mesh_parameters"`
}

// BodyRecord links a body to the ids of its properties.
type BodyRecord struct {
	Tag              int `json:"tag"`
	BodyForce        int `json:"body_force"`
	Equation         int `json:"equation"`
	InitialCondition int `json:"initial_condition"`
	Material         int `json:"material"`
	MeshParameter    int `json:"mesh_parameter"`
}

// Constants are the global physical constants of a model.
type Constants struct {
	Gravity   [3]float64 `json:"gravity"`
	Boltzmann float64    `json:"boltzmann"`
}

// Coordinates describes the coordinate system of a model.
type Coordinates struct {
	Dimension int        `json:"dimension"`
	CoordSys  int        `json:"coord_sys"`
	Mapping   [3]int     `json:"mapping"`
	Symmetry  int        `json:"symmetry"`
	Start     [3]float64 `json:"start"`
	End1      [3]float64 `json:"end1"`
	End2      [3]float64 `json:"end2"`
}

// Category selects one head/field record family.
type Category int

const (
	CategoryMaterial Category = iota
	CategoryBoundaryCondition
	CategoryInitialCondition
	CategoryBodyEquation
	CategoryBodyForce
	CategoryMeshParameter
)

var categoryNames = map[Category]string{
	CategoryMaterial:          "material",
	CategoryBoundaryCondition: "boundary condition",
	CategoryInitialCondition:  "initial condition",
	CategoryBodyEquation:      "body equation",
	CategoryBodyForce:         "body force",
	CategoryMeshParameter:     "mesh parameter",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Categories returns every head/field category.
func Categories() []Category {
	return []Category{
		CategoryMaterial,
		CategoryBoundaryCondition,
		CategoryInitialCondition,
		CategoryBodyEquation,
		CategoryBodyForce,
		CategoryMeshParameter,
	}
}

// Head declares the owner of a group of field records and how many follow.
type Head struct {
	Tag    int `json:"tag"`
	Fields int `json:"fields"`
}

// Field is one named value of a head record.
// Name and Type are opaque ids assigned by an external naming convention.
type Field struct {
	Name      int       `json:"name"`
	Type      int       `json:"type"`
	Selectors []int     `json:"selectors"`
	Values    []float64 `json:"values"`
}

// Len returns the persisted length of the field.
func (f Field) Len() int {
	return len(f.Values)
}
