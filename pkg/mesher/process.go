package mesher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// ProcessConfig describes an external generator executable.
type ProcessConfig struct {
	Name        Generator         `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Dir         string            `yaml:"dir" json:"dir"`
}

// rawOutput is what a process generator prints on stdout.
type rawOutput struct {
	Points   []float64 `json:"points"`
	Surfaces []int     `json:"surfaces"`
	Volumes  []int     `json:"volumes"`
}

// ProcessMesher runs an external command and reads raw mesh buffers from its
// stdout as JSON. Control parameters are passed as EIO_MESH_* environment
// variables, never as command-line flags.
type ProcessMesher struct {
	cfg      ProcessConfig
	lookPath func(string) (string, error)
}

// NewProcessMesher creates a mesher for cfg.
func NewProcessMesher(cfg ProcessConfig) *ProcessMesher {
	return &ProcessMesher{cfg: cfg, lookPath: exec.LookPath}
}

// Name returns the configured generator name.
func (p *ProcessMesher) Name() Generator {
	return p.cfg.Name
}

// Available reports whether the command resolves on this host.
func (p *ProcessMesher) Available() bool {
	if p.cfg.Command == "" {
		return false
	}
	_, err := p.lookPath(p.cfg.Command)
	return err == nil
}

// Generate runs the command and converts its output.
func (p *ProcessMesher) Generate(ctx context.Context, c Control) (*Mesh, error) {
	cmd := exec.CommandContext(ctx, p.cfg.Command, p.cfg.Args...)
	cmd.Dir = p.cfg.Dir
	cmd.Env = append(cmd.Environ(), controlEnv(c)...)
	for k, v := range p.cfg.Environment {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", p.cfg.Command, err, strings.TrimSpace(stderr.String()))
	}

	var out rawOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("decode %s output: %w", p.cfg.Command, err)
	}
	return FromRawBuffers(out.Points, out.Surfaces, out.Volumes)
}

func controlEnv(c Control) []string {
	return []string{
		"EIO_MESH_GENERATOR=" + string(c.Generator),
		"EIO_MESH_ARGS=" + c.Arguments(),
		"EIO_MESH_TETLIB=" + c.TetlibControl,
		"EIO_MESH_NGLIB_MAXH=" + c.NglibMaxH,
		"EIO_MESH_NGLIB_FINENESS=" + c.NglibFineness,
		"EIO_MESH_NGLIB_BGMESH=" + c.NglibBackgroundMesh,
		"EIO_MESH_ELMERGRID=" + c.ElmerGridControl,
		"EIO_MESH_ELEMENT_CODES=" + c.ElementCodes,
	}
}
