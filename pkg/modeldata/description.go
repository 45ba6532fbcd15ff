package modeldata

import (
	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/record"
)

// WriteDescription writes the seven category counts on one line.
func (a *Agent) WriteDescription(d domain.ModelDescription) error {
	w, err := a.writer(domain.KindModelDescription)
	if err != nil {
		return err
	}
	w.Int(d.Bodies).
		Int(d.BodyForces).
		Int(d.BodyEquations).
		Int(d.Materials).
		Int(d.BoundaryConditions).
		Int(d.InitialConditions).
		Int(d.MeshParameters).
		EOL()
	return a.commit(w)
}

// ReadDescription reads the line written by WriteDescription.
func (a *Agent) ReadDescription() (domain.ModelDescription, error) {
	kind := domain.KindModelDescription
	r, err := a.reader(kind)
	if err != nil {
		return domain.ModelDescription{}, err
	}

	var d domain.ModelDescription
	err = readInts(r, []namedInt{
		{"bodies", &d.Bodies},
		{"body forces", &d.BodyForces},
		{"body equations", &d.BodyEquations},
		{"materials", &d.Materials},
		{"boundary conditions", &d.BoundaryConditions},
		{"initial conditions", &d.InitialConditions},
		{"mesh parameters", &d.MeshParameters},
	})
	return d, a.done(kind, err)
}

// WriteConstants writes the gravity vector and the Boltzmann constant.
func (a *Agent) WriteConstants(c domain.Constants) error {
	w, err := a.writer(domain.KindModelDescription)
	if err != nil {
		return err
	}
	w.Floats(c.Gravity[:]).Float(c.Boltzmann).EOL()
	return a.commit(w)
}

// ReadConstants reads the line written by WriteConstants.
func (a *Agent) ReadConstants() (domain.Constants, error) {
	kind := domain.KindModelDescription
	r, err := a.reader(kind)
	if err != nil {
		return domain.Constants{}, err
	}

	var c domain.Constants
	err = readVector(r, &c.Gravity, "gravity")
	if err == nil {
		c.Boltzmann, err = r.Float("boltzmann")
	}
	return c, a.done(kind, err)
}

// WriteCoordinates writes the coordinate setup: one line of integers, then
// the start, end1 and end2 vectors.
func (a *Agent) WriteCoordinates(c domain.Coordinates) error {
	w, err := a.writer(domain.KindModelDescription)
	if err != nil {
		return err
	}
	w.Int(c.Dimension).Int(c.CoordSys).Ints(c.Mapping[:]).Int(c.Symmetry).EOL()
	w.Floats(c.Start[:]).EOL()
	w.Floats(c.End1[:]).EOL()
	w.Floats(c.End2[:]).EOL()
	return a.commit(w)
}

// ReadCoordinates reads the block written by WriteCoordinates.
func (a *Agent) ReadCoordinates() (domain.Coordinates, error) {
	kind := domain.KindModelDescription
	r, err := a.reader(kind)
	if err != nil {
		return domain.Coordinates{}, err
	}

	var c domain.Coordinates
	err = readInts(r, []namedInt{
		{"dimension", &c.Dimension},
		{"coordinate system", &c.CoordSys},
		{"mapping", &c.Mapping[0]},
		{"mapping", &c.Mapping[1]},
		{"mapping", &c.Mapping[2]},
		{"symmetry", &c.Symmetry},
	})
	if err == nil {
		err = readVector(r, &c.Start, "start")
	}
	if err == nil {
		err = readVector(r, &c.End1, "end1")
	}
	if err == nil {
		err = readVector(r, &c.End2, "end2")
	}
	return c, a.done(kind, err)
}

// WriteBodyRecord appends the property links of one body.
func (a *Agent) WriteBodyRecord(b domain.BodyRecord) error {
	w, err := a.writer(domain.KindModelBodies)
	if err != nil {
		return err
	}
	w.Int(b.Tag).
		Int(b.BodyForce).
		Int(b.Equation).
		Int(b.InitialCondition).
		Int(b.Material).
		Int(b.MeshParameter).
		EOL()
	return a.commit(w)
}

// ReadBodyRecord reads the next body record.
func (a *Agent) ReadBodyRecord() (domain.BodyRecord, error) {
	kind := domain.KindModelBodies
	r, err := a.reader(kind)
	if err != nil {
		return domain.BodyRecord{}, err
	}

	var b domain.BodyRecord
	err = readInts(r, []namedInt{
		{"tag", &b.Tag},
		{"body force", &b.BodyForce},
		{"equation", &b.Equation},
		{"initial condition", &b.InitialCondition},
		{"material", &b.Material},
		{"mesh parameter", &b.MeshParameter},
	})
	return b, a.done(kind, err)
}

type namedInt struct {
	name string
	dst  *int
}

func readInts(r *record.Reader, fields []namedInt) error {
	for _, f := range fields {
		v, err := r.Int(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func readVector(r *record.Reader, dst *[3]float64, field string) error {
	for i := range dst {
		v, err := r.Float(field)
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}
