package modeldata

import (
	"context"
	"fmt"

	"github.com/aretw0/eio/pkg/domain"
)

// Group is one head record with its field records.
type Group struct {
	Category domain.Category `json:"category"`
	Tag      int             `json:"tag"`
	Fields   []domain.Field  `json:"fields"`
}

// Document is a whole model description held in memory.
type Document struct {
	Description domain.ModelDescription `json:"description"`
	Constants   domain.Constants        `json:"constants"`
	Coordinates domain.Coordinates      `json:"coordinates"`
	Bodies      []domain.BodyRecord     `json:"bodies"`
	Groups      []Group                 `json:"groups"`
}

// count returns how many groups the description declares for cat.
func count(d domain.ModelDescription, cat domain.Category) int {
	switch cat {
	case domain.CategoryMaterial:
		return d.Materials
	case domain.CategoryBoundaryCondition:
		return d.BoundaryConditions
	case domain.CategoryInitialCondition:
		return d.InitialConditions
	case domain.CategoryBodyEquation:
		return d.BodyEquations
	case domain.CategoryBodyForce:
		return d.BodyForces
	case domain.CategoryMeshParameter:
		return d.MeshParameters
	}
	return 0
}

// validate checks that the description counts match the records, since the
// reader relies on them to know how many records of each kind follow.
func (doc *Document) validate() error {
	if len(doc.Bodies) != doc.Description.Bodies {
		return fmt.Errorf("description declares %d bodies, document has %d: %w",
			doc.Description.Bodies, len(doc.Bodies), domain.ErrInvalidRecord)
	}
	seen := make(map[domain.Category]int)
	last := domain.Category(-1)
	for _, g := range doc.Groups {
		if g.Category < last {
			return fmt.Errorf("%s group %d out of category order: %w", g.Category, g.Tag, domain.ErrInvalidRecord)
		}
		last = g.Category
		seen[g.Category]++
	}
	for _, cat := range domain.Categories() {
		if want := count(doc.Description, cat); seen[cat] != want {
			return fmt.Errorf("description declares %d %s groups, document has %d: %w",
				want, cat, seen[cat], domain.ErrInvalidRecord)
		}
	}
	return nil
}

// Save writes doc as a new model data session. Groups must be ordered by
// category as returned by domain.Categories.
func (a *Agent) Save(ctx context.Context, doc *Document) (err error) {
	if err := doc.validate(); err != nil {
		return fmt.Errorf("save model data %s: %w", a.Model(), err)
	}
	if err := a.Create(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := a.WriteDescription(doc.Description); err != nil {
		return err
	}
	if err := a.WriteConstants(doc.Constants); err != nil {
		return err
	}
	if err := a.WriteCoordinates(doc.Coordinates); err != nil {
		return err
	}
	for _, b := range doc.Bodies {
		if err := a.WriteBodyRecord(b); err != nil {
			return err
		}
	}
	for _, g := range doc.Groups {
		if err := a.WriteHead(g.Category, domain.Head{Tag: g.Tag, Fields: len(g.Fields)}); err != nil {
			return err
		}
		for _, f := range g.Fields {
			if err := a.WriteField(g.Category, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads a whole model description. The description counts drive how
// many body records and groups are read.
func (a *Agent) Load(ctx context.Context) (_ *Document, err error) {
	if err := a.Open(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	doc := &Document{}
	if doc.Description, err = a.ReadDescription(); err != nil {
		return nil, fmt.Errorf("load description: %w", err)
	}
	if doc.Constants, err = a.ReadConstants(); err != nil {
		return nil, fmt.Errorf("load constants: %w", err)
	}
	if doc.Coordinates, err = a.ReadCoordinates(); err != nil {
		return nil, fmt.Errorf("load coordinates: %w", err)
	}

	for i := 0; i < doc.Description.Bodies; i++ {
		b, err := a.ReadBodyRecord()
		if err != nil {
			return nil, fmt.Errorf("load body %d: %w", i, err)
		}
		doc.Bodies = append(doc.Bodies, b)
	}

	for _, cat := range domain.Categories() {
		for i := 0; i < count(doc.Description, cat); i++ {
			g, err := a.readGroup(cat)
			if err != nil {
				return nil, fmt.Errorf("load %s %d: %w", cat, i, err)
			}
			doc.Groups = append(doc.Groups, g)
		}
	}
	return doc, nil
}

func (a *Agent) readGroup(cat domain.Category) (Group, error) {
	h, err := a.ReadHead(cat)
	if err != nil {
		return Group{}, err
	}
	g := Group{Category: cat, Tag: h.Tag}
	for i := 0; i < h.Fields; i++ {
		var f domain.Field
		if err := a.ReadField(cat, &f); err != nil {
			return Group{}, err
		}
		g.Fields = append(g.Fields, f)
	}
	return g, nil
}
