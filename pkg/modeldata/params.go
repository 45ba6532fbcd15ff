package modeldata

import (
	"fmt"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/aretw0/eio/pkg/record"
)

// pending tracks the field records still owed to the last head record.
type pending struct {
	category  domain.Category
	owner     int
	remaining int
}

func (p pending) open() bool {
	return p.remaining > 0
}

// expectField fails unless a field of cat is owed.
func (p pending) expectField(cat domain.Category) error {
	if !p.open() {
		return fmt.Errorf("%s field without pending head: %w", cat, domain.ErrFieldCount)
	}
	if p.category != cat {
		return fmt.Errorf("%s field while %s %d owes %d fields: %w",
			cat, p.category, p.owner, p.remaining, domain.ErrFieldCount)
	}
	return nil
}

// expectHead fails while the previous head still owes fields.
func (p pending) expectHead(cat domain.Category) error {
	if p.open() {
		return fmt.Errorf("%s head while %s %d owes %d fields: %w",
			cat, p.category, p.owner, p.remaining, domain.ErrFieldCount)
	}
	return nil
}

// WriteHead writes the head record of one owner of cat. Exactly h.Fields
// calls to WriteField with the same category must follow.
func (a *Agent) WriteHead(cat domain.Category, h domain.Head) error {
	kind := domain.KindModelParameters
	w, err := a.writer(kind)
	if err != nil {
		return err
	}
	if err := a.pending.expectHead(cat); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if h.Fields < 0 {
		return fmt.Errorf("write %s: %s %d declares %d fields: %w",
			kind, cat, h.Tag, h.Fields, domain.ErrInvalidRecord)
	}

	w.Int(h.Tag).Int(h.Fields).EOL()
	if err := a.commit(w); err != nil {
		return err
	}
	a.pending = pending{category: cat, owner: h.Tag, remaining: h.Fields}
	return nil
}

// WriteField writes one field record of the current head.
func (a *Agent) WriteField(cat domain.Category, f domain.Field) error {
	kind := domain.KindModelParameters
	w, err := a.writer(kind)
	if err != nil {
		return err
	}
	if err := a.pending.expectField(cat); err != nil {
		return fmt.Errorf("write %s: %w", kind, err)
	}
	if len(f.Selectors) != len(f.Values) {
		return fmt.Errorf("write %s: field %d has %d selectors for %d values: %w",
			kind, f.Name, len(f.Selectors), len(f.Values), domain.ErrInvalidRecord)
	}

	w.Int(f.Name).Int(f.Type).Int(f.Len()).Ints(f.Selectors).Floats(f.Values).EOL()
	if err := a.commit(w); err != nil {
		return err
	}
	a.pending.remaining--
	return nil
}

// ReadHead reads the next head record of cat.
func (a *Agent) ReadHead(cat domain.Category) (domain.Head, error) {
	kind := domain.KindModelParameters
	r, err := a.reader(kind)
	if err != nil {
		return domain.Head{}, err
	}
	if err := a.pending.expectHead(cat); err != nil {
		return domain.Head{}, fmt.Errorf("read %s: %w", kind, err)
	}

	h, err := readHead(r)
	if err = a.done(kind, err); err != nil {
		return domain.Head{}, err
	}
	a.pending = pending{category: cat, owner: h.Tag, remaining: h.Fields}
	return h, nil
}

func readHead(r *record.Reader) (domain.Head, error) {
	var h domain.Head
	var err error
	if h.Tag, err = r.Int("tag"); err != nil {
		return h, err
	}
	h.Fields, err = readCount(r, "fields")
	return h, err
}

// ReadField reads the next field record of the current head into dst,
// reusing its slices. Reading more fields than the head declared fails with
// domain.ErrFieldCount before the stream is touched.
func (a *Agent) ReadField(cat domain.Category, dst *domain.Field) error {
	kind := domain.KindModelParameters
	r, err := a.reader(kind)
	if err != nil {
		return err
	}
	if err := a.pending.expectField(cat); err != nil {
		return fmt.Errorf("read %s: %w", kind, err)
	}

	if err := a.done(kind, readField(r, dst)); err != nil {
		return err
	}
	a.pending.remaining--
	return nil
}

func readField(r *record.Reader, dst *domain.Field) error {
	var err error
	if dst.Name, err = r.Int("name"); err != nil {
		return err
	}
	if dst.Type, err = r.Int("type"); err != nil {
		return err
	}
	n, err := readCount(r, "length")
	if err != nil {
		return err
	}
	if dst.Selectors, err = r.Ints(dst.Selectors[:0], n, "selector"); err != nil {
		return err
	}
	dst.Values, err = r.Floats(dst.Values[:0], n, "value")
	return err
}

// readCount reads a persisted length and rejects negative values.
func readCount(r *record.Reader, field string) (int, error) {
	n, err := r.Int(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &domain.ParseError{
			Kind:  r.Kind(),
			Field: field,
			Token: fmt.Sprint(n),
			Err:   domain.ErrInvalidRecord,
		}
	}
	return n, nil
}
