package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/eio/pkg/domain"
)

// Reader extracts whitespace-delimited tokens from one stream.
type Reader struct {
	kind domain.StreamKind
	src  io.ReadSeeker
	br   *bufio.Reader
}

// NewReader creates a Reader for the given stream kind.
func NewReader(kind domain.StreamKind, src io.ReadSeeker) *Reader {
	return &Reader{kind: kind, src: src, br: bufio.NewReader(src)}
}

// Kind returns the stream kind this reader parses.
func (r *Reader) Kind() domain.StreamKind {
	return r.kind
}

// Int reads one integer token. field names the value in errors.
func (r *Reader) Int(field string) (int, error) {
	tok, err := r.token(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, r.fail(field, tok, err)
	}
	return v, nil
}

// Ints appends n integer tokens to dst.
func (r *Reader) Ints(dst []int, n int, field string) ([]int, error) {
	for i := 0; i < n; i++ {
		v, err := r.Int(field)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// Skip consumes n integer tokens without keeping them.
func (r *Reader) Skip(n int, field string) error {
	for i := 0; i < n; i++ {
		if _, err := r.Int(field); err != nil {
			return err
		}
	}
	return nil
}

// Float reads one floating point token.
func (r *Reader) Float(field string) (float64, error) {
	tok, err := r.token(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, r.fail(field, tok, err)
	}
	return v, nil
}

// Floats appends n floating point tokens to dst.
func (r *Reader) Floats(dst []float64, n int, field string) ([]float64, error) {
	for i := 0; i < n; i++ {
		v, err := r.Float(field)
		if err != nil {
			return dst, err
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// Rewind repositions the reader at the start of the stream.
func (r *Reader) Rewind() error {
	if _, err := r.src.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%s: rewind: %w", r.kind, err)
	}
	r.br.Reset(r.src)
	return nil
}

func (r *Reader) token(field string) (string, error) {
	var sb strings.Builder
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if sb.Len() > 0 {
					return sb.String(), nil
				}
				return "", r.fail(field, "", domain.ErrShortRecord)
			}
			return "", r.fail(field, sb.String(), err)
		}
		if isSpace(b) {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			continue
		}
		sb.WriteByte(b)
	}
}

func (r *Reader) fail(field, tok string, err error) error {
	return &domain.ParseError{Kind: r.kind, Field: field, Token: tok, Err: err}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
