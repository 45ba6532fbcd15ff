package domain_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/aretw0/eio/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseError_Unwrap(t *testing.T) {
	short := &domain.ParseError{Kind: domain.KindGeometryNodes, Field: "tag", Err: domain.ErrShortRecord}
	assert.ErrorIs(t, short, domain.ErrShortRecord)
	assert.NotErrorIs(t, short, domain.ErrEndOfSequence)
	assert.Equal(t, "geometry.nodes: reading tag: short record", short.Error())

	_, convErr := strconv.Atoi("x")
	bad := &domain.ParseError{Kind: domain.KindGeometryHeader, Field: "bodies", Token: "x", Err: convErr}
	assert.Contains(t, bad.Error(), `invalid token "x"`)

	var pe *domain.ParseError
	assert.True(t, errors.As(error(bad), &pe))
	assert.Equal(t, "bodies", pe.Field)
}

func TestStreamKinds(t *testing.T) {
	assert.Len(t, domain.GeometryKinds(), 6)
	assert.Len(t, domain.ModelDataKinds(), 3)

	assert.True(t, domain.KindGeometryLoops.IsKnown())
	assert.True(t, domain.KindModelParameters.IsKnown())
	assert.False(t, domain.StreamKind("geometry.faces").IsKnown())
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "boundary condition", domain.CategoryBoundaryCondition.String())
	assert.Equal(t, "category(42)", domain.Category(42).String())
	assert.Len(t, domain.Categories(), 6)
}

func TestValidateModelName(t *testing.T) {
	assert.NoError(t, domain.ValidateModelName("wing"))
	assert.NoError(t, domain.ValidateModelName("step-2.v1"))

	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "../etc"} {
		assert.ErrorIs(t, domain.ValidateModelName(name), domain.ErrInvalidModelName, name)
	}
}
