package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorBuilder(t *testing.T) {
	base := stderrors.New("connection refused")

	ee := New(base).
		Component("datastore").
		Category(CategoryDatabase).
		Context("host", "localhost").
		Build()

	assert.Equal(t, "connection refused", ee.Error())
	assert.Equal(t, "datastore", ee.Component)
	assert.Equal(t, CategoryDatabase, ee.Category)
	assert.Equal(t, "localhost", ee.GetContext()["host"])
	assert.False(t, ee.Timestamp.IsZero())
	assert.True(t, stderrors.Is(ee, base))
}

func TestErrorBuilderDefaults(t *testing.T) {
	ee := Newf("something went wrong").Build()

	assert.Equal(t, ComponentUnknown, ee.Component)
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.Nil(t, ee.GetContext())
}

func TestHasCategory(t *testing.T) {
	ee := Newf("no such model").Category(CategoryNotFound).Build()

	assert.True(t, HasCategory(ee, CategoryNotFound))
	assert.False(t, HasCategory(ee, CategoryConflict))
	assert.False(t, HasCategory(nil, CategoryNotFound))
	assert.False(t, HasCategory(stderrors.New("plain"), CategoryNotFound))
}

// TestHasCategoryWrapped tests that the category survives fmt.Errorf wrapping.
func TestHasCategoryWrapped(t *testing.T) {
	ee := Newf("no such model").Category(CategoryNotFound).Build()
	wrapped := fmt.Errorf("handling request: %w", ee)

	assert.True(t, HasCategory(wrapped, CategoryNotFound))
	assert.True(t, IsNotFound(wrapped))
}

func TestCategoryPredicates(t *testing.T) {
	assert.True(t, IsNotFound(Newf("x").Category(CategoryNotFound).Build()))
	assert.True(t, IsConflict(Newf("x").Category(CategoryConflict).Build()))
	assert.True(t, IsValidation(Newf("x").Category(CategoryValidation).Build()))

	generic := Newf("x").Build()
	assert.False(t, IsNotFound(generic))
	assert.False(t, IsConflict(generic))
	assert.False(t, IsValidation(generic))
}

// TestGetContextCopy tests that callers cannot mutate the stored context.
func TestGetContextCopy(t *testing.T) {
	ee := Newf("x").Context("key", "original").Build()

	cp := ee.GetContext()
	cp["key"] = "mutated"

	require.Equal(t, "original", ee.GetContext()["key"])
}

func TestUnwrap(t *testing.T) {
	base := stderrors.New("root cause")
	ee := New(base).Build()

	assert.Equal(t, base, Unwrap(ee))

	var target *EnhancedError
	assert.True(t, As(ee, &target))
	assert.Equal(t, ee, target)
}
