package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInClause(t *testing.T) {
	in, args := inClause([]string{"a", "b", "c"})
	assert.Equal(t, "(?, ?, ?)", in)
	assert.Equal(t, []any{"a", "b", "c"}, args)

	in, args = inClause([]string{"only"})
	assert.Equal(t, "(?)", in)
	assert.Len(t, args, 1)
}

func TestUniq(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniq([]string{"a", "", "b", "a"}))
	assert.Empty(t, uniq(nil))
}
