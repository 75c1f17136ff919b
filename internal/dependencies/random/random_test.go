package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringUsesAlphabet(t *testing.T) {
	r := New()
	s := r.String(32, "ab")
	assert.Len(t, s, 32)
	assert.Empty(t, strings.Trim(s, "ab"))
}

func TestStringEdgeCases(t *testing.T) {
	r := New()
	assert.Equal(t, "", r.String(0, IDAlphabet))
	assert.Equal(t, "", r.String(5, ""))
}

func TestIDIsBase36(t *testing.T) {
	r := New()
	id := r.ID()
	assert.Len(t, id, IDLength)
	for _, c := range id {
		assert.True(t, strings.ContainsRune(IDAlphabet, c), "unexpected rune %q", c)
	}
}
