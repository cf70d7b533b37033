package prefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInteresting(t *testing.T) {
	pf := New("fall_through")

	assert.True(t, pf.Interesting([]byte("fall_through(false); switch(a){}")))
	assert.True(t, pf.Interesting([]byte("// mentions fall_through in a comment")))
	assert.False(t, pf.Interesting([]byte("switch(a){case 1: f(); case 2: g();}")))
	assert.False(t, pf.Interesting(nil))
}

func TestInteresting_CustomSpelling(t *testing.T) {
	pf := New("no_fallthrough")

	assert.True(t, pf.Interesting([]byte("no_fallthrough(true);")))
	assert.False(t, pf.Interesting([]byte("fall_through(false);")))
}

func TestInteresting_SubstringMatch(t *testing.T) {
	// The prefilter is deliberately coarse: any mention keeps the file on
	// the full pipeline, which then decides for real.
	pf := New("fall_through")
	assert.True(t, pf.Interesting([]byte("int fall_through_count = 0;")))
}
