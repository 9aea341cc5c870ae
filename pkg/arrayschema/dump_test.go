package arrayschema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaStringSummary(t *testing.T) {
	s := denseSchema(t)
	assert.Contains(t, s.String(), "dense_basic")
	assert.Contains(t, s.String(), "dense")
}

func TestSchemaDumpContainsKeyFields(t *testing.T) {
	s := denseSchema(t)
	var b strings.Builder
	require.NoError(t, s.Dump(&b))

	out := b.String()
	assert.Contains(t, out, "cell_num_per_tile: 25")
	assert.Contains(t, out, "tile_domain:")
}
