package validation_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-fn/internal/query"
	"github.com/graph-gophers/graphql-fn/internal/validation"
	"github.com/graph-gophers/graphql-fn/schema"
)

var overlapSchema = schema.MustParseSDL(`
	type Query { item(id: ID): Item }
	type Item { id: ID name: String price: Float related: Item }
`)

func TestOverlapNested(t *testing.T) {
	doc, qErr := query.Parse(`{
		item(id: 1) { related { x: id } }
		item(id: 1) { related { x: name } }
	}`)
	require.Nil(t, qErr)

	errs := validation.Validate(overlapSchema, doc, 0)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `Fields "item" conflict because subfields "related" conflict because subfields "x" conflict`)
	assert.Len(t, errs[0].Locations, 6)
}

func TestOverlapThroughFragments(t *testing.T) {
	doc, qErr := query.Parse(`
		{ item { ...A ...B } }
		fragment A on Item { label: name }
		fragment B on Item { label: price }
	`)
	require.Nil(t, qErr)

	errs := validation.Validate(overlapSchema, doc, 0)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "they return conflicting types String and Float")
}

// Wide selections with many repeated aliases must stay quick and report each clash once.
func TestOverlapWideSelection(t *testing.T) {
	var b strings.Builder
	b.WriteString("{ item {")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, " k%d: id", i%40)
	}
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, " ...F%d", i)
	}
	b.WriteString(" } }")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, " fragment F%d on Item { k%d: name k%d: id }", i, i, i+100)
	}

	doc, qErr := query.Parse(b.String())
	require.Nil(t, qErr)

	errs := validation.Validate(overlapSchema, doc, 0)
	require.NotEmpty(t, errs)
	for _, err := range errs {
		assert.Contains(t, err.Message, "they return conflicting types ID and String")
	}
	assert.Less(t, len(errs), 1000)
}
