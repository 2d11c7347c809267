package query

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
)

func TestParse(t *testing.T) {
	doc, err := Parse(heredoc.Doc(`
		query Q($id: ID!, $first: Int = 10) @include(if: true) {
			me: user(id: $id) {
				...UserFields
				... on User @skip(if: false) { name }
			}
			users(first: $first) { id }
		}

		mutation { setName(name: "x") }

		fragment UserFields on User { id }
	`))
	require.Nil(t, err)
	require.Len(t, doc.Operations, 2)
	require.Len(t, doc.Fragments, 1)

	q := doc.Operations[0]
	assert.Equal(t, ast.Query, q.Type)
	assert.Equal(t, "Q", q.Name.Name)
	require.Len(t, q.Vars, 2)
	assert.Equal(t, "ID!", q.Vars[0].Type.String())
	assert.Equal(t, 10, q.Vars[1].Default.Deserialize(nil))
	assert.NotNil(t, q.Directives.Get("include"))

	me := q.Selections[0].(*ast.Field)
	assert.Equal(t, "me", me.ResponseKey())
	assert.Equal(t, "user", me.Name.Name)
	id, ok := me.Arguments.Get("id")
	require.True(t, ok)
	assert.Equal(t, &ast.Variable{Name: "id", Loc: errors.Location{Line: 2, Column: 15}}, id)

	require.Len(t, me.SelectionSet, 2)
	spread := me.SelectionSet[0].(*ast.FragmentSpread)
	assert.Equal(t, "UserFields", spread.Name.Name)
	inline := me.SelectionSet[1].(*ast.InlineFragment)
	assert.Equal(t, "User", inline.On.Name)
	assert.NotNil(t, inline.Directives.Get("skip"))

	users := q.Selections[1].(*ast.Field)
	assert.Equal(t, "users", users.ResponseKey())

	m := doc.Operations[1]
	assert.Equal(t, ast.Mutation, m.Type)
	assert.Empty(t, m.Name.Name)

	frag := doc.Fragments.Get("UserFields")
	require.NotNil(t, frag)
	assert.Equal(t, "User", frag.On.Name)
}

func TestParseShorthand(t *testing.T) {
	doc, err := Parse(`{ hello }`)
	require.Nil(t, err)
	require.Len(t, doc.Operations, 1)
	op := doc.Operations[0]
	assert.Equal(t, ast.Query, op.Type)
	assert.Equal(t, "hello", op.Selections[0].(*ast.Field).Name.Name)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		query   string
		message string
		loc     errors.Location
	}{
		{query: `{ hello`, message: `SyntaxError: unexpected <EOF>, expecting Ident`, loc: errors.Location{Line: 1, Column: 8}},
		{query: `{ hello(name: "x) }`, message: "SyntaxError: literal not terminated", loc: errors.Location{Line: 1, Column: 15}},
		{query: `{ }`, message: "SyntaxError: selection set must not be empty"},
		{query: ``, message: "SyntaxError: document contains no operation"},
		{query: `subscription { s }`, message: "SyntaxError: subscriptions are not supported"},
		{query: `fragment on on T { a }`, message: `SyntaxError: fragment cannot be named "on"`},
		{query: `{ a } bogus`, message: `SyntaxError: unexpected "bogus", expecting "fragment"`},
		{query: `{ a(b: ) }`, message: "SyntaxError: invalid value"},
		{query: `query ($a: Int = $b) { a }`, message: "SyntaxError: variable not allowed"},
		{query: `{ a } }`, message: `SyntaxError: unexpected "}", expecting "{"`},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			doc, err := Parse(tt.query)
			assert.Nil(t, doc)
			require.NotNil(t, err)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, errors.SyntaxError, err.Rule)
			require.Len(t, err.Locations, 1)
			if tt.loc.Line != 0 {
				assert.Equal(t, tt.loc, err.Locations[0])
			}
		})
	}
}

func FuzzParseQuery(f *testing.F) {
	f.Add(`{ hello }`)
	f.Add(`query Q($a: [Int!] = [1]) { a(b: $a) { ...F } } fragment F on T { c }`)
	f.Fuzz(func(t *testing.T, queryStr string) {
		Parse(queryStr)
	})
}
