package schema_test

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-fn/schema"
	"github.com/graph-gophers/graphql-fn/types"
)

func TestRegister(t *testing.T) {
	s := schema.New()
	require.NoError(t, s.Register(&types.ObjectTypeDefinition{Name: "User"}))

	err := s.Register(&types.ObjectTypeDefinition{Name: "User"})
	var dup *schema.DuplicateTypeError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "User", dup.Name)

	_, err = s.Resolve("Missing")
	var unknown *schema.UnknownTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Missing", unknown.Name)

	typ, err := s.Resolve("Int")
	require.NoError(t, err)
	assert.Equal(t, types.Int, typ)
	assert.Nil(t, s.Lookup("Missing"))
}

func TestBuilder(t *testing.T) {
	b := schema.NewBuilder()
	b.Object("Query").
		Field("user", "User", schema.Arg("id", "ID!")).
		Field("users", "[User!]!", schema.ArgDefault("first", "Int", 10))
	b.Object("User").
		Field("id", "ID!").
		Field("name", "String")

	s, err := b.Build()
	require.NoError(t, err)

	q := s.Query()
	require.NotNil(t, q)
	assert.Equal(t, []string{"user", "users"}, q.Fields.Names())

	users := q.Fields.Get("users")
	assert.Equal(t, "[User!]!", users.Type.String())
	first := users.Arguments.Get("first")
	assert.True(t, first.HasDefault)
	assert.Equal(t, 10, first.Default)
	assert.False(t, first.Required())
	assert.True(t, q.Fields.Get("user").Arguments.Get("id").Required())

	assert.Same(t, s.Object("User"), types.Unwrap(users.Type))
	assert.Nil(t, s.Mutation())
}

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *schema.Builder)
		check func(t *testing.T, err error)
	}{
		{
			name: "duplicate type",
			build: func(b *schema.Builder) {
				b.Object("Query").Field("a", "String")
				b.Object("Query").Field("b", "String")
			},
			check: func(t *testing.T, err error) {
				var dup *schema.DuplicateTypeError
				assert.True(t, errors.As(err, &dup))
			},
		},
		{
			name: "duplicate of a builtin scalar",
			build: func(b *schema.Builder) {
				b.Scalar("String", nil, nil)
				b.Object("Query").Field("a", "String")
			},
			check: func(t *testing.T, err error) {
				var dup *schema.DuplicateTypeError
				assert.True(t, errors.As(err, &dup))
			},
		},
		{
			name: "unknown field type",
			build: func(b *schema.Builder) {
				b.Object("Query").Field("a", "Missing")
			},
			check: func(t *testing.T, err error) {
				var unknown *schema.UnknownTypeError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "Missing", unknown.Name)
				assert.Contains(t, err.Error(), "field Query.a")
			},
		},
		{
			name: "object argument",
			build: func(b *schema.Builder) {
				b.Object("Query").Field("a", "String", schema.Arg("q", "Query"))
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "non-input type")
			},
		},
		{
			name: "invalid default",
			build: func(b *schema.Builder) {
				b.Object("Query").Field("a", "String", schema.ArgDefault("n", "Int", "ten"))
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "invalid default value")
			},
		},
		{
			name: "malformed type reference",
			build: func(b *schema.Builder) {
				b.Object("Query").Field("a", "[String")
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "SyntaxError")
			},
		},
		{
			name: "missing query root",
			build: func(b *schema.Builder) {
				b.Object("Root").Field("a", "String")
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "query root type")
			},
		},
		{
			name: "object without fields",
			build: func(b *schema.Builder) {
				b.Object("Query")
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "at least one field")
			},
		},
		{
			name: "reserved field name",
			build: func(b *schema.Builder) {
				b.Object("Query").Field("__secret", "String")
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "reserved")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := schema.NewBuilder()
			tt.build(b)
			_, err := b.Build()
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParseSDL(t *testing.T) {
	b, err := schema.ParseSDL(heredoc.Doc(`
		schema {
			query: Root
			mutation: Mutation
		}

		"Entry point."
		type Root {
			hello(name: String = "world", times: Int = 1): String!
			now: Time
		}

		type Mutation {
			setGreeting(greeting: String!): String
		}

		extend type Root {
			version: Int
		}

		scalar Time
	`))
	require.NoError(t, err)
	s, err := b.Build()
	require.NoError(t, err)

	root := s.Query()
	require.NotNil(t, root)
	assert.Equal(t, "Root", root.Name)
	assert.Equal(t, "Entry point.", root.Desc)
	assert.Equal(t, []string{"hello", "now", "version"}, root.Fields.Names())

	hello := root.Fields.Get("hello")
	assert.Equal(t, "String!", hello.Type.String())
	assert.Equal(t, "world", hello.Arguments.Get("name").Default)
	assert.Equal(t, 1, hello.Arguments.Get("times").Default)

	require.NotNil(t, s.Mutation())
	assert.Equal(t, "Mutation", s.Mutation().Name)
	assert.IsType(t, &types.ScalarTypeDefinition{}, s.Lookup("Time"))
}

func TestParseSDLRejectsUnsupportedKinds(t *testing.T) {
	for _, sdl := range []string{
		`enum Color { RED }`,
		`interface Node { id: ID! }`,
		`input Filter { q: String }`,
		`type Query { a: String } union U = Query`,
		`type Query { a: String } type Subscription { b: String }`,
		`type Query { a: String`,
	} {
		_, err := schema.ParseSDL(sdl)
		assert.Error(t, err, sdl)
	}
}

func TestParseTypeRef(t *testing.T) {
	s := schema.MustParseSDL(`type Query { a: String }`)

	typ, err := s.ParseTypeRef("[ [Int!] ]!")
	require.NoError(t, err)
	assert.Equal(t, "[[Int!]]!", typ.String())

	_, err = s.ParseTypeRef("Int!!")
	assert.Error(t, err)
}
