package graphql_test

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphql "github.com/graph-gophers/graphql-fn"
	"github.com/graph-gophers/graphql-fn/resolvers"
)

const catalogSchema = `
type Query {
	shelf: Shelf
	featured: Book
	lending: Lending
}

type Shelf {
	label: String
	books: [Book]
	count: Int
}

type Book {
	title: String
	author: Author
	pages: Int
	readingHours: Float
	isbn: String
}

type Author {
	name: String
	born: Int
}

type Lending {
	borrower: String
	due: String
	book: Book
}
`

type shelf struct {
	Label string  `json:"label"`
	Books []*book `json:"books"`
}

func (s *shelf) Count() int {
	return len(s.Books)
}

type book struct {
	Title    string  `json:"title"`
	Author   *author `json:"author"`
	Pages    int
	Internal string `json:"-"`
	ISBN     string `json:"isbn,omitempty"`
}

// ReadingHours assumes a page a minute.
func (b *book) ReadingHours(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return float64(b.Pages) / 60, nil
}

type author struct {
	Name string
	Born int
}

func catalogRoot() map[string]interface{} {
	tolkien := &author{Name: "J. R. R. Tolkien", Born: 1892}
	hobbit := &book{Title: "The Hobbit", Author: tolkien, Pages: 300, ISBN: "978-0261102217"}
	return map[string]interface{}{
		"shelf": &shelf{
			Label: "Fantasy",
			Books: []*book{
				hobbit,
				{Title: "Earthsea", Author: &author{Name: "Ursula K. Le Guin", Born: 1929}, Pages: 240},
			},
		},
		"featured": func() *book { return hobbit },
		"lending": map[string]interface{}{
			"borrower": "Mira",
			"due":      "2026-11-02",
			"book":     hobbit,
		},
	}
}

func catalogEngine(t *testing.T, m resolvers.Map, opts ...graphql.EngineOpt) *graphql.Engine {
	t.Helper()
	engine, err := graphql.ParseSchema(catalogSchema, m, append([]graphql.EngineOpt{graphql.RootValue(catalogRoot())}, opts...)...)
	require.NoError(t, err)
	return engine
}

func TestDefaultResolverStructFields(t *testing.T) {
	engine := catalogEngine(t, nil)

	assertGraphQL(t, engine,
		`{"query":"{ shelf { label books { title pages author { name } } } }"}`,
		`{"data":{"shelf":{"label":"Fantasy","books":[{"title":"The Hobbit","pages":300,"author":{"name":"J. R. R. Tolkien"}},{"title":"Earthsea","pages":240,"author":{"name":"Ursula K. Le Guin"}}]}}}`)

	// json tags win over field names; an omitempty tag still names the field.
	assertGraphQL(t, engine,
		`{"query":"{ shelf { books { isbn } } }"}`,
		`{"data":{"shelf":{"books":[{"isbn":"978-0261102217"},{"isbn":""}]}}}`)
}

func TestDefaultResolverMethods(t *testing.T) {
	engine := catalogEngine(t, nil)

	assertGraphQL(t, engine,
		`{"query":"{ shelf { count } }"}`,
		`{"data":{"shelf":{"count":2}}}`)

	assertGraphQL(t, engine,
		`{"query":"{ featured { title readingHours } }"}`,
		`{"data":{"featured":{"title":"The Hobbit","readingHours":5}}}`)
}

func TestDefaultResolverMaps(t *testing.T) {
	engine := catalogEngine(t, nil)

	assertGraphQL(t, engine,
		`{"query":"{ lending { borrower due book { author { born } } } }"}`,
		`{"data":{"lending":{"borrower":"Mira","due":"2026-11-02","book":{"author":{"born":1892}}}}}`)
}

func TestBoundResolverOverridesParent(t *testing.T) {
	// Only Lending.due is bound; the other fields still read the parent map.
	engine := catalogEngine(t, resolvers.Map{
		"Lending": {"due": resolvers.Value("overdue")},
		"Author": {
			"name": func(_ context.Context, p resolvers.Params) (interface{}, error) {
				return strings.ToUpper(p.Parent.(*author).Name), nil
			},
		},
	})

	assertGraphQL(t, engine,
		`{"query":"{ lending { borrower due book { author { name } } } }"}`,
		`{"data":{"lending":{"borrower":"Mira","due":"overdue","book":{"author":{"name":"J. R. R. TOLKIEN"}}}}}`)
}

func TestSiblingResolversRunConcurrently(t *testing.T) {
	const delay = 150 * time.Millisecond
	wait := func(ctx context.Context, p resolvers.Params) (interface{}, error) {
		select {
		case <-time.After(delay):
			return fmt.Sprintf("%s done", p.Info.FieldName), nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m := resolvers.Map{"Query": {"a": wait, "b": wait, "c": wait, "d": wait}}
	sdl := `type Query { a: String b: String c: String d: String }`

	run := func(opts ...graphql.EngineOpt) (*graphql.Response, time.Duration) {
		engine, err := graphql.ParseSchema(sdl, m, opts...)
		require.NoError(t, err)
		start := time.Now()
		resp := engine.Execute(context.Background(), &graphql.Request{Query: "{ a b c d }"})
		return resp, time.Since(start)
	}

	resp, took := run()
	require.Empty(t, resp.Errors)
	assert.Equal(t, `{"a":"a done","b":"b done","c":"c done","d":"d done"}`, string(resp.Data))
	assert.Less(t, took, 3*delay)

	resp, took = run(graphql.MaxParallelism(1))
	require.Empty(t, resp.Errors)
	assert.GreaterOrEqual(t, took, 4*delay)
}

func assertGraphQL(t *testing.T, engine *graphql.Engine, request, want string) {
	t.Helper()
	var req graphql.Request
	jsonUnmarshal(t, request, &req)

	got, err := json.Marshal(engine.Execute(context.Background(), &req))
	require.NoError(t, err)
	assert.JSONEq(t, want, string(got))
}

func jsonUnmarshal(t *testing.T, data string, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(data), target))
}
