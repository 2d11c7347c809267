package graphql

import (
	"github.com/graph-gophers/graphql-fn/ast"
	"github.com/graph-gophers/graphql-fn/errors"
	"github.com/graph-gophers/graphql-fn/internal/query"
)

// ParseQuery parses a GraphQL query string and returns the AST root node and
// any errors. It only serves to expose the internal query.Parse function.
func ParseQuery(queryString string) (*ast.Document, *errors.QueryError) {
	return query.Parse(queryString)
}
