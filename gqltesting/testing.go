// Package gqltesting runs table-driven GraphQL cases against an engine.
package gqltesting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pmezard/go-difflib/difflib"

	graphql "github.com/graph-gophers/graphql-fn"
	"github.com/graph-gophers/graphql-fn/errors"
)

// Test is one request and the response it must produce.
type Test struct {
	Context       context.Context
	Engine        *graphql.Engine
	Query         string
	OperationName string
	Variables     map[string]interface{}
	// ExpectedResult is the expected data. Leave it empty when the response must not carry
	// data at all.
	ExpectedResult string
	ExpectedErrors []*errors.QueryError
}

// RunTests runs each case as a numbered subtest. A single case runs in t itself.
func RunTests(t *testing.T, tests []*Test) {
	t.Helper()
	if len(tests) == 1 {
		RunTest(t, tests[0])
		return
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i+1), func(t *testing.T) {
			t.Helper()
			RunTest(t, test)
		})
	}
}

// RunTest executes test and fails t on any difference in errors or data. Errors are compared
// in order, ignoring the resolver's own error value; data is compared as indented JSON with
// member order preserved.
func RunTest(t *testing.T, test *Test) {
	t.Helper()
	ctx := test.Context
	if ctx == nil {
		ctx = context.Background()
	}
	resp := test.Engine.Handle(ctx, test.Query, test.Variables, test.OperationName)

	if diff := cmp.Diff(test.ExpectedErrors, resp.Errors, errorOpts); diff != "" {
		t.Fatalf("unexpected errors (-want +got):\n%s", diff)
	}

	if test.ExpectedResult == "" {
		if resp.Data != nil {
			t.Fatalf("got data %s, want none", resp.Data)
		}
		return
	}
	if diff := dataDiff([]byte(test.ExpectedResult), resp.Data); diff != "" {
		t.Errorf("unexpected result:\n%s", diff)
	}
}

var errorOpts = cmp.Options{
	cmpopts.IgnoreUnexported(errors.QueryError{}),
	cmpopts.IgnoreFields(errors.QueryError{}, "ResolverError"),
	cmpopts.EquateEmpty(),
}

// dataDiff returns a unified diff of the two documents, or "" when they match.
func dataDiff(want, got []byte) string {
	a, err := indent(want)
	if err != nil {
		return fmt.Sprintf("invalid expected result: %s", err)
	}
	b, err := indent(got)
	if err != nil {
		return fmt.Sprintf("invalid result %q: %s", got, err)
	}
	if a == b {
		return ""
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	return diff
}

func indent(data []byte) (string, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return "", err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return "", err
	}
	return out.String() + "\n", nil
}
