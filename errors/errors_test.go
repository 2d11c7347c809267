package errors

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap(t *testing.T) {
	withResolver := Errorf("field failed")
	withResolver.ResolverError = io.ErrUnexpectedEOF

	tests := []struct {
		name string
		err  *QueryError
		want error
	}{
		{name: "first error argument is the cause", err: Errorf("read %s: %v", "body", io.EOF), want: io.EOF},
		{name: "no arguments", err: Errorf("boom")},
		{name: "non-error arguments", err: Errorf("boom: %v", "shaka")},
		{name: "resolver error", err: withResolver, want: io.ErrUnexpectedEOF},
		{name: "nil", err: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Unwrap())
			if tt.want != nil {
				assert.ErrorIs(t, tt.err, tt.want)
			}
		})
	}
}

func TestKindMatching(t *testing.T) {
	err := Kindf(UnknownFieldError, "%s", "bogus")
	assert.Equal(t, "UnknownFieldError: bogus", err.Message)
	assert.Equal(t, UnknownFieldError, err.Rule)

	assert.True(t, errors.Is(err, &QueryError{Rule: UnknownFieldError}))
	assert.False(t, errors.Is(err, &QueryError{Rule: SyntaxError}))
	assert.False(t, errors.Is(Errorf("bogus"), &QueryError{}), "errors without a kind never match")
}

func TestErrorString(t *testing.T) {
	err := Kindf(SyntaxError, "unexpected %s", "EOF")
	err.Locations = []Location{{Line: 1, Column: 5}, {Line: 2, Column: 1}}
	assert.Equal(t, "graphql: SyntaxError: unexpected EOF (line 1, column 5) (line 2, column 1)", err.Error())

	var none *QueryError
	assert.Equal(t, "<nil>", none.Error())
}

func TestMarshalJSON(t *testing.T) {
	fieldErr := Errorf("boom")
	fieldErr.Path = []interface{}{"users", 1, "name"}
	fieldErr.Locations = []Location{{Line: 1, Column: 3}}
	fieldErr.Extensions = map[string]interface{}{"code": "E1"}

	for _, tt := range []struct {
		err  *QueryError
		want string
	}{
		{err: Kindf(UnknownFieldError, "%s", "bogus"), want: `{"message":"UnknownFieldError: bogus","path":[]}`},
		{err: fieldErr, want: `{"message":"boom","locations":[{"line":1,"column":3}],"path":["users",1,"name"],"extensions":{"code":"E1"}}`},
	} {
		b, err := json.Marshal(tt.err)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(b))
	}
}

func TestLocationBefore(t *testing.T) {
	assert.True(t, Location{Line: 1, Column: 9}.Before(Location{Line: 2, Column: 1}))
	assert.True(t, Location{Line: 2, Column: 1}.Before(Location{Line: 2, Column: 3}))
	assert.False(t, Location{Line: 2, Column: 3}.Before(Location{Line: 2, Column: 3}))
}
