package relay_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphql "github.com/graph-gophers/graphql-fn"
	"github.com/graph-gophers/graphql-fn/relay"
	"github.com/graph-gophers/graphql-fn/resolvers"
)

var engine = graphql.MustParseSchema(`
	type Query {
		hello(name: String = "world"): String
	}
`, resolvers.Map{
	"Query": {
		"hello": func(_ context.Context, p resolvers.Params) (interface{}, error) {
			return "hello " + p.Args["name"].(string), nil
		},
	},
})

func TestServeHTTP(t *testing.T) {
	h := &relay.Handler{Engine: engine}

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		want        string
	}{
		{
			name:        "json",
			method:      "POST",
			target:      "/graphql",
			contentType: "application/json",
			body:        `{"query":"{ hello }", "operationName":"", "variables": null}`,
			want:        `{"data":{"hello":"hello world"}}`,
		},
		{
			name:        "json with variables as a string",
			method:      "POST",
			target:      "/graphql",
			contentType: "application/json; charset=utf-8",
			body:        `{"query":"query($n: String) { hello(name: $n) }", "variables": "{\"n\":\"Ana\"}"}`,
			want:        `{"data":{"hello":"hello Ana"}}`,
		},
		{
			name:        "graphql",
			method:      "POST",
			target:      "/",
			contentType: "application/graphql",
			body:        `{ hello }`,
			want:        `{"data":{"hello":"hello world"}}`,
		},
		{
			name:        "form",
			method:      "POST",
			target:      "/",
			contentType: "application/x-www-form-urlencoded",
			body:        url.Values{"query": {"query($n: String) { hello(name: $n) }"}, "variables": {`{"n":"Bo"}`}}.Encode(),
			want:        `{"data":{"hello":"hello Bo"}}`,
		},
		{
			name:   "query string",
			method: "GET",
			target: "/?query=" + url.QueryEscape("{ hello }"),
			want:   `{"data":{"hello":"hello world"}}`,
		},
		{
			name:        "validation error",
			method:      "POST",
			target:      "/",
			contentType: "application/graphql",
			body:        `{ bogus }`,
			want:        `{"errors":[{"message":"UnknownFieldError: bogus","locations":[{"line":1,"column":3}],"path":[]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			h.ServeHTTP(w, r)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestServeHTTPBadRequest(t *testing.T) {
	h := &relay.Handler{Engine: engine}

	for name, body := range map[string]string{
		"truncated json":    `{"query":`,
		"bad variables":     `{"query":"{ hello }","variables":"{nope"}`,
		"variables as list": `{"query":"{ hello }","variables":[1]}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("POST", "/", strings.NewReader(body))
			r.Header.Set("Content-Type", "application/json")
			h.ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp graphql.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Len(t, resp.Errors, 1)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestDecodeRequestPrefersQueryString(t *testing.T) {
	r := httptest.NewRequest("POST", "/?query="+url.QueryEscape("{ a }")+"&operationName=Op", strings.NewReader(`{"query":"{ b }"}`))
	r.Header.Set("Content-Type", "application/json")

	req, err := relay.DecodeRequest(r)
	require.NoError(t, err)
	assert.Equal(t, &graphql.Request{Query: "{ a }", OperationName: "Op"}, req)
}
