// Package relay serves an engine over HTTP. It is the request adapter used for local testing;
// function runtimes call Engine.Handle directly.
package relay

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	graphql "github.com/graph-gophers/graphql-fn"
	qerrors "github.com/graph-gophers/graphql-fn/errors"
)

const (
	ContentTypeJSON           = "application/json"
	ContentTypeGraphQL        = "application/graphql"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
)

// maxBodySize bounds request bodies read by DecodeRequest.
const maxBodySize = 1 << 20

// Handler executes one GraphQL request per HTTP request. Every decoded request is answered with
// status 200; only undecodable bodies get 400.
type Handler struct {
	Engine *graphql.Engine
	Pretty bool
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := DecodeRequest(r)
	if err != nil {
		h.write(w, http.StatusBadRequest, &graphql.Response{
			Errors: []*qerrors.QueryError{qerrors.Errorf("%s", err)},
		})
		return
	}
	h.write(w, http.StatusOK, h.Engine.Execute(r.Context(), req))
}

func (h *Handler) write(w http.ResponseWriter, status int, resp *graphql.Response) {
	enc := json.Marshal
	if h.Pretty {
		enc = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "\t") }
	}
	body, err := enc(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// DecodeRequest reads a GraphQL request from the query string or, for POST, from a JSON,
// application/graphql or form body. A request without a query decodes to an empty request,
// which the engine rejects.
func DecodeRequest(r *http.Request) (*graphql.Request, error) {
	if req, err := fromValues(r.URL.Query()); req != nil || err != nil {
		return req, err
	}
	if r.Method != http.MethodPost || r.Body == nil {
		return &graphql.Request{}, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "reading request body")
	}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case ContentTypeGraphQL:
		return &graphql.Request{Query: string(body)}, nil
	case ContentTypeFormURLEncoded:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, errors.Wrap(err, "parsing form body")
		}
		req, err := fromValues(values)
		if req == nil && err == nil {
			req = &graphql.Request{}
		}
		return req, err
	default:
		return fromJSON(body)
	}
}

// fromValues returns nil when values carry no query.
func fromValues(values url.Values) (*graphql.Request, error) {
	q := values.Get("query")
	if q == "" {
		return nil, nil
	}
	req := &graphql.Request{Query: q, OperationName: values.Get("operationName")}
	if vars := values.Get("variables"); vars != "" {
		if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
			return nil, errors.Wrap(err, "decoding variables")
		}
	}
	return req, nil
}

// fromJSON also accepts variables sent as a JSON-encoded string, which some clients do.
func fromJSON(body []byte) (*graphql.Request, error) {
	var raw struct {
		Query         string          `json:"query"`
		OperationName string          `json:"operationName"`
		Variables     json.RawMessage `json:"variables"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding request body")
	}
	req := &graphql.Request{Query: raw.Query, OperationName: raw.OperationName}

	vars := []byte(raw.Variables)
	var encoded string
	if json.Unmarshal(vars, &encoded) == nil {
		vars = []byte(encoded)
	}
	if len(vars) == 0 || string(vars) == "null" {
		return req, nil
	}
	if err := json.Unmarshal(vars, &req.Variables); err != nil {
		return nil, errors.Wrap(err, "decoding variables")
	}
	return req, nil
}
