package main

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/graph-gophers/graphql-fn/resolvers"
)

// loadFixture reads static field values keyed by type and field name:
//
//	Query:
//	  hello: world
//	  me: {id: "1", name: Ana}
//
// Nested mappings are served to child fields by the default resolver.
func loadFixture(path string) (map[string]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading resolver fixture")
	}
	var m map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing resolver fixture %s", path)
	}
	return m, nil
}

func fixtureResolvers(m map[string]map[string]interface{}) resolvers.Map {
	out := make(resolvers.Map, len(m))
	for typeName, fields := range m {
		out[typeName] = make(map[string]resolvers.Func, len(fields))
		for fieldName, v := range fields {
			out[typeName][fieldName] = resolvers.Value(v)
		}
	}
	return out
}
