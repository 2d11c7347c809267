// Command graphqlfn runs a schema and a resolver fixture through the engine, either for a
// single request or behind a local HTTP endpoint.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
