package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExecCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [query]",
		Short: "Execute one request and print the response",
		Long: "Execute one request and print the response. The query is read from the argument, " +
			"from --query-file, or from standard input when neither is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.exec(cmd, args)
		},
	}
	flags := cmd.Flags()
	flags.String("query-file", "", "Read the query from this file.")
	flags.String("variables", "", "Variables as a JSON object.")
	flags.String("operation", "", "Name of the operation to execute.")
	flags.Bool("pretty", true, "Indent the response.")
	_ = c.conf.BindPFlags(flags)
	return cmd
}

func (c *cli) exec(cmd *cobra.Command, args []string) error {
	queryString, err := c.readQuery(cmd, args)
	if err != nil {
		return err
	}

	var vars map[string]interface{}
	if raw := c.conf.GetString("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &vars); err != nil {
			return errors.Wrap(err, "decoding --variables")
		}
	}

	e, closeTracer, err := c.engine()
	if err != nil {
		return err
	}
	defer closeTracer()

	resp := e.Handle(c.context(cmd.Context()), queryString, vars, c.conf.GetString("operation"))

	enc := json.NewEncoder(cmd.OutOrStdout())
	if c.conf.GetBool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(resp)
}

func (c *cli) readQuery(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if path := c.conf.GetString("query-file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", errors.Wrap(err, "reading query")
		}
		return string(b), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.Wrap(err, "reading query from stdin")
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errors.New("no query given")
	}
	return string(b), nil
}
