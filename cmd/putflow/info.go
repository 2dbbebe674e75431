package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"go.jacobcolvin.com/putflow/detect"
	"go.jacobcolvin.com/putflow/syntax"
	"go.jacobcolvin.com/putflow/version"
	"go.jacobcolvin.com/putflow/workflow"
)

func newLanguagesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List languages, their comment prefix and detection support",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cat := detect.DefaultCatalog()
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "LANGUAGE\tPREFIX\tEXTENSIONS\tDETECTION")

			for _, l := range syntax.Languages() {
				detection := "-"
				if cat.Has(l.Name) {
					detection = "yes"
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Name, l.Prefix, strings.Join(l.Extensions, ", "), detection)
			}

			err := tw.Flush()
			if err != nil {
				return fmt.Errorf("write languages: %w", err)
			}

			return nil
		},
	}
}

var schemas = map[string]func() (*jsonschema.Schema, error){
	"record":   workflow.Schema,
	"patterns": detect.Schema,
}

func newSchemaCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "schema <record|patterns>",
		Short:     "Print the JSON Schema of encoded tables or of pattern files",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"record", "patterns"},
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := schemas[args[0]]()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}

			_, err = fmt.Fprintln(a.stdout, string(out))
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}

func newVersionCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := version.Get()

			if !asJSON {
				_, err := fmt.Fprint(a.stdout, info.String())

				return err
			}

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(info)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
