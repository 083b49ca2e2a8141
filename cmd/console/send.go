package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rflorenc/catalog-console/internal/config"
	"github.com/rflorenc/catalog-console/internal/console"
	"github.com/rflorenc/catalog-console/internal/models"
)

// selection holds the flags shared by send and preview.
type selection struct {
	resource  string
	operation string
	fields    []string
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.resource, "resource", "r", "", "Resource: product, supplier, category, image, link")
	cmd.Flags().StringVarP(&s.operation, "operation", "o", "", "Operation: create, read, list, update, delete, link, unlink")
	cmd.Flags().StringArrayVarP(&s.fields, "field", "f", nil, "Field value as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("resource")
	_ = cmd.MarkFlagRequired("operation")
}

func newSendCmd(cfg *config.Config) *cobra.Command {
	var sel selection
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Build a request and send it to the backend",
		Example: `  console send -r product -o create -f name=Widget -f quantity=3 -f price=2.99
  console send -r link -o link -f product_id=p1 -f supplier_id=s1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldArgs(sel.fields)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, cfg)
			if err != nil {
				return err
			}
			ex, err := a.console.Submit(cmd.Context(), sel.resource, sel.operation, fields)
			if err != nil {
				return err
			}
			if asJSON {
				if err := printJSON(cmd.OutOrStdout(), ex); err != nil {
					return err
				}
			} else {
				printExchange(cmd.OutOrStdout(), ex)
			}
			if !ex.OK {
				return errors.New(ex.Error)
			}
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the whole exchange as JSON")
	return cmd
}

func newPreviewCmd(cfg *config.Config) *cobra.Command {
	var sel selection
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Build a request and print it without sending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseFieldArgs(sel.fields)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, cfg)
			if err != nil {
				return err
			}
			d, err := a.console.Preview(sel.resource, sel.operation, fields)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
	sel.register(cmd)
	return cmd
}

// parseFieldArgs turns repeated key=value flags into a FieldSet. A later
// value for the same key wins; "key=" sets an explicit empty value.
func parseFieldArgs(args []string) (models.FieldSet, error) {
	fields := models.FieldSet{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: want key=value", arg)
		}
		fields[key] = value
	}
	return fields, nil
}

func printExchange(w io.Writer, ex *console.Exchange) {
	fmt.Fprintf(w, "%s %s\n", ex.Request.Method, ex.Request.URL)
	if ex.Request.HasBody() {
		fmt.Fprintf(w, "%s\n", console.FormatBody(ex.Request.Body))
	}
	fmt.Fprintf(w, "\n%d %s (%dms)\n", ex.Status, ex.StatusText, ex.DurationMS)
	if ex.Body != "" {
		fmt.Fprintln(w, ex.Body)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
