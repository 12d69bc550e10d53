package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biztositok/biztositok-go/internal/output"
	"github.com/biztositok/biztositok-go/pkg/jsonpath"
)

// ErrCallFailed is returned by run --fail when the response does not report
// success.
var ErrCallFailed = errors.New("call did not succeed")

func newRunCmd(g *globalOptions) *cobra.Command {
	var (
		pf         paramFlags
		extracts   []string
		schemaFile string
		fail       bool
	)

	cmd := &cobra.Command{
		Use:   "run PATH",
		Short: "Invoke an API function and print the response",
		Long: `Invoke the API function at PATH and print the decoded response.

Examples:
  biztositok run price/calc -p product=home -j insured='{"age":30}'
  biztositok run price/calc --params-file params.yaml --extract price=$.data.price
  biztositok run price/calc --schema envelope.json --fail`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			a, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			defer a.close()

			params, err := pf.params()
			if err != nil {
				return err
			}
			callOpts, err := pf.callOptions()
			if err != nil {
				return err
			}
			paths, err := parseExtracts(extracts)
			if err != nil {
				return err
			}

			var schema string
			if schemaFile != "" {
				data, err := os.ReadFile(schemaFile)
				if err != nil {
					return fmt.Errorf("read schema: %w", err)
				}
				schema = string(data)
			}

			if g.verbose {
				req, err := a.preview(path, params, callOpts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, a.formatter.FormatRequest(req))
			}

			resp, err := a.client.Invoke(callContext(cmd), path, params, callOpts...)
			if err != nil {
				return err
			}

			result := output.Result{Path: path, Response: resp}
			var extractErr error
			if len(paths) > 0 {
				result.Extracted, extractErr = jsonpath.ExtractMultiple(resp.Raw(), paths)
			}

			fmt.Fprintln(a.out, a.formatter.FormatResponse(result))

			if extractErr != nil {
				return fmt.Errorf("extract: %w", extractErr)
			}
			if schema != "" {
				if err := resp.Validate(schema); err != nil {
					return fmt.Errorf("schema validation: %w", err)
				}
			}
			if fail && !resp.IsSuccess() {
				if errs := resp.ErrorsCombined(); len(errs) > 0 {
					return fmt.Errorf("%w: %s", ErrCallFailed, strings.Join(errs, "; "))
				}
				if msg := resp.Message(); msg != "" {
					return fmt.Errorf("%w: %s", ErrCallFailed, msg)
				}
				return ErrCallFailed
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringArrayVarP(&extracts, "extract", "e", nil, "Extract a value name=$.path from the response (can be used multiple times)")
	cmd.Flags().StringVar(&schemaFile, "schema", "", "JSON Schema file the response must satisfy")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit non-zero when the response does not report success")

	return cmd
}
