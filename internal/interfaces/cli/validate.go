package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rxlens/rxlens/internal/validation"
)

// NewValidateCommand creates the "validate" subcommand.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <name>...",
		Short: "Check whether names look like real medication names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			validator := validation.NewValidator(nil, nil, nil)

			results := make([]validation.Result, 0, len(args))
			for _, name := range args {
				results = append(results, validator.Check(name))
			}

			return printResult(cmd, opts.Output, results, func() string {
				return formatValidations(results)
			})
		},
	}
}

func formatValidations(results []validation.Result) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		if r.IsValid {
			fmt.Fprintf(&b, "%s: valid", r.Input)
			continue
		}
		fmt.Fprintf(&b, "%s: invalid (%s)", r.Input, r.Reason)
		if len(r.Suggestions) > 0 {
			fmt.Fprintf(&b, ", did you mean %s", strings.Join(r.Suggestions, ", "))
		}
	}
	return b.String()
}
