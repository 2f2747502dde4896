package commands

import (
	"errors"
	"fmt"

	"github.com/simonhull/firebird-suite/raven/internal/output"
	"github.com/simonhull/firebird-suite/raven/pkg/facts"
	"github.com/spf13/cobra"
)

// ValidateCmd creates the validate command
func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <facts.yml>...",
		Short: "Check fact documents without analyzing them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				doc, err := facts.ParseFile(path)
				if err != nil {
					failed++
					output.Error(path)
					var verrs facts.ValidationErrors
					if errors.As(err, &verrs) {
						for _, ve := range verrs {
							output.Step(ve.Error())
						}
					} else {
						output.Step(err.Error())
					}
					continue
				}
				output.Success(fmt.Sprintf("%s: %d types", path, len(doc.Spec.Types)))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d fact documents invalid", failed, len(args))
			}
			return nil
		},
	}
}
