package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jpl-au/filetrack/guide"
)

// NewGuideCommand creates the guide command. Guides are embedded in the
// binary, so documentation is always available without external files.
// Terminal output gets glamour rendering for readability; pipe/redirect
// gets raw markdown for machine consumption.
func NewGuideCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "guide [page]",
		Short: "Show the filetrack usage guide",
		Long: `Outputs the filetrack guide.

  filetrack guide          # main guide
  filetrack guide replay   # scenario file format`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			content, err := guide.Get(name)
			if err != nil {
				available, listErr := guide.List()
				if listErr != nil {
					return listErr
				}
				return WrapExitError(ExitCommandError,
					fmt.Sprintf("guide %q not found. Available: %s", name, strings.Join(available, ", ")), err)
			}

			if term.IsTerminal(int(os.Stdout.Fd())) {
				rendered, err := glamour.Render(content, "dark")
				if err == nil {
					fmt.Fprint(cmd.OutOrStdout(), rendered)
					return nil
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}
