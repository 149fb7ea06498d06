package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/logger"
	"github.com/rileyhilliard/pingstrip/internal/ui"
)

// globalFlags holds the persistent flags shared by every command.
var globalFlags GlobalFlags

// rootCmd runs the viewer when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "pingstrip",
	Short: "Continuous ping latency strip",
	Long: `pingstrip probes one host on a fixed interval and draws the recent
results as a scrolling strip of colored bars: taller and warmer means slower,
an exclamation mark means the probe failed.

Run without a subcommand to open the terminal viewer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if globalFlags.NoColor || os.Getenv("NO_COLOR") != "" {
			ui.DisableColors()
		}
		if globalFlags.Verbose {
			_ = os.Setenv(logger.DebugEnv, "1")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd, args)
	},
}

func init() {
	AddGlobalFlags(rootCmd, &globalFlags)
}

// exitError ends the process with a status code and no message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and exits non-zero on failure: 2 for
// configuration errors, 1 otherwise.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exit *exitError
	if stderrors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(errors.ExitCode(err))
}
