package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rileyhilliard/pingstrip/internal/config"
	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
	"github.com/rileyhilliard/pingstrip/internal/ui"
	"github.com/rileyhilliard/pingstrip/pkg/sshutil"
)

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .pingstrip.yaml in the current directory",
	Long: `Create a .pingstrip.yaml with the default tiers. Prompts for the target,
strategy, strip length and optional SSH vantage host when run in a terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.Out = cmd.OutOrStdout()
		opts.Target = globalFlags.Target
		opts.Strategy = globalFlags.Strategy
		opts.Samples = globalFlags.Samples
		if !term.IsTerminal(int(os.Stdin.Fd())) || os.Getenv("CI") != "" {
			opts.NonInteractive = true
		}
		return Init(opts)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initOpts.Path, "path", "", "where to write the config (default: ./"+config.ConfigFileName+")")
	initCmd.Flags().StringVar(&initOpts.SSHHost, "ssh-host", "", "probe from this SSH host instead of locally")
	initCmd.Flags().BoolVarP(&initOpts.Force, "force", "f", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts and use flags and defaults")
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Path     string // Config path, default ./.pingstrip.yaml
	Target   string // Pre-specified target
	Strategy string // Pre-specified strategy
	Samples  int    // Pre-specified strip length
	SSHHost  string // Optional vantage host

	Force          bool // Overwrite existing config without asking
	NonInteractive bool // Skip prompts, use defaults

	Out io.Writer
}

// Init creates a new .pingstrip.yaml configuration file.
func Init(opts InitOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	path := opts.Path
	if path == "" {
		path = filepath.Join(".", config.ConfigFileName)
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.Target != "" {
		cfg.Target = opts.Target
	}
	if opts.Strategy != "" {
		cfg.Strategy = opts.Strategy
	}
	if opts.Samples > 0 {
		cfg.Samples = opts.Samples
	}
	cfg.SSH.Host = opts.SSHHost

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n", ui.SuccessStyle().Render(ui.SymbolSuccess), path)
	fmt.Fprintf(out, "  %s Run 'pingstrip' to start watching %s\n",
		ui.MutedStyle().Render(ui.SymbolArrow), cfg.Target)
	return nil
}

// promptConfig asks for the common settings, starting from cfg's values.
func promptConfig(cfg *config.Config) error {
	samples := strconv.Itoa(cfg.Samples)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target").
				Description("Hostname or IP address to probe").
				Placeholder("1.1.1.1").
				Value(&cfg.Target).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("target is required")
					}
					if strings.HasPrefix(s, "-") || strings.ContainsAny(s, " \t\n") {
						return fmt.Errorf("target must be a single hostname or address")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Strategy").
				Description("How probes are scheduled when replies are slow").
				Options(
					huh.NewOption("Pool: fixed rate, drop ticks when backed up", string(sampler.StrategyPool)),
					huh.NewOption("Adaptive: one probe at a time, shorten the next wait", string(sampler.StrategyAdaptive)),
				).
				Value(&cfg.Strategy),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Samples").
				Description("Number of bars in the strip").
				Value(&samples).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n < 1 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(vantageField(cfg)),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	cfg.Target = strings.TrimSpace(cfg.Target)
	cfg.SSH.Host = strings.TrimSpace(cfg.SSH.Host)
	cfg.Samples, _ = strconv.Atoi(strings.TrimSpace(samples))
	return nil
}

// vantageField picks the SSH vantage host: a list of ~/.ssh/config aliases
// when there are any, free text otherwise.
func vantageField(cfg *config.Config) huh.Field {
	hosts, _ := sshutil.Hosts()
	if len(hosts) == 0 {
		return huh.NewInput().
			Title("SSH vantage host (optional)").
			Description("Probe from this host instead of locally: alias or user@host").
			Placeholder("leave empty to probe locally").
			Value(&cfg.SSH.Host)
	}

	options := []huh.Option[string]{huh.NewOption("This machine", "")}
	for _, h := range hosts {
		options = append(options, huh.NewOption(h.Alias+" ("+h.Description()+")", h.Alias))
	}
	return huh.NewSelect[string]().
		Title("Probe from").
		Description("Hosts from ~/.ssh/config").
		Options(options...).
		Value(&cfg.SSH.Host)
}
