package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/stackc/errors"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var red = color.New(color.FgRed).SprintFunc()

// app holds the configuration shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v, logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "stackc [file]",
		Short:         "Compile source code into stack machine instructions",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd)
		},
		RunE: a.runCompile,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default is ~/.stackc.yaml)")
	flags.StringP("code", "c", "", "source code to compile")
	flags.Bool("stdin", false, "read source code from stdin")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")

	cmd.Flags().Bool("pop", false, "discard the result of expression statements")
	cmd.Flags().Bool("halt", false, "end the code with HALT")

	cmd.AddCommand(
		a.tokensCmd(),
		a.astCmd(),
		a.compileCmd(),
		a.disCmd(),
		a.dotCmd(),
		a.replCmd(),
		a.serveCmd(),
		a.explainCmd(),
	)
	return cmd
}

// configure binds flags, environment and config file into viper, then sets
// up colors and logging.
func (a *app) configure(cmd *cobra.Command) error {
	v := a.v
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	v.SetEnvPrefix("STACKC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configPath, err := a.readConfig(v.GetString("config"))
	if err != nil {
		return err
	}

	if v.GetBool("no-color") {
		color.NoColor = true
	}

	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     cmd.ErrOrStderr(),
		NoColor: color.NoColor,
	}).Level(level).With().Timestamp().Logger()
	if configPath != "" {
		a.logger.Debug().Str("path", configPath).Msg("loaded config")
	}
	return nil
}

// readConfig loads the given config file and returns its path. Without one,
// ~/.stackc.yaml is read when it exists.
func (a *app) readConfig(path string) (string, error) {
	if path == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", nil
		}
		path = filepath.Join(home, ".stackc.yaml")
		if _, err := os.Stat(path); err != nil {
			return "", nil
		}
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("reading config %s: %w", path, err)
	}
	return path, nil
}

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	if len(errors.Diagnostics(err)) > 0 {
		fmt.Fprintln(os.Stderr, errors.FriendlyErrorMessage(err, !color.NoColor))
		return
	}
	fmt.Fprintln(os.Stderr, red(err.Error()))
}
