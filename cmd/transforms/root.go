package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"zappem.net/pub/math/transforms/internal/logging"
	"zappem.net/pub/math/transforms/transform"
)

// app holds the state shared by the subcommands.
type app struct {
	logLevel string
	quiet    bool
	logger   *slog.Logger
}

// parser returns a transform parser resolving names in env.
func (a *app) parser(env map[string]*transform.Transform) *transform.Parser {
	return &transform.Parser{
		Env:      env,
		Logger:   a.logger,
		Suppress: a.quiet,
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}
	root := &cobra.Command{
		Use:   "transforms",
		Short: "Compose and evaluate 3D rotation and frame transformation matrices",
		Long: `Transforms builds rotation (Rx, Ry, Rz) and frame transformation
(Tx, Ty, Tz) matrices from symbolic or numeric angles, composes them
and evaluates the result for concrete angle values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(a.logLevel)
			if err != nil {
				return err
			}
			a.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Diagnostics level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress non-fatal transform diagnostics")

	root.AddCommand(newEvalCmd(a))
	root.AddCommand(newLatexCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newReplCmd(a))
	return root
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
