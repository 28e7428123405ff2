// cmd/qseries/main.go — command-line front end for qseries
//
// Usage:
//
//	qseries call etaq '{"b": 1}'
//	qseries batch requests.jsonl --jobs 8
//	qseries repl
//	qseries pairs export > pairs.yaml
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/njchilds90/qseries"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	trunc    int64
	logLevel string
	jobs     int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	reg := qseries.NewSymbolRegistry()

	root := &cobra.Command{
		Use:           "qseries",
		Short:         "Exact q-series computations",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.applyEnv(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.Int64Var(&opts.trunc, "trunc", qseries.DefaultTruncation, "Truncation order for requests that do not set one (env QSERIES_TRUNC)")
	flags.StringVar(&opts.logLevel, "log-level", "warning", "Log level: debug, info, warning, error (env QSERIES_LOG_LEVEL)")

	root.AddCommand(
		newCallCmd(opts, reg),
		newBatchCmd(opts, reg),
		newReplCmd(opts, reg),
		newPairsCmd(),
	)
	return root
}

// applyEnv lets QSERIES_TRUNC and QSERIES_LOG_LEVEL stand in for flags the
// user did not pass, then configures logging.
func (o *options) applyEnv(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if s, ok := os.LookupEnv("QSERIES_TRUNC"); ok && !flags.Changed("trunc") {
		t, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("QSERIES_TRUNC: %w", err)
		}
		o.trunc = t
	}
	if s, ok := os.LookupEnv("QSERIES_LOG_LEVEL"); ok && !flags.Changed("log-level") {
		o.logLevel = s
	}
	if o.trunc <= 0 {
		return fmt.Errorf("--trunc must be positive, got %d", o.trunc)
	}
	lvl, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
	return nil
}
