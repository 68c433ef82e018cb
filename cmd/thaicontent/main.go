package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/japaniel/thaicontent/pkg/config"
	"github.com/japaniel/thaicontent/pkg/tts"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit code for a command failure. When
// reported is set the diagnostics were already printed.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failure(err error) error  { return &exitError{code: exitFailure, err: err} }
func usageErr(err error) error { return &exitError{code: exitUsage, err: err} }

type app struct {
	stdout, stderr io.Writer

	v          *viper.Viper
	configFile string
	settings   *config.Settings
	logger     *zap.Logger

	newSynth func(ctx context.Context, log *zap.Logger) (tts.Synthesizer, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		v:      config.New(),
		newSynth: func(ctx context.Context, log *zap.Logger) (tts.Synthesizer, error) {
			return tts.NewClient(ctx, log)
		},
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "thaicontent",
		Short: "Build and check the Thai learning content bundles",
		Long: `thaicontent turns the authored YAML under content/ (alphabet, lexicon,
phrasebook) into the JSON bundles the site imports. Every file is validated
and nothing is written unless all of them pass.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(a.v, a.configFile)
			if err != nil {
				return usageErr(err)
			}
			a.settings = s

			cfg := zap.NewProductionConfig()
			cfg.Encoding = "console"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			if s.Verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			a.logger, err = cfg.Build()
			if err != nil {
				return failure(fmt.Errorf("failed to initialize logger: %w", err))
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageErr(err) })

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./thaicontent.yaml if present)")
	pf.String("content-dir", "content", "directory holding alphabet/, lexicon/ and phrasebook/")
	pf.String("out-dir", "src/data", "directory receiving the JSON bundles")
	pf.Int("workers", 8, "concurrent file readers")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	a.bind("content_dir", pf.Lookup("content-dir"))
	a.bind("out_dir", pf.Lookup("out-dir"))
	a.bind("workers", pf.Lookup("workers"))
	a.bind("verbose", pf.Lookup("verbose"))

	root.AddCommand(a.buildCmd(), a.checkCmd(), a.audioCmd(), a.voicesCmd(), a.catalogCmd())
	return root
}

// bind ties a config key to a flag so an explicitly set flag wins over the
// config file and the environment.
func (a *app) bind(key string, f *pflag.Flag) {
	if err := a.v.BindPFlag(key, f); err != nil {
		panic(err) // nil flag: programming error
	}
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, a *app) int {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if !errors.As(err, &ee) {
		// Unknown commands and argument validation.
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		fmt.Fprintf(a.stderr, "Run '%s --help' for usage.\n", root.CommandPath())
		return exitUsage
	}
	if !ee.reported {
		fmt.Fprintf(a.stderr, "Error: %v\n", ee.err)
	}
	return ee.code
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], newApp(os.Stdout, os.Stderr))
	cancel()
	os.Exit(code)
}
