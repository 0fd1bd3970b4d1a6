// Command fieldeval scores a predictions file against the reference corpus
// baked into the binary and prints the evaluation report.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldeval/internal/config"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
	"github.com/kailas-cloud/fieldeval/internal/domain/template"
	logpkg "github.com/kailas-cloud/fieldeval/internal/logger"
	"github.com/kailas-cloud/fieldeval/internal/repository/payload"
	"github.com/kailas-cloud/fieldeval/internal/repository/report"
	evaluateuc "github.com/kailas-cloud/fieldeval/internal/usecase/evaluate"
	"github.com/kailas-cloud/fieldeval/internal/version"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type options struct {
	predictions string
	groundTruth string
	output      string
	info        bool
	template    bool
	workers     int
	logLevel    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	switch {
	case opts.info:
		return printInfo(stdout, stderr)
	case opts.template:
		_, _ = stdout.Write(append(bytes.TrimRight(template.Raw(), "\n"), '\n'))
		return exitOK
	case opts.predictions == "":
		fmt.Fprintln(stderr, "fieldeval: --predictions is required unless --info or --template is given")
		return exitUsage
	}

	logger, err := logpkg.NewLogger(config.GetEnv(),
		logpkg.WithLevel(opts.logLevel), logpkg.WithOutput(stderr), logpkg.WithName("cli"))
	if err != nil {
		fmt.Fprintf(stderr, "fieldeval: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := evaluate(ctx, opts, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "fieldeval: %v\n", err)
		return exitError
	}
	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("fieldeval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.predictions, "predictions", "", "Path to the predictions JSON file")
	fs.StringVar(&opts.groundTruth, "ground-truth", "", "Optional path to an alternate ground truth JSON file")
	fs.StringVar(&opts.output, "output", "", "Also write the report to this path")
	fs.BoolVar(&opts.info, "info", false, "Print build metadata and exit")
	fs.BoolVar(&opts.template, "template", false, "Print the extraction template JSON and exit")
	fs.IntVar(&opts.workers, "workers", evaluation.DefaultWorkers, "Documents scored in parallel")
	fs.StringVar(&opts.logLevel, "log-level", logpkg.CLILevel, "Log level for stderr: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return options{}, err //nolint:wrapcheck // flag already reported it
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "fieldeval: unexpected arguments: %v\n", fs.Args())
		return options{}, errors.New("unexpected arguments")
	}
	return opts, nil
}

func printInfo(stdout, stderr io.Writer) int {
	info, err := version.ParseBuildInfo(payload.EmbeddedBuildInfo())
	if err != nil {
		fmt.Fprintf(stderr, "fieldeval: %v\n", err)
		return exitError
	}
	out, err := info.Compact()
	if err != nil {
		fmt.Fprintf(stderr, "fieldeval: %v\n", err)
		return exitError
	}
	_, _ = stdout.Write(append(out, '\n'))
	return exitOK
}

func evaluate(ctx context.Context, opts options, logger *zap.Logger, stdout io.Writer) error {
	var reference evaluateuc.Source = payload.NewEmbedded()
	if opts.groundTruth != "" {
		reference = payload.NewReferenceFile(opts.groundTruth)
	}

	evaluator := evaluation.NewEvaluator(evaluation.WithWorkers(opts.workers))
	svc := evaluateuc.New(reference, evaluator, logger)
	if opts.output != "" {
		svc = svc.WithReports(report.NewFile(opts.output), nil)
	}

	res, err := svc.Evaluate(ctx, payload.NewPredictionFile(opts.predictions))
	if err != nil {
		return err //nolint:wrapcheck // already carries its context
	}

	out, err := res.Metrics.MarshalPretty()
	if err != nil {
		return err //nolint:wrapcheck // already carries its context
	}
	if _, err := stdout.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
