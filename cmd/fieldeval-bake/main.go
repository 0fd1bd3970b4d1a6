// Command fieldeval-bake validates a ground truth corpus and writes the
// compressed payload and its build record into the payload assets directory,
// ready to be embedded by the next build.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldeval/internal/config"
	"github.com/kailas-cloud/fieldeval/internal/domain/document"
	logpkg "github.com/kailas-cloud/fieldeval/internal/logger"
	"github.com/kailas-cloud/fieldeval/internal/repository/payload"
	"github.com/kailas-cloud/fieldeval/internal/version"
)

const (
	defaultGroundTruth = "testdata/dummy_ground_truth.json"
	defaultAssets      = "internal/repository/payload/assets"
	gitTimeout         = 5 * time.Second
)

type options struct {
	groundTruth string
	assets      string
	commit      string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr, time.Now))
}

func run(args []string, stderr io.Writer, now func() time.Time) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := logpkg.NewLogger(config.GetEnv(),
		logpkg.WithLevel("info"), logpkg.WithOutput(stderr), logpkg.WithName("bake"))
	if err != nil {
		fmt.Fprintf(stderr, "fieldeval-bake: %v\n", err)
		return 2
	}
	defer func() { _ = logger.Sync() }()

	info, err := bake(opts, now())
	if err != nil {
		fmt.Fprintf(stderr, "fieldeval-bake: %v\n", err)
		return 1
	}
	logger.Info("Reference baked",
		zap.String("source", opts.groundTruth),
		zap.String("assets", opts.assets),
		zap.Int("documents", info.DocumentCount),
		zap.String("ground_truth_sha256", info.GroundTruthSHA256),
	)
	return 0
}

// parseFlags resolves the source path: --ground-truth, then GROUND_TRUTH_PATH,
// then GROUND_TRUTH_JSON, then the bundled dummy corpus.
func parseFlags(args []string, stderr io.Writer) (options, error) {
	opts := options{
		groundTruth: firstNonEmpty(os.Getenv("GROUND_TRUTH_PATH"), os.Getenv("GROUND_TRUTH_JSON"), defaultGroundTruth),
		commit:      os.Getenv("GIT_COMMIT"),
	}
	fs := flag.NewFlagSet("fieldeval-bake", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.groundTruth, "ground-truth", opts.groundTruth, "Ground truth JSON file to bake")
	fs.StringVar(&opts.assets, "assets", defaultAssets, "Payload assets directory")
	fs.StringVar(&opts.commit, "commit", opts.commit, "Source commit to record (default: git rev-parse HEAD)")
	if err := fs.Parse(args); err != nil {
		return options{}, err //nolint:wrapcheck // flag already reported it
	}
	return opts, nil
}

func bake(opts options, now time.Time) (version.BuildInfo, error) {
	raw, err := os.ReadFile(opts.groundTruth)
	if err != nil {
		return version.BuildInfo{}, fmt.Errorf("read ground truth: %w", err)
	}

	corpus, err := document.ParseCorpus(raw)
	if err != nil {
		return version.BuildInfo{}, fmt.Errorf("invalid ground truth %s: %w", opts.groundTruth, err)
	}

	compressed, err := payload.Compress(raw)
	if err != nil {
		return version.BuildInfo{}, err //nolint:wrapcheck // already carries its context
	}

	sum := sha256.Sum256(raw)
	commit := opts.commit
	if commit == "" {
		commit = gitHead()
	}
	// Count array entries, not distinct ids, so the record matches the file.
	info := version.NewBuildInfo(hex.EncodeToString(sum[:]), corpus.Len()+len(corpus.Duplicates()), commit, now)

	record, err := info.Compact()
	if err != nil {
		return version.BuildInfo{}, fmt.Errorf("encode build info: %w", err)
	}

	if err := os.MkdirAll(opts.assets, 0o755); err != nil { //nolint:gosec // source tree directory
		return version.BuildInfo{}, fmt.Errorf("create assets dir: %w", err)
	}
	if err := writeAsset(filepath.Join(opts.assets, payload.ReferenceAsset), compressed); err != nil {
		return version.BuildInfo{}, err
	}
	if err := writeAsset(filepath.Join(opts.assets, payload.BuildInfoAsset), record); err != nil {
		return version.BuildInfo{}, err
	}
	return info, nil
}

func writeAsset(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // embedded at build time
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// gitHead returns the current commit, or "" outside a git checkout.
func gitHead() string {
	ctx, cancel := context.WithTimeout(context.Background(), gitTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "git", "rev-parse", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
