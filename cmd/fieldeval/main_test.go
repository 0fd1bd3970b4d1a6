package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/fieldeval/internal/domain/template"
	"github.com/kailas-cloud/fieldeval/internal/version"
)

const (
	reference = `[
		{"document_id": "a", "fields": {"vendor": "ACME Corp", "total": 100}},
		{"document_id": "b", "fields": {"vendor": "Globex", "total": 50}}
	]`
	predictions = `[{"document_id": "a", "fields": {"vendor": "ACME Corp", "total": 100}}]`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(append(args, "--log-level", "error"), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_EvaluatesAgainstGroundTruthOverride(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "gt.json", reference)
	pred := writeFile(t, dir, "pred.json", predictions)
	out := filepath.Join(dir, "report.json")

	code, stdout, stderr := runCLI("--predictions", pred, "--ground-truth", ref, "--output", out)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	for _, want := range []string{
		`"num_documents": 2`,
		`"document_coverage": 0.5`,
		`"overall_score": 0.5`,
		`"missing_documents": [
    "b"
  ]`,
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}

	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != stdout {
		t.Errorf("output file differs from stdout\nfile:\n%s\nstdout:\n%s", written, stdout)
	}
}

func TestRun_EmbeddedReference(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "dummy_ground_truth.json"))
	if err != nil {
		t.Fatal(err)
	}
	pred := writeFile(t, t.TempDir(), "pred.json", string(data))

	code, stdout, stderr := runCLI("--predictions", pred, "--workers", "4")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	if !strings.Contains(stdout, `"overall_score": 1.0`) {
		t.Errorf("expected a perfect score against the embedded reference:\n%s", stdout)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "gt.json", reference)
	empty := writeFile(t, dir, "empty.json", `[]`)
	broken := writeFile(t, dir, "broken.json", `{"document_id":`)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no predictions", nil, exitUsage, "--predictions is required"},
		{"unknown flag", []string{"--bogus"}, exitUsage, "bogus"},
		{"stray argument", []string{"--predictions", empty, "extra"}, exitUsage, "unexpected arguments"},
		{"missing predictions file", []string{"--predictions", filepath.Join(dir, "nope.json"), "--ground-truth", ref},
			exitError, "prediction file not found"},
		{"missing ground truth file", []string{"--predictions", empty, "--ground-truth", filepath.Join(dir, "nope.json")},
			exitError, "i/o failure"},
		{"empty predictions", []string{"--predictions", empty, "--ground-truth", ref},
			exitError, "ground truth or prediction payload was empty"},
		{"malformed predictions", []string{"--predictions", broken, "--ground-truth", ref},
			exitError, "failed to parse JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(tt.args...)
			if code != tt.wantCode {
				t.Fatalf("expected exit %d, got %d (stderr: %s)", tt.wantCode, code, stderr)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr %q does not mention %q", stderr, tt.wantErr)
			}
			if stdout != "" {
				t.Errorf("expected no report on failure, got %q", stdout)
			}
		})
	}
}

func TestRun_Info(t *testing.T) {
	code, stdout, stderr := runCLI("--info")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	info, err := version.ParseBuildInfo([]byte(stdout))
	if err != nil {
		t.Fatalf("info output is not build info: %v", err)
	}
	if info.DocumentCount != 2 {
		t.Errorf("expected 2 documents, got %d", info.DocumentCount)
	}
	if strings.Count(stdout, "\n") != 1 {
		t.Errorf("expected a single line, got %q", stdout)
	}
}

func TestRun_Template(t *testing.T) {
	code, stdout, _ := runCLI("--template")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	want := strings.TrimRight(string(template.Raw()), "\n") + "\n"
	if stdout != want {
		t.Errorf("template output mismatch:\n%s", stdout)
	}
}
