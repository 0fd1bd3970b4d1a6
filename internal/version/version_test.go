package version

import (
	"strings"
	"testing"
	"time"
)

func TestNewBuildInfo(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	info := NewBuildInfo("abc123", 3, "deadbeef", now)

	if info.SchemaVersion != BuildInfoSchemaVersion {
		t.Errorf("SchemaVersion = %d", info.SchemaVersion)
	}
	if info.BuildTimestampUTC != "2026-01-02T02:04:05Z" {
		t.Errorf("BuildTimestampUTC = %q", info.BuildTimestampUTC)
	}
	if info.SourceCommit == nil || *info.SourceCommit != "deadbeef" {
		t.Errorf("SourceCommit = %v", info.SourceCommit)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && info.GoVersion != "" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
}

func TestNewBuildInfo_NoCommit(t *testing.T) {
	info := NewBuildInfo("abc", 1, "", time.Now())
	out, err := info.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	if !strings.Contains(string(out), `"source_commit":null`) {
		t.Errorf("expected null source_commit, got %s", out)
	}
	if strings.Contains(string(out), "\n") {
		t.Errorf("Compact() is not single-line: %s", out)
	}
}

func TestParseBuildInfo_RoundTrip(t *testing.T) {
	in := NewBuildInfo("ff00", 7, "c0ffee", time.Now())
	raw, err := in.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	out, err := ParseBuildInfo(raw)
	if err != nil {
		t.Fatalf("ParseBuildInfo: %v", err)
	}
	if out.DocumentCount != 7 || out.GroundTruthSHA256 != "ff00" {
		t.Errorf("unexpected build info: %+v", out)
	}
}

func TestParseBuildInfo_Errors(t *testing.T) {
	tests := map[string]string{
		"not json":       "{",
		"wrong schema":   `{"schema_version": 2}`,
		"missing schema": `{}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseBuildInfo([]byte(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
