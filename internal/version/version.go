// Package version holds build metadata injected via ldflags and the
// reference build record written by fieldeval-bake.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"
)

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// BuildInfoSchemaVersion is the current build_info.json layout.
const BuildInfoSchemaVersion = 1

// BuildInfo describes the reference corpus baked into a binary.
type BuildInfo struct {
	SchemaVersion     int     `json:"schema_version"`
	PackageVersion    string  `json:"package_version"`
	GoVersion         string  `json:"go_version"`
	BuildTimestampUTC string  `json:"build_timestamp_utc"`
	GroundTruthSHA256 string  `json:"ground_truth_sha256"`
	DocumentCount     int     `json:"document_count"`
	SourceCommit      *string `json:"source_commit"`
}

// NewBuildInfo fills in the toolchain and version fields for a freshly baked
// reference. commit may be empty when it cannot be determined.
func NewBuildInfo(sha256Hex string, documents int, commit string, now time.Time) BuildInfo {
	info := BuildInfo{
		SchemaVersion:     BuildInfoSchemaVersion,
		PackageVersion:    Version,
		GoVersion:         runtime.Version(),
		BuildTimestampUTC: now.UTC().Format(time.RFC3339),
		GroundTruthSHA256: sha256Hex,
		DocumentCount:     documents,
	}
	if commit != "" {
		info.SourceCommit = &commit
	}
	return info
}

// ParseBuildInfo decodes a build_info.json payload.
func ParseBuildInfo(data []byte) (BuildInfo, error) {
	var info BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return BuildInfo{}, fmt.Errorf("parse build info: %w", err)
	}
	if info.SchemaVersion != BuildInfoSchemaVersion {
		return BuildInfo{}, fmt.Errorf("unsupported build info schema_version %d", info.SchemaVersion)
	}
	return info, nil
}

// Compact renders the build info as single-line JSON.
func (b BuildInfo) Compact() ([]byte, error) {
	return json.Marshal(b)
}
