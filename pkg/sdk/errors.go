package fieldeval

import "github.com/kailas-cloud/fieldeval/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrFileNotFound          = domain.ErrFileNotFound
	ErrMissingGroundTruth    = domain.ErrMissingGroundTruth
	ErrEmptyInput            = domain.ErrEmptyInput
	ErrInvalidFields         = domain.ErrInvalidFields
	ErrInvalidFieldStructure = domain.ErrInvalidFieldStructure
	ErrInvalidJSON           = domain.ErrInvalidJSON
	ErrIO                    = domain.ErrIO
	ErrReportNotFound        = domain.ErrReportNotFound
	ErrReportStoreDisabled   = domain.ErrReportStoreDisabled
)

// ErrorKind returns the machine-readable kind of an evaluation error
// ("invalid_json", "empty_input", ...), or "" for nil.
func ErrorKind(err error) string {
	return string(domain.KindOf(err))
}
