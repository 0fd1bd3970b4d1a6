package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldeval/internal/domain"
)

// ErrorCode is the machine-readable error code in API error responses.
type ErrorCode string

// Transport-level error codes. Evaluation failures use their domain.ErrorKind.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodePayloadTooLarge  ErrorCode = "payload_too_large"
	CodeReportNotFound   ErrorCode = "report_not_found"
	CodeNotImplemented   ErrorCode = "not_implemented"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		payloadTooLargeHandler,
		kindHandler(domain.ErrInvalidJSON, http.StatusBadRequest),
		kindHandler(domain.ErrEmptyInput, http.StatusUnprocessableEntity),
		kindHandler(domain.ErrInvalidFields, http.StatusUnprocessableEntity),
		kindHandler(domain.ErrInvalidFieldStructure, http.StatusUnprocessableEntity),
		kindHandler(domain.ErrFileNotFound, http.StatusNotFound),
		kindHandler(domain.ErrMissingGroundTruth, http.StatusServiceUnavailable),
		sentinelHandler(domain.ErrReportNotFound, http.StatusNotFound, CodeReportNotFound),
		sentinelHandler(domain.ErrReportStoreDisabled, http.StatusNotImplemented, CodeNotImplemented),
	}
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Payload errors keep their detail (index, document id) since it comes from the caller's input.
func safeDomainMessage(err error) string {
	switch domain.KindOf(err) {
	case domain.KindInvalidJSON, domain.KindEmptyInput, domain.KindInvalidFields, domain.KindInvalidFieldStructure:
		return err.Error()
	}
	sentinels := []error{
		domain.ErrMissingGroundTruth,
		domain.ErrFileNotFound,
		domain.ErrReportNotFound,
		domain.ErrReportStoreDisabled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// kindHandler matches an evaluation sentinel and reports its error kind as the code.
func kindHandler(sentinel error, status int) errorHandler {
	return sentinelHandler(sentinel, status, ErrorCode(domain.KindOf(sentinel)))
}

func payloadTooLargeHandler(w http.ResponseWriter, err error, _ string) bool {
	var mbe *http.MaxBytesError
	if !errors.As(err, &mbe) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "request body too large")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
