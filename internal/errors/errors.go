/**
 * Custom error types for the bill analysis pipeline
 *
 * Every stage returns one of these structured errors so the HTTP layer can
 * map failures to status codes and callers can decide whether a retry is
 * worth attempting.
 */

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode enum for structured error handling
type ErrorCode string

const (
	// Extraction-stage errors
	ErrorAcquisitionFailed ErrorCode = "ACQUISITION_FAILED"
	ErrorUnrecognizedBill  ErrorCode = "UNRECOGNIZED_BILL"
	ErrorNoUsageData       ErrorCode = "NO_USAGE_DATA"

	// Generation-stage errors
	ErrorMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrorTruncatedOutput   ErrorCode = "TRUNCATED_OUTPUT"
	ErrorSafetyBlocked     ErrorCode = "SAFETY_BLOCKED"
	ErrorEmptyResponse     ErrorCode = "EMPTY_RESPONSE"
	ErrorTransportFailed   ErrorCode = "TRANSPORT_FAILED"

	// Caller errors
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
)

// PipelineError represents a structured pipeline error
type PipelineError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the caller may reasonably retry the same
// request unchanged. Truncated, empty and transport failures are transient;
// safety blocks and malformed payloads will not improve without a prompt
// change, and extraction failures are deterministic for a given document.
func (e *PipelineError) Retryable() bool {
	switch e.Code {
	case ErrorTruncatedOutput, ErrorEmptyResponse, ErrorTransportFailed:
		return true
	}
	return false
}

// Factory functions for common errors

func NewAcquisitionError(message string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorAcquisitionFailed,
		Message: message,
		Cause:   cause,
	}
}

func NewUnrecognizedBillError() *PipelineError {
	return &PipelineError{
		Code:    ErrorUnrecognizedBill,
		Message: "document does not match any supported tariff structure",
	}
}

func NewNoUsageDataError(billType string) *PipelineError {
	return &PipelineError{
		Code:    ErrorNoUsageData,
		Message: "no usage data found; document is not a recognizable bill",
		Details: map[string]interface{}{
			"bill_type": billType,
		},
	}
}

func NewMalformedResponseError(excerpt string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorMalformedResponse,
		Message: "generation service returned non-JSON or non-conforming output",
		Details: map[string]interface{}{
			"excerpt": excerpt,
		},
		Cause: cause,
	}
}

func NewTruncatedOutputError() *PipelineError {
	return &PipelineError{
		Code:    ErrorTruncatedOutput,
		Message: "generation stopped at the output token limit before any usable JSON; raise the output budget or shorten the prompt",
	}
}

func NewSafetyBlockedError(reason string) *PipelineError {
	return &PipelineError{
		Code:    ErrorSafetyBlocked,
		Message: "response blocked by the generation service's safety filters",
		Details: map[string]interface{}{
			"reason": reason,
		},
	}
}

func NewEmptyResponseError() *PipelineError {
	return &PipelineError{
		Code:    ErrorEmptyResponse,
		Message: "generation service returned no candidates and no text",
	}
}

func NewTransportError(cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrorTransportFailed,
		Message: "failed to reach the generation service",
		Cause:   cause,
	}
}

func NewInvalidInputError(message string) *PipelineError {
	return &PipelineError{
		Code:    ErrorInvalidInput,
		Message: message,
	}
}

// CodeOf extracts the pipeline error code from err, or empty when err is not
// a PipelineError.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// HTTPStatus maps a pipeline error to the status code the HTTP layer should
// answer with. Rejected documents are distinguished from bad requests.
func HTTPStatus(err error) int {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch pe.Code {
	case ErrorInvalidInput:
		return http.StatusBadRequest
	case ErrorUnrecognizedBill, ErrorNoUsageData:
		return http.StatusUnprocessableEntity
	case ErrorAcquisitionFailed, ErrorMalformedResponse, ErrorTruncatedOutput, ErrorSafetyBlocked:
		return http.StatusUnprocessableEntity
	case ErrorTransportFailed, ErrorEmptyResponse:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// ToMap converts the error to a map for JSON error payloads
func (e *PipelineError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error":     e.Message,
		"code":      string(e.Code),
		"retryable": e.Retryable(),
	}
	for k, v := range e.Details {
		result[k] = v
	}
	return result
}
