package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeNotFound           ErrorCode = "COMMON_004"
	ErrCodeConflict           ErrorCode = "COMMON_005"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_007"
	ErrCodeTimeout            ErrorCode = "COMMON_008"
	ErrCodeValidation         ErrorCode = "COMMON_009"
	ErrCodeSerialization      ErrorCode = "COMMON_010"
	ErrCodeDatabaseError      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_012"
	ErrCodeStorageError       ErrorCode = "COMMON_013"
	ErrCodeMessageQueueError  ErrorCode = "COMMON_014"
	ErrCodeExternalService    ErrorCode = "COMMON_015"
)

// OCR Module Error Codes
const (
	ErrCodeOCRNoTextExtracted   ErrorCode = "OCR_001"
	ErrCodeOCRProviderFailed    ErrorCode = "OCR_002"
	ErrCodeOCRFileTooLarge      ErrorCode = "OCR_003"
	ErrCodeOCRUnsupportedMedia  ErrorCode = "OCR_004"
	ErrCodeOCREngineUnavailable ErrorCode = "OCR_005"
	ErrCodeOCRInputInvalid      ErrorCode = "OCR_006"
)

// Extraction Module Error Codes
const (
	ErrCodeExtractionFailed     ErrorCode = "EXT_001"
	ErrCodeExtractionEmptyInput ErrorCode = "EXT_002"
)

// Drug Module Error Codes
const (
	ErrCodeDrugNameInvalid  ErrorCode = "DRUG_001"
	ErrCodeDrugInfoNotFound ErrorCode = "DRUG_002"
	ErrCodeFDAUnavailable   ErrorCode = "DRUG_003"
)

// Structured Parsing Error Codes
const (
	ErrCodeParseBackendUnavailable ErrorCode = "PARSE_001"
	ErrCodeParseResponseMalformed  ErrorCode = "PARSE_002"
)

// Analysis History Error Codes
const (
	ErrCodeAnalysisNotFound ErrorCode = "ANL_001"
)

// Aliases kept short for call-site readability.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeUnauthorized = ErrCodeUnauthorized
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,
	ErrCodeMessageQueueError:  http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeOCRNoTextExtracted:   http.StatusUnprocessableEntity,
	ErrCodeOCRProviderFailed:    http.StatusBadGateway,
	ErrCodeOCRFileTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeOCRUnsupportedMedia:  http.StatusUnsupportedMediaType,
	ErrCodeOCREngineUnavailable: http.StatusServiceUnavailable,
	ErrCodeOCRInputInvalid:      http.StatusBadRequest,

	ErrCodeExtractionFailed:     http.StatusInternalServerError,
	ErrCodeExtractionEmptyInput: http.StatusBadRequest,

	ErrCodeDrugNameInvalid:  http.StatusBadRequest,
	ErrCodeDrugInfoNotFound: http.StatusNotFound,
	ErrCodeFDAUnavailable:   http.StatusBadGateway,

	ErrCodeParseBackendUnavailable: http.StatusBadGateway,
	ErrCodeParseResponseMalformed:  http.StatusBadGateway,

	ErrCodeAnalysisNotFound: http.StatusNotFound,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeStorageError:       "object storage error",
	ErrCodeMessageQueueError:  "message queue error",
	ErrCodeExternalService:    "external service error",

	ErrCodeOCRNoTextExtracted:   "no text could be extracted from the image",
	ErrCodeOCRProviderFailed:    "OCR provider failed",
	ErrCodeOCRFileTooLarge:      "uploaded file exceeds the size limit",
	ErrCodeOCRUnsupportedMedia:  "unsupported file type",
	ErrCodeOCREngineUnavailable: "no OCR engine available",
	ErrCodeOCRInputInvalid:      "invalid OCR input",

	ErrCodeExtractionFailed:     "medical entity extraction failed",
	ErrCodeExtractionEmptyInput: "input text is empty or too short",

	ErrCodeDrugNameInvalid:  "not a recognized medication name",
	ErrCodeDrugInfoNotFound: "medication information not found",
	ErrCodeFDAUnavailable:   "FDA lookup service unavailable",

	ErrCodeParseBackendUnavailable: "structured parsing backend unavailable",
	ErrCodeParseResponseMalformed:  "structured parsing backend returned a malformed response",

	ErrCodeAnalysisNotFound: "analysis not found",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
