package contract

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// ErrorCode is the closed set of error labels the clients branch on.
type ErrorCode string

const (
	CodeUnauthorized             ErrorCode = "UNAUTHORIZED"
	CodeForbidden                ErrorCode = "FORBIDDEN"
	CodeNotFound                 ErrorCode = "NOT_FOUND"
	CodeValidation               ErrorCode = "VALIDATION_ERROR"
	CodeNetwork                  ErrorCode = "NETWORK_ERROR"
	CodeServer                   ErrorCode = "SERVER_ERROR"
	CodeFileUpload               ErrorCode = "FILE_UPLOAD_ERROR"
	CodeLocationPermissionDenied ErrorCode = "LOCATION_PERMISSION_DENIED"
	CodeCameraPermissionDenied   ErrorCode = "CAMERA_PERMISSION_DENIED"
	CodeRateLimited              ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeConflict                 ErrorCode = "CONFLICT"
)

var ErrorCodes = []ErrorCode{
	CodeUnauthorized, CodeForbidden, CodeNotFound, CodeValidation, CodeNetwork,
	CodeServer, CodeFileUpload, CodeLocationPermissionDenied, CodeCameraPermissionDenied,
	CodeRateLimited, CodeConflict,
}

func (c ErrorCode) Valid() bool { return slices.Contains(ErrorCodes, c) }

// backend codes that are not part of the client set
var serverCodeAliases = map[string]ErrorCode{
	"INTERNAL_SERVER_ERROR": CodeServer,
	"VALIDATION_FAILED":     CodeValidation,
	"INVALID_CREDENTIALS":   CodeUnauthorized,
	"EXPIRED_TOKEN":         CodeUnauthorized,
	"DUPLICATE_EMAIL":       CodeConflict,
	"DUPLICATE_RESOURCE":    CodeConflict,
	"FILE_UPLOAD_FAILED":    CodeFileUpload,
	"NOT_ACCEPTABLE":        CodeValidation,
}

// NormalizeCode maps a backend error code and HTTP status onto the closed set.
func NormalizeCode(serverCode string, status int) ErrorCode {
	if c := ErrorCode(serverCode); c.Valid() {
		return c
	}
	if c, ok := serverCodeAliases[serverCode]; ok {
		return c
	}
	if strings.HasSuffix(serverCode, "_NOT_FOUND") {
		return CodeNotFound
	}
	return CodeForStatus(status)
}

func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return CodeUnauthorized
	case status == http.StatusForbidden:
		return CodeForbidden
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusConflict:
		return CodeConflict
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status == http.StatusRequestEntityTooLarge, status == http.StatusUnsupportedMediaType:
		return CodeFileUpload
	case status >= 400 && status < 500:
		return CodeValidation
	case status == 0:
		return CodeNetwork
	}
	return CodeServer
}

// StatusForCode is the HTTP status a server uses for a code.
func StatusForCode(code ErrorCode) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden, CodeLocationPermissionDenied, CodeCameraPermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeFileUpload:
		return http.StatusUnprocessableEntity
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeConflict:
		return http.StatusConflict
	case CodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// APIError is a failed exchange with the backend.
type APIError struct {
	Status     int
	Code       ErrorCode
	ServerCode string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (%d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Is matches sentinels by code, so errors.Is(err, ErrNotFound) works for any status.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Status == 0 && t.Message == "" && t.Code == e.Code
}

var (
	ErrUnauthorized = &APIError{Code: CodeUnauthorized}
	ErrForbidden    = &APIError{Code: CodeForbidden}
	ErrNotFound     = &APIError{Code: CodeNotFound}
	ErrValidation   = &APIError{Code: CodeValidation}
	ErrNetwork      = &APIError{Code: CodeNetwork}
	ErrServer       = &APIError{Code: CodeServer}
	ErrFileUpload   = &APIError{Code: CodeFileUpload}
	ErrRateLimited  = &APIError{Code: CodeRateLimited}
	ErrConflict     = &APIError{Code: CodeConflict}
)

// AppError is the error shape the mobile app keeps in state.
type AppError struct {
	Code    ErrorCode       `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// ToAppError flattens an APIError for UI state.
func (e *APIError) ToAppError() AppError {
	return AppError{Code: e.Code, Message: e.Message}
}
