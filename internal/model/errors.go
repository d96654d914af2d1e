package model

import "fmt"

// APIError is the unified error format. Category tells the caller which class
// of failure occurred; Action is the user-facing recovery hint shown in the
// error notification.
type APIError struct {
	Code     string // stable error code
	Message  string // human-readable message
	Category string // category: auth, validation, store, resource, system
	Action   string // user-facing recovery hint
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Predefined error codes.
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInvalidLogin    = "INVALID_LOGIN"
	ErrCodeValidation      = "VALIDATION_FAILED"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeStoreFailure    = "STORE_FAILURE"
	ErrCodePartialFailure  = "PARTIAL_FAILURE"
	ErrCodeFileType        = "UNSUPPORTED_FILE_TYPE"
	ErrCodeFileTooLarge    = "FILE_TOO_LARGE"
	ErrCodeURLBlocked      = "URL_BLOCKED"
	ErrCodeInvalidGeometry = "INVALID_GEOMETRY"
)

// NewUnauthorizedError reports a request without a valid admin session.
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "authentication required",
		Category: "auth",
		Action:   "Sign in with an administrator account.",
	}
}

// NewInvalidLoginError reports a failed login attempt. The same error is used
// for unknown accounts and wrong passwords.
func NewInvalidLoginError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidLogin,
		Message:  "invalid email or password",
		Category: "auth",
		Action:   "Check the credentials and try again.",
	}
}

// NewValidationError reports a request rejected before any store call.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  fmt.Sprintf("invalid %s: %s", field, reason),
		Category: "validation",
		Action:   "Correct the highlighted field and resubmit.",
	}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *APIError {
	return &APIError{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("%s not found: %s", entity, id),
		Category: "store",
		Action:   "Reload the list; the record may have been deleted.",
	}
}

// NewStoreError reports a store operation that failed outright.
func NewStoreError(operation string) *APIError {
	return &APIError{
		Code:     ErrCodeStoreFailure,
		Message:  fmt.Sprintf("the %s operation failed", operation),
		Category: "store",
		Action:   "Retry the operation.",
	}
}

// NewPartialFailureError reports a multi-step save that stopped at a step.
// Earlier steps are not rolled back; retrying the named step is the recovery.
func NewPartialFailureError(step string) *APIError {
	return &APIError{
		Code:     ErrCodePartialFailure,
		Message:  fmt.Sprintf("the save stopped at step: %s", step),
		Category: "store",
		Action:   "Retry the save; completed steps are kept.",
	}
}

// NewFileTypeError reports an upload rejected for its content type.
func NewFileTypeError(contentType string) *APIError {
	return &APIError{
		Code:     ErrCodeFileType,
		Message:  fmt.Sprintf("unsupported file type: %s", contentType),
		Category: "resource",
		Action:   "Upload a JPEG, PNG, WebP or MP4 file.",
	}
}

// NewFileTooLargeError reports an upload rejected for its size.
func NewFileTooLargeError(maxBytes int64) *APIError {
	return &APIError{
		Code:     ErrCodeFileTooLarge,
		Message:  fmt.Sprintf("file exceeds the %d byte limit", maxBytes),
		Category: "resource",
		Action:   "Reduce the file size and upload again.",
	}
}

// NewInvalidGeometryError reports an active-section request with unusable
// section geometry.
func NewInvalidGeometryError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidGeometry,
		Message:  fmt.Sprintf("invalid section geometry: %s", reason),
		Category: "validation",
		Action:   "Report at least one section and a positive viewport height.",
	}
}

// NewURLBlockedError reports an external URL rejected by the URL guard.
func NewURLBlockedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeURLBlocked,
		Message:  fmt.Sprintf("the URL was rejected: %s", reason),
		Category: "validation",
		Action:   "Use a public http(s) URL.",
	}
}
