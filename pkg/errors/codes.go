package errors

import "net/http"

// ErrorCode identifies a specific failure category.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every module.
const (
	ErrCodeInternal        ErrorCode = "COMMON_001"
	ErrCodeValidation      ErrorCode = "COMMON_002"
	ErrCodeUnauthenticated ErrorCode = "COMMON_003"
	ErrCodeForbidden       ErrorCode = "COMMON_004"
	ErrCodeNotFound        ErrorCode = "COMMON_005"
	ErrCodeConflict        ErrorCode = "COMMON_006"
	ErrCodeInvalidState    ErrorCode = "COMMON_007"
	ErrCodeUnavailable     ErrorCode = "COMMON_008"
	ErrCodeDatabaseError   ErrorCode = "COMMON_009"
	ErrCodeSerialization   ErrorCode = "COMMON_010"
	ErrCodeMessagingError  ErrorCode = "COMMON_011"
	ErrCodeStorageError    ErrorCode = "COMMON_012"
	ErrCodeExternalService ErrorCode = "COMMON_013"
)

// Complaint module error codes.
const (
	ErrCodeComplaintNotFound     ErrorCode = "CMP_001"
	ErrCodeComplaintNotPending   ErrorCode = "CMP_002"
	ErrCodeInvalidTransition     ErrorCode = "CMP_003"
	ErrCodeComplaintAccessDenied ErrorCode = "CMP_004"
)

// Officer registry module error codes.
const (
	ErrCodeOfficerNotFound    ErrorCode = "REG_001"
	ErrCodeOfficerDuplicate   ErrorCode = "REG_002"
	ErrCodeNoOfficerAvailable ErrorCode = "REG_003"
	ErrCodeOfficerInactive    ErrorCode = "REG_004"
)

// Appointment module error codes.
const (
	ErrCodeAppointmentNotFound     ErrorCode = "APT_001"
	ErrCodeAppointmentInvalidState ErrorCode = "APT_002"
	ErrCodeAppointmentExists       ErrorCode = "APT_003"
	ErrCodeAppointmentAccessDenied ErrorCode = "APT_004"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeUnauthenticated: http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeInvalidState:    http.StatusBadRequest,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,
	ErrCodeDatabaseError:   http.StatusInternalServerError,
	ErrCodeSerialization:   http.StatusInternalServerError,
	ErrCodeMessagingError:  http.StatusInternalServerError,
	ErrCodeStorageError:    http.StatusInternalServerError,
	ErrCodeExternalService: http.StatusBadGateway,

	ErrCodeComplaintNotFound:     http.StatusNotFound,
	ErrCodeComplaintNotPending:   http.StatusBadRequest,
	ErrCodeInvalidTransition:     http.StatusBadRequest,
	ErrCodeComplaintAccessDenied: http.StatusForbidden,

	ErrCodeOfficerNotFound:    http.StatusNotFound,
	ErrCodeOfficerDuplicate:   http.StatusConflict,
	ErrCodeNoOfficerAvailable: http.StatusServiceUnavailable,
	ErrCodeOfficerInactive:    http.StatusBadRequest,

	ErrCodeAppointmentNotFound:     http.StatusNotFound,
	ErrCodeAppointmentInvalidState: http.StatusBadRequest,
	ErrCodeAppointmentExists:       http.StatusConflict,
	ErrCodeAppointmentAccessDenied: http.StatusForbidden,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
// Unknown codes map to 500 so that unexpected failures are never
// misreported as client errors.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the code corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}
