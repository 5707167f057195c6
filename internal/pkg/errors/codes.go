package errors

import "net/http"

var (
	ErrRequestNotFound = New(
		"REQUEST_NOT_FOUND",
		"Request ID not found",
		http.StatusNotFound,
	)

	ErrStoreNotFound = New(
		"STORE_NOT_FOUND",
		"No requests file",
		http.StatusNotFound,
	)

	ErrDuplicateRequestID = New(
		"DUPLICATE_REQUEST_ID",
		"Request ID already exists",
		http.StatusConflict,
	)

	ErrMissingSelection = New(
		"MISSING_SELECTION",
		"Please click on the map to set the location before submitting",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidSeverity = New(
		"INVALID_SEVERITY",
		"Severity must be one of Low, Medium, High",
		http.StatusBadRequest,
	)

	ErrSessionNotFound = New(
		"SESSION_NOT_FOUND",
		"Session not found",
		http.StatusNotFound,
	)

	ErrStorage = New(
		"STORAGE_ERROR",
		"Failed to save repair request",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
