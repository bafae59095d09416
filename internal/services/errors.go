package services

import "errors"

// Sentinel errors surfaced by handlers as specific HTTP statuses.
var (
	// ErrNotFound means the identified record does not exist (404).
	ErrNotFound = errors.New("record not found")

	// ErrInvalidStatus means a status outside the fixed set was supplied (400).
	ErrInvalidStatus = errors.New("invalid report status")

	// ErrTerminalStatus means a transition out of Resolved/Canceled was attempted (400).
	ErrTerminalStatus = errors.New("report status is terminal")

	// ErrNoOffice means a routing operation needs an assigned office and none exists (400).
	ErrNoOffice = errors.New("report is not assigned to an office")

	// ErrRefreshInProgress means the analytics refresh lock is held (409).
	ErrRefreshInProgress = errors.New("analytics refresh already in progress")
)
