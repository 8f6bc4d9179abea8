package domain

import "errors"

var (
	// Contact errors
	ErrContactNotFound    = errors.New("contact not found")
	ErrContactIDRequired  = errors.New("contact ID is required")
	ErrFetchContacts      = errors.New("failed to fetch contacts")
	ErrSaveContact        = errors.New("failed to add/edit contact")
	ErrDeleteContact      = errors.New("failed to delete contact")
	ErrUnknownContactForm = errors.New("unknown contact form field")

	// Session errors
	ErrSessionMissing = errors.New("session marker is missing")
	ErrSessionInvalid = errors.New("session marker is invalid")

	// Credential errors
	ErrNoCredentials = errors.New("no credential verifier configured")
)
