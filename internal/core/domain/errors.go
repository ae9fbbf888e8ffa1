package domain

import "errors"

// Validation errors
var (
	ErrInvalidModelName     = errors.New("model name is required")
	ErrModelNameTooLong     = errors.New("model name exceeds the configured length limit")
	ErrMalformedModelName   = errors.New("model name must be a lowercase DNS-1123 subdomain")
	ErrUnsupportedModelType = errors.New("unsupported model type")
	ErrInvalidModelID       = errors.New("model ID is required")
	ErrInvalidVersionNumber = errors.New("version number must be a positive integer")
	ErrInvalidPayload       = errors.New("version payload failed validation")
	ErrPayloadTooLarge      = errors.New("version payload exceeds the configured size limit")
)

// Not found errors
var (
	ErrModelNotFound   = errors.New("model not found")
	ErrVersionNotFound = errors.New("model version not found")
)

// Conflict errors
var (
	ErrModelNameExists = errors.New("model with this name already exists")
)

// Invalid state errors
var (
	ErrVersionRetired = errors.New("model version is retired")
)

// Business rule errors
var (
	ErrModelHasActiveVersion = errors.New("cannot delete model while a version is active")
)
