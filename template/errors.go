package template

import "errors"

// Sentinel errors describing why a configuration was replaced by the fallback.
// They are reported in Loaded.Reason and logged; Load itself never fails.
var (
	// ErrNotFound is returned when the configuration file does not exist.
	ErrNotFound = errors.New("template config not found")

	// ErrRead is returned when the configuration file cannot be read.
	ErrRead = errors.New("template config unreadable")

	// ErrEmpty is returned when the configuration document is empty.
	ErrEmpty = errors.New("template config is empty")

	// ErrParse is returned when the configuration document fails to parse.
	ErrParse = errors.New("template config parse error")

	// ErrMissingTemplate is returned when prompt_template is absent or blank.
	ErrMissingTemplate = errors.New("prompt_template is empty")

	// ErrMissingPlaceholder is returned when the template lacks a required placeholder.
	ErrMissingPlaceholder = errors.New("template missing required placeholder")
)
