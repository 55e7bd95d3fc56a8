package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError is one config problem, tied to the field that has it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors accumulates every problem found in one pass, so a
// bad batch file reports all its mistakes at once.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add records a problem against a field.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors reports whether anything was recorded.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate validates the entire batch. Call ApplyDefaults first so that
// unset settings do not report as errors.
//
// Returns nil if valid, or a ValidationErrors containing all validation
// errors.
func (b *Batch) Validate() error {
	errs := &ValidationErrors{}

	validateSettings(&b.Settings, errs)

	for name, token := range b.Accounts {
		if token == "" {
			errs.Add(fmt.Sprintf("accounts.%s", name), "token cannot be empty")
		}
	}

	// An empty message list is valid; a run over it completes immediately.
	for i := range b.Messages {
		validateMessage(fmt.Sprintf("messages[%d]", i), &b.Messages[i], b.Accounts, errs)
	}

	if b.Response != nil {
		validateResponse(b.Response, errs)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// validateSettings validates batch settings.
func validateSettings(s *Settings, errs *ValidationErrors) {
	if s.BaseURL == "" {
		errs.Add("settings.baseUrl", "base URL is required")
	} else if _, err := url.Parse(s.BaseURL); err != nil {
		errs.Add("settings.baseUrl", fmt.Sprintf("invalid URL: %v", err))
	}

	if s.Concurrency < 1 {
		errs.Add("settings.concurrency", "must be at least 1")
	} else if s.Concurrency > 1000 {
		errs.Add("settings.concurrency", "cannot exceed 1000")
	}

	if s.Timeout < 0 {
		errs.Add("settings.timeout", "cannot be negative")
	}
}

// validateMessage validates a single message entry.
func validateMessage(prefix string, m *MessageConfig, accounts map[string]string, errs *ValidationErrors) {
	switch {
	case m.Account == "" && m.Token == "":
		errs.Add(prefix, "either account or token is required")
	case m.Account != "" && m.Token != "":
		errs.Add(prefix, "account and token are mutually exclusive")
	case m.Account != "":
		if _, ok := accounts[m.Account]; !ok {
			errs.Add(prefix+".account", fmt.Sprintf("unknown account: %s", m.Account))
		}
	}

	if m.Message == "" {
		errs.Add(prefix+".message", "message text is required")
	}

	if m.Number == "" {
		errs.Add(prefix+".number", "number is required")
	}
}

// validateResponse validates response handling configuration.
func validateResponse(r *ResponseConfig, errs *ValidationErrors) {
	for name, path := range r.Extract {
		if name == "" {
			errs.Add("response.extract", "extract name cannot be empty")
		}
		if path == "" {
			errs.Add(fmt.Sprintf("response.extract.%s", name), "path is required")
		}
	}
}
