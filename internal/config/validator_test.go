package config

import (
	"strings"
	"testing"
)

// validBatch returns a batch that passes validation.
func validBatch() *Batch {
	batch := &Batch{
		Accounts: map[string]string{"primary": "FEe6qKyrn2"},
		Messages: []MessageConfig{
			{Account: "primary", Message: "testing12", Number: "923237146391"},
			{Token: "KaecvaKob2", Message: "testing123", Number: "923237146391"},
		},
	}
	ApplyDefaults(batch)
	return batch
}

func TestBatch_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Batch)
		errorCount int
		wantField  string
	}{
		{
			name:       "valid batch",
			mutate:     func(b *Batch) {},
			errorCount: 0,
		},
		{
			name:       "empty message list is valid",
			mutate:     func(b *Batch) { b.Messages = nil },
			errorCount: 0,
		},
		{
			name:       "missing base URL",
			mutate:     func(b *Batch) { b.Settings.BaseURL = "" },
			errorCount: 1,
			wantField:  "settings.baseUrl",
		},
		{
			name:       "zero concurrency",
			mutate:     func(b *Batch) { b.Settings.Concurrency = 0 },
			errorCount: 1,
			wantField:  "settings.concurrency",
		},
		{
			name:       "concurrency too high",
			mutate:     func(b *Batch) { b.Settings.Concurrency = 1001 },
			errorCount: 1,
			wantField:  "settings.concurrency",
		},
		{
			name:       "negative timeout",
			mutate:     func(b *Batch) { b.Settings.Timeout = -1 },
			errorCount: 1,
			wantField:  "settings.timeout",
		},
		{
			name:       "empty account token",
			mutate:     func(b *Batch) { b.Accounts["primary"] = "" },
			errorCount: 1,
			wantField:  "accounts.primary",
		},
		{
			name: "message with neither account nor token",
			mutate: func(b *Batch) {
				b.Messages[0].Account = ""
			},
			errorCount: 1,
			wantField:  "messages[0]",
		},
		{
			name: "message with both account and token",
			mutate: func(b *Batch) {
				b.Messages[0].Token = "inline"
			},
			errorCount: 1,
			wantField:  "messages[0]",
		},
		{
			name: "unknown account",
			mutate: func(b *Batch) {
				b.Messages[0].Account = "missing"
			},
			errorCount: 1,
			wantField:  "messages[0].account",
		},
		{
			name: "empty message text",
			mutate: func(b *Batch) {
				b.Messages[1].Message = ""
			},
			errorCount: 1,
			wantField:  "messages[1].message",
		},
		{
			name: "empty number",
			mutate: func(b *Batch) {
				b.Messages[1].Number = ""
			},
			errorCount: 1,
			wantField:  "messages[1].number",
		},
		{
			name: "empty extract path",
			mutate: func(b *Batch) {
				b.Response = &ResponseConfig{Extract: map[string]string{"id": ""}}
			},
			errorCount: 1,
			wantField:  "response.extract.id",
		},
		{
			name: "multiple errors are collected",
			mutate: func(b *Batch) {
				b.Settings.BaseURL = ""
				b.Messages[0].Message = ""
				b.Messages[1].Number = ""
			},
			errorCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch := validBatch()
			tt.mutate(batch)

			err := batch.Validate()
			if tt.errorCount == 0 {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatalf("Expected %d validation error(s), got nil", tt.errorCount)
			}

			errs, ok := err.(*ValidationErrors)
			if !ok {
				t.Fatalf("Expected *ValidationErrors, got %T", err)
			}
			if len(errs.Errors) != tt.errorCount {
				t.Errorf("Expected %d error(s), got %d: %v", tt.errorCount, len(errs.Errors), errs)
			}
			if tt.wantField != "" && !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Expected error to mention %q, got %q", tt.wantField, err.Error())
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	withField := &ValidationError{Field: "settings.concurrency", Message: "must be at least 1"}
	if got := withField.Error(); got != "validation error on field 'settings.concurrency': must be at least 1" {
		t.Errorf("Unexpected error string: %q", got)
	}

	withoutField := &ValidationError{Message: "something broke"}
	if got := withoutField.Error(); got != "validation error: something broke" {
		t.Errorf("Unexpected error string: %q", got)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := &ValidationErrors{}
	if errs.HasErrors() {
		t.Errorf("Expected no errors initially")
	}
	if got := errs.Error(); got != "no validation errors" {
		t.Errorf("Unexpected empty error string: %q", got)
	}

	errs.Add("settings.baseUrl", "base URL is required")
	if !errs.HasErrors() {
		t.Errorf("Expected HasErrors after Add")
	}
	if got := errs.Error(); !strings.Contains(got, "settings.baseUrl") {
		t.Errorf("Expected single error format to name the field, got %q", got)
	}

	errs.Add("settings.concurrency", "must be at least 1")
	got := errs.Error()
	if !strings.Contains(got, "2 validation errors:") {
		t.Errorf("Expected multi-error header, got %q", got)
	}
	if !strings.Contains(got, "1. ") || !strings.Contains(got, "2. ") {
		t.Errorf("Expected numbered entries, got %q", got)
	}
}
