// Package config provides parsing and validation for batch definitions.
package config

import (
	"encoding/json"
	"fmt"
)

// Batch is the root configuration for one blast.
//
// Example YAML:
//
//	name: "Morning reminders"
//	settings:
//	  baseUrl: "http://localhost:3001"
//	  concurrency: 3
//	  timeout: 30s
//	accounts:
//	  primary: FEe6qKyrn2
//	messages:
//	  - account: primary
//	    message: "testing12"
//	    number: "923237146391"
type Batch struct {
	// Name of the batch (for reporting)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Settings contains gateway and pool settings shared by every message
	Settings Settings `json:"settings,omitempty" yaml:"settings,omitempty"`

	// Accounts maps friendly aliases to credential tokens
	Accounts map[string]string `json:"accounts,omitempty" yaml:"accounts,omitempty"`

	// Messages are the sends to perform, in order
	Messages []MessageConfig `json:"messages" yaml:"messages"`

	// Response configures optional response checking
	Response *ResponseConfig `json:"response,omitempty" yaml:"response,omitempty"`
}

// Settings contains global settings for a batch.
type Settings struct {
	// BaseURL is the gateway address
	BaseURL string `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`

	// Concurrency caps the number of in-flight sends
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	// Timeout is the per-request timeout (e.g. "30s"); zero disables it
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// UserAgent is the User-Agent header
	UserAgent string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`

	// Headers are extra headers applied to every request
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// MessageConfig is one message to send. Exactly one of Account or Token
// identifies the sending credential.
type MessageConfig struct {
	// Account references an alias in Batch.Accounts
	Account string `json:"account,omitempty" yaml:"account,omitempty"`

	// Token is an inline credential
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Message is the text to send
	Message string `json:"message" yaml:"message"`

	// Number is the destination
	Number Number `json:"number" yaml:"number"`
}

// ResponseConfig configures response checking for every send.
type ResponseConfig struct {
	// Extract maps names to gjson paths pulled from each response body
	Extract map[string]string `json:"extract,omitempty" yaml:"extract,omitempty"`

	// Schema is a JSON Schema every successful response body must satisfy
	Schema map[string]interface{} `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// SchemaJSON returns the schema as JSON text, or "" when unset.
func (r *ResponseConfig) SchemaJSON() (string, error) {
	if len(r.Schema) == 0 {
		return "", nil
	}
	data, err := json.Marshal(r.Schema)
	if err != nil {
		return "", fmt.Errorf("invalid response schema: %w", err)
	}
	return string(data), nil
}

// ResolveToken returns the credential for a message, following the
// account alias when the token was not given inline.
func (b *Batch) ResolveToken(m MessageConfig) (string, bool) {
	if m.Token != "" {
		return m.Token, true
	}
	token, ok := b.Accounts[m.Account]
	return token, ok
}
