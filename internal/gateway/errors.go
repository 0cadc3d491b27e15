package gateway

import "fmt"

// MissingCredentialMessage is reported when no provider credential is configured.
const MissingCredentialMessage = "La API Key de Gemini no está configurada en las variables de entorno del servidor."

// InvalidActionError is returned for an action outside the closed set.
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return "Invalid action"
}

// PayloadError is returned when a payload cannot be decoded or fails validation.
type PayloadError struct {
	Action  Action
	Message string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s payload: %s: %v", e.Action, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid %s payload: %s", e.Action, e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}

// ConfigError is returned when the gateway has no model client.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// APICallError represents a transport or provider failure
type APICallError struct {
	Action  Action
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// FormatError is returned when the model's response does not have the declared shape.
// Error reports only the user-facing message; the cause is kept for logging.
type FormatError struct {
	Action  Action
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	return e.Message
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}
