package workflow

import (
	"errors"
	"fmt"
)

// User-facing validation messages.
const (
	MsgEmptyScript       = "Por favor, introduce el guion de tu anuncio."
	MsgIncompleteAnswers = "Por favor, completa todas las respuestas del diagnóstico."
	MsgImproveFailed     = "No se pudo generar la respuesta mejorada."
	MsgDiagnosisFormat   = "La respuesta de diagnóstico no tuvo el formato esperado."
)

// ErrStale is returned when the workflow was reset while a request was in flight.
// The request's result has been discarded.
var ErrStale = errors.New("workflow was reset; result discarded")

// TransitionError is returned for an event the current state does not accept.
type TransitionError struct {
	From  State
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Event, e.From)
}

// PreconditionError is returned when a guard blocks a transition. No request was made.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}
