package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/jonathan/content-studio/internal/types"
)

// Action identifies one of the five generation tasks.
type Action string

// Supported actions
const (
	ActionGenerateHooks       Action = "generateHooks"
	ActionGenerateScript      Action = "generateScriptForHook"
	ActionDiagnoseAdScript    Action = "diagnoseAdScript"
	ActionImproveAdCopyAnswer Action = "improveAdCopyAnswer"
	ActionGenerateAdCopy      Action = "generateAdCopy"
)

// Actions lists every supported action.
var Actions = []Action{
	ActionGenerateHooks,
	ActionGenerateScript,
	ActionDiagnoseAdScript,
	ActionImproveAdCopyAnswer,
	ActionGenerateAdCopy,
}

// Request is the payload of one action. The set of implementations is closed.
type Request interface {
	Action() Action
	isRequest()
}

// HooksRequest is the generateHooks payload.
type HooksRequest struct {
	TrainingData types.TrainingData `json:"trainingData"`
	Category     types.HookCategory `json:"category" validate:"hookcategory"`
	Quantity     int                `json:"quantity" validate:"min=5,max=20"`
}

// ScriptRequest is the generateScriptForHook payload.
type ScriptRequest struct {
	TrainingData      types.TrainingData `json:"trainingData"`
	Hook              string             `json:"hook" validate:"notblank"`
	DurationInSeconds int                `json:"durationInSeconds" validate:"gt=0"`
}

// DiagnoseRequest is the diagnoseAdScript payload.
type DiagnoseRequest struct {
	UserScript  string              `json:"userScript" validate:"notblank"`
	ContentType types.AdContentType `json:"contentType" validate:"adcontenttype"`
}

// ImproveRequest is the improveAdCopyAnswer payload.
type ImproveRequest struct {
	OriginalScript string              `json:"originalScript" validate:"notblank"`
	DiagnosisItem  types.DiagnosisItem `json:"diagnosisItem"`
	TrainingData   types.TrainingData  `json:"trainingData"`
}

// AdCopyRequest is the generateAdCopy payload.
type AdCopyRequest struct {
	RefinedAnswers types.RefinedAnswers `json:"refinedAnswers"`
	UserScript     string               `json:"userScript" validate:"notblank"`
	ContentType    types.AdContentType  `json:"contentType" validate:"adcontenttype"`
}

func (HooksRequest) Action() Action    { return ActionGenerateHooks }
func (ScriptRequest) Action() Action   { return ActionGenerateScript }
func (DiagnoseRequest) Action() Action { return ActionDiagnoseAdScript }
func (ImproveRequest) Action() Action  { return ActionImproveAdCopyAnswer }
func (AdCopyRequest) Action() Action   { return ActionGenerateAdCopy }

func (HooksRequest) isRequest()    {}
func (ScriptRequest) isRequest()   {}
func (DiagnoseRequest) isRequest() {}
func (ImproveRequest) isRequest()  {}
func (AdCopyRequest) isRequest()   {}

// Decode parses and validates the payload for action.
func Decode(action string, payload json.RawMessage) (Request, error) {
	var req Request
	switch Action(action) {
	case ActionGenerateHooks:
		req = &HooksRequest{}
	case ActionGenerateScript:
		req = &ScriptRequest{}
	case ActionDiagnoseAdScript:
		req = &DiagnoseRequest{}
	case ActionImproveAdCopyAnswer:
		req = &ImproveRequest{}
	case ActionGenerateAdCopy:
		req = &AdCopyRequest{}
	default:
		return nil, &InvalidActionError{Action: action}
	}

	if len(bytes.TrimSpace(payload)) == 0 || bytes.Equal(bytes.TrimSpace(payload), []byte("null")) {
		return nil, &PayloadError{Action: Action(action), Message: "payload is required"}
	}
	if err := json.Unmarshal(payload, req); err != nil {
		return nil, &PayloadError{Action: Action(action), Message: "malformed payload", Cause: err}
	}
	if err := types.Validate(req); err != nil {
		return nil, &PayloadError{Action: Action(action), Message: err.Error()}
	}
	return deref(req), nil
}

// deref returns the value form so callers can type-switch on value types only.
func deref(req Request) Request {
	switch r := req.(type) {
	case *HooksRequest:
		return *r
	case *ScriptRequest:
		return *r
	case *DiagnoseRequest:
		return *r
	case *ImproveRequest:
		return *r
	case *AdCopyRequest:
		return *r
	}
	return req
}
