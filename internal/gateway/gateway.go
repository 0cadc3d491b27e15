// Package gateway relays the five generation actions to the model provider. Each call renders
// a prompt, declares the response schema, makes exactly one provider round trip and checks the
// shape of what came back.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/content-studio/internal/llm"
	"github.com/jonathan/content-studio/internal/prompts"
	"github.com/jonathan/content-studio/internal/schemas"
	"github.com/jonathan/content-studio/internal/types"
)

// User-facing messages for malformed model responses.
const (
	hooksFormatMessage     = "La respuesta de la IA no tuvo el formato esperado."
	scriptFormatMessage    = "La respuesta de la IA para el guion no tuvo el formato esperado."
	diagnosisFormatMessage = "La respuesta de diagnóstico no tuvo el formato esperado."
	improveFormatMessage   = "La respuesta mejorada no tuvo el formato esperado."
	adCopyFormatMessage    = "La respuesta final del copy no tuvo el formato esperado."
)

// Gateway executes generation actions against an llm.Client.
type Gateway struct {
	client llm.Client
}

// New creates a gateway. A nil client makes every action fail with a ConfigError.
func New(client llm.Client) *Gateway {
	return &Gateway{client: client}
}

// InvokeRaw decodes an action and its JSON payload and runs it.
func (g *Gateway) InvokeRaw(ctx context.Context, action string, payload json.RawMessage) (any, error) {
	req, err := Decode(action, payload)
	if err != nil {
		return nil, err
	}
	return g.Invoke(ctx, req)
}

// Invoke runs one action and returns its action-specific result.
func (g *Gateway) Invoke(ctx context.Context, req Request) (any, error) {
	switch r := req.(type) {
	case HooksRequest:
		return g.GenerateHooks(ctx, r)
	case ScriptRequest:
		return g.GenerateScript(ctx, r)
	case DiagnoseRequest:
		return g.DiagnoseAdScript(ctx, r)
	case ImproveRequest:
		return g.ImproveAdCopyAnswer(ctx, r)
	case AdCopyRequest:
		return g.GenerateAdCopy(ctx, r)
	case *HooksRequest, *ScriptRequest, *DiagnoseRequest, *ImproveRequest, *AdCopyRequest:
		return g.Invoke(ctx, deref(r))
	default:
		return nil, &InvalidActionError{Action: fmt.Sprintf("%T", req)}
	}
}

// GenerateHooks returns the generated hooks. The requested quantity is best-effort: any
// non-empty list is accepted and a different count is only logged.
func (g *Gateway) GenerateHooks(ctx context.Context, req HooksRequest) ([]string, error) {
	p := prompts.Hooks(req.TrainingData, req.Category, req.Quantity)

	var out struct {
		Hooks []string `json:"hooks"`
	}
	if err := g.generateJSON(ctx, ActionGenerateHooks, p, hooksFormatMessage, &out); err != nil {
		return nil, err
	}
	if len(out.Hooks) != req.Quantity {
		slog.Warn("hook count differs from requested quantity",
			"requested", req.Quantity,
			"received", len(out.Hooks),
			"category", req.Category,
		)
	}
	return out.Hooks, nil
}

// GenerateScript expands a hook into a three-part script sized for the duration.
func (g *Gateway) GenerateScript(ctx context.Context, req ScriptRequest) (types.Script, error) {
	p := prompts.Script(req.TrainingData, req.Hook, req.DurationInSeconds)

	var out types.Script
	if err := g.generateJSON(ctx, ActionGenerateScript, p, scriptFormatMessage, &out); err != nil {
		return types.Script{}, err
	}
	return out, nil
}

// DiagnoseAdScript returns exactly six diagnosis items.
func (g *Gateway) DiagnoseAdScript(ctx context.Context, req DiagnoseRequest) (types.Diagnosis, error) {
	p := prompts.AdDiagnosis(req.UserScript, req.ContentType)

	var out struct {
		Diagnosis types.Diagnosis `json:"diagnosis"`
	}
	if err := g.generateJSON(ctx, ActionDiagnoseAdScript, p, diagnosisFormatMessage, &out); err != nil {
		return nil, err
	}
	// the schema bounds the count; this guards decoders that ignore it
	if len(out.Diagnosis) != types.DiagnosisLength {
		return nil, &FormatError{
			Action:  ActionDiagnoseAdScript,
			Message: diagnosisFormatMessage,
			Cause:   fmt.Errorf("expected %d diagnosis items, got %d", types.DiagnosisLength, len(out.Diagnosis)),
		}
	}
	return out.Diagnosis, nil
}

// ImproveAdCopyAnswer rewrites one refinement answer. The reply is plain text.
func (g *Gateway) ImproveAdCopyAnswer(ctx context.Context, req ImproveRequest) (string, error) {
	if g.client == nil {
		return "", &ConfigError{Message: MissingCredentialMessage}
	}
	p := prompts.AdAnswerImprovement(req.OriginalScript, req.DiagnosisItem, req.TrainingData)

	text, err := g.client.GenerateContent(ctx, llm.Request{
		Prompt:      p.Text,
		Tier:        llm.TierLite,
		Temperature: p.Temperature,
		TopP:        p.TopP,
	})
	if err != nil {
		return "", &APICallError{Action: ActionImproveAdCopyAnswer, Message: "failed to improve answer", Cause: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &FormatError{Action: ActionImproveAdCopyAnswer, Message: improveFormatMessage, Cause: fmt.Errorf("empty response")}
	}
	return text, nil
}

// GenerateAdCopy writes the final copy. Carousels get 3 to 7 slides, other formats one text.
func (g *Gateway) GenerateAdCopy(ctx context.Context, req AdCopyRequest) (types.AdCopyResult, error) {
	p := prompts.AdCopyFinal(req.RefinedAnswers, req.UserScript, req.ContentType)

	var out struct {
		Copy        types.AdCopy `json:"copy"`
		CTAExamples []string     `json:"ctaExamples"`
	}
	if err := g.generateJSON(ctx, ActionGenerateAdCopy, p, adCopyFormatMessage, &out); err != nil {
		return types.AdCopyResult{}, err
	}
	return types.AdCopyResult{
		ContentType: req.ContentType,
		Copy:        out.Copy,
		CTAExamples: out.CTAExamples,
	}, nil
}

// generateJSON makes the provider call and decodes a response that passed the prompt's schema.
func (g *Gateway) generateJSON(ctx context.Context, action Action, p prompts.Prompt, formatMessage string, out any) error {
	if g.client == nil {
		return &ConfigError{Message: MissingCredentialMessage}
	}

	text, err := g.client.GenerateJSON(ctx, llm.Request{
		Prompt:      p.Text,
		Tier:        llm.TierStandard,
		Schema:      p.Schema,
		Temperature: p.Temperature,
		TopP:        p.TopP,
	})
	if err != nil {
		return &APICallError{Action: action, Message: fmt.Sprintf("failed to run %s", action), Cause: err}
	}

	formatErr := func(cause error) error {
		slog.Warn("model response rejected", "action", action, "error", cause)
		return &FormatError{Action: action, Message: formatMessage, Cause: cause}
	}

	if !json.Valid([]byte(text)) {
		return formatErr(fmt.Errorf("response is not valid JSON"))
	}
	if err := schemas.Validate(p.Schema, text); err != nil {
		return formatErr(err)
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return formatErr(err)
	}
	return nil
}
