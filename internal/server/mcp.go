package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/profile"
	"github.com/jonathan/content-studio/internal/types"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ProfilesResourceURI addresses the stored profiles document.
const ProfilesResourceURI = "content-studio://profiles"

// NewMCPServer exposes the generation actions as MCP tools. Tools that need brand
// context read it from the profile named by profile_id, or from the active profile.
func NewMCPServer(gw *gateway.Gateway, profiles *profile.Store, version string) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"content-studio",
		version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithInstructions("Genera hooks, guiones y copies de anuncios con la voz de marca de un perfil."),
		mcpserver.WithRecovery(),
	)
	h := &mcpHandlers{gateway: gw, profiles: profiles}

	s.AddTool(
		mcp.NewTool(string(gateway.ActionGenerateHooks),
			mcp.WithDescription("Generate short-video hooks for a category using the brand profile."),
			mcp.WithString("category", mcp.Description("VIDA PERSONAL, OPINIÓN or EDUCACIONAL"), mcp.Required()),
			mcp.WithNumber("quantity", mcp.Description("Number of hooks, 5 to 20 (default 10)")),
			mcp.WithString("profile_id", mcp.Description("Profile to use instead of the active one")),
		),
		h.generateHooks,
	)
	s.AddTool(
		mcp.NewTool(string(gateway.ActionGenerateScript),
			mcp.WithDescription("Write an intro, development and outro script for a hook."),
			mcp.WithString("hook", mcp.Description("The opening hook"), mcp.Required()),
			mcp.WithNumber("duration_seconds", mcp.Description("Target video length in seconds"), mcp.Required()),
			mcp.WithString("profile_id", mcp.Description("Profile to use instead of the active one")),
		),
		h.generateScript,
	)
	s.AddTool(
		mcp.NewTool(string(gateway.ActionDiagnoseAdScript),
			mcp.WithDescription("Diagnose an ad script with six consultant questions."),
			mcp.WithString("script", mcp.Description("The ad script"), mcp.Required()),
			mcp.WithString("content_type", mcp.Description("Reel, Carrusel or B-roll (default Reel)")),
		),
		h.diagnose,
	)
	s.AddTool(
		mcp.NewTool(string(gateway.ActionImproveAdCopyAnswer),
			mcp.WithDescription("Suggest an answer to one diagnosis question in the brand voice."),
			mcp.WithString("script", mcp.Description("The ad script"), mcp.Required()),
			mcp.WithString("question", mcp.Description("Diagnosis question"), mcp.Required()),
			mcp.WithString("diagnosis", mcp.Description("Diagnosis text for the question"), mcp.Required()),
			mcp.WithString("profile_id", mcp.Description("Profile to use instead of the active one")),
		),
		h.improve,
	)
	s.AddTool(
		mcp.NewTool(string(gateway.ActionGenerateAdCopy),
			mcp.WithDescription("Write the final ad copy and three CTA examples from the refined answers."),
			mcp.WithString("script", mcp.Description("The ad script"), mcp.Required()),
			mcp.WithString("content_type", mcp.Description("Reel, Carrusel or B-roll (default Reel)")),
			mcp.WithObject("answers", mcp.Description("The six refined answers keyed by answer key"), mcp.Required()),
		),
		h.generateAdCopy,
	)

	s.AddResource(
		mcp.NewResource(
			ProfilesResourceURI,
			"profiles",
			mcp.WithResourceDescription("Brand profiles with their saved hooks and scripts"),
			mcp.WithMIMEType("application/json"),
		),
		h.readProfiles,
	)

	return s
}

type mcpHandlers struct {
	gateway  *gateway.Gateway
	profiles *profile.Store
}

func (h *mcpHandlers) trainingData(req mcp.CallToolRequest) (types.TrainingData, error) {
	if id := req.GetString("profile_id", ""); id != "" {
		p, err := h.profiles.Get(id)
		if err != nil {
			return types.TrainingData{}, err
		}
		return p.Data, nil
	}
	p, ok := h.profiles.Active()
	if !ok {
		return types.TrainingData{}, ErrNoActiveProfile
	}
	return p.Data, nil
}

// invoke runs an action through the same decoding and validation as the HTTP endpoint.
func (h *mcpHandlers) invoke(ctx context.Context, action gateway.Action, payload any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to encode payload: %v", err)), nil
	}
	result, err := h.gateway.InvokeRaw(ctx, string(action), raw)
	if err != nil {
		return mcpError(err.Error()), nil
	}
	if text, ok := result.(string); ok {
		return mcpText(text), nil
	}
	out, err := json.Marshal(result)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcpText(string(out)), nil
}

func (h *mcpHandlers) generateHooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcpError("category is required"), nil
	}
	data, err := h.trainingData(req)
	if err != nil {
		return mcpError(err.Error()), nil
	}
	return h.invoke(ctx, gateway.ActionGenerateHooks, gateway.HooksRequest{
		TrainingData: data,
		Category:     types.HookCategory(category),
		Quantity:     req.GetInt("quantity", types.DefaultHookQuantity),
	})
}

func (h *mcpHandlers) generateScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hook, err := req.RequireString("hook")
	if err != nil {
		return mcpError("hook is required"), nil
	}
	duration, err := req.RequireInt("duration_seconds")
	if err != nil {
		return mcpError("duration_seconds is required"), nil
	}
	data, err := h.trainingData(req)
	if err != nil {
		return mcpError(err.Error()), nil
	}
	return h.invoke(ctx, gateway.ActionGenerateScript, gateway.ScriptRequest{
		TrainingData:      data,
		Hook:              hook,
		DurationInSeconds: duration,
	})
}

func (h *mcpHandlers) diagnose(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	script, err := req.RequireString("script")
	if err != nil {
		return mcpError("script is required"), nil
	}
	return h.invoke(ctx, gateway.ActionDiagnoseAdScript, gateway.DiagnoseRequest{
		UserScript:  script,
		ContentType: types.AdContentType(req.GetString("content_type", string(types.ContentReel))),
	})
}

func (h *mcpHandlers) improve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	script, err := req.RequireString("script")
	if err != nil {
		return mcpError("script is required"), nil
	}
	question, err := req.RequireString("question")
	if err != nil {
		return mcpError("question is required"), nil
	}
	diagnosis, err := req.RequireString("diagnosis")
	if err != nil {
		return mcpError("diagnosis is required"), nil
	}
	data, err := h.trainingData(req)
	if err != nil {
		return mcpError(err.Error()), nil
	}
	return h.invoke(ctx, gateway.ActionImproveAdCopyAnswer, gateway.ImproveRequest{
		OriginalScript: script,
		DiagnosisItem:  types.DiagnosisItem{Question: question, Diagnosis: diagnosis},
		TrainingData:   data,
	})
}

func (h *mcpHandlers) generateAdCopy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	script, err := req.RequireString("script")
	if err != nil {
		return mcpError("script is required"), nil
	}
	answers, err := refinedAnswers(req.GetArguments()["answers"])
	if err != nil {
		return mcpError(err.Error()), nil
	}
	return h.invoke(ctx, gateway.ActionGenerateAdCopy, gateway.AdCopyRequest{
		RefinedAnswers: answers,
		UserScript:     script,
		ContentType:    types.AdContentType(req.GetString("content_type", string(types.ContentReel))),
	})
}

// refinedAnswers accepts the answers as an object or as a JSON-encoded string.
func refinedAnswers(arg any) (types.RefinedAnswers, error) {
	var answers types.RefinedAnswers
	var raw []byte
	switch v := arg.(type) {
	case nil:
		return answers, errors.New("answers is required")
	case string:
		raw = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return answers, fmt.Errorf("invalid answers: %w", err)
		}
		raw = b
	}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return answers, fmt.Errorf("invalid answers: %w", err)
	}
	return answers, nil
}

func (h *mcpHandlers) readProfiles(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(h.profiles.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode profiles: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ProfilesResourceURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
