// Package llmtest provides an llm.Client double for tests.
package llmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonathan/content-studio/internal/llm"
	"github.com/jonathan/content-studio/internal/schemas"
)

// MockClient is an llm.Client whose behavior is set per test. Calls are recorded.
type MockClient struct {
	GenerateContentFunc func(ctx context.Context, req llm.Request) (string, error)
	GenerateJSONFunc    func(ctx context.Context, req llm.Request) (string, error)

	mu    sync.Mutex
	calls []llm.Request
}

func (m *MockClient) record(req llm.Request) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
}

// Calls returns the requests received so far.
func (m *MockClient) Calls() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Request(nil), m.calls...)
}

func (m *MockClient) GenerateContent(ctx context.Context, req llm.Request) (string, error) {
	m.record(req)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, req)
	}
	return "Respuesta mejorada de prueba", nil
}

func (m *MockClient) GenerateJSON(ctx context.Context, req llm.Request) (string, error) {
	m.record(req)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, req)
	}
	return CannedJSON(req)
}

func (m *MockClient) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *MockClient) Close() error { return nil }

// CannedJSON returns a well-formed reply for whichever task the request schema describes.
func CannedJSON(req llm.Request) (string, error) {
	s := req.Schema
	if s == nil {
		return "", fmt.Errorf("llmtest: request has no schema")
	}

	var v any
	switch {
	case s.Properties["hooks"] != nil:
		v = map[string]any{"hooks": Hooks(5)}
	case s.Properties["intro"] != nil:
		v = map[string]string{
			"intro":       "Nadie te cuenta esto sobre vender online.",
			"development": "Tres errores que frenan tus ventas y cómo evitarlos.",
			"outro":       "Comenta VENDER y te envío la guía.",
		}
	case s.Properties["diagnosis"] != nil:
		v = map[string]any{"diagnosis": Diagnosis(6)}
	case s.Properties["copy"] != nil:
		var c any = "Deja de publicar sin estrategia. Este método te trae clientes."
		if s.Properties["copy"].Type == schemas.TypeArray {
			c = []string{"Diapositiva uno", "Diapositiva dos", "Diapositiva tres", "Diapositiva cuatro"}
		}
		v = map[string]any{
			"copy":        c,
			"ctaExamples": []string{"Escríbeme MÉTODO", "Agenda tu llamada", "Descarga la guía"},
		}
	default:
		return "", fmt.Errorf("llmtest: unrecognized schema %v", s.PropertyNames())
	}

	b, err := json.Marshal(v)
	return string(b), err
}

// Hooks returns n distinct hook texts.
func Hooks(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Gancho de prueba %d", i+1)
	}
	return out
}

// Diagnosis returns n diagnosis items as decoded JSON objects.
func Diagnosis(n int) []map[string]string {
	out := make([]map[string]string, n)
	for i := range out {
		out[i] = map[string]string{
			"question":  fmt.Sprintf("Pregunta %d", i+1),
			"diagnosis": fmt.Sprintf("Diagnóstico %d", i+1),
		}
	}
	return out
}
