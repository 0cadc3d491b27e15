package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/kv"
	"github.com/jonathan/content-studio/internal/llm"
	"github.com/jonathan/content-studio/internal/llm/llmtest"
	"github.com/jonathan/content-studio/internal/profile"
	"github.com/jonathan/content-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*Server
	mock     *llmtest.MockClient
	profiles *profile.Store
	handler  http.Handler
}

func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()
	mock := &llmtest.MockClient{}
	store, err := profile.Load(context.Background(), kv.NewMemoryStore())
	require.NoError(t, err)

	s := New(Config{Port: 0, RateLimitPerMinute: rateLimit}, gateway.New(mock), store)
	t.Cleanup(s.Close)
	return &testServer{Server: s, mock: mock, profiles: store, handler: s.Handler()}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, 0)

	w := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, w)["status"])
}

func TestGateway_Actions(t *testing.T) {
	ts := newTestServer(t, 0)

	t.Run("hooks", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, GatewayPath,
			`{"action":"generateHooks","payload":{"trainingData":{},"category":"OPINIÓN","quantity":5}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, decode[[]string](t, w), 5)
	})

	t.Run("script", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, GatewayPath,
			`{"action":"generateScriptForHook","payload":{"trainingData":{},"hook":"Gancho","durationInSeconds":30}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		script := decode[types.Script](t, w)
		assert.NotEmpty(t, script.Intro)
		assert.NotEmpty(t, script.Development)
		assert.NotEmpty(t, script.Outro)
	})

	t.Run("diagnosis", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, GatewayPath,
			`{"action":"diagnoseAdScript","payload":{"userScript":"Compra mi curso","contentType":"Reel"}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, decode[types.Diagnosis](t, w), types.DiagnosisLength)
	})

	t.Run("improve returns a plain string", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, GatewayPath,
			`{"action":"improveAdCopyAnswer","payload":{"originalScript":"s","diagnosisItem":{"question":"q","diagnosis":"d"},"trainingData":{}}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Respuesta mejorada de prueba", decode[string](t, w))
	})

	t.Run("carousel copy", func(t *testing.T) {
		answers := `{"resultado":"a","errorComun":"b","metodoDiferente":"c","resultadosPropios":"d","creenciaFalsa":"e","llamadoAlaAccion":"f"}`
		w := ts.do(t, http.MethodPost, GatewayPath,
			`{"action":"generateAdCopy","payload":{"refinedAnswers":`+answers+`,"userScript":"s","contentType":"Carrusel"}}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := decode[types.AdCopyResult](t, w)
		assert.Equal(t, types.ContentCarousel, result.ContentType)
		assert.True(t, result.Copy.IsSlides())
		assert.Len(t, result.CTAExamples, 3)
	})
}

func TestGateway_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m *llmtest.MockClient)
		status   int
		contains string
	}{
		{name: "malformed body", body: `{"action":`, status: http.StatusBadRequest, contains: "invalid JSON body"},
		{name: "empty body", body: "", status: http.StatusBadRequest, contains: "request body is required"},
		{name: "unknown action", body: `{"action":"deleteEverything","payload":{}}`, status: http.StatusBadRequest, contains: "Invalid action"},
		{name: "invalid payload", body: `{"action":"diagnoseAdScript","payload":{"userScript":"","contentType":"Reel"}}`, status: http.StatusBadRequest},
		{
			name: "provider failure",
			body: `{"action":"diagnoseAdScript","payload":{"userScript":"x","contentType":"Reel"}}`,
			setup: func(m *llmtest.MockClient) {
				m.GenerateJSONFunc = func(context.Context, llm.Request) (string, error) {
					return "", errors.New("connection reset")
				}
			},
			status:   http.StatusInternalServerError,
			contains: "connection reset",
		},
		{
			name: "wrong diagnosis length",
			body: `{"action":"diagnoseAdScript","payload":{"userScript":"x","contentType":"Reel"}}`,
			setup: func(m *llmtest.MockClient) {
				m.GenerateJSONFunc = func(context.Context, llm.Request) (string, error) {
					b, _ := json.Marshal(map[string]any{"diagnosis": llmtest.Diagnosis(4)})
					return string(b), nil
				}
			},
			status:   http.StatusInternalServerError,
			contains: "no tuvo el formato esperado",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, 0)
			if tt.setup != nil {
				tt.setup(ts.mock)
			}
			w := ts.do(t, http.MethodPost, GatewayPath, tt.body)
			assert.Equal(t, tt.status, w.Code)
			resp := decode[map[string]string](t, w)
			assert.NotEmpty(t, resp["error"])
			if tt.contains != "" {
				assert.Contains(t, resp["error"], tt.contains)
			}
		})
	}
}

func TestGateway_MissingCredential(t *testing.T) {
	store, err := profile.Load(context.Background(), kv.NewMemoryStore())
	require.NoError(t, err)
	s := New(Config{}, gateway.New(nil), store)
	defer s.Close()

	req := httptest.NewRequest(http.MethodPost, GatewayPath,
		strings.NewReader(`{"action":"diagnoseAdScript","payload":{"userScript":"x","contentType":"Reel"}}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "API Key")
}

func TestGateway_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, 0)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w := ts.do(t, method, GatewayPath, "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, "Method Not Allowed", decode[map[string]string](t, w)["error"])
	}
	assert.Empty(t, ts.mock.Calls())
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, 0)

	w := ts.do(t, http.MethodOptions, GatewayPath, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestRateLimit_GenerationOnly(t *testing.T) {
	ts := newTestServer(t, 2)
	body := `{"action":"diagnoseAdScript","payload":{"userScript":"x","contentType":"Reel"}}`

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodPost, GatewayPath, body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := ts.do(t, http.MethodPost, GatewayPath, body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "rate limit exceeded", decode[map[string]string](t, w)["error"])

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/profiles", "").Code)
	}
	assert.Len(t, ts.mock.Calls(), 2)
}

func TestProfileEndpoints(t *testing.T) {
	ts := newTestServer(t, 0)

	w := ts.do(t, http.MethodPost, "/api/profiles", `{"name":"Marca A","data":{"brandVoice":{"tone":"cercana"}}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a := decode[types.Profile](t, w)
	assert.Equal(t, "Marca A", a.Name)
	assert.Equal(t, "cercana", a.Data.BrandVoice.Tone)

	w = ts.do(t, http.MethodPost, "/api/profiles", `{"name":"Marca B"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	b := decode[types.Profile](t, w)

	w = ts.do(t, http.MethodGet, "/api/profiles", "")
	require.Equal(t, http.StatusOK, w.Code)
	state := decode[profile.State](t, w)
	assert.Len(t, state.Profiles, 2)
	require.NotNil(t, state.ActiveProfileID)
	assert.Equal(t, b.ID, *state.ActiveProfileID)

	w = ts.do(t, http.MethodPost, "/api/profiles/"+a.ID+"/activate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, a.ID, *decode[profile.State](t, w).ActiveProfileID)

	w = ts.do(t, http.MethodPut, "/api/profiles/"+a.ID, `{"name":"Marca A2","data":{}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Marca A2", decode[types.Profile](t, w).Name)

	w = ts.do(t, http.MethodGet, "/api/profiles/"+a.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Marca A2", decode[types.Profile](t, w).Name)

	w = ts.do(t, http.MethodDelete, "/api/profiles/"+a.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	active, ok := ts.profiles.Active()
	require.True(t, ok)
	assert.Equal(t, b.ID, active.ID)
}

func TestProfileEndpoints_Errors(t *testing.T) {
	ts := newTestServer(t, 0)

	tests := []struct {
		name, method, path, body string
		status                   int
	}{
		{"blank name", http.MethodPost, "/api/profiles", `{"name":"   "}`, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/profiles", `{`, http.StatusBadRequest},
		{"get unknown", http.MethodGet, "/api/profiles/nope", "", http.StatusNotFound},
		{"update unknown", http.MethodPut, "/api/profiles/nope", `{"name":"x"}`, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/api/profiles/nope", "", http.StatusNotFound},
		{"activate unknown", http.MethodPost, "/api/profiles/nope/activate", "", http.StatusNotFound},
		{"hook without profile", http.MethodPost, "/api/hooks", `{"text":"hola"}`, http.StatusConflict},
		{"delete hook without profile", http.MethodDelete, "/api/hooks/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestSavedContentEndpoints(t *testing.T) {
	ts := newTestServer(t, 0)
	_, err := ts.profiles.Create(context.Background(), "Marca", types.TrainingData{})
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/api/hooks", `{"text":"Nadie te cuenta esto"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	hook := decode[saveResponse[types.SavedHook]](t, w)
	assert.True(t, hook.Saved)

	w = ts.do(t, http.MethodPost, "/api/hooks", `{"text":"Nadie te cuenta esto"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[saveResponse[types.SavedHook]](t, w).Saved)

	w = ts.do(t, http.MethodDelete, "/api/hooks/"+hook.Item.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	entry, err := json.Marshal(types.ScriptEntry{
		Hook:     "Gancho",
		Script:   types.Script{Intro: "i", Development: "d", Outro: "o"},
		Platform: types.PlatformInstagramReels,
		Duration: 30,
	})
	require.NoError(t, err)
	w = ts.do(t, http.MethodPost, "/api/scripts", string(entry))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	script := decode[saveResponse[types.SavedScript]](t, w)

	w = ts.do(t, http.MethodPost, "/api/scripts", `{"hook":"g","platform":"Instagram Reels","duration":45}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodDelete, "/api/scripts/"+script.Item.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(t, http.MethodDelete, "/api/scripts/"+script.Item.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	active, ok := ts.profiles.Active()
	require.True(t, ok)
	assert.Empty(t, active.SavedHooks)
	assert.Empty(t, active.SavedScripts)
}

func TestCatalogEndpoint(t *testing.T) {
	ts := newTestServer(t, 0)

	w := ts.do(t, http.MethodGet, "/api/catalog", "")
	require.Equal(t, http.StatusOK, w.Code)
	c := decode[catalog](t, w)
	assert.Equal(t, types.HookCategories, c.HookCategories)
	assert.Equal(t, types.AnswerKeys, c.AnswerKeys)
	assert.Len(t, c.TrainingSteps, len(types.TrainingSteps))
	assert.Equal(t, 10, c.DefaultHookQuantity)
	assert.Equal(t, []int{15, 30, 60, 90}, c.PlatformDurations[types.PlatformInstagramReels])
}

func TestRequestBodyLimit(t *testing.T) {
	ts := newTestServer(t, 0)
	big := `{"name":"` + string(bytes.Repeat([]byte("a"), maxBodyBytes+1)) + `"}`

	w := ts.do(t, http.MethodPost, "/api/profiles", big)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
