package observability

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jonathan/content-studio/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBoxed checks every line of a box has the same visible width.
func assertBoxed(t *testing.T, output string) {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSuffix(output, "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), "line %q", line)
	}
}

func TestPrintHooks(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintHooks(types.CategoryOpinion, []string{"Nadie te dice esto", "Deja de publicar así"})
	output := buf.String()

	assert.Contains(t, output, "HOOKS · OPINIÓN (2)")
	assert.Contains(t, output, " 1. Nadie te dice esto")
	assert.Contains(t, output, " 2. Deja de publicar así")
	assertBoxed(t, output)
}

func TestPrintHooks_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintHooks(types.CategoryOpinion, nil)
	assert.Empty(t, buf.String())
}

func TestPrintScript_WrapsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := strings.Repeat("Emprender también es aprender a vender. ", 6)
	p.PrintScript("Gancho", types.Script{Intro: "Hola", Development: long, Outro: "Comenta GUIA"})
	output := buf.String()

	assert.Contains(t, output, "GUION · Gancho")
	assert.Contains(t, output, "[INTRO]")
	assert.Contains(t, output, "[DESARROLLO]")
	assert.Contains(t, output, "[CIERRE]")
	assert.NotContains(t, output, "...")
	assertBoxed(t, output)
}

func TestPrintDiagnosis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDiagnosis(types.Diagnosis{
		{Question: "¿Qué resultado prometes?", Diagnosis: "No se menciona."},
		{Question: "¿Qué error comete tu cliente?", Diagnosis: "Poco claro."},
	})
	output := buf.String()

	assert.Contains(t, output, "DIAGNÓSTICO")
	assert.Contains(t, output, "1. [resultado] ¿Qué resultado prometes?")
	assert.Contains(t, output, "2. [errorComun]")
	assertBoxed(t, output)
}

func TestPrintAdCopy(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintAdCopy(types.AdCopyResult{
		ContentType: types.ContentCarousel,
		Copy:        types.AdCopy{Slides: []string{"Uno", "Dos", "Tres"}},
		CTAExamples: []string{"a", "b", "c"},
	})
	output := buf.String()

	assert.Contains(t, output, "COPY FINAL · Carrusel")
	assert.Contains(t, output, "DIAPOSITIVA 1:")
	assert.Contains(t, output, "EJEMPLOS DE CTA:")
	assertBoxed(t, output)
}

func TestPrintProfiles(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintProfiles([]types.Profile{
		{ID: "p1", Name: "Marca A", SavedHooks: []types.SavedHook{{ID: "h"}}},
		{ID: "p2", Name: "Marca B"},
	}, "p2")
	output := buf.String()

	assert.Contains(t, output, "  p1  Marca A  (1 hooks, 0 guiones)")
	assert.Contains(t, output, "* p2  Marca B")

	buf.Reset()
	p.PrintProfiles(nil, "")
	assert.Contains(t, buf.String(), "No hay perfiles")
}

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	prof := types.Profile{ID: "p1", Name: "Marca"}
	prof.Data.BrandVoice.Tone = "cercana"
	for i := 0; i < 7; i++ {
		prof.SavedHooks = append(prof.SavedHooks, types.SavedHook{ID: "h", Text: "gancho"})
	}

	p.PrintProfile(prof)
	output := buf.String()

	assert.Contains(t, output, "PERFIL · Marca")
	assert.Contains(t, output, "tone: cercana")
	assert.Contains(t, output, "Sin responder:")
	assert.Contains(t, output, "Hooks guardados: 7")
	assert.Contains(t, output, "... y 2 más")
	assertBoxed(t, output)
}

func TestPrintSavedContent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSavedHooks(nil)
	assert.Contains(t, buf.String(), "Aún no has guardado hooks.")

	buf.Reset()
	p.PrintSavedScripts([]types.SavedScript{{ID: "s1", Hook: "Gancho", Platform: types.PlatformTikTok, Duration: 60}})
	assert.Contains(t, buf.String(), "s1  TikTok · 60s")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"corto"}, wrap("corto", 10))
	assert.Equal(t, []string{"uno dos", "tres"}, wrap("uno dos tres", 8))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrap("abcdefghij", 4))
	for _, piece := range wrap(strings.Repeat("ñ", 30), 7) {
		assert.LessOrEqual(t, utf8.RuneCountInString(piece), 7)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.LevelWarn, "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	require.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	buf.Reset()
	NewLogger(slog.LevelDebug, "text", &buf).Debug("texto")
	assert.Contains(t, buf.String(), "msg=texto")
}
