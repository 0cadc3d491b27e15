package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// AdContentType is the ad format being written.
type AdContentType string

const (
	ContentReel     AdContentType = "Reel"
	ContentCarousel AdContentType = "Carrusel"
	ContentBRoll    AdContentType = "B-roll"
)

// AdContentTypes lists the supported ad formats.
var AdContentTypes = []AdContentType{ContentReel, ContentCarousel, ContentBRoll}

// IsValid reports whether t is a known ad format.
func (t AdContentType) IsValid() bool {
	return slices.Contains(AdContentTypes, t)
}

// Carousel slide bounds for the final copy.
const (
	MinCarouselSlides = 3
	MaxCarouselSlides = 7
	CTAExampleCount   = 3
)

// DiagnosisItem is one critique of the user's ad script.
type DiagnosisItem struct {
	Question  string `json:"question" validate:"notblank"`
	Diagnosis string `json:"diagnosis" validate:"notblank"`
}

// Diagnosis is the ordered six-question critique. Item i pairs with AnswerKeys[i].
type Diagnosis []DiagnosisItem

// DiagnosisLength is the number of questions every diagnosis answers.
const DiagnosisLength = 6

// AnswerKey identifies one refinement answer.
type AnswerKey string

const (
	AnswerResult          AnswerKey = "resultado"
	AnswerCommonMistake   AnswerKey = "errorComun"
	AnswerDifferentMethod AnswerKey = "metodoDiferente"
	AnswerOwnResults      AnswerKey = "resultadosPropios"
	AnswerFalseBelief     AnswerKey = "creenciaFalsa"
	AnswerCallToAction    AnswerKey = "llamadoAlaAccion"
)

// AnswerKeys is positionally aligned with the diagnosis questions.
var AnswerKeys = []AnswerKey{
	AnswerResult,
	AnswerCommonMistake,
	AnswerDifferentMethod,
	AnswerOwnResults,
	AnswerFalseBelief,
	AnswerCallToAction,
}

// IsValid reports whether k is one of the six refinement keys.
func (k AnswerKey) IsValid() bool {
	return slices.Contains(AnswerKeys, k)
}

// Index returns the diagnosis position of k, or -1.
func (k AnswerKey) Index() int {
	return slices.Index(AnswerKeys, k)
}

// RefinedAnswers are the user's six answers to the diagnosis.
type RefinedAnswers struct {
	Resultado         string `json:"resultado" validate:"notblank"`
	ErrorComun        string `json:"errorComun" validate:"notblank"`
	MetodoDiferente   string `json:"metodoDiferente" validate:"notblank"`
	ResultadosPropios string `json:"resultadosPropios" validate:"notblank"`
	CreenciaFalsa     string `json:"creenciaFalsa" validate:"notblank"`
	LlamadoAlaAccion  string `json:"llamadoAlaAccion" validate:"notblank"`
}

func (a *RefinedAnswers) ref(k AnswerKey) *string {
	switch k {
	case AnswerResult:
		return &a.Resultado
	case AnswerCommonMistake:
		return &a.ErrorComun
	case AnswerDifferentMethod:
		return &a.MetodoDiferente
	case AnswerOwnResults:
		return &a.ResultadosPropios
	case AnswerFalseBelief:
		return &a.CreenciaFalsa
	case AnswerCallToAction:
		return &a.LlamadoAlaAccion
	}
	return nil
}

// Get returns the answer for k; unknown keys read as empty.
func (a RefinedAnswers) Get(k AnswerKey) string {
	if p := a.ref(k); p != nil {
		return *p
	}
	return ""
}

// Set stores the answer for k.
func (a *RefinedAnswers) Set(k AnswerKey, v string) error {
	p := a.ref(k)
	if p == nil {
		return fmt.Errorf("unknown answer key %q", k)
	}
	*p = v
	return nil
}

// Complete reports whether every answer is non-empty after trimming.
func (a RefinedAnswers) Complete() bool {
	for _, k := range AnswerKeys {
		if strings.TrimSpace(a.Get(k)) == "" {
			return false
		}
	}
	return true
}

// AdCopy is either a single block of text or a list of carousel slides.
// It marshals as a JSON string or array respectively.
type AdCopy struct {
	Text   string
	Slides []string
}

// IsSlides reports whether the copy is a carousel slide list.
func (c AdCopy) IsSlides() bool {
	return c.Slides != nil
}

func (c AdCopy) MarshalJSON() ([]byte, error) {
	if c.IsSlides() {
		return json.Marshal(c.Slides)
	}
	return json.Marshal(c.Text)
}

func (c *AdCopy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var slides []string
		if err := json.Unmarshal(data, &slides); err != nil {
			return err
		}
		*c = AdCopy{Slides: slides}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("copy must be a string or an array of strings: %w", err)
	}
	*c = AdCopy{Text: text}
	return nil
}

// AdCopyResult is the final ad copy.
type AdCopyResult struct {
	ContentType AdContentType `json:"contentType"`
	Copy        AdCopy        `json:"copy"`
	CTAExamples []string      `json:"ctaExamples"`
}

// Format renders the result as clipboard-ready text.
func (r AdCopyResult) Format() string {
	var sb strings.Builder
	if r.ContentType == ContentCarousel && r.Copy.IsSlides() {
		for i, slide := range r.Copy.Slides {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			fmt.Fprintf(&sb, "DIAPOSITIVA %d:\n%s", i+1, slide)
		}
	} else {
		sb.WriteString(r.Copy.Text)
	}
	sb.WriteString("\n\n---\nEJEMPLOS DE CTA:\n- ")
	sb.WriteString(strings.Join(r.CTAExamples, "\n- "))
	return strings.TrimSpace(sb.String())
}
