package prompts

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/jonathan/content-studio/internal/schemas"
	"github.com/jonathan/content-studio/internal/types"
)

// Prompt files and keys
const (
	contentFile = "content.json"
	adCopyFile  = "adcopy.json"
)

// WordsPerMinute is the speaking pace used to size scripts.
const WordsPerMinute = 145

// Prompt is a rendered instruction plus the response shape and sampling the task expects.
// A nil Schema means the task answers in plain text.
type Prompt struct {
	Text        string
	Schema      *schemas.Schema
	Temperature *float32
	TopP        *float32
}

func float(v float32) *float32 { return &v }

// WordCountTarget returns the number of words a script of the given length should have.
// Halves round up: 30 seconds gives 73 words.
func WordCountTarget(durationSeconds int) int {
	return int(math.Round(float64(durationSeconds) / 60 * WordsPerMinute))
}

func render(file, key string, data map[string]string) string {
	data["SecurityBlock"] = MustGet(contentFile, "security-block")
	return Format(MustGet(file, key), data)
}

func trainingJSON(data types.TrainingData, indent bool) string {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = json.MarshalIndent(data, "", "  ")
	} else {
		b, err = json.Marshal(data)
	}
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Hooks builds the hook-generation prompt.
func Hooks(data types.TrainingData, category types.HookCategory, quantity int) Prompt {
	text := render(contentFile, "generate-hooks", map[string]string{
		"TrainingData": trainingJSON(data, true),
		"Category":     string(category),
		"Quantity":     strconv.Itoa(quantity),
	})

	// The count is requested but not enforced; see gateway.
	schema := schemas.Object("", map[string]*schemas.Schema{
		"hooks": schemas.Array(
			fmt.Sprintf("Un array de %d strings, donde cada string es un hook.", quantity),
			schemas.String("El texto del hook, sin prefijos ni comillas."),
		).WithMinItems(1),
	}, "hooks")

	return Prompt{Text: text, Schema: schema, Temperature: float(0.8), TopP: float(0.95)}
}

// ScriptSchema is the response shape of a generated script.
func ScriptSchema() *schemas.Schema {
	return schemas.Object("", map[string]*schemas.Schema{
		"intro":       schemas.String("La introducción del guion, empezando con el hook."),
		"development": schemas.String("El desarrollo del guion, aportando valor."),
		"outro":       schemas.String("El cierre del guion, con un llamado a la acción."),
	}, "intro", "development", "outro")
}

// Script builds the prompt that expands a hook into a three-part script.
func Script(data types.TrainingData, hook string, durationSeconds int) Prompt {
	text := render(contentFile, "generate-script", map[string]string{
		"TrainingData": trainingJSON(data, true),
		"Hook":         hook,
		"Duration":     strconv.Itoa(durationSeconds),
		"WordCount":    strconv.Itoa(WordCountTarget(durationSeconds)),
	})
	return Prompt{Text: text, Schema: ScriptSchema(), Temperature: float(0.7)}
}

// AdDiagnosis builds the consultative diagnosis prompt. Sampling is left at provider defaults.
func AdDiagnosis(userScript string, contentType types.AdContentType) Prompt {
	text := render(adCopyFile, "diagnose-script", map[string]string{
		"ConsultantRole": MustGet(adCopyFile, "consultant-role"),
		"ContentType":    string(contentType),
		"Script":         userScript,
	})

	item := schemas.Object("", map[string]*schemas.Schema{
		"question":  schemas.String("La pregunta de diagnóstico."),
		"diagnosis": schemas.String("Tu análisis y diagnóstico sobre ese punto específico del guion."),
	}, "question", "diagnosis")

	schema := schemas.Object("", map[string]*schemas.Schema{
		"diagnosis": schemas.Array(
			fmt.Sprintf("Un array de %d objetos, cada uno correspondiente a una pregunta del diagnóstico.", types.DiagnosisLength),
			item,
		).WithItemCount(types.DiagnosisLength, types.DiagnosisLength),
	}, "diagnosis")

	return Prompt{Text: text, Schema: schema}
}

// AdAnswerImprovement builds the prompt that rewrites one refinement answer. It answers in plain text.
func AdAnswerImprovement(originalScript string, item types.DiagnosisItem, data types.TrainingData) Prompt {
	text := render(adCopyFile, "improve-answer", map[string]string{
		"TrainingData": trainingJSON(data, false),
		"Script":       originalScript,
		"Question":     item.Question,
		"Diagnosis":    item.Diagnosis,
	})
	return Prompt{Text: text}
}

// AdCopyFinal builds the final copy prompt. Carousels ask for slides, other formats for one text.
func AdCopyFinal(answers types.RefinedAnswers, userScript string, contentType types.AdContentType) Prompt {
	vars := map[string]string{
		"ConsultantRole": MustGet(adCopyFile, "consultant-role"),
		"ContentType":    string(contentType),
		"Script":         userScript,
		"CTACount":       strconv.Itoa(types.CTAExampleCount),
	}
	for _, k := range types.AnswerKeys {
		vars[string(k)] = answers.Get(k)
	}

	var copySchema *schemas.Schema
	if contentType == types.ContentCarousel {
		vars["FormatInstruction"] = Format(MustGet(adCopyFile, "format-carousel"), map[string]string{
			"MinSlides": strconv.Itoa(types.MinCarouselSlides),
			"MaxSlides": strconv.Itoa(types.MaxCarouselSlides),
		})
		copySchema = schemas.Array(
			"Un array de strings, donde cada string es el texto de una diapositiva del carrusel.",
			schemas.String(""),
		).WithItemCount(types.MinCarouselSlides, types.MaxCarouselSlides)
	} else {
		vars["FormatInstruction"] = Format(MustGet(adCopyFile, "format-single"), map[string]string{
			"ContentType": string(contentType),
		})
		copySchema = schemas.String("El texto completo del guion para el " + string(contentType) + ".")
	}

	schema := schemas.Object("", map[string]*schemas.Schema{
		"copy": copySchema,
		"ctaExamples": schemas.Array(
			fmt.Sprintf("Un array de %d ejemplos de llamados a la acción (CTA) potentes.", types.CTAExampleCount),
			schemas.String(""),
		).WithItemCount(types.CTAExampleCount, types.CTAExampleCount),
	}, "copy", "ctaExamples")

	return Prompt{Text: render(adCopyFile, "generate-copy", vars), Schema: schema, Temperature: float(0.7)}
}
