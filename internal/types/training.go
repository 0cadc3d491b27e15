// Package types provides type definitions for the brand profiles, generated content and
// ad-copy artifacts shared across the content-studio system.
package types

import (
	"fmt"
	"strings"
)

// BrandVoice captures how the brand sounds.
type BrandVoice struct {
	Tone     string `json:"tone"`
	Phrases  string `json:"phrases"`
	Examples string `json:"examples"`
}

// IdealClient describes who the brand sells to.
type IdealClient struct {
	Description     string `json:"description"`
	Desire          string `json:"desire"`
	Struggle        string `json:"struggle"`
	Obstacle        string `json:"obstacle"`
	LimitingBeliefs string `json:"limitingBeliefs"`
	ProblemSolved   string `json:"problemSolved"`
}

// Products describes the digital product being promoted.
type Products struct {
	Name           string `json:"name"`
	Includes       string `json:"includes"`
	Transformation string `json:"transformation"`
	Uniqueness     string `json:"uniqueness"`
}

// PersonalStory is the founder story used for authenticity.
type PersonalStory struct {
	Problem        string `json:"problem"`
	TurningPoint   string `json:"turningPoint"`
	Transformation string `json:"transformation"`
	Why            string `json:"why"`
}

// Results holds proof and authority points.
type Results struct {
	PersonalResults string `json:"personalResults"`
	ClientResults   string `json:"clientResults"`
	Authority       string `json:"authority"`
}

// TrainingData is the fixed-shape questionnaire answered when a profile is created.
// Unanswered fields are empty strings, never absent.
type TrainingData struct {
	BrandVoice    BrandVoice    `json:"brandVoice"`
	IdealClient   IdealClient   `json:"idealClient"`
	Products      Products      `json:"products"`
	PersonalStory PersonalStory `json:"personalStory"`
	Results       Results       `json:"results"`
}

// field returns a pointer to the answer addressed by section and question id.
func (d *TrainingData) field(section, question string) (*string, error) {
	var f *string
	switch section + "." + question {
	case "brandVoice.tone":
		f = &d.BrandVoice.Tone
	case "brandVoice.phrases":
		f = &d.BrandVoice.Phrases
	case "brandVoice.examples":
		f = &d.BrandVoice.Examples
	case "idealClient.description":
		f = &d.IdealClient.Description
	case "idealClient.desire":
		f = &d.IdealClient.Desire
	case "idealClient.struggle":
		f = &d.IdealClient.Struggle
	case "idealClient.obstacle":
		f = &d.IdealClient.Obstacle
	case "idealClient.limitingBeliefs":
		f = &d.IdealClient.LimitingBeliefs
	case "idealClient.problemSolved":
		f = &d.IdealClient.ProblemSolved
	case "products.name":
		f = &d.Products.Name
	case "products.includes":
		f = &d.Products.Includes
	case "products.transformation":
		f = &d.Products.Transformation
	case "products.uniqueness":
		f = &d.Products.Uniqueness
	case "personalStory.problem":
		f = &d.PersonalStory.Problem
	case "personalStory.turningPoint":
		f = &d.PersonalStory.TurningPoint
	case "personalStory.transformation":
		f = &d.PersonalStory.Transformation
	case "personalStory.why":
		f = &d.PersonalStory.Why
	case "results.personalResults":
		f = &d.Results.PersonalResults
	case "results.clientResults":
		f = &d.Results.ClientResults
	case "results.authority":
		f = &d.Results.Authority
	default:
		return nil, fmt.Errorf("unknown training question %s.%s", section, question)
	}
	return f, nil
}

// Get returns the answer for a questionnaire field.
func (d TrainingData) Get(section, question string) (string, error) {
	f, err := d.field(section, question)
	if err != nil {
		return "", err
	}
	return *f, nil
}

// Set stores the answer for a questionnaire field.
func (d *TrainingData) Set(section, question, value string) error {
	f, err := d.field(section, question)
	if err != nil {
		return err
	}
	*f = value
	return nil
}

// Missing lists "section.question" ids whose answers are blank, in questionnaire order.
func (d TrainingData) Missing() []string {
	var missing []string
	for _, step := range TrainingSteps {
		for _, q := range step.Questions {
			v, _ := d.Get(step.ID, q.ID)
			if strings.TrimSpace(v) == "" {
				missing = append(missing, step.ID+"."+q.ID)
			}
		}
	}
	return missing
}

// TrainingQuestion is one prompt of the questionnaire.
type TrainingQuestion struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	IsTextArea  bool   `json:"isTextArea,omitempty"`
}

// TrainingStep is a titled section of the questionnaire.
type TrainingStep struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Questions []TrainingQuestion `json:"questions"`
}

// TrainingSteps is the questionnaire presented when building a profile.
var TrainingSteps = []TrainingStep{
	{
		ID:    "brandVoice",
		Title: "Tu Voz de Marca",
		Questions: []TrainingQuestion{
			{ID: "tone", Label: "¿Cómo describirías el tono o personalidad de tu marca?", Placeholder: "Ej: cercana, directa, divertida, profesional, inspiradora"},
			{ID: "phrases", Label: "¿Tienes frases o expresiones que usas mucho al escribir?", Placeholder: `Ej: "Vamos al grano", "Absolutamente increíble"`},
			{ID: "examples", Label: "Pega aquí entre 3 y 5 publicaciones, emails o textos que sientas que suenan “muy tú”", Placeholder: "Pega aquí tus textos...", IsTextArea: true},
		},
	},
	{
		ID:    "idealClient",
		Title: "Tu Cliente Ideal",
		Questions: []TrainingQuestion{
			{ID: "description", Label: "¿Quién es tu cliente ideal?", Placeholder: "Ej: edad, profesión, identidad o estilo de vida"},
			{ID: "desire", Label: "¿Qué desea lograr o cambiar?", Placeholder: "Ej: Lanzar su negocio, sentirse más segura"},
			{ID: "struggle", Label: "¿Con qué está luchando en este momento?", Placeholder: "Ej: Falta de tiempo, no sabe por dónde empezar"},
			{ID: "obstacle", Label: "¿Qué le impide lograrlo?", Placeholder: "Ej: Miedo al fracaso, falta de conocimiento técnico"},
			{ID: "limitingBeliefs", Label: "¿Qué creencias limitantes suele tener?", Placeholder: `Ej: "No soy lo suficientemente buena", "Es muy tarde para mí"`},
			{ID: "problemSolved", Label: "¿Qué problema específico le ayuda a resolver tu producto?", Placeholder: "Ej: Le ayuda a crear un plan de marketing en 30 días"},
		},
	},
	{
		ID:    "products",
		Title: "Tus Productos Digitales",
		Questions: []TrainingQuestion{
			{ID: "name", Label: "¿Cómo se llama tu producto digital o programa?", Placeholder: `Ej: "Lanzamiento Imparable"`},
			{ID: "includes", Label: "¿Qué incluye?", Placeholder: "Ej: módulos, plantillas, clases, bonos, comunidad, etc.", IsTextArea: true},
			{ID: "transformation", Label: "¿Qué transformación ofrece?", Placeholder: "¿Cómo se sentirá o qué logrará después de usarlo?"},
			{ID: "uniqueness", Label: "¿Qué lo hace único frente a otras opciones?", Placeholder: "Ej: Mi método personal, el soporte 1 a 1"},
		},
	},
	{
		ID:    "personalStory",
		Title: "Tu Historia Personal",
		Questions: []TrainingQuestion{
			{ID: "problem", Label: "¿Qué problema tenías tú antes, que ahora ayudas a otras a resolver?", Placeholder: "Ej: Estaba estancada en un trabajo que odiaba"},
			{ID: "turningPoint", Label: "¿Cuál fue tu punto de quiebre o decisión que cambió todo?", Placeholder: "Ej: Cuando decidí invertir en un mentor"},
			{ID: "transformation", Label: "¿Qué hiciste para transformarte o mejorar esa situación?", Placeholder: "Ej: Aprendí sobre marketing digital y creé mi propio negocio"},
			{ID: "why", Label: "¿Por qué decidiste crear este producto para ayudar a otras personas?", Placeholder: "Ej: Porque no quiero que nadie pase por lo que yo pasé"},
		},
	},
	{
		ID:    "results",
		Title: "Resultados y Autoridad",
		Questions: []TrainingQuestion{
			{ID: "personalResults", Label: "¿Qué resultados personales has logrado tú gracias a lo que enseñas?", Placeholder: "Ej: Facturé 6 cifras en mi primer año"},
			{ID: "clientResults", Label: "¿Qué resultados han logrado tus clientas o alumnas?", Placeholder: `Ej: "Una de mis alumnas consiguió sus primeros 5 clientes"`},
			{ID: "authority", Label: "¿Qué puntos de autoridad tienes?", Placeholder: "Ej: +100k seguidores, 5 años de experiencia, premios, entrevistas"},
		},
	},
}
