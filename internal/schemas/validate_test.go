package schemas

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diagnosisSchema() *Schema {
	item := Object("item", map[string]*Schema{
		"question":  String("q"),
		"diagnosis": String("d"),
	}, "question", "diagnosis")
	return Object("root", map[string]*Schema{
		"diagnosis": Array("six items", item).WithItemCount(6, 6),
	}, "diagnosis")
}

func TestValidate_Response(t *testing.T) {
	item := `{"question": "¿Qué?", "diagnosis": "Vago"}`
	six := `{"diagnosis": [` + item + `,` + item + `,` + item + `,` + item + `,` + item + `,` + item + `]}`
	five := `{"diagnosis": [` + item + `,` + item + `,` + item + `,` + item + `,` + item + `]}`

	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{name: "exactly six", doc: six},
		{name: "five items", doc: five, wantErr: true},
		{name: "missing key", doc: `{}`, wantErr: true},
		{name: "wrong item shape", doc: `{"diagnosis": [1,2,3,4,5,6]}`, wantErr: true},
		{name: "empty strings", doc: `{"diagnosis": [{"question": "", "diagnosis": ""}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(diagnosisSchema(), tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "error should be ValidationError type")
			assert.NotEmpty(t, ve.Errors)
			assert.NotEmpty(t, ve.Summary())
		})
	}
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := Validate(diagnosisSchema(), "{ not json")
	require.Error(t, err)
	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}

func TestSchema_Document(t *testing.T) {
	doc := diagnosisSchema().Document()
	assert.Equal(t, "http://json-schema.org/draft-07/schema#", doc["$schema"])
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []string{"diagnosis"}, doc["required"])

	props := doc["properties"].(map[string]any)
	arr := props["diagnosis"].(map[string]any)
	assert.Equal(t, 6, arr["minItems"])
	assert.Equal(t, 6, arr["maxItems"])

	var roundTrip map[string]any
	require.NoError(t, json.Unmarshal([]byte(diagnosisSchema().String()), &roundTrip))
	assert.Equal(t, "object", roundTrip["type"])
}

func TestSchema_PropertyNames(t *testing.T) {
	s := Object("", map[string]*Schema{"b": String(""), "a": String("")})
	assert.Equal(t, []string{"a", "b"}, s.PropertyNames())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "copy", Message: "Invalid type"},
		{Field: "ctaExamples", Message: "Array must have at least 3 items"},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "1. copy: Invalid type")
	assert.Contains(t, msg, "2. ctaExamples")
	assert.Equal(t, "copy: Invalid type; ctaExamples: Array must have at least 3 items", err.Summary())
}

func TestValidateDocument_PersistedState(t *testing.T) {
	valid := `{
		"profiles": [{
			"id": "p1", "name": "Marca",
			"data": {"brandVoice": {"tone": "cercana"}},
			"savedHooks": [{"id": "h1", "text": "hook", "createdAt": "2026-01-01T00:00:00Z"}],
			"savedScripts": null
		}],
		"activeProfileId": "p1"
	}`
	assert.NoError(t, ValidateDocument(PersistedState, []byte(valid)))
	assert.NoError(t, ValidateDocument(PersistedState, []byte(`{"profiles": [], "activeProfileId": null}`)))

	// individual profiles are repaired by the loader, not rejected here
	assert.NoError(t, ValidateDocument(PersistedState, []byte(`{"profiles": [{"name": "sin id", "data": null}, 7]}`)))

	err := ValidateDocument(PersistedState, []byte(`{"profiles": "nope"}`))
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	err = ValidateDocument(PersistedState, []byte(`{"profiles": [], "activeProfileId": 3}`))
	assert.True(t, errors.As(err, &ve))

	err = ValidateDocument("missing.schema.json", []byte(`{}`))
	var le *SchemaLoadError
	assert.True(t, errors.As(err, &le))
}
