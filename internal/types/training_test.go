package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingSteps_AddressEveryField(t *testing.T) {
	var d TrainingData
	count := 0
	for _, step := range TrainingSteps {
		for _, q := range step.Questions {
			require.NoError(t, d.Set(step.ID, q.ID, step.ID+"/"+q.ID))
			count++
		}
	}
	assert.Equal(t, 20, count)
	assert.Empty(t, d.Missing())

	// Every JSON field was reached through the catalog.
	data, err := json.Marshal(d)
	require.NoError(t, err)
	var sections map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &sections))
	for section, fields := range sections {
		for question, value := range fields {
			assert.Equal(t, section+"/"+question, value)
		}
	}
}

func TestTrainingData_GetUnknown(t *testing.T) {
	var d TrainingData
	_, err := d.Get("brandVoice", "color")
	assert.Error(t, err)
	assert.Error(t, d.Set("nope", "tone", "x"))
}

func TestTrainingData_Missing(t *testing.T) {
	var d TrainingData
	d.BrandVoice.Tone = "cercana"
	d.Results.Authority = "  "

	missing := d.Missing()
	assert.Len(t, missing, 19)
	assert.Equal(t, "brandVoice.phrases", missing[0])
	assert.Contains(t, missing, "results.authority")
	assert.NotContains(t, missing, "brandVoice.tone")
}
