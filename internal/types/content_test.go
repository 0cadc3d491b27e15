package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformDurations(t *testing.T) {
	tests := []struct {
		platform VideoPlatform
		seconds  int
		want     bool
	}{
		{PlatformInstagramReels, 90, true},
		{PlatformInstagramReels, 180, false},
		{PlatformTikTok, 180, true},
		{PlatformTikTok, 90, false},
		{VideoPlatform("YouTube"), 60, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidDuration(tt.platform, tt.seconds), "%s %d", tt.platform, tt.seconds)
	}

	assert.Equal(t, 15, DefaultDuration(PlatformTikTok))
	assert.Equal(t, 0, DefaultDuration("YouTube"))
}

func TestHookCategory_IsValid(t *testing.T) {
	for _, c := range HookCategories {
		assert.True(t, c.IsValid())
	}
	assert.False(t, HookCategory("OPINION").IsValid())
}

func TestScript_Format(t *testing.T) {
	s := Script{Intro: "Hola", Development: "Tres consejos", Outro: "Sígueme"}
	assert.Equal(t, "[INTRO]\nHola\n\n[DESARROLLO]\nTres consejos\n\n[CIERRE]\nSígueme", s.Format())
}

func TestScriptEntry_Validate(t *testing.T) {
	valid := ScriptEntry{
		Hook:     "Nadie te dice esto",
		Script:   Script{Intro: "a", Development: "b", Outro: "c"},
		Platform: PlatformTikTok,
		Duration: 180,
	}
	require.NoError(t, valid.Validate())

	wrongDuration := valid
	wrongDuration.Platform = PlatformInstagramReels
	err := wrongDuration.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not offered")

	missingOutro := valid
	missingOutro.Script.Outro = " "
	err = missingOutro.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script.outro is required")

	badPlatform := valid
	badPlatform.Platform = "Vine"
	err = badPlatform.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value")
}

func TestProfile_CloneIsDeep(t *testing.T) {
	p := Profile{ID: "1", SavedHooks: []SavedHook{{ID: "h", Text: "hook"}}}
	c := p.Clone()
	c.SavedHooks[0].Text = "changed"
	assert.Equal(t, "hook", p.SavedHooks[0].Text)
	assert.True(t, p.HasHook("hook"))
	assert.False(t, p.HasHook("changed"))
}
