package types

import (
	"fmt"
	"slices"
	"strings"
)

// HookCategory selects the angle of a batch of hooks.
type HookCategory string

const (
	CategoryPersonalLife HookCategory = "VIDA PERSONAL"
	CategoryOpinion      HookCategory = "OPINIÓN"
	CategoryEducational  HookCategory = "EDUCACIONAL"
)

// HookCategories lists the supported hook categories in display order.
var HookCategories = []HookCategory{CategoryPersonalLife, CategoryOpinion, CategoryEducational}

// IsValid reports whether c is a known category.
func (c HookCategory) IsValid() bool {
	return slices.Contains(HookCategories, c)
}

// Hook batch size bounds offered to users.
const (
	MinHookQuantity     = 5
	MaxHookQuantity     = 20
	DefaultHookQuantity = 10
)

// VideoPlatform is the short-video network a script targets.
type VideoPlatform string

const (
	PlatformInstagramReels VideoPlatform = "Instagram Reels"
	PlatformTikTok         VideoPlatform = "TikTok"
)

// PlatformDurations lists the selectable video lengths in seconds per platform.
var PlatformDurations = map[VideoPlatform][]int{
	PlatformInstagramReels: {15, 30, 60, 90},
	PlatformTikTok:         {15, 30, 60, 180},
}

// IsValid reports whether p is a known platform.
func (p VideoPlatform) IsValid() bool {
	_, ok := PlatformDurations[p]
	return ok
}

// DefaultDuration returns the first duration offered for the platform, or 0 if unknown.
func DefaultDuration(p VideoPlatform) int {
	durations := PlatformDurations[p]
	if len(durations) == 0 {
		return 0
	}
	return durations[0]
}

// ValidDuration reports whether seconds is offered for the platform.
func ValidDuration(p VideoPlatform, seconds int) bool {
	return slices.Contains(PlatformDurations[p], seconds)
}

// Script is a three-part short-video narration.
type Script struct {
	Intro       string `json:"intro" validate:"notblank"`
	Development string `json:"development" validate:"notblank"`
	Outro       string `json:"outro" validate:"notblank"`
}

// Format renders the script as plain text with section markers.
func (s Script) Format() string {
	return strings.TrimSpace(fmt.Sprintf("[INTRO]\n%s\n\n[DESARROLLO]\n%s\n\n[CIERRE]\n%s", s.Intro, s.Development, s.Outro))
}

// SavedHook is a hook kept in a profile.
type SavedHook struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// SavedScript is a generated script kept in a profile together with its target format.
type SavedScript struct {
	ID        string        `json:"id"`
	Hook      string        `json:"hook"`
	Script    Script        `json:"script"`
	Platform  VideoPlatform `json:"platform"`
	Duration  int           `json:"duration"`
	CreatedAt string        `json:"createdAt"`
}

// ScriptEntry is the caller-supplied part of a SavedScript.
type ScriptEntry struct {
	Hook     string        `json:"hook" validate:"notblank"`
	Script   Script        `json:"script"`
	Platform VideoPlatform `json:"platform" validate:"videoplatform"`
	Duration int           `json:"duration" validate:"gt=0"`
}

// Validate checks the entry fields and that the duration is offered by the platform.
func (e *ScriptEntry) Validate() error {
	if err := Validate(e); err != nil {
		return err
	}
	if !ValidDuration(e.Platform, e.Duration) {
		return fmt.Errorf("duration %ds is not offered for %s", e.Duration, e.Platform)
	}
	return nil
}

// Profile is a named brand context with its saved artifacts.
type Profile struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Data         TrainingData  `json:"data"`
	SavedHooks   []SavedHook   `json:"savedHooks"`
	SavedScripts []SavedScript `json:"savedScripts"`
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.SavedHooks = append([]SavedHook{}, p.SavedHooks...)
	out.SavedScripts = append([]SavedScript{}, p.SavedScripts...)
	return out
}

// HasHook reports whether a hook with exactly this text is already saved.
func (p Profile) HasHook(text string) bool {
	for _, h := range p.SavedHooks {
		if h.Text == text {
			return true
		}
	}
	return false
}
