// Package profile owns the list of brand profiles, the active selection and each profile's
// saved hooks and scripts. It is the only writer of the persisted state blob.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/content-studio/internal/kv"
	"github.com/jonathan/content-studio/internal/schemas"
	"github.com/jonathan/content-studio/internal/types"
)

// StorageKey is the key the whole state is stored under.
const StorageKey = "wookcomIaContentData"

// UnnamedProfile replaces a blank name found in stored data.
const UnnamedProfile = "Perfil sin nombre"

// State is the persisted document.
type State struct {
	Profiles        []types.Profile `json:"profiles"`
	ActiveProfileID *string         `json:"activeProfileId"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{Profiles: make([]types.Profile, len(s.Profiles))}
	for i, p := range s.Profiles {
		out.Profiles[i] = p.Clone()
	}
	if s.ActiveProfileID != nil {
		id := *s.ActiveProfileID
		out.ActiveProfileID = &id
	}
	return out
}

// Store serializes all mutations and rewrites the full state after each one.
// Persistence failures are logged; the in-memory state stays authoritative.
type Store struct {
	mu      sync.Mutex
	backend kv.Store
	state   State

	now   func() time.Time
	newID func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Load reads the persisted state from backend. A missing or unreadable blob starts an empty
// store, and unreadable profiles inside a readable blob are skipped. Only a backend failure
// is returned.
func Load(ctx context.Context, backend kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := backend.Get(ctx, StorageKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		s.state = State{Profiles: []types.Profile{}}
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	state, err := decodeState(data)
	if err != nil {
		slog.Warn("ignoring unreadable profile data", "key", StorageKey, "error", err)
		state = State{}
	}
	s.state = sanitize(state)
	return s, nil
}

// storedState is the persisted document with each profile left undecoded, so one bad entry
// cannot take the others down with it.
type storedState struct {
	Profiles        []json.RawMessage `json:"profiles"`
	ActiveProfileID *string           `json:"activeProfileId"`
}

func decodeState(data []byte) (State, error) {
	if err := schemas.ValidateDocument(schemas.PersistedState, data); err != nil {
		var verr *schemas.ValidationError
		if errors.As(err, &verr) {
			return State{}, fmt.Errorf("invalid profile data: %s", verr.Summary())
		}
		return State{}, err
	}
	var stored storedState
	if err := json.Unmarshal(data, &stored); err != nil {
		return State{}, fmt.Errorf("failed to decode profile data: %w", err)
	}

	state := State{
		Profiles:        make([]types.Profile, 0, len(stored.Profiles)),
		ActiveProfileID: stored.ActiveProfileID,
	}
	seen := make(map[string]bool, len(stored.Profiles))
	for i, raw := range stored.Profiles {
		var p types.Profile
		if err := json.Unmarshal(raw, &p); err != nil {
			slog.Warn("skipping unreadable profile", "index", i, "error", err)
			continue
		}
		if strings.TrimSpace(p.ID) == "" {
			slog.Warn("skipping profile without id", "index", i, "name", p.Name)
			continue
		}
		if seen[p.ID] {
			slog.Warn("skipping duplicate profile", "index", i, "id", p.ID)
			continue
		}
		seen[p.ID] = true
		state.Profiles = append(state.Profiles, p)
	}
	return state, nil
}

// sanitize repairs loaded profiles field by field and makes sure a profile is active
// whenever any exist.
func sanitize(state State) State {
	if state.Profiles == nil {
		state.Profiles = []types.Profile{}
	}
	for i := range state.Profiles {
		p := &state.Profiles[i]
		if strings.TrimSpace(p.Name) == "" {
			slog.Warn("repairing profile without name", "id", p.ID)
			p.Name = UnnamedProfile
		}
		p.SavedHooks = slices.DeleteFunc(p.SavedHooks, func(h types.SavedHook) bool {
			if strings.TrimSpace(h.Text) == "" {
				slog.Warn("dropping saved hook without text", "profile", p.ID, "hook", h.ID)
				return true
			}
			return false
		})
		if p.SavedHooks == nil {
			p.SavedHooks = []types.SavedHook{}
		}
		p.SavedScripts = slices.DeleteFunc(p.SavedScripts, func(sc types.SavedScript) bool {
			if strings.TrimSpace(sc.Hook) == "" {
				slog.Warn("dropping saved script without hook", "profile", p.ID, "script", sc.ID)
				return true
			}
			return false
		})
		if p.SavedScripts == nil {
			p.SavedScripts = []types.SavedScript{}
		}
	}
	if state.ActiveProfileID == nil || indexOf(state.Profiles, *state.ActiveProfileID) < 0 {
		state.ActiveProfileID = firstID(state.Profiles)
	}
	return state
}

func indexOf(profiles []types.Profile, id string) int {
	return slices.IndexFunc(profiles, func(p types.Profile) bool { return p.ID == id })
}

func firstID(profiles []types.Profile) *string {
	if len(profiles) == 0 {
		return nil
	}
	id := profiles[0].ID
	return &id
}

// persist writes the whole state. Callers hold mu.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.state)
	if err != nil {
		slog.Warn("failed to encode profiles", "error", err)
		return
	}
	if err := s.backend.Put(ctx, StorageKey, data); err != nil {
		slog.Warn("failed to persist profiles", "key", StorageKey, "error", err)
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// active returns the index of the active profile or -1. Callers hold mu.
func (s *Store) active() int {
	if s.state.ActiveProfileID == nil {
		return -1
	}
	return indexOf(s.state.Profiles, *s.state.ActiveProfileID)
}

// Create appends a new profile and makes it active.
func (s *Store) Create(ctx context.Context, name string, data types.TrainingData) (types.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Profile{}, &ValidationError{Message: "profile name is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := types.Profile{
		ID:           s.newID(),
		Name:         name,
		Data:         data,
		SavedHooks:   []types.SavedHook{},
		SavedScripts: []types.SavedScript{},
	}
	s.state.Profiles = append(s.state.Profiles, p)
	id := p.ID
	s.state.ActiveProfileID = &id
	s.persist(ctx)

	slog.Debug("profile created", "id", p.ID, "name", p.Name)
	return p.Clone(), nil
}

// Update replaces a profile's name and training data. Saved hooks and scripts are kept.
func (s *Store) Update(ctx context.Context, id, name string, data types.TrainingData) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &ValidationError{Message: "profile name is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.state.Profiles, id)
	if i < 0 {
		return &NotFoundError{Kind: "profile", ID: id}
	}
	s.state.Profiles[i].Name = name
	s.state.Profiles[i].Data = data
	s.persist(ctx)
	return nil
}

// Delete removes a profile. Deleting the active profile selects the first remaining one, or none.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.state.Profiles, id)
	if i < 0 {
		return &NotFoundError{Kind: "profile", ID: id}
	}
	s.state.Profiles = slices.Delete(s.state.Profiles, i, i+1)
	if s.state.ActiveProfileID != nil && *s.state.ActiveProfileID == id {
		s.state.ActiveProfileID = firstID(s.state.Profiles)
	}
	s.persist(ctx)
	return nil
}

// SetActive selects the active profile.
func (s *Store) SetActive(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.state.Profiles, id) < 0 {
		return &NotFoundError{Kind: "profile", ID: id}
	}
	s.state.ActiveProfileID = &id
	s.persist(ctx)
	return nil
}

// SaveHook prepends a hook to the active profile. It reports false, without writing,
// when no profile is active or the same text is already saved.
func (s *Store) SaveHook(ctx context.Context, text string) (types.SavedHook, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.active()
	if i < 0 || s.state.Profiles[i].HasHook(text) {
		return types.SavedHook{}, false
	}

	hook := types.SavedHook{ID: s.newID(), Text: text, CreatedAt: s.timestamp()}
	p := &s.state.Profiles[i]
	p.SavedHooks = append([]types.SavedHook{hook}, p.SavedHooks...)
	s.persist(ctx)
	return hook, true
}

// DeleteHook removes a saved hook from the active profile.
func (s *Store) DeleteHook(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.active()
	if i < 0 {
		return &NotFoundError{Kind: "hook", ID: id}
	}
	p := &s.state.Profiles[i]
	j := slices.IndexFunc(p.SavedHooks, func(h types.SavedHook) bool { return h.ID == id })
	if j < 0 {
		return &NotFoundError{Kind: "hook", ID: id}
	}
	p.SavedHooks = slices.Delete(p.SavedHooks, j, j+1)
	s.persist(ctx)
	return nil
}

// SaveScript prepends a script to the active profile. It reports false when no profile is active.
func (s *Store) SaveScript(ctx context.Context, entry types.ScriptEntry) (types.SavedScript, bool, error) {
	if err := entry.Validate(); err != nil {
		return types.SavedScript{}, false, &ValidationError{Message: "invalid script", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.active()
	if i < 0 {
		return types.SavedScript{}, false, nil
	}

	saved := types.SavedScript{
		ID:        s.newID(),
		Hook:      entry.Hook,
		Script:    entry.Script,
		Platform:  entry.Platform,
		Duration:  entry.Duration,
		CreatedAt: s.timestamp(),
	}
	p := &s.state.Profiles[i]
	p.SavedScripts = append([]types.SavedScript{saved}, p.SavedScripts...)
	s.persist(ctx)
	return saved, true, nil
}

// DeleteScript removes a saved script from the active profile.
func (s *Store) DeleteScript(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.active()
	if i < 0 {
		return &NotFoundError{Kind: "script", ID: id}
	}
	p := &s.state.Profiles[i]
	j := slices.IndexFunc(p.SavedScripts, func(sc types.SavedScript) bool { return sc.ID == id })
	if j < 0 {
		return &NotFoundError{Kind: "script", ID: id}
	}
	p.SavedScripts = slices.Delete(p.SavedScripts, j, j+1)
	s.persist(ctx)
	return nil
}

// Profiles returns copies of all profiles in list order.
func (s *Store) Profiles() []types.Profile {
	return s.Snapshot().Profiles
}

// Get returns a copy of one profile.
func (s *Store) Get(id string) (types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.state.Profiles, id)
	if i < 0 {
		return types.Profile{}, &NotFoundError{Kind: "profile", ID: id}
	}
	return s.state.Profiles[i].Clone(), nil
}

// Active returns a copy of the active profile.
func (s *Store) Active() (types.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.active()
	if i < 0 {
		return types.Profile{}, false
	}
	return s.state.Profiles[i].Clone(), true
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
