// Package workflow sequences the ad-copy consultation: diagnose a script, refine six answers
// (optionally with model help) and generate the final copy.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/jonathan/content-studio/internal/gateway"
	"github.com/jonathan/content-studio/internal/types"
)

// State is a workflow step.
type State string

// Workflow states
const (
	StateInput      State = "input"
	StateDiagnosing State = "diagnosing"
	StateRefining   State = "refining"
	StateGenerating State = "generating"
	StateResult     State = "result"
)

// Generator performs the model calls the workflow needs. Both the in-process gateway and the
// HTTP client implement it.
type Generator interface {
	DiagnoseAdScript(ctx context.Context, req gateway.DiagnoseRequest) (types.Diagnosis, error)
	ImproveAdCopyAnswer(ctx context.Context, req gateway.ImproveRequest) (string, error)
	GenerateAdCopy(ctx context.Context, req gateway.AdCopyRequest) (types.AdCopyResult, error)
}

// Snapshot is a copy of the workflow state for rendering.
type Snapshot struct {
	State         State
	ContentType   types.AdContentType
	Script        string
	Diagnosis     types.Diagnosis
	Answers       types.RefinedAnswers
	Result        *types.AdCopyResult
	Error         string
	Improving     map[types.AnswerKey]bool
	ImproveErrors map[types.AnswerKey]string
}

// Busy reports whether a diagnosis or final copy request is in flight.
func (s Snapshot) Busy() bool {
	return s.State == StateDiagnosing || s.State == StateGenerating
}

// Workflow is safe for concurrent use. Model calls run without the lock held; results are
// applied only if no Reset happened in the meantime.
type Workflow struct {
	mu       sync.Mutex
	gen      Generator
	training types.TrainingData

	state       State
	contentType types.AdContentType
	script      string
	diagnosis   types.Diagnosis
	answers     types.RefinedAnswers
	result      *types.AdCopyResult
	err         string
	improving   map[types.AnswerKey]bool
	improveErrs map[types.AnswerKey]string

	// epoch increments on Reset; in-flight calls compare it before applying results
	epoch uint64
}

// New creates a workflow in the input state. training is the active profile's data, used
// when improving answers.
func New(gen Generator, training types.TrainingData) *Workflow {
	w := &Workflow{gen: gen, training: training}
	w.clear()
	return w
}

func (w *Workflow) clear() {
	w.state = StateInput
	w.contentType = types.ContentReel
	w.script = ""
	w.diagnosis = nil
	w.answers = types.RefinedAnswers{}
	w.result = nil
	w.err = ""
	w.improving = make(map[types.AnswerKey]bool)
	w.improveErrs = make(map[types.AnswerKey]string)
}

// SetContentType selects the ad format. Only allowed in the input state.
func (w *Workflow) SetContentType(t types.AdContentType) error {
	if !t.IsValid() {
		return fmt.Errorf("unknown content type %q", t)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateInput {
		return &TransitionError{From: w.state, Event: "change content type"}
	}
	w.contentType = t
	return nil
}

// SetScript sets the ad script to diagnose. Only allowed in the input state.
func (w *Workflow) SetScript(script string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateInput {
		return &TransitionError{From: w.state, Event: "edit script"}
	}
	w.script = script
	return nil
}

// SetTrainingData replaces the profile data used by ImproveAnswer.
func (w *Workflow) SetTrainingData(data types.TrainingData) {
	w.mu.Lock()
	w.training = data
	w.mu.Unlock()
}

// Submit diagnoses the script. On success the workflow moves to refining; on failure it
// returns to input with the error kept for display.
func (w *Workflow) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateInput {
		defer w.mu.Unlock()
		return &TransitionError{From: w.state, Event: "submit script"}
	}
	if strings.TrimSpace(w.script) == "" {
		w.err = MsgEmptyScript
		w.mu.Unlock()
		return &PreconditionError{Message: MsgEmptyScript}
	}
	w.state = StateDiagnosing
	w.err = ""
	epoch := w.epoch
	req := gateway.DiagnoseRequest{UserScript: w.script, ContentType: w.contentType}
	w.mu.Unlock()

	diagnosis, err := w.gen.DiagnoseAdScript(ctx, req)
	if err == nil && len(diagnosis) != types.DiagnosisLength {
		err = &gateway.FormatError{
			Action:  gateway.ActionDiagnoseAdScript,
			Message: MsgDiagnosisFormat,
			Cause:   fmt.Errorf("expected %d diagnosis items, got %d", types.DiagnosisLength, len(diagnosis)),
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		return ErrStale
	}
	if err != nil {
		w.err = err.Error()
		w.state = StateInput
		slog.Warn("diagnosis failed", "error", err)
		return err
	}
	w.diagnosis = slices.Clone(diagnosis)
	w.state = StateRefining
	return nil
}

// SetAnswer edits one refinement answer. Only allowed while refining.
func (w *Workflow) SetAnswer(key types.AnswerKey, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateRefining {
		return &TransitionError{From: w.state, Event: "edit answers"}
	}
	return w.answers.Set(key, value)
}

// ImproveAnswer replaces one answer with a model rewrite. Different keys may be improved
// concurrently; a failure only affects the key's own flag and error.
func (w *Workflow) ImproveAnswer(ctx context.Context, key types.AnswerKey) error {
	idx := key.Index()
	if idx < 0 {
		return fmt.Errorf("unknown answer key %q", key)
	}

	w.mu.Lock()
	if w.state != StateRefining {
		defer w.mu.Unlock()
		return &TransitionError{From: w.state, Event: "improve an answer"}
	}
	if w.improving[key] {
		w.mu.Unlock()
		return &PreconditionError{Message: fmt.Sprintf("answer %s is already being improved", key)}
	}
	w.improving[key] = true
	delete(w.improveErrs, key)
	epoch := w.epoch
	req := gateway.ImproveRequest{
		OriginalScript: w.script,
		DiagnosisItem:  w.diagnosis[idx],
		TrainingData:   w.training,
	}
	w.mu.Unlock()

	improved, err := w.gen.ImproveAdCopyAnswer(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		return ErrStale
	}
	w.improving[key] = false
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = MsgImproveFailed
		}
		w.improveErrs[key] = msg
		slog.Warn("answer improvement failed", "key", key, "error", err)
		return err
	}
	// the answer stays editable if the workflow has already moved on
	if w.state == StateRefining {
		_ = w.answers.Set(key, improved)
	}
	return nil
}

// Generate writes the final copy. It requires all six answers to be non-blank.
func (w *Workflow) Generate(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateRefining {
		defer w.mu.Unlock()
		return &TransitionError{From: w.state, Event: "generate copy"}
	}
	if !w.answers.Complete() {
		w.err = MsgIncompleteAnswers
		w.mu.Unlock()
		return &PreconditionError{Message: MsgIncompleteAnswers}
	}
	w.state = StateGenerating
	w.err = ""
	epoch := w.epoch
	req := gateway.AdCopyRequest{RefinedAnswers: w.answers, UserScript: w.script, ContentType: w.contentType}
	w.mu.Unlock()

	result, err := w.gen.GenerateAdCopy(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		return ErrStale
	}
	if err != nil {
		w.err = err.Error()
		w.state = StateRefining
		slog.Warn("copy generation failed", "error", err)
		return err
	}
	result.CTAExamples = slices.Clone(result.CTAExamples)
	w.result = &result
	w.state = StateResult
	return nil
}

// Reset discards all accumulated state and returns to input. Any request still in flight
// will have its result dropped.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.epoch++
	w.clear()
}

// State returns the current step.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		State:         w.state,
		ContentType:   w.contentType,
		Script:        w.script,
		Diagnosis:     slices.Clone(w.diagnosis),
		Answers:       w.answers,
		Error:         w.err,
		Improving:     maps.Clone(w.improving),
		ImproveErrors: maps.Clone(w.improveErrs),
	}
	if w.result != nil {
		r := *w.result
		r.CTAExamples = slices.Clone(w.result.CTAExamples)
		r.Copy.Slides = slices.Clone(w.result.Copy.Slides)
		s.Result = &r
	}
	return s
}
