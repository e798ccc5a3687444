// Package submit owns the interactive submission flow's state machine. The
// TUI layer renders and feeds it, but the transitions live here because they
// encode the submission protocol's sequencing.
package submit

import (
	"github.com/slate-tui/slate/internal/domain"
)

// State is the wizard's current step.
type State int

const (
	StateHidden State = iota
	StateTypePicker
	StateURLInput
	StateFileInput
	StateTextPreview
	StateConfirming
	StateSubmitting
	StateDone
)

// Action tells the caller what side effect a transition requires.
type Action int

const (
	// ActionNone requires nothing from the caller.
	ActionNone Action = iota
	// ActionEditText asks the caller to run the external editor round-trip
	// and report back via EditorResult.
	ActionEditText
	// ActionSubmit asks the caller to start the submission pipeline with
	// the request from Request() and report back via Finish.
	ActionSubmit
)

// Wizard drives one submission flow. The target (course id, assignment id)
// is fixed when the wizard opens, from whichever selection was active then.
type Wizard struct {
	state State

	courseID       int64
	assignmentID   int64
	assignmentName string

	kinds  []domain.SubmissionKind
	cursor int
	kind   domain.SubmissionKind

	content string

	// generation invalidates pipeline results the user lost interest in:
	// Esc during Submitting bumps it, so the still-running call's eventual
	// result no longer matches and is dropped.
	generation int

	success bool
	message string
}

// Open starts a flow for the given assignment. It computes the supported
// submission kinds up front; when none are compatible the wizard stays
// hidden and the returned reason explains why.
func (w *Wizard) Open(courseID int64, a domain.Assignment) (ok bool, reason string) {
	if w.state == StateSubmitting {
		// An abandoned pipeline call may still be running; a new flow can
		// start regardless, its results are distinguished by generation.
		w.generation++
	}

	kinds := domain.SupportedKinds(a.SubmissionTypes)
	if len(kinds) == 0 {
		w.state = StateHidden
		return false, "No supported submission type for this assignment"
	}

	w.state = StateTypePicker
	w.courseID = courseID
	w.assignmentID = a.ID
	w.assignmentName = a.DisplayName()
	w.kinds = kinds
	w.cursor = 0
	w.content = ""
	w.success = false
	w.message = ""
	return true, ""
}

// State returns the current step.
func (w *Wizard) State() State { return w.state }

// Visible reports whether any modal should be drawn.
func (w *Wizard) Visible() bool { return w.state != StateHidden }

// Kinds returns the supported kinds shown by the type picker.
func (w *Wizard) Kinds() []domain.SubmissionKind { return w.kinds }

// Cursor returns the type picker's cursor position.
func (w *Wizard) Cursor() int { return w.cursor }

// Kind returns the chosen submission kind.
func (w *Wizard) Kind() domain.SubmissionKind { return w.kind }

// Content returns the collected text body, URL, or file path.
func (w *Wizard) Content() string { return w.content }

// AssignmentName returns the display name of the flow's target.
func (w *Wizard) AssignmentName() string { return w.assignmentName }

// Result returns the outcome shown by the Done modal.
func (w *Wizard) Result() (success bool, message string) {
	return w.success, w.message
}

// MoveCursor moves the type picker cursor, clamped to the supported kinds.
func (w *Wizard) MoveCursor(delta int) {
	if w.state != StateTypePicker {
		return
	}
	next := w.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(w.kinds) {
		next = len(w.kinds) - 1
	}
	w.cursor = next
}

// Select confirms the type picker's cursor choice and advances to the
// matching input step.
func (w *Wizard) Select() Action {
	if w.state != StateTypePicker || len(w.kinds) == 0 {
		return ActionNone
	}
	w.kind = w.kinds[w.cursor]
	switch w.kind {
	case domain.SubmitText:
		return ActionEditText
	case domain.SubmitURL:
		w.state = StateURLInput
	case domain.SubmitFile:
		w.state = StateFileInput
	}
	return ActionNone
}

// EditorResult reports the external editor round-trip's output. Empty
// content cancels back to the type picker; anything else advances to the
// preview gate.
func (w *Wizard) EditorResult(text string) {
	if w.state != StateTypePicker {
		return
	}
	if text == "" {
		return
	}
	w.content = text
	w.state = StateTextPreview
}

// ConfirmInput accepts the URL or file-path buffer. An empty buffer is
// ignored; a non-empty one advances to the confirmation gate.
func (w *Wizard) ConfirmInput(value string) {
	if w.state != StateURLInput && w.state != StateFileInput {
		return
	}
	if value == "" {
		return
	}
	w.content = value
	w.state = StateConfirming
}

// Approve passes the explicit yes/no gate and moves to Submitting. It
// returns the pipeline request and the generation token the caller must
// hand back to Finish. A wizard already in Submitting never approves a
// second concurrent call.
func (w *Wizard) Approve() (req domain.SubmissionRequest, generation int, ok bool) {
	if w.state != StateTextPreview && w.state != StateConfirming {
		return domain.SubmissionRequest{}, 0, false
	}
	w.state = StateSubmitting
	w.generation++
	return domain.SubmissionRequest{
		CourseID:     w.courseID,
		AssignmentID: w.assignmentID,
		Kind:         w.kind,
		Content:      w.content,
	}, w.generation, true
}

// Finish records the pipeline's outcome. Results carrying a stale
// generation (the user cancelled interest, or a newer flow started) are
// dropped.
func (w *Wizard) Finish(generation int, success bool, message string) {
	if w.state != StateSubmitting || generation != w.generation {
		return
	}
	w.state = StateDone
	w.success = success
	w.message = message
}

// Dismiss closes the Done modal. It reports whether the application should
// schedule a fresh sync pass (only after a successful submission).
func (w *Wizard) Dismiss() (needsSync bool) {
	if w.state != StateDone {
		return false
	}
	w.state = StateHidden
	return w.success
}

// Cancel handles Esc for the current step. From Submitting it only discards
// interest in the pending result; the pipeline call itself is not aborted.
func (w *Wizard) Cancel() {
	switch w.state {
	case StateTypePicker:
		w.state = StateHidden
	case StateURLInput, StateFileInput, StateTextPreview, StateConfirming:
		w.state = StateTypePicker
		w.content = ""
	case StateSubmitting:
		w.generation++
		w.state = StateTypePicker
		w.content = ""
	case StateDone:
		w.state = StateHidden
	}
}
