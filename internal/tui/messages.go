package tui

// Message types for the TUI

// TickMsg drives the spinner and the non-blocking sync poll.
type TickMsg struct{}

// ClearStatusMsg clears the status bar message.
type ClearStatusMsg struct{}

// StartSyncMsg asks the model to kick off a background sync pass.
type StartSyncMsg struct{}

// SubmissionDoneMsg carries one pipeline call's outcome back to the wizard.
// Generation ties it to the approval that started it; stale generations are
// dropped.
type SubmissionDoneMsg struct {
	Generation int
	Success    bool
	Message    string
}

// EditorFinishedMsg carries the external editor round-trip's result.
type EditorFinishedMsg struct {
	Content string
	Err     error
}
