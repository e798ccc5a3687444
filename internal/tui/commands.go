package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/slate-tui/slate/internal/canvas"
	"github.com/slate-tui/slate/internal/domain"
)

// Command factories for async operations

// TickCmd returns a command that sends a tick after a delay.
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay.
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// SubmitCmd runs one submission pipeline call in the background. The result
// carries the wizard generation so an abandoned call's outcome is ignored.
func SubmitCmd(client *canvas.Client, req domain.SubmissionRequest, generation int) tea.Cmd {
	return func() tea.Msg {
		sub, err := client.Submit(context.Background(), req)
		if err != nil {
			return SubmissionDoneMsg{Generation: generation, Success: false, Message: err.Error()}
		}
		msg := "Submission received"
		if sub.Attempt > 0 {
			msg = fmt.Sprintf("Submission received (attempt %d)", sub.Attempt)
		}
		return SubmissionDoneMsg{Generation: generation, Success: true, Message: msg}
	}
}

// EditTextCmd suspends the TUI, runs $EDITOR on a scratch file, and reports
// the file's trimmed contents when the editor exits.
func EditTextCmd() tea.Cmd {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	tmp, err := os.CreateTemp("", "slate-submission-*.txt")
	if err != nil {
		return func() tea.Msg { return EditorFinishedMsg{Err: err} }
	}
	tmp.Close()
	path := tmp.Name()

	cmd := exec.Command(editor, path)
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(path)
		if err != nil {
			return EditorFinishedMsg{Err: err}
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return EditorFinishedMsg{Err: readErr}
		}
		return EditorFinishedMsg{Content: strings.TrimRight(string(data), "\n")}
	})
}
