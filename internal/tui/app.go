package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/slate-tui/slate/internal/canvas"
	"github.com/slate-tui/slate/internal/domain"
	"github.com/slate-tui/slate/internal/submit"
	datasync "github.com/slate-tui/slate/internal/sync"
)

// Tab identifies one of the top-level views.
type Tab int

const (
	TabDashboard Tab = iota
	TabCourses
	TabAssignments
	TabCalendar
	TabAnnouncements
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "Dashboard"
	case TabCourses:
		return "Courses"
	case TabAssignments:
		return "Assignments"
	case TabCalendar:
		return "Calendar"
	case TabAnnouncements:
		return "Announcements"
	}
	return "?"
}

// SortMode orders the assignment list.
type SortMode int

const (
	SortDueAsc SortMode = iota
	SortDueDesc
	SortCourse
	SortStatus
	sortModeCount
)

func (s SortMode) String() string {
	switch s {
	case SortDueAsc:
		return "due ↑"
	case SortDueDesc:
		return "due ↓"
	case SortCourse:
		return "course"
	case SortStatus:
		return "status"
	}
	return "?"
}

// assignmentRow is one flattened entry of the assignment list, carrying its
// course name alongside the assignment.
type assignmentRow struct {
	CourseName string
	Assignment domain.Assignment
}

const tickInterval = 250 * time.Millisecond

// Model is the main Bubble Tea model for the application.
type Model struct {
	client *canvas.Client
	orch   *datasync.Orchestrator
	logger *slog.Logger

	// Data
	snapshot domain.Snapshot
	haveData bool
	calendar []domain.CalendarItem
	grades   []domain.CourseGrade
	focalID  int64

	// Sync state
	handle *datasync.Handle

	// Navigation
	activeTab        Tab
	dashboardList    ListState
	courseList       ListState
	assignmentList   ListState
	calendarList     ListState
	announcementList ListState

	// Assignment list shaping
	rows         []assignmentRow
	sortMode     SortMode
	courseFilter map[string]bool

	// Course filter popup
	filterOpen    bool
	filterInput   textinput.Model
	filterCursor  int
	filterChoices []string

	// Fuzzy search over assignments
	searchTyping bool
	searchInput  textinput.Model

	// Submission flow
	wizard      submit.Wizard
	wizardInput textinput.Model

	// UI state
	statusMsg   string
	statusIsErr bool
	width       int
	height      int
	ready       bool
}

// NewModel creates the application model. cached may be nil when no snapshot
// was loadable; the UI then starts empty and waits for the first sync.
func NewModel(client *canvas.Client, orch *datasync.Orchestrator, logger *slog.Logger, cached *domain.Snapshot) Model {
	if logger == nil {
		logger = slog.Default()
	}

	filterInput := textinput.New()
	filterInput.Placeholder = "type to match courses"
	filterInput.CharLimit = 64

	searchInput := textinput.New()
	searchInput.Placeholder = "filter assignments"
	searchInput.Prompt = "/"
	searchInput.CharLimit = 64

	wizardInput := textinput.New()
	wizardInput.CharLimit = 512

	m := Model{
		client:       client,
		orch:         orch,
		logger:       logger,
		courseFilter: make(map[string]bool),
		filterInput:  filterInput,
		searchInput:  searchInput,
		wizardInput:  wizardInput,
	}
	if cached != nil {
		m.snapshot = *cached
		m.haveData = true
		m.rebuild()
	}
	return m
}

// Init starts the background sync and the poll tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return StartSyncMsg{} },
		TickCmd(tickInterval),
	)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case StartSyncMsg:
		return m.startSync()

	case TickMsg:
		if r, ok := m.handle.Poll(); ok {
			m.handle = nil
			return m.applyResult(r, TickCmd(tickInterval))
		}
		return m, TickCmd(tickInterval)

	case SubmissionDoneMsg:
		m.wizard.Finish(msg.Generation, msg.Success, msg.Message)
		return m, nil

	case EditorFinishedMsg:
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("Editor error: %v", msg.Err)
			m.statusIsErr = true
			return m, ClearStatusCmd(5 * time.Second)
		}
		m.wizard.EditorResult(msg.Content)
		return m, nil

	case ClearStatusMsg:
		m.statusMsg = ""
		m.statusIsErr = false
		return m, nil
	}

	return m, nil
}

// startSync launches a background pass unless one is already outstanding.
func (m Model) startSync() (tea.Model, tea.Cmd) {
	h := m.orch.Start(context.Background())
	if h == nil {
		return m, nil
	}
	m.handle = h
	m.statusMsg = "Syncing fresh data..."
	m.statusIsErr = false
	return m, nil
}

// applyResult merges a completed pass into the model. A pass that failed
// before fetching the profile carries nothing usable and only reports its
// error; anything later is applied even when the pass also reports one.
func (m Model) applyResult(r datasync.Result, tick tea.Cmd) (tea.Model, tea.Cmd) {
	if r.Snapshot.User == nil {
		m.statusMsg = fmt.Sprintf("Sync error: %s", r.Err)
		m.statusIsErr = true
		m.logger.Error("sync failed", "error", r.Err)
		return m, tea.Batch(tick, ClearStatusCmd(8*time.Second))
	}

	m.snapshot = r.Snapshot
	m.haveData = true
	m.rebuild()

	if r.Err != nil {
		m.statusMsg = fmt.Sprintf("Sync error: %s", r.Err)
		m.statusIsErr = true
		m.logger.Warn("sync completed with error", "error", r.Err)
	} else {
		m.statusMsg = fmt.Sprintf("Welcome, %s! %d courses loaded. Synced %s.",
			r.Snapshot.User.DisplayName(),
			len(r.Snapshot.Courses),
			r.Snapshot.CachedAt.Local().Format("15:04"))
		m.statusIsErr = false
	}
	return m, tea.Batch(tick, ClearStatusCmd(8*time.Second))
}

// rebuild recomputes everything derived from the snapshot: the merged
// timeline, grades, the focal assignment, and the shaped assignment rows.
func (m *Model) rebuild() {
	now := time.Now()
	m.calendar = domain.MergeCalendar(m.snapshot.CalendarEvents, m.snapshot.Assignments, now)
	m.grades = domain.ExtractGrades(m.snapshot.Courses)
	m.focalID = focalAssignment(m.snapshot.Assignments, now)
	m.rebuildRows()

	m.courseList.SetLen(len(m.snapshot.Courses))
	m.announcementList.SetLen(len(m.snapshot.Announcements))

	m.calendarList.SetLen(len(m.calendar))
	m.calendarList.Selected = domain.TodayIndex(m.calendar, now)

	m.dashboardList.SetLen(len(m.upcomingItems(now)))
}

// upcomingItems returns the timeline entries from today forward, capped for
// the dashboard.
func (m *Model) upcomingItems(now time.Time) []domain.CalendarItem {
	start := domain.TodayIndex(m.calendar, now)
	if len(m.calendar) == 0 {
		return nil
	}
	items := m.calendar[start:]
	if len(items) > 8 {
		items = items[:8]
	}
	return items
}

// focalAssignment picks the next actionable deadline: the earliest-due
// assignment that is still unsubmitted and not yet past due.
func focalAssignment(groups []domain.CourseAssignments, now time.Time) int64 {
	var best *domain.Assignment
	for i := range groups {
		for j := range groups[i].Assignments {
			a := &groups[i].Assignments[j]
			if a.DueAt == nil || a.DueAt.Before(now) {
				continue
			}
			if sub := a.Submission; sub != nil {
				if sub.WorkflowState == domain.WorkflowSubmitted || sub.WorkflowState == domain.WorkflowGraded {
					continue
				}
			}
			if best == nil || a.DueAt.Before(*best.DueAt) {
				best = a
			}
		}
	}
	if best == nil {
		return 0
	}
	return best.ID
}

// handleKeyMsg routes keyboard input. Modal surfaces swallow keys before the
// global bindings see them.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.wizard.Visible() {
		return m.handleWizardKey(msg)
	}
	if m.filterOpen {
		return m.handleFilterKey(msg)
	}
	if m.searchTyping {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		return m, nil
	case "1":
		m.activeTab = TabDashboard
		return m, nil
	case "2":
		m.activeTab = TabCourses
		return m, nil
	case "3":
		m.activeTab = TabAssignments
		return m, nil
	case "4":
		m.activeTab = TabCalendar
		return m, nil
	case "5":
		m.activeTab = TabAnnouncements
		return m, nil

	case "j", "down":
		m.activeList().SelectNext()
		return m, nil
	case "k", "up":
		m.activeList().SelectPrev()
		return m, nil
	case "g", "home":
		m.activeList().Home()
		return m, nil
	case "G", "end":
		m.activeList().End()
		return m, nil

	case "t":
		if m.activeTab == TabCalendar {
			m.calendarList.Selected = domain.TodayIndex(m.calendar, time.Now())
		}
		return m, nil

	case "r":
		return m.startSync()

	case "s":
		if m.activeTab == TabAssignments {
			m.sortMode = (m.sortMode + 1) % sortModeCount
			m.rebuildRows()
		}
		return m, nil

	case "f":
		if m.activeTab == TabAssignments {
			m.openFilterPopup()
		}
		return m, nil

	case "/":
		if m.activeTab == TabAssignments {
			m.searchTyping = true
			m.searchInput.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case "esc":
		if m.activeTab == TabAssignments && m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.rebuildRows()
		}
		return m, nil

	case "enter":
		return m.handleEnter()
	}

	return m, nil
}

// handleEnter acts on the selected row of the active tab.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	switch m.activeTab {
	case TabAssignments:
		if m.assignmentList.Selected >= len(m.rows) {
			return m, nil
		}
		row := m.rows[m.assignmentList.Selected]
		courseID := row.Assignment.CourseID
		if courseID == 0 {
			courseID = m.courseIDByName(row.CourseName)
		}
		if ok, reason := m.wizard.Open(courseID, row.Assignment); !ok {
			m.statusMsg = reason
			m.statusIsErr = false
			return m, ClearStatusCmd(4 * time.Second)
		}
		return m, nil

	case TabCalendar:
		if m.calendarList.Selected >= len(m.calendar) {
			return m, nil
		}
		item := m.calendar[m.calendarList.Selected]
		if item.AssignmentID == 0 {
			return m, nil
		}
		// Jump to the assignment on its own tab.
		m.activeTab = TabAssignments
		m.searchInput.SetValue("")
		m.courseFilter = make(map[string]bool)
		m.rebuildRows()
		for i, row := range m.rows {
			if row.Assignment.ID == item.AssignmentID {
				m.assignmentList.Selected = i
				break
			}
		}
		return m, nil
	}
	return m, nil
}

// handleWizardKey drives the submission modal.
func (m Model) handleWizardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.wizard.State() {
	case submit.StateTypePicker:
		switch msg.String() {
		case "j", "down":
			m.wizard.MoveCursor(1)
		case "k", "up":
			m.wizard.MoveCursor(-1)
		case "enter":
			if m.wizard.Select() == submit.ActionEditText {
				return m, EditTextCmd()
			}
			if m.wizard.State() == submit.StateURLInput || m.wizard.State() == submit.StateFileInput {
				m.wizardInput.SetValue("")
				if m.wizard.State() == submit.StateURLInput {
					m.wizardInput.Placeholder = "https://..."
				} else {
					m.wizardInput.Placeholder = "/path/to/file"
				}
				m.wizardInput.Focus()
				return m, textinput.Blink
			}
		case "esc":
			m.wizard.Cancel()
		}
		return m, nil

	case submit.StateURLInput, submit.StateFileInput:
		switch msg.String() {
		case "enter":
			m.wizard.ConfirmInput(m.wizardInput.Value())
			return m, nil
		case "esc":
			m.wizard.Cancel()
			return m, nil
		}
		var cmd tea.Cmd
		m.wizardInput, cmd = m.wizardInput.Update(msg)
		return m, cmd

	case submit.StateTextPreview, submit.StateConfirming:
		switch msg.String() {
		case "y", "enter":
			req, generation, ok := m.wizard.Approve()
			if !ok {
				return m, nil
			}
			return m, SubmitCmd(m.client, req, generation)
		case "n", "esc":
			m.wizard.Cancel()
		}
		return m, nil

	case submit.StateSubmitting:
		if msg.String() == "esc" {
			m.wizard.Cancel()
		}
		return m, nil

	case submit.StateDone:
		switch msg.String() {
		case "enter", "esc", "q":
			if m.wizard.Dismiss() {
				return m.startSync()
			}
		}
		return m, nil
	}
	return m, nil
}

// handleSearchKey feeds the fuzzy filter input while it has focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchTyping = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		m.searchTyping = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.rebuildRows()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.rebuildRows()
	return m, cmd
}

// activeList returns the list state backing the active tab.
func (m *Model) activeList() *ListState {
	switch m.activeTab {
	case TabDashboard:
		return &m.dashboardList
	case TabCourses:
		return &m.courseList
	case TabAssignments:
		return &m.assignmentList
	case TabCalendar:
		return &m.calendarList
	case TabAnnouncements:
		return &m.announcementList
	}
	return &m.dashboardList
}

// courseIDByName resolves a display name back to the course id. Assignment
// groups carry names only, so the lookup goes through the course list.
func (m *Model) courseIDByName(name string) int64 {
	for _, c := range m.snapshot.Courses {
		if c.DisplayName() == name {
			return c.ID
		}
	}
	return 0
}
