package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/slate-tui/slate/internal/domain"
	"github.com/slate-tui/slate/internal/submit"
	"github.com/slate-tui/slate/internal/tui/styles"
)

const chromeHeight = 3 // tab bar + separator + status bar

// View renders the application.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	contentHeight := m.height - chromeHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	var content string
	switch m.activeTab {
	case TabDashboard:
		content = m.renderDashboard(contentHeight)
	case TabCourses:
		content = m.renderCourses(contentHeight)
	case TabAssignments:
		content = m.renderAssignments(contentHeight)
	case TabCalendar:
		content = m.renderCalendar(contentHeight)
	case TabAnnouncements:
		content = m.renderAnnouncements(contentHeight)
	}

	content = lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(content)

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabs(),
		content,
		m.renderStatusBar(),
	)

	if m.filterOpen {
		view = lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.renderFilterPopup())
	}
	if m.wizard.Visible() {
		view = lipgloss.Place(m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.renderWizardModal())
	}

	return view
}

// renderTabs renders the tab bar with the active tab highlighted.
func (m Model) renderTabs() string {
	parts := make([]string, 0, int(tabCount))
	for t := Tab(0); t < tabCount; t++ {
		label := fmt.Sprintf(" %d:%s ", int(t)+1, t)
		if t == m.activeTab {
			parts = append(parts, styles.SelectedStyle.Render(label))
		} else {
			parts = append(parts, styles.SubtitleStyle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	sep := styles.DimStyle.Render(strings.Repeat("─", max(m.width, 1)))
	return lipgloss.JoinVertical(lipgloss.Left, bar, sep)
}

func (m Model) renderDashboard(height int) string {
	var b strings.Builder

	name := "Student"
	if m.snapshot.User != nil {
		name = m.snapshot.User.DisplayName()
	}
	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("Hello, %s", name)))
	b.WriteString("\n")
	if !m.snapshot.CachedAt.IsZero() {
		b.WriteString(styles.DimStyle.Render("Data from " + m.snapshot.CachedAt.Local().Format("Jan 2 15:04")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	now := time.Now()

	if courseName, focal := m.snapshot.FindAssignment(m.focalID); focal != nil {
		b.WriteString(styles.AccentStyle.Render("Next up"))
		b.WriteString("\n")
		b.WriteString("  " + styles.TitleStyle.Render(focal.DisplayName()))
		b.WriteString("\n")
		b.WriteString("  " + styles.SubtitleStyle.Render(courseName))
		if focal.DueAt != nil {
			b.WriteString("  " + m.renderDue(focal.DueAt, now))
		}
		b.WriteString("\n\n")
	}

	upcoming := m.upcomingItems(now)
	if len(upcoming) > 0 {
		b.WriteString(styles.AccentStyle.Render("Coming up"))
		b.WriteString("\n")
		for i, item := range upcoming {
			line := "  "
			if item.StartAt != nil {
				line += styles.DimStyle.Render(item.StartAt.Local().Format("Mon Jan 2")) + "  "
			}
			line += item.Title
			if item.Status != "" {
				line += "  " + m.renderStatusTag(item.Status)
			}
			if i == m.dashboardList.Selected {
				line = styles.SelectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(m.snapshot.Announcements) > 0 {
		b.WriteString(styles.AccentStyle.Render("Recent announcements"))
		b.WriteString("\n")
		n := len(m.snapshot.Announcements)
		if n > 3 {
			n = 3
		}
		for _, a := range m.snapshot.Announcements[:n] {
			b.WriteString("  " + truncate(a.Title, m.width-4))
			b.WriteString("\n")
		}
	}

	if !m.haveData {
		b.WriteString(styles.DimStyle.Render("No data yet. Press r to sync."))
	}

	return b.String()
}

func (m Model) renderCourses(height int) string {
	if len(m.snapshot.Courses) == 0 {
		return styles.DimStyle.Render("No active courses.")
	}

	gradeByCourse := make(map[int64]domain.CourseGrade, len(m.grades))
	for _, g := range m.grades {
		gradeByCourse[g.CourseID] = g
	}

	var b strings.Builder
	start, end := visibleRange(m.courseList.Selected, len(m.snapshot.Courses), height)
	for i := start; i < end; i++ {
		c := m.snapshot.Courses[i]
		line := fmt.Sprintf("%-40s %-12s", truncate(c.DisplayName(), 40), c.CourseCode)
		if g, ok := gradeByCourse[c.ID]; ok && g.CurrentScore != nil {
			grade := fmt.Sprintf("%.1f%%", *g.CurrentScore)
			if g.CurrentGrade != "" {
				grade += " (" + g.CurrentGrade + ")"
			}
			line += " " + styles.SuccessStyle.Render(grade)
		}
		if i == m.courseList.Selected {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAssignments(height int) string {
	var b strings.Builder

	header := styles.DimStyle.Render(fmt.Sprintf("sort: %s", m.sortMode))
	if len(m.courseFilter) > 0 {
		header += styles.DimStyle.Render(fmt.Sprintf("  courses: %d selected", len(m.courseFilter)))
	}
	if m.searchTyping || m.searchInput.Value() != "" {
		header += "  " + m.searchInput.View()
	}
	b.WriteString(header)
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.DimStyle.Render("No assignments."))
		return b.String()
	}

	now := time.Now()
	start, end := visibleRange(m.assignmentList.Selected, len(m.rows), height-1)
	for i := start; i < end; i++ {
		row := m.rows[i]
		a := row.Assignment

		marker := "  "
		if a.ID == m.focalID {
			marker = styles.AccentStyle.Render("» ")
		}

		line := marker + fmt.Sprintf("%-24s %-38s", truncate(row.CourseName, 24), truncate(a.DisplayName(), 38))
		line += " " + m.renderDue(a.DueAt, now)
		if status := domain.SubmissionStatus(a, now); status != "" {
			line += "  " + m.renderStatusTag(status)
		}
		if i == m.assignmentList.Selected {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCalendar(height int) string {
	if len(m.calendar) == 0 {
		return styles.DimStyle.Render("Nothing on the calendar.")
	}

	now := time.Now()
	var b strings.Builder
	start, end := visibleRange(m.calendarList.Selected, len(m.calendar), height)
	var lastDay string
	for i := start; i < end; i++ {
		item := m.calendar[i]

		day := "no date"
		if item.StartAt != nil {
			day = item.StartAt.Local().Format("Mon Jan 2")
		}
		dayLabel := fmt.Sprintf("%-11s", "")
		if day != lastDay {
			dayLabel = fmt.Sprintf("%-11s", day)
			lastDay = day
		}

		kindTag := styles.InfoStyle.Render("event")
		if item.Kind == domain.ItemKindAssignment {
			kindTag = styles.AccentStyle.Render("due  ")
		}

		line := styles.DimStyle.Render(dayLabel) + " " + kindTag + " " + truncate(item.Title, m.width-30)
		if item.CourseName != "" {
			line += " " + styles.SubtitleStyle.Render("("+truncate(item.CourseName, 20)+")")
		}
		if item.Status != "" {
			line += "  " + m.renderStatusTag(item.Status)
		}
		if item.StartAt != nil && sameDay(*item.StartAt, now) {
			line += " " + styles.AccentStyle.Render("◆")
		}
		if i == m.calendarList.Selected {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAnnouncements(height int) string {
	anns := m.snapshot.Announcements
	if len(anns) == 0 {
		return styles.DimStyle.Render("No announcements.")
	}

	listHeight := height / 3
	if listHeight < 3 {
		listHeight = 3
	}

	var b strings.Builder
	start, end := visibleRange(m.announcementList.Selected, len(anns), listHeight)
	for i := start; i < end; i++ {
		a := anns[i]
		line := ""
		if a.PostedAt != nil {
			line += styles.DimStyle.Render(a.PostedAt.Local().Format("Jan 2")) + " "
		}
		line += truncate(a.Title, m.width-10)
		if i == m.announcementList.Selected {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(styles.DimStyle.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")

	sel := anns[m.announcementList.Selected]
	b.WriteString(styles.TitleStyle.Render(sel.Title))
	b.WriteString("\n")
	if sel.UserName != "" {
		b.WriteString(styles.SubtitleStyle.Render("by " + sel.UserName))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	body := stripHTML(sel.Message)
	b.WriteString(wrapText(body, max(m.width-2, 20), height-listHeight-4))

	return b.String()
}

// renderStatusBar renders the bottom line: status message or key hints.
func (m Model) renderStatusBar() string {
	if m.statusMsg != "" {
		if m.statusIsErr {
			return styles.ErrorStyle.Render(m.statusMsg)
		}
		return styles.SuccessStyle.Render(m.statusMsg)
	}
	if m.orch.Outstanding() {
		return styles.InfoStyle.Render("Syncing...")
	}
	hints := "tab/1-5 switch  j/k move  r sync  q quit"
	if m.activeTab == TabAssignments {
		hints = "enter submit  s sort  f courses  / filter  " + hints
	}
	if m.activeTab == TabCalendar {
		hints = "t today  enter open  " + hints
	}
	return styles.DimStyle.Render(hints)
}

// renderDue formats a due date with urgency coloring: red when past or due
// within a day, amber within three days.
func (m Model) renderDue(due *time.Time, now time.Time) string {
	if due == nil {
		return styles.DimStyle.Render("no due date")
	}
	remaining := due.Sub(now)
	label := due.Local().Format("Jan 2 15:04")

	switch {
	case remaining < 0:
		return styles.ErrorStyle.Render(label)
	case remaining < 24*time.Hour:
		return styles.ErrorStyle.Render(fmt.Sprintf("%s (in %dh)", label, int(remaining.Hours())))
	case remaining < 3*24*time.Hour:
		return styles.AccentStyle.Render(fmt.Sprintf("%s (in %dd)", label, int(remaining.Hours()/24)))
	default:
		return styles.SubtitleStyle.Render(label)
	}
}

// renderStatusTag colors a derived submission status.
func (m Model) renderStatusTag(status string) string {
	switch {
	case status == "Missing!":
		return styles.ErrorStyle.Render(status)
	case status == "Past due":
		return styles.ErrorStyle.Render(status)
	case status == "Submitted":
		return styles.InfoStyle.Render(status)
	default:
		// Graded or a score fraction
		return styles.SuccessStyle.Render(status)
	}
}

// renderFilterPopup renders the course filter modal.
func (m Model) renderFilterPopup() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Filter courses"))
	b.WriteString("\n")
	b.WriteString(m.filterInput.View())
	b.WriteString("\n\n")

	for i, name := range m.filterChoices {
		check := "[ ]"
		if m.courseFilter[name] {
			check = styles.SuccessStyle.Render("[x]")
		}
		line := check + " " + truncate(name, 40)
		if i == m.filterCursor {
			line = styles.SelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.filterChoices) == 0 {
		b.WriteString(styles.DimStyle.Render("no matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("space toggle  ctrl+r clear  enter close"))

	return styles.ActiveBorder.Padding(0, 1).Render(b.String())
}

// renderWizardModal renders the submission modal for the wizard's state.
func (m Model) renderWizardModal() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Submit: " + truncate(m.wizard.AssignmentName(), 50)))
	b.WriteString("\n\n")

	switch m.wizard.State() {
	case submit.StateTypePicker:
		b.WriteString(styles.SubtitleStyle.Render("Choose a submission type"))
		b.WriteString("\n\n")
		for i, kind := range m.wizard.Kinds() {
			line := "  " + kind.Label()
			if i == m.wizard.Cursor() {
				line = styles.SelectedStyle.Render("> " + kind.Label())
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("enter choose  esc cancel"))

	case submit.StateURLInput:
		b.WriteString(styles.SubtitleStyle.Render("Website URL"))
		b.WriteString("\n\n")
		b.WriteString(m.wizardInput.View())
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("enter continue  esc back"))

	case submit.StateFileInput:
		b.WriteString(styles.SubtitleStyle.Render("Path to file"))
		b.WriteString("\n\n")
		b.WriteString(m.wizardInput.View())
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("enter continue  esc back"))

	case submit.StateTextPreview:
		b.WriteString(styles.SubtitleStyle.Render("Review your text"))
		b.WriteString("\n\n")
		b.WriteString(wrapText(m.wizard.Content(), 60, 12))
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("y submit  n back"))

	case submit.StateConfirming:
		b.WriteString(styles.SubtitleStyle.Render(m.wizard.Kind().Label()))
		b.WriteString("\n\n")
		b.WriteString(truncate(m.wizard.Content(), 60))
		b.WriteString("\n\n")
		b.WriteString("Submit this?")
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("y submit  n back"))

	case submit.StateSubmitting:
		b.WriteString(styles.InfoStyle.Render("Submitting..."))
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("esc dismiss"))

	case submit.StateDone:
		success, message := m.wizard.Result()
		if success {
			b.WriteString(styles.SuccessStyle.Render("✓ " + message))
		} else {
			b.WriteString(styles.ErrorStyle.Render("✗ " + message))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.DimStyle.Render("enter close"))
	}

	return styles.ActiveBorder.Padding(0, 1).Render(b.String())
}

// visibleRange computes the window of list indices to draw so the selection
// stays on screen.
func visibleRange(selected, total, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	if total <= height {
		return 0, total
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

// truncate shortens s to at most n display characters, ellipsized.
func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}

// wrapText hard-wraps text at width, capped to maxLines.
func wrapText(s string, width, maxLines int) string {
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			if line == "" {
				line = word
			} else if len(line)+1+len(word) <= width {
				line += " " + word
			} else {
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}

// stripHTML flattens an HTML fragment to plain text: tags removed, block
// boundaries become newlines, common entities decoded.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	var tag strings.Builder
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			name := strings.ToLower(tag.String())
			if fields := strings.Fields(name); len(fields) > 0 {
				name = fields[0]
			}
			switch strings.TrimPrefix(name, "/") {
			case "p", "br", "br/", "div", "li", "h1", "h2", "h3", "h4", "tr":
				b.WriteRune('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	out := htmlEntityReplacer.Replace(b.String())
	// Collapse runs of blank lines left behind by nested block tags.
	for strings.Contains(out, "\n\n\n") {
		out = strings.ReplaceAll(out, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(out)
}

var htmlEntityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&rsquo;", "'",
	"&ldquo;", `"`,
	"&rdquo;", `"`,
)

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
