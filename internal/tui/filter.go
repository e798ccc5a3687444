package tui

import (
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/slate-tui/slate/internal/domain"
)

// rebuildRows reshapes the flattened assignment list: course filter first,
// then the fuzzy query, then sort. A live query keeps the fuzzy match order
// instead of the sort mode.
func (m *Model) rebuildRows() {
	var rows []assignmentRow
	for _, group := range m.snapshot.Assignments {
		if len(m.courseFilter) > 0 && !m.courseFilter[group.CourseName] {
			continue
		}
		for _, a := range group.Assignments {
			rows = append(rows, assignmentRow{CourseName: group.CourseName, Assignment: a})
		}
	}

	if query := m.searchInput.Value(); query != "" {
		lowerNames := make([]string, len(rows))
		for i, row := range rows {
			lowerNames[i] = strings.ToLower(row.Assignment.DisplayName())
		}
		matches := fuzzy.Find(strings.ToLower(query), lowerNames)
		filtered := make([]assignmentRow, 0, len(matches))
		for _, match := range matches {
			filtered = append(filtered, rows[match.Index])
		}
		rows = filtered
	} else {
		sortRows(rows, m.sortMode, time.Now())
	}

	m.rows = rows
	m.assignmentList.SetLen(len(rows))
}

// sortRows orders the assignment rows in place. Rows with no due date go
// last under both due-date orders.
func sortRows(rows []assignmentRow, mode SortMode, now time.Time) {
	byDue := func(asc bool) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := rows[i].Assignment.DueAt, rows[j].Assignment.DueAt
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			case asc:
				return a.Before(*b)
			default:
				return b.Before(*a)
			}
		}
	}

	switch mode {
	case SortDueAsc:
		sort.SliceStable(rows, byDue(true))
	case SortDueDesc:
		sort.SliceStable(rows, byDue(false))
	case SortCourse:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].CourseName != rows[j].CourseName {
				return rows[i].CourseName < rows[j].CourseName
			}
			return byDue(true)(i, j)
		})
	case SortStatus:
		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := statusRank(rows[i].Assignment, now), statusRank(rows[j].Assignment, now)
			if ri != rj {
				return ri < rj
			}
			return byDue(true)(i, j)
		})
	}
}

// statusRank orders assignments by urgency: missing work first, then open
// deadlines, then everything already handled.
func statusRank(a domain.Assignment, now time.Time) int {
	pastDue := a.DueAt != nil && a.DueAt.Before(now)
	sub := a.Submission

	if sub != nil {
		switch sub.WorkflowState {
		case domain.WorkflowGraded:
			return 4
		case domain.WorkflowSubmitted:
			return 3
		}
		if pastDue && sub.Missing {
			return 0
		}
	}
	if pastDue {
		return 1
	}
	return 2
}

// openFilterPopup shows the course filter popup with a fresh query.
func (m *Model) openFilterPopup() {
	m.filterOpen = true
	m.filterCursor = 0
	m.filterInput.SetValue("")
	m.filterInput.Focus()
	m.filterChoices = m.rankedCourseChoices("")
}

// rankedCourseChoices returns course names matching the popup query, best
// match first. An empty query lists every course in snapshot order.
func (m *Model) rankedCourseChoices(query string) []string {
	names := make([]string, 0, len(m.snapshot.Assignments))
	for _, group := range m.snapshot.Assignments {
		names = append(names, group.CourseName)
	}
	if query == "" {
		return names
	}

	matches := lfuzzy.RankFindFold(query, names)
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	ranked := make([]string, 0, len(matches))
	for _, match := range matches {
		ranked = append(ranked, match.Target)
	}
	return ranked
}

// handleFilterKey drives the course filter popup: type to narrow, space to
// toggle, enter or esc to close.
func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.filterOpen = false
		m.filterInput.Blur()
		m.rebuildRows()
		return m, nil

	case "down", "ctrl+n":
		if m.filterCursor+1 < len(m.filterChoices) {
			m.filterCursor++
		}
		return m, nil
	case "up", "ctrl+p":
		if m.filterCursor > 0 {
			m.filterCursor--
		}
		return m, nil

	case " ":
		if m.filterCursor < len(m.filterChoices) {
			name := m.filterChoices[m.filterCursor]
			if m.courseFilter[name] {
				delete(m.courseFilter, name)
			} else {
				m.courseFilter[name] = true
			}
		}
		return m, nil

	case "ctrl+r":
		// Clear all selections
		m.courseFilter = make(map[string]bool)
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.filterChoices = m.rankedCourseChoices(m.filterInput.Value())
	if m.filterCursor >= len(m.filterChoices) {
		m.filterCursor = 0
	}
	return m, cmd
}
