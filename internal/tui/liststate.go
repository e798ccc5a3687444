package tui

// ListState tracks a clamped cursor over a list whose length changes on
// every sync.
type ListState struct {
	Selected int
	Len      int
}

// SelectNext moves down, clamped at the last item (no wrap-around).
func (s *ListState) SelectNext() {
	if s.Len > 0 && s.Selected+1 < s.Len {
		s.Selected++
	}
}

// SelectPrev moves up, clamped at the first item (no wrap-around).
func (s *ListState) SelectPrev() {
	if s.Selected > 0 {
		s.Selected--
	}
}

// SetLen records the list's new length and clamps the cursor into range.
func (s *ListState) SetLen(n int) {
	s.Len = n
	if s.Selected >= n && n > 0 {
		s.Selected = n - 1
	}
	if n == 0 {
		s.Selected = 0
	}
}

// Home jumps to the first item.
func (s *ListState) Home() { s.Selected = 0 }

// End jumps to the last item.
func (s *ListState) End() {
	if s.Len > 0 {
		s.Selected = s.Len - 1
	}
}
