package domain

// CourseGrade is the student-role grade summary extracted from a course's
// enrollments.
type CourseGrade struct {
	CourseID     int64
	CourseName   string
	CurrentScore *float64
	CurrentGrade string
	FinalScore   *float64
	FinalGrade   string
}

// ExtractGrades pulls the student enrollment's computed scores out of each
// course. Courses without a student enrollment are skipped.
func ExtractGrades(courses []Course) []CourseGrade {
	var grades []CourseGrade
	for _, c := range courses {
		for _, e := range c.Enrollments {
			if e.Type != "student" {
				continue
			}
			grades = append(grades, CourseGrade{
				CourseID:     c.ID,
				CourseName:   c.DisplayName(),
				CurrentScore: e.ComputedCurrentScore,
				CurrentGrade: e.ComputedCurrentGrade,
				FinalScore:   e.ComputedFinalScore,
				FinalGrade:   e.ComputedFinalGrade,
			})
			break
		}
	}
	return grades
}
