package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slate-tui/slate/internal/adapter"
	"github.com/slate-tui/slate/internal/domain"
	"github.com/slate-tui/slate/internal/store"
)

func newGradesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "Print current grades from the last sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := adapter.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if !cfg.IsConfigured() {
				return fmt.Errorf("not configured; run slate first")
			}

			cache, err := store.Open(adapter.GetCachePath(), cfg.Canvas.URL, cfg.Canvas.Token)
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			defer cache.Close()

			snap, ok := cache.Load()
			if !ok {
				return fmt.Errorf("no cached data yet; run slate to sync first")
			}

			grades := domain.ExtractGrades(snap.Courses)
			if len(grades) == 0 {
				fmt.Println("No grades available.")
				return nil
			}

			rows := make([][]string, 0, len(grades))
			for _, g := range grades {
				rows = append(rows, []string{
					g.CourseName,
					formatScore(g.CurrentScore, g.CurrentGrade),
					formatScore(g.FinalScore, g.FinalGrade),
				})
			}

			fmt.Fprintln(os.Stdout, renderTable(
				[]string{"Course", "Current", "Final"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
				os.Stdout,
			))
			fmt.Printf("As of %s\n", snap.CachedAt.Local().Format("Jan 2 15:04"))
			return nil
		},
	}
}

func formatScore(score *float64, grade string) string {
	if score == nil {
		if grade != "" {
			return grade
		}
		return "-"
	}
	s := fmt.Sprintf("%.1f%%", *score)
	if grade != "" {
		s += " (" + grade + ")"
	}
	return s
}
