package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkamble/lessonchat/internal/insights"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(cmd)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		s, err := openStore(cmd, log)
		if err != nil {
			return err
		}
		defer s.Close()

		ins := insights.NewService(s.Lessons(), s.Questions(), log)
		stats, err := ins.Statistics(cmd.Context())
		if err != nil {
			return fmt.Errorf("load statistics: %w", err)
		}

		fmt.Printf("Lessons:   %d\n", stats.TotalLessons)
		fmt.Printf("Questions: %d\n", stats.TotalQuestions)
		if stats.MostPopularSubject != nil {
			fmt.Printf("Top subject: %s (%d lessons)\n",
				stats.MostPopularSubject.Subject, stats.MostPopularSubject.Count)
		}

		if len(stats.MostQuestionedLessons) > 0 {
			fmt.Println()
			fmt.Println("Most questioned lessons")
			fmt.Println(strings.Repeat("─", 60))
			for _, l := range stats.MostQuestionedLessons {
				fmt.Printf("%-5d  %-40s  %d\n", l.ID, truncate(l.Title, 40), l.QuestionCount)
			}
		}

		if len(stats.RecentLessons) > 0 {
			fmt.Println()
			fmt.Println("Recent lessons")
			fmt.Println(strings.Repeat("─", 60))
			for _, l := range stats.RecentLessons {
				fmt.Printf("%-5d  %-40s  %s\n", l.ID, truncate(l.Title, 40),
					l.CreatedAt.Local().Format("2006-01-02"))
			}
		}
		return nil
	},
}
