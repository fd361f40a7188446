package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkamble/lessonchat/internal/llm"
	"github.com/pkamble/lessonchat/internal/store"
	"github.com/pkamble/lessonchat/internal/tutor"
)

var lessonsCmd = &cobra.Command{
	Use:   "lessons",
	Short: "Manage the lesson library",
}

var lessonsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lessons",
	RunE: func(cmd *cobra.Command, args []string) error {
		subject, _ := cmd.Flags().GetString("subject")
		search, _ := cmd.Flags().GetString("search")
		limit, _ := cmd.Flags().GetInt("limit")

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

		lessons, err := s.Lessons().List(cmd.Context(), store.LessonFilters{
			Subject: subject,
			Search:  search,
			Limit:   limit,
		})
		if err != nil {
			return fmt.Errorf("list lessons: %w", err)
		}

		if len(lessons) == 0 {
			fmt.Println("No lessons found.")
			return nil
		}

		fmt.Printf("%-5s  %-40s  %-16s  %-8s  %s\n", "ID", "Title", "Subject", "Grade", "Views")
		fmt.Println(strings.Repeat("─", 84))
		for _, l := range lessons {
			fmt.Printf("%-5d  %-40s  %-16s  %-8s  %d\n",
				l.ID, truncate(l.Title, 40), truncate(l.Subject, 16), l.GradeLevel, l.ViewCount)
		}
		return nil
	},
}

var lessonsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one lesson in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid lesson ID %q", args[0])
		}

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

		lesson, err := s.Lessons().GetByID(cmd.Context(), uint(id))
		if err != nil {
			return fmt.Errorf("load lesson %d: %w", id, err)
		}

		sep := strings.Repeat("─", 60)
		fmt.Printf("ID:      %d\n", lesson.ID)
		fmt.Printf("Title:   %s\n", lesson.Title)
		fmt.Printf("Subject: %s\n", lesson.Subject)
		if lesson.GradeLevel != "" {
			fmt.Printf("Grade:   %s\n", lesson.GradeLevel)
		}
		if len(lesson.Tags) > 0 {
			fmt.Printf("Tags:    %s\n", strings.Join(lesson.Tags, ", "))
		}
		fmt.Printf("Views:   %d\n", lesson.ViewCount)
		if lesson.Summary != "" {
			fmt.Println()
			fmt.Println("SUMMARY")
			fmt.Println(sep)
			fmt.Println(lesson.Summary)
		}
		fmt.Println()
		fmt.Println("CONTENT")
		fmt.Println(sep)
		fmt.Println(lesson.Content)
		return nil
	},
}

var lessonsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a lesson from a content file",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		subject, _ := cmd.Flags().GetString("subject")
		grade, _ := cmd.Flags().GetString("grade")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		file, _ := cmd.Flags().GetString("file")
		creator, _ := cmd.Flags().GetUint("creator")
		summarize, _ := cmd.Flags().GetBool("summarize")

		if title == "" || file == "" {
			return fmt.Errorf("--title and --file are required")
		}
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read content file: %w", err)
		}

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

		ctx := cmd.Context()
		lesson, err := s.Lessons().Create(ctx, store.LessonFields{
			Title:      title,
			Content:    string(content),
			Subject:    subject,
			GradeLevel: grade,
			Tags:       tags,
			CreatedBy:  creator,
		})
		if err != nil {
			return fmt.Errorf("create lesson: %w", err)
		}

		if summarize {
			llmCfg, err := resolveLLMConfig()
			if err != nil {
				return err
			}
			provider, err := llm.NewProvider(ctx, llmCfg, s.LLMCalls(), log)
			if err != nil {
				return fmt.Errorf("init llm provider: %w", err)
			}
			tut := tutor.NewService(provider, s.Questions(), log, tutor.DefaultConfig())
			summary := tut.Summarize(ctx, lesson)
			if err := s.Lessons().UpdateSummary(ctx, lesson.ID, summary); err != nil {
				return fmt.Errorf("save summary: %w", err)
			}
		}

		fmt.Printf("Created lesson %d: %s\n", lesson.ID, lesson.Title)
		return nil
	},
}

var lessonsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a lesson and its questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid lesson ID %q", args[0])
		}

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

		if err := s.Lessons().Delete(cmd.Context(), uint(id)); err != nil {
			return fmt.Errorf("delete lesson: %w", err)
		}
		fmt.Printf("Deleted lesson %d\n", id)
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func init() {
	lessonsListCmd.Flags().String("subject", "", "Filter by subject")
	lessonsListCmd.Flags().String("search", "", "Filter by title, content or subject text")
	lessonsListCmd.Flags().Int("limit", 50, "Maximum number of lessons to show")

	lessonsAddCmd.Flags().String("title", "", "Lesson title")
	lessonsAddCmd.Flags().String("subject", "", "Lesson subject")
	lessonsAddCmd.Flags().String("grade", "", "Grade level")
	lessonsAddCmd.Flags().StringSlice("tags", nil, "Comma-separated tags")
	lessonsAddCmd.Flags().String("file", "", "Path to a file with the lesson content")
	lessonsAddCmd.Flags().Uint("creator", 1, "User ID recorded as the lesson author")
	lessonsAddCmd.Flags().Bool("summarize", false, "Generate an AI summary after creating")

	lessonsCmd.AddCommand(lessonsListCmd)
	lessonsCmd.AddCommand(lessonsViewCmd)
	lessonsCmd.AddCommand(lessonsAddCmd)
	lessonsCmd.AddCommand(lessonsDeleteCmd)
}
