package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkamble/lessonchat/internal/llm"
	"github.com/pkamble/lessonchat/internal/tutor"
)

var askCmd = &cobra.Command{
	Use:   "ask <lesson-id> <question>",
	Short: "Ask the AI tutor a question about a lesson",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lessonID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid lesson ID %q", args[0])
		}
		question := strings.Join(args[1:], " ")

		userID, _ := cmd.Flags().GetUint("user")
		recommend, _ := cmd.Flags().GetBool("recommend")

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
		lesson, err := s.Lessons().GetByID(ctx, uint(lessonID))
		if err != nil {
			return fmt.Errorf("load lesson %d: %w", lessonID, err)
		}

		llmCfg, err := resolveLLMConfig()
		if err != nil {
			return err
		}
		provider, err := llm.NewProvider(ctx, llmCfg, s.LLMCalls(), log)
		if err != nil {
			return fmt.Errorf("init llm provider: %w", err)
		}

		tut := tutor.NewService(provider, s.Questions(), log, tutor.DefaultConfig())

		record, err := tut.Answer(ctx, lesson, userID, question)
		if err != nil {
			return err
		}

		fmt.Printf("Lesson:   %s\n", lesson.Title)
		fmt.Printf("Question: %s\n\n", question)
		fmt.Println(record.Answer)

		if recommend {
			candidates, err := s.Lessons().AllExcept(ctx, lesson.ID)
			if err != nil {
				return fmt.Errorf("load candidate lessons: %w", err)
			}
			recs := tut.Recommend(ctx, lesson, question, candidates)
			if len(recs) > 0 {
				fmt.Println("\nRelated lessons:")
				for _, r := range recs {
					fmt.Printf("  [%d] %s (%s)\n", r.ID, r.Title, r.Subject)
				}
			}
		}
		return nil
	},
}

func init() {
	askCmd.Flags().Uint("user", 1, "User ID to record the question under")
	askCmd.Flags().Bool("recommend", false, "Also suggest related lessons")
}
