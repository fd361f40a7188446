package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkamble/lessonchat/internal/httpapi"
	"github.com/pkamble/lessonchat/internal/insights"
	"github.com/pkamble/lessonchat/internal/llm"
	"github.com/pkamble/lessonchat/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
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

		llmCfg, err := resolveLLMConfig()
		if err != nil {
			return err
		}

		provider, err := llm.NewProvider(cmd.Context(), llmCfg, s.LLMCalls(), log)
		if err != nil {
			return fmt.Errorf("init llm provider: %w", err)
		}

		tut := tutor.NewService(provider, s.Questions(), log, tutor.DefaultConfig())
		ins := insights.NewService(s.Lessons(), s.Questions(), log)

		srv := httpapi.New(httpapi.ConfigFromEnv(), s.Lessons(), s.Questions(), tut, ins, log)
		return srv.Run()
	},
}

// resolveLLMConfig prefers explicit LESSONCHAT_* settings and falls back
// to probing the standard provider API key variables.
func resolveLLMConfig() (llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			return discovered, nil
		}
		return llm.Config{}, fmt.Errorf("llm config: %w", err)
	}
	return cfg, nil
}
