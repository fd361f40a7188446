package tutor

// Config holds generation settings per operation.
type Config struct {
	AnswerMaxTokens      int
	AnswerTemperature    float64
	RecommendMaxTokens   int
	RecommendTemperature float64
	SummaryMaxTokens     int
	SummaryTemperature   float64
}

// DefaultConfig returns sensible defaults for tutoring generation.
func DefaultConfig() Config {
	return Config{
		AnswerMaxTokens:      500,
		AnswerTemperature:    0.7,
		RecommendMaxTokens:   100,
		RecommendTemperature: 0.3,
		SummaryMaxTokens:     150,
		SummaryTemperature:   0.5,
	}
}
