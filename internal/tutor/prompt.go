package tutor

import (
	"fmt"
	"strings"

	"github.com/pkamble/lessonchat/internal/store"
)

const answerSystemPrompt = `You are a helpful educational assistant. Answer questions based only on the provided lesson content. Be clear, educational, and encouraging.`

func buildAnswerPrompt(lesson *store.Lesson, question string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Lesson Title: %s\n\n", lesson.Title))
	b.WriteString(fmt.Sprintf("Lesson Content:\n%s\n\n", lesson.Content))
	b.WriteString(fmt.Sprintf("Student Question: %s\n\n", question))
	b.WriteString("Please provide a helpful answer based on the lesson content above. " +
		"If the question cannot be answered from the lesson content, " +
		"kindly let the student know and suggest they ask their teacher for more information.")

	return b.String()
}

const recommendSystemPrompt = `You are an educational content recommender. Return only lesson IDs as comma-separated numbers.`

func buildRecommendPrompt(current *store.Lesson, question string, candidates []store.Lesson) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Based on this lesson: '%s' and student question: '%s', ", current.Title, question))
	b.WriteString("which of these lessons would be most helpful for further learning? ")
	b.WriteString("Return only lesson IDs as a comma-separated list.\n\n")
	b.WriteString("Available lessons:")

	for _, lesson := range candidates {
		if lesson.ID == current.ID {
			continue
		}
		b.WriteString(fmt.Sprintf("\nID: %d, Title: %s", lesson.ID, lesson.Title))
	}

	return b.String()
}

const summarySystemPrompt = `Summarize the following lesson in 2-3 sentences, highlighting the key learning points.`
