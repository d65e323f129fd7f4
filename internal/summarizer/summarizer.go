package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const summaryPrompt = `You are an expert at analysing recorded videos. Using the transcript below, write a DETAILED summary in the same language as the transcript.

Requirements:
- Start with a one-sentence heading describing the topic of the video
- List ALL main points in the order they appear
- Explain each point, including important notes, tips and warnings
- Keep technical terms as spoken
- Use markdown: headings, bullet points, bold for key terms
- End with an "Important notes" section if anything needs emphasis

Transcript:
---
%s
---`

// Summarize asks Gemini for a markdown summary and prefixes it with a title block.
func (s *implSummarizer) Summarize(ctx context.Context, title, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("empty transcript")
	}

	s.logger.Info(ctx, "Summarizing: %s", title)

	summary, err := s.client.GenerateText(ctx, fmt.Sprintf(summaryPrompt, transcript))
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", title, err)
	}

	return fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		title,
		time.Now().Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	), nil
}
