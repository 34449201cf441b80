package llm

import (
	"fmt"
	"strings"

	"github.com/oppradar/opportunity-radar/internal/core/domain"
)

const analyzeSystemPrompt = `You evaluate Reddit posts for viable business opportunities.
Given a post, respond with a single JSON object and nothing else:
{
  "problem_description": "the underlying problem the post describes, in your own words",
  "solution_concept": "a short product concept that would address it",
  "core_functions": ["up to 3 core functions of that product"],
  "quality_score": 0-100
}
quality_score reflects how specific and actionable the opportunity is.
If the post describes no real problem, use an empty problem_description and quality_score 0.`

// buildAnalyzePrompt renders one candidate into the user message. Long bodies
// are truncated so a single pathological post cannot blow the token budget.
func buildAnalyzePrompt(candidate *domain.Candidate) string {
	body := candidate.Body
	if len(body) > maxBodyChars {
		body = body[:maxBodyChars]
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Subreddit: r/%s\n", candidate.Subreddit))
	sb.WriteString(fmt.Sprintf("Title: %s\n", candidate.Title))
	sb.WriteString(fmt.Sprintf("Upvotes: %d, Comments: %d\n\n", candidate.Upvotes, candidate.NumComments))
	sb.WriteString(body)

	return sb.String()
}
