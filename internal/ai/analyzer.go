package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hoanghai1803/newswire/internal/models"
)

// fallbackReasoning is the fixed reasoning string on parse-fallback verdicts.
const fallbackReasoning = "Analysis completed but format unclear"

// Analyzer produces integrity verdicts for articles via a chat-completion
// provider. It never returns an error: any failure, transport or parse,
// degrades to the neutral verdict so the caller always gets an analyzed
// article back. The verdict's FallbackReason records which path was taken.
type Analyzer struct {
	provider Provider
	model    string
}

// NewAnalyzer creates an Analyzer using the given provider and model.
func NewAnalyzer(provider Provider, model string) *Analyzer {
	return &Analyzer{provider: provider, model: model}
}

// rawVerdict is the shape the model is instructed to return.
type rawVerdict struct {
	Score                  float64  `json:"score"`
	Status                 string   `json:"status"`
	Reasoning              string   `json:"reasoning"`
	ManipulationIndicators []string `json:"manipulationIndicators"`
	FactCheckResults       string   `json:"factCheckResults"`
}

// Analyze requests an integrity verdict for the article and returns a copy
// of the article with integrity score, status, and the analyzed flag
// populated, together with the full verdict. No other article fields are
// touched, and nothing is persisted here.
func (a *Analyzer) Analyze(ctx context.Context, article models.Article) (models.Article, models.Verdict) {
	prompt := buildPrompt(article)

	text, err := a.provider.Complete(ctx, a.model, []Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		// Transport failure: the article still comes back analyzed with a
		// neutral verdict rather than surfacing an error per article.
		slog.Error("integrity analysis request failed",
			"article", article.URL,
			"error", err,
		)
		return a.apply(article, neutralVerdict(article.ID, models.FallbackTransport, ""))
	}

	verdict := a.parseVerdict(article, text)
	return a.apply(article, verdict)
}

// parseVerdict decodes the model's response into a verdict, falling back to
// the neutral verdict when the output is not the requested JSON. This is
// the terminal error boundary for the parsing step; it never fails.
func (a *Analyzer) parseVerdict(article models.Article, text string) models.Verdict {
	var raw rawVerdict
	if err := json.Unmarshal([]byte(extractJSON(text)), &raw); err != nil {
		slog.Warn("integrity verdict was not valid JSON, using neutral fallback",
			"article", article.URL,
		)
		v := neutralVerdict(article.ID, models.FallbackParse, text)
		v.Reasoning = fallbackReasoning
		return v
	}

	score := clampScore(raw.Score)
	status := raw.Status
	switch status {
	case models.StatusRed, models.StatusYellow, models.StatusGreen:
		// Model respected the mapping.
	default:
		status = models.StatusForScore(score)
	}

	indicators := raw.ManipulationIndicators
	if indicators == nil {
		indicators = []string{}
	}

	return models.Verdict{
		ArticleID:              article.ID,
		Score:                  score,
		Status:                 status,
		Reasoning:              raw.Reasoning,
		ManipulationIndicators: indicators,
		FactCheckResults:       raw.FactCheckResults,
		ModelUsed:              a.model,
	}
}

// apply copies the verdict's integrity fields onto the article.
func (a *Analyzer) apply(article models.Article, v models.Verdict) (models.Article, models.Verdict) {
	score := v.Score
	status := v.Status
	article.IntegrityScore = &score
	article.IntegrityStatus = &status
	article.Analyzed = true
	return article, v
}

// neutralVerdict is the fixed fallback: midpoint score, YELLOW status, no
// indicators, with the raw model output (if any) preserved as fact-check
// commentary so nothing the model said is lost.
func neutralVerdict(articleID int64, reason, rawText string) models.Verdict {
	return models.Verdict{
		ArticleID:              articleID,
		Score:                  models.NeutralTrustScore,
		Status:                 models.StatusYellow,
		ManipulationIndicators: []string{},
		FactCheckResults:       rawText,
		FallbackReason:         reason,
	}
}

// clampScore forces a model-supplied score into [1,10] so a misbehaving
// model cannot drive source trust outside its designed range.
func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// buildPrompt constructs the analysis instruction embedding the article's
// title, description, and source name.
func buildPrompt(article models.Article) string {
	var sb strings.Builder
	sb.WriteString("Analyze this news article for integrity and potential manipulation:\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", article.Title)
	fmt.Fprintf(&sb, "Description: %s\n", article.Description)
	fmt.Fprintf(&sb, "Source: %s\n", article.SourceName)
	if article.Content != "" {
		fmt.Fprintf(&sb, "Content: %s\n", article.Content)
	}
	sb.WriteString(`
Provide a JSON response with:
1. score (1-10, where 10 is highest integrity)
2. status (RED for score 1-3, YELLOW for 4-7, GREEN for 8-10)
3. reasoning (brief explanation)
4. manipulationIndicators (list of any red flags)
5. factCheckResults (brief assessment)

Format: {"score": X, "status": "COLOR", "reasoning": "...", "manipulationIndicators": [...], "factCheckResults": "..."}`)
	return sb.String()
}

// extractJSON strips Markdown code fences that models often wrap JSON in.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try ```json ... ``` first.
	if after, found := strings.CutPrefix(s, "```json"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	// Try plain ``` ... ```.
	if after, found := strings.CutPrefix(s, "```"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	return s
}
