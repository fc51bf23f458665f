package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	apperrors "seedpipeline/errors"
	"seedpipeline/websearch"
)

// Synthesizer turns a variety plus its compiled research context into a
// structured analysis. Implementations are external collaborators; any
// failure they return is recoverable at the batch level.
type Synthesizer interface {
	Synthesize(ctx context.Context, info websearch.VarietyInfo, research *websearch.ResearchContext) (*VarietyAnalysis, error)
}

// GeminiSynthesizer implements Synthesizer on the Gemini API.
type GeminiSynthesizer struct {
	client *genai.Client
	model  string
}

// NewGeminiSynthesizer creates a synthesizer backed by the given model,
// e.g. "gemini-2.5-flash".
func NewGeminiSynthesizer(ctx context.Context, apiKey, model string) (*GeminiSynthesizer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiSynthesizer{client: client, model: model}, nil
}

// Model returns the configured model name.
func (g *GeminiSynthesizer) Model() string {
	return g.model
}

// Synthesize sends the variety and its search bundle to the model and
// decodes the structured JSON reply.
func (g *GeminiSynthesizer) Synthesize(ctx context.Context, info websearch.VarietyInfo, research *websearch.ResearchContext) (*VarietyAnalysis, error) {
	prompt, err := buildPrompt(info, research)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, apperrors.NewEnrichmentFailure(
			fmt.Sprintf("gemini call failed for %s", info.VarietyName), err)
	}

	analysis, err := ParseAnalysis(resp.Text())
	if err != nil {
		return nil, err
	}
	analysis.Metadata = &ProcessingMetadata{
		AnalysisTimestamp: time.Now().Format(time.RFC3339),
		Model:             g.model,
		TotalQueries:      research.TotalQueries,
		SuccessfulQueries: research.SuccessQueries,
	}
	return analysis, nil
}

func buildPrompt(info websearch.VarietyInfo, research *websearch.ResearchContext) (string, error) {
	varietyJSON, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal variety info: %w", err)
	}
	contextJSON, err := json.MarshalIndent(research, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal research context: %w", err)
	}

	var b strings.Builder
	b.WriteString(analysisPrompt)
	b.WriteString("\n\nVARIETY TO ANALYZE:\n")
	b.Write(varietyJSON)
	b.WriteString("\n\nCOMPREHENSIVE SEARCH RESULTS:\n")
	b.Write(contextJSON)
	b.WriteString("\n\nAnalyze this variety using all available search results and return the structured JSON analysis.\n")
	return b.String(), nil
}

// ParseAnalysis decodes a model reply into a VarietyAnalysis, tolerating
// markdown code fences around the JSON body. A reply that does not decode
// is a recoverable enrichment failure, never a panic or fatal error.
func ParseAnalysis(raw string) (*VarietyAnalysis, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return nil, apperrors.NewEnrichmentFailure("empty model response", nil)
	}

	var analysis VarietyAnalysis
	if err := json.Unmarshal([]byte(text), &analysis); err != nil {
		return nil, apperrors.NewEnrichmentFailure("model response is not valid analysis JSON", err)
	}
	return &analysis, nil
}

// StripCodeFence removes a surrounding ```json / ``` fence if present.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
