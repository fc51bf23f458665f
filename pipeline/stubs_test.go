package pipeline

import (
	"context"
	"time"

	"seedpipeline/enrichment"
	"seedpipeline/websearch"
	"seedpipeline/websearch/types"
)

type stubSearchProvider struct{}

func (s *stubSearchProvider) Search(ctx context.Context, query string) (*types.SearchResult, error) {
	return &types.SearchResult{
		Query:   query,
		Type:    types.TypeWeb,
		Found:   true,
		Success: true,
		Source:  s.GetName(),
		Results: []types.SearchItem{
			{Title: "stub result", URL: "https://example.com", Relevance: 1.0},
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

func (s *stubSearchProvider) GetName() string             { return "stub" }
func (s *stubSearchProvider) IsAvailable() bool           { return true }
func (s *stubSearchProvider) GetRateLimit() time.Duration { return 0 }

type stubSynth struct{}

func (s *stubSynth) Synthesize(ctx context.Context, info websearch.VarietyInfo, research *websearch.ResearchContext) (*enrichment.VarietyAnalysis, error) {
	return &enrichment.VarietyAnalysis{
		VarietyIdentification: enrichment.VarietyIdentification{
			VarietyName: info.VarietyName,
			CropType:    info.CropName,
		},
	}, nil
}
