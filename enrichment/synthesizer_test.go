package enrichment

import (
	"strings"
	"testing"

	apperrors "seedpipeline/errors"
	"seedpipeline/websearch"
)

const sampleAnalysisJSON = `{
	"variety_identification": {
		"variety_name": "DBGS-54",
		"crop_type": "Bitter Gourd",
		"overall_assessment": "promising drought-tolerant variety"
	},
	"stress_tolerance_profile": {
		"drought_tolerance": {
			"tolerance_level": "high",
			"mechanisms": "deep root system",
			"qtl_information": "qDTY1.1",
			"evidence_sources": ["https://doi.example/1"],
			"technical_details": "maintains yield under 40% water deficit"
		},
		"overall_stress_tolerance": "yes",
		"key_stress_attributes": ["drought"]
	},
	"evidence_quality_assessment": {
		"total_sources": 12,
		"peer_reviewed_sources": 5,
		"reliability_score": 7.5,
		"overall_evidence_quality": "medium"
	},
	"comprehensive_summary": "well documented variety",
	"reference_links": ["https://doi.example/1"]
}`

func TestParseAnalysis(t *testing.T) {
	analysis, err := ParseAnalysis(sampleAnalysisJSON)
	if err != nil {
		t.Fatalf("ParseAnalysis returned error: %v", err)
	}

	if analysis.VarietyIdentification.VarietyName != "DBGS-54" {
		t.Errorf("variety name = %q", analysis.VarietyIdentification.VarietyName)
	}
	if analysis.StressTolerance.Drought.ToleranceLevel != "high" {
		t.Errorf("drought level = %q", analysis.StressTolerance.Drought.ToleranceLevel)
	}
	if analysis.EvidenceQuality.TotalSources != 12 {
		t.Errorf("total sources = %d", analysis.EvidenceQuality.TotalSources)
	}
	if analysis.EvidenceQuality.ReliabilityScore != 7.5 {
		t.Errorf("reliability = %v", analysis.EvidenceQuality.ReliabilityScore)
	}
}

func TestParseAnalysisWithCodeFence(t *testing.T) {
	for _, fence := range []string{
		"```json\n" + sampleAnalysisJSON + "\n```",
		"```\n" + sampleAnalysisJSON + "\n```",
		"  ```json\n" + sampleAnalysisJSON + "\n```  ",
	} {
		analysis, err := ParseAnalysis(fence)
		if err != nil {
			t.Fatalf("ParseAnalysis failed on fenced input: %v", err)
		}
		if analysis.VarietyIdentification.CropType != "Bitter Gourd" {
			t.Errorf("crop type = %q", analysis.VarietyIdentification.CropType)
		}
	}
}

func TestParseAnalysisMalformedIsRecoverable(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not find enough information about this variety.",
		"```json\n{\"variety_identification\": \n```",
	} {
		_, err := ParseAnalysis(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if !apperrors.IsKind(err, apperrors.KindEnrichment) {
			t.Errorf("malformed response should be an enrichment failure, got %v", err)
		}
		if apperrors.IsFatal(err) {
			t.Error("enrichment failures must not be fatal")
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct{ in, want string }{
		{"```json\n{}\n```", "{}"},
		{"```\n{}\n```", "{}"},
		{"{}", "{}"},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.in); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildPromptEmbedsVarietyAndContext(t *testing.T) {
	info := websearch.VarietyInfo{VarietyName: "IR-64", CropName: "Rice"}
	rc := &websearch.ResearchContext{VarietyInfo: info, TotalQueries: 30}

	prompt, err := buildPrompt(info, rc)
	if err != nil {
		t.Fatalf("buildPrompt returned error: %v", err)
	}
	for _, fragment := range []string{"IR-64", "Rice", "total_queries", "variety_identification"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt is missing %q", fragment)
		}
	}
}
