package enrichment

// VarietyAnalysis is the structured output contract for the LLM synthesis
// step. The synthesizer must return a single JSON object with this shape;
// anything else is a recoverable enrichment failure.
type VarietyAnalysis struct {
	VarietyIdentification VarietyIdentification  `json:"variety_identification"`
	StressTolerance       StressToleranceProfile `json:"stress_tolerance_profile"`
	GeneticProfile        GeneticProfile         `json:"genetic_and_molecular_profile"`
	Agronomic             AgronomicPerformance   `json:"agronomic_performance"`
	ResearchDevelopment   ResearchDevelopment    `json:"research_and_development"`
	Commercial            CommercialAvailability `json:"commercial_availability"`
	EvidenceQuality       EvidenceQuality        `json:"evidence_quality_assessment"`
	Summary               string                 `json:"comprehensive_summary"`
	ReferenceLinks        []string               `json:"reference_links"`
	Post2008Percentage    float64                `json:"post_2008_content_percentage"`

	Metadata *ProcessingMetadata `json:"processing_metadata,omitempty"`
}

// VarietyIdentification names the analyzed variety as the model resolved it.
type VarietyIdentification struct {
	VarietyName       string `json:"variety_name"`
	CropType          string `json:"crop_type"`
	OverallAssessment string `json:"overall_assessment"`
}

// ToleranceDetail describes one stress-tolerance axis.
type ToleranceDetail struct {
	ToleranceLevel   string   `json:"tolerance_level"`
	Mechanisms       string   `json:"mechanisms"`
	QTLInformation   string   `json:"qtl_information"`
	EvidenceSources  []string `json:"evidence_sources"`
	TechnicalDetails string   `json:"technical_details"`
}

// StressToleranceProfile covers the six stress axes tracked in the final
// database plus submergence, which folds into flood tolerance downstream.
type StressToleranceProfile struct {
	Drought     ToleranceDetail `json:"drought_tolerance"`
	Heat        ToleranceDetail `json:"heat_tolerance"`
	Salinity    ToleranceDetail `json:"salinity_tolerance"`
	Flood       ToleranceDetail `json:"flood_tolerance"`
	Submergence ToleranceDetail `json:"submergence_tolerance"`
	Disease     ToleranceDetail `json:"disease_resistance"`
	Pest        ToleranceDetail `json:"pest_resistance"`

	OverallStressTolerance string   `json:"overall_stress_tolerance"`
	KeyStressAttributes    []string `json:"key_stress_attributes"`
}

type GeneticProfile struct {
	QTLMapping       string `json:"qtl_mapping"`
	MolecularMarkers string `json:"molecular_markers"`
	GeneticMarkers   string `json:"genetic_markers"`
	GenomicData      string `json:"genomic_data"`
	GeneSequences    string `json:"gene_sequences"`
}

type AgronomicPerformance struct {
	YieldData               string `json:"yield_data"`
	MaturityDays            string `json:"maturity_days"`
	GrowthCharacteristics   string `json:"growth_characteristics"`
	EnvironmentalAdaptation string `json:"environmental_adaptation"`
	InputRequirements       string `json:"input_requirements"`
}

type ResearchDevelopment struct {
	DevelopmentInstitution string `json:"development_institution"`
	BreederInformation     string `json:"breeder_information"`
	BreedingProgram        string `json:"breeding_program"`
	TestingLocations       string `json:"testing_locations"`
	DevelopmentTimeline    string `json:"development_timeline"`
}

type CommercialAvailability struct {
	SeedAvailability     string `json:"seed_availability"`
	DistributionNetworks string `json:"distribution_networks"`
	KVKAvailability      string `json:"kvk_availability"`
	FarmerAdoption       string `json:"farmer_adoption"`
}

// EvidenceQuality grades how well sourced the analysis is.
type EvidenceQuality struct {
	TotalSources        int     `json:"total_sources"`
	PeerReviewedSources int     `json:"peer_reviewed_sources"`
	GovernmentSources   int     `json:"government_sources"`
	ReliabilityScore    float64 `json:"reliability_score"`
	OverallQuality      string  `json:"overall_evidence_quality"`
	EvidenceGaps        string  `json:"evidence_gaps"`
}

// ProcessingMetadata is attached by the batch runner, not the model.
type ProcessingMetadata struct {
	AnalysisTimestamp string `json:"analysis_timestamp"`
	Model             string `json:"model"`
	TotalQueries      int    `json:"total_search_queries"`
	SuccessfulQueries int    `json:"successful_queries"`
}
