package finaldb

// ColumnMapping binds one dotted source-field path to a final column.
// Paths descend through the consolidated enriched-record JSON; a path
// absent from a record fills the column with "Unknown".
type ColumnMapping struct {
	SourcePath string
	Target     string
}

// Unknown fills every unmapped or absent value in the final table.
const Unknown = "Unknown"

// VarietyIDColumn holds the generated STS identifier, always first.
const VarietyIDColumn = "variety_id"

// Mappings is the fixed source-path to column binding, in output column
// order after variety_id.
var Mappings = []ColumnMapping{
	{"original_data.csc_variety_original", "variety_name"},
	{"original_data.csc_crop_original", "crop_type"},
	{"original_data.approval_status", "approval_status"},
	{"analysis_result.stress_tolerance_profile.drought_tolerance.tolerance_level", "stress_tolerance_drought"},
	{"analysis_result.stress_tolerance_profile.heat_tolerance.tolerance_level", "stress_tolerance_heat"},
	{"analysis_result.stress_tolerance_profile.salinity_tolerance.tolerance_level", "stress_tolerance_salinity"},
	{"analysis_result.stress_tolerance_profile.flood_tolerance.tolerance_level", "stress_tolerance_flood"},
	{"analysis_result.stress_tolerance_profile.disease_resistance.tolerance_level", "stress_tolerance_disease"},
	{"analysis_result.stress_tolerance_profile.pest_resistance.tolerance_level", "stress_tolerance_pest"},
	{"analysis_result.genetic_and_molecular_profile.molecular_markers", "genetic_markers"},
	{"analysis_result.genetic_and_molecular_profile.qtl_mapping", "qtl_information"},
	{"analysis_result.agronomic_performance.yield_data", "yield_potential"},
	{"analysis_result.agronomic_performance.maturity_days", "maturity_days"},
	{"analysis_result.research_and_development.development_institution", "development_institution"},
	{"analysis_result.research_and_development.breeder_information", "principal_breeder"},
	{"analysis_result.research_and_development.testing_locations", "testing_locations"},
	{"analysis_result.commercial_availability.seed_availability", "commercial_availability"},
	{"analysis_result.evidence_quality_assessment.reliability_score", "evidence_quality_score"},
	{"analysis_result.evidence_quality_assessment.peer_reviewed_sources", "peer_reviewed_sources"},
	{"analysis_result.evidence_quality_assessment.total_sources", "total_sources"},
	{"enrichment_timestamp", "processing_timestamp"},
}

// SchemaDoc documents every final column for the schema artifact.
var SchemaDoc = map[string]string{
	"variety_id":                "Unique identifier for each variety",
	"variety_name":              "Standardized variety name",
	"crop_type":                 "Type of crop",
	"approval_status":           "Regulatory approval status",
	"stress_tolerance_drought":  "Drought tolerance level (high/medium/low/unknown)",
	"stress_tolerance_heat":     "Heat tolerance level",
	"stress_tolerance_salinity": "Salinity tolerance level",
	"stress_tolerance_flood":    "Flood tolerance level",
	"stress_tolerance_disease":  "Disease resistance level",
	"stress_tolerance_pest":     "Pest resistance level",
	"genetic_markers":           "Available genetic markers",
	"qtl_information":           "QTL mapping information",
	"yield_potential":           "Yield performance data",
	"maturity_days":             "Days to maturity",
	"development_institution":   "Breeding institution",
	"principal_breeder":         "Principal breeder/scientist",
	"testing_locations":         "Trial locations",
	"commercial_availability":   "Commercial availability status",
	"evidence_quality_score":    "Evidence quality score (1-10)",
	"peer_reviewed_sources":     "Number of peer-reviewed sources",
	"total_sources":             "Total number of sources",
	"processing_timestamp":      "Data processing timestamp",
}

// Columns returns the final column order, variety_id first.
func Columns() []string {
	cols := make([]string, 0, len(Mappings)+1)
	cols = append(cols, VarietyIDColumn)
	for _, m := range Mappings {
		cols = append(cols, m.Target)
	}
	return cols
}
