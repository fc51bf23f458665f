package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"seedpipeline/database"
	apperrors "seedpipeline/server/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

var stressFilterColumns = []string{
	"stress_tolerance_drought", "stress_tolerance_heat",
	"stress_tolerance_salinity", "stress_tolerance_flood",
	"stress_tolerance_disease", "stress_tolerance_pest",
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.Conn().Ping(); err != nil {
		s.respondError(c, apperrors.NewInternalError("database unreachable", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListVarieties(c *gin.Context) {
	filter, appErr := filterFromQuery(c)
	if appErr != nil {
		s.respondError(c, appErr)
		return
	}

	varieties, total, err := s.db.ListVarieties(filter)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to list varieties", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"varieties": varieties,
		"total":     total,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})
}

func (s *Server) handleGetVariety(c *gin.Context) {
	id := c.Param("id")
	variety, ok, err := s.db.GetVariety(id)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to load variety", err))
		return
	}
	if !ok {
		s.respondError(c, apperrors.NewNotFoundError(fmt.Sprintf("variety %q not found", id), nil))
		return
	}
	c.JSON(http.StatusOK, varietyDetail(variety))
}

func (s *Server) handleSummary(c *gin.Context) {
	crops, err := s.db.CropCounts()
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to count crops", err))
		return
	}

	total := 0
	for _, n := range crops {
		total += n
	}

	stress := make(map[string]map[string]int)
	for _, column := range stressFilterColumns {
		counts, err := s.db.StressLevelCounts(column)
		if err != nil {
			s.respondError(c, apperrors.NewInternalError("failed to count stress levels", err))
			return
		}
		stress[column] = counts
	}

	payload := gin.H{
		"total_varieties":  total,
		"crop_counts":      crops,
		"stress_histogram": stress,
	}

	report, ok, err := s.db.LatestRunReport()
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to load run report", err))
		return
	}
	if ok {
		payload["latest_run"] = report
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleDuplicateHistogram(c *gin.Context) {
	report, ok, err := s.db.LatestRunReport()
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to load run report", err))
		return
	}
	if !ok {
		s.respondError(c, apperrors.NewNotFoundError("no pipeline run recorded yet", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"timestamp":          report.Timestamp,
		"initial_row_count":  report.InitialRowCount,
		"final_row_count":    report.FinalRowCount,
		"duplicate_analysis": report.DuplicateAnalysis,
	})
}

func (s *Server) handleExportCSV(c *gin.Context) {
	filter, appErr := filterFromQuery(c)
	if appErr != nil {
		s.respondError(c, appErr)
		return
	}
	filter.Limit = 0
	filter.Offset = 0

	varieties, _, err := s.db.ListVarieties(filter)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to export varieties", err))
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="final_varieties.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(csvHeader()); err != nil {
		s.logger.Error("csv export aborted", "error", err)
		return
	}
	for _, v := range varieties {
		if err := w.Write(csvRow(v)); err != nil {
			s.logger.Error("csv export aborted", "error", err)
			return
		}
	}
	w.Flush()
}

func (s *Server) handleExportJSON(c *gin.Context) {
	filter, appErr := filterFromQuery(c)
	if appErr != nil {
		s.respondError(c, appErr)
		return
	}
	filter.Limit = 0
	filter.Offset = 0

	varieties, _, err := s.db.ListVarieties(filter)
	if err != nil {
		s.respondError(c, apperrors.NewInternalError("failed to export varieties", err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="final_varieties.json"`)
	c.JSON(http.StatusOK, varieties)
}

// filterFromQuery parses list and export query parameters. A stress level
// filter requires both stress and level; stress column names are validated
// downstream against the column whitelist.
func filterFromQuery(c *gin.Context) (database.VarietyFilter, *apperrors.AppError) {
	filter := database.VarietyFilter{
		Crop:        strings.TrimSpace(c.Query("crop")),
		StressField: strings.TrimSpace(c.Query("stress")),
		StressLevel: strings.TrimSpace(c.Query("level")),
		Search:      strings.TrimSpace(c.Query("q")),
		Limit:       defaultPageLimit,
	}

	if (filter.StressField == "") != (filter.StressLevel == "") {
		return filter, apperrors.NewValidationError("stress and level must be provided together", nil)
	}
	if filter.StressField != "" {
		known := false
		for _, column := range stressFilterColumns {
			if column == filter.StressField {
				known = true
				break
			}
		}
		if !known {
			return filter, apperrors.NewValidationError(
				fmt.Sprintf("unknown stress filter %q", filter.StressField), nil)
		}
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, apperrors.NewValidationError("limit must be a positive integer", nil)
		}
		if n > maxPageLimit {
			n = maxPageLimit
		}
		filter.Limit = n
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, apperrors.NewValidationError("offset must be a non-negative integer", nil)
		}
		filter.Offset = n
	}
	return filter, nil
}

// varietyDetail expands list-valued columns into JSON arrays for the
// detail view. Source columns hold either a JSON array, a plain string,
// or a placeholder; anything unparseable degrades to an empty list.
func varietyDetail(v database.Variety) gin.H {
	raw, _ := json.Marshal(v)
	detail := gin.H{}
	_ = json.Unmarshal(raw, &detail)

	for _, field := range []string{
		"genetic_markers", "qtl_information",
		"testing_locations", "peer_reviewed_sources",
	} {
		if s, ok := detail[field].(string); ok {
			detail[field+"_list"] = parseJSONList(s)
		}
	}
	return detail
}

// parseJSONList tolerates the mixed encodings seen in enriched exports.
func parseJSONList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "unknown") || raw == "nan" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var items []any
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			out := make([]string, 0, len(items))
			for _, item := range items {
				out = append(out, fmt.Sprint(item))
			}
			return out
		}
		return []string{}
	}
	return []string{raw}
}

func csvHeader() []string {
	return []string{
		"variety_id", "variety_name", "crop_type", "approval_status",
		"stress_tolerance_drought", "stress_tolerance_heat",
		"stress_tolerance_salinity", "stress_tolerance_flood",
		"stress_tolerance_disease", "stress_tolerance_pest",
		"genetic_markers", "qtl_information", "yield_potential",
		"maturity_days", "development_institution", "principal_breeder",
		"testing_locations", "commercial_availability",
		"evidence_quality_score", "peer_reviewed_sources",
		"total_sources", "processing_timestamp",
	}
}

func csvRow(v database.Variety) []string {
	return []string{
		v.VarietyID, v.VarietyName, v.CropType, v.ApprovalStatus,
		v.StressToleranceDrought, v.StressToleranceHeat,
		v.StressToleranceSalinity, v.StressToleranceFlood,
		v.StressToleranceDisease, v.StressTolerancePest,
		v.GeneticMarkers, v.QTLInformation, v.YieldPotential,
		v.MaturityDays, v.DevelopmentInstitution, v.PrincipalBreeder,
		v.TestingLocations, v.CommercialAvailability,
		v.EvidenceQualityScore, v.PeerReviewedSources,
		v.TotalSources, v.ProcessingTimestamp,
	}
}
