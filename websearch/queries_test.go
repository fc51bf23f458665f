package websearch

import (
	"strings"
	"testing"

	"seedpipeline/websearch/types"
)

func TestGenerateQueriesBattery(t *testing.T) {
	queries := GenerateQueries("DBGS-54", "Bitter Gourd")

	if len(queries) != 30 {
		t.Fatalf("expected a 30-query battery, got %d", len(queries))
	}

	// Exactly one scholar query, first in the battery, bare variety name.
	scholar := 0
	for _, q := range queries {
		if q.Type == types.TypeScholar {
			scholar++
		}
	}
	if scholar != 1 {
		t.Errorf("expected exactly 1 scholar query, got %d", scholar)
	}
	if queries[0].Type != types.TypeScholar || queries[0].Query != "DBGS-54" {
		t.Errorf("first query should be the bare-name scholar search, got %+v", queries[0])
	}

	for i, q := range queries {
		if q.Query == "" {
			t.Errorf("query %d is empty", i)
		}
		if !q.Post2008 {
			t.Errorf("query %d not marked post-2008", i)
		}
	}
}

func TestGenerateQueriesStressFamily(t *testing.T) {
	queries := GenerateQueries("IR-64", "Rice")

	stress := 0
	for _, q := range queries[1:9] {
		if strings.Contains(q.Query, `"IR-64" Rice`) && q.Priority == "high" {
			stress++
		}
	}
	if stress != 8 {
		t.Errorf("expected 8 high-priority stress queries, got %d", stress)
	}

	// Cold tolerance is part of the stress battery.
	found := false
	for _, q := range queries {
		if strings.Contains(q.Query, "cold tolerance") {
			found = true
		}
	}
	if !found {
		t.Error("cold tolerance query missing from battery")
	}
}

func TestGenerateQueriesSiteRestrictions(t *testing.T) {
	queries := GenerateQueries("Pusa Basmati 1", "Rice")

	sites := []string{"ncbi.nlm.nih.gov", "gramene.org", "seednet.gov.in", "icar.org.in"}
	for _, site := range sites {
		found := false
		for _, q := range queries {
			if strings.Contains(q.Query, "site:"+site) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no site-restricted query for %s", site)
		}
	}
}
