package websearch

import (
	"fmt"
	"strings"

	"seedpipeline/websearch/types"
)

// Query is one planned search in a variety's research battery.
type Query struct {
	Type     string `json:"type"`
	Query    string `json:"query"`
	Post2008 bool   `json:"post_2008"`
	Priority string `json:"priority"`
}

// Stress categories queried individually per variety.
var stressTypes = []string{
	"drought tolerance", "heat tolerance", "salinity tolerance",
	"flood tolerance", "submergence tolerance", "cold tolerance",
	"disease resistance", "pest resistance",
}

// stateDiseases maps major producing states to their dominant disease and
// pest pressure, queried together per state.
var stateDiseases = []struct {
	state    string
	diseases []string
}{
	{"gujarat", []string{"blast", "blight", "rust", "bollworm"}},
	{"maharashtra", []string{"leaf spot", "stem borer", "thrips", "aphids"}},
	{"punjab", []string{"yellow rust", "brown rust", "pink bollworm", "whitefly"}},
	{"haryana", []string{"karnal bunt", "loose smut", "shoot fly", "stem borer"}},
}

var geneticSites = []string{
	"site:ncbi.nlm.nih.gov",
	"site:gramene.org",
	"site:plantgdb.org",
	"site:ipk-gatersleben.de",
}

var evidenceTypes = []string{
	"farmer field trials participatory evaluation",
	"agronomic trials yield performance",
	"comparative studies field evaluation",
	"stress performance assessment",
}

var commercialTerms = []string{
	`KVK "Krishi Vigyan Kendra" seed availability`,
	`NSC "National Seeds Corporation" commercial`,
	`"State Seed Corporation" seed dealers availability`,
}

// GenerateQueries builds the full 30-query research battery for a variety:
// one scholar query, eight stress-tolerance queries, four state disease
// queries, four genetic-database site queries, four evidence queries, three
// commercial queries, three government-portal queries and three backups.
func GenerateQueries(varietyName, cropName string) []Query {
	queries := make([]Query, 0, 30)

	// The scholar search is just the bare variety name; quoting and
	// extra terms hurt publication recall.
	queries = append(queries, Query{
		Type:     types.TypeScholar,
		Query:    varietyName,
		Post2008: true,
		Priority: "high",
	})

	for _, stress := range stressTypes {
		queries = append(queries, Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`"%s" %s %s after:2008`, varietyName, cropName, stress),
			Post2008: true,
			Priority: "high",
		})
	}

	for _, sd := range stateDiseases {
		queries = append(queries, Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`"%s" %s %s (%s) after:2008`, varietyName, cropName, sd.state, strings.Join(sd.diseases, " OR ")),
			Post2008: true,
			Priority: "medium",
		})
	}

	for _, site := range geneticSites {
		queries = append(queries, Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`%s "%s" %s QTL molecular markers`, site, varietyName, cropName),
			Post2008: true,
			Priority: "medium",
		})
	}

	for _, evidence := range evidenceTypes {
		queries = append(queries, Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`"%s" %s %s after:2008`, varietyName, cropName, evidence),
			Post2008: true,
			Priority: "medium",
		})
	}

	for _, commercial := range commercialTerms {
		queries = append(queries, Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`"%s" %s %s`, varietyName, cropName, commercial),
			Post2008: true,
			Priority: "low",
		})
	}

	queries = append(queries,
		Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`site:seednet.gov.in "%s" breeder allocation`, varietyName),
			Post2008: true,
			Priority: "medium",
		},
		Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`site:icar.org.in "%s" %s notification`, varietyName, cropName),
			Post2008: true,
			Priority: "medium",
		},
		Query{
			Type:     types.TypeWeb,
			Query:    fmt.Sprintf(`"gazette notification" "%s" %s after:2008`, varietyName, cropName),
			Post2008: true,
			Priority: "medium",
		},
	)

	backups := []string{
		fmt.Sprintf(`"%s" %s research development breeding after:2008`, varietyName, cropName),
		fmt.Sprintf(`"%s" genetics genomics molecular breeding after:2008`, varietyName),
		fmt.Sprintf(`"%s" %s performance traits characteristics after:2008`, varietyName, cropName),
	}
	for _, backup := range backups {
		queries = append(queries, Query{
			Type:     types.TypeWeb,
			Query:    backup,
			Post2008: true,
			Priority: "low",
		})
	}

	return queries
}
