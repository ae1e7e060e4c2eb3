// internal/workers/data-access/query-elasticsearch/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// ElasticsearchQuery defines the structure of a query request
type ElasticsearchQuery struct {
	Index      string
	QueryType  string
	Filters    map[string]interface{}
	BusinessID string
	Category   string
	Pagination struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters
func BuildQuery(eq ElasticsearchQuery) (*esapi.SearchRequest, error) {
	if eq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch eq.QueryType {
	case "directory_search":
		queryBody = buildDirectorySearchQuery(eq)
	case "related_businesses":
		queryBody = buildRelatedBusinessesQuery(eq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, eq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{eq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &eq.Pagination.From,
		Size:  &eq.Pagination.Size,
	}

	return &req, nil
}

// buildDirectorySearchQuery builds the main directory search query dynamically.
// Name and description are localized objects, so the multi_match targets every
// language sub-field with the name boosted over the description.
func buildDirectorySearchQuery(eq ElasticsearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if text, ok := eq.Filters["query"].(string); ok && strings.TrimSpace(text) != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  strings.TrimSpace(text),
				"fields": []string{"name.*^3", "description.*"},
				"type":   "best_fields",
			},
		})
	}

	if category, ok := eq.Filters["category"].(string); ok && category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	} else if eq.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": eq.Category},
		})
	}

	if city, ok := eq.Filters["city"].(string); ok && city != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"city.keyword": city},
		})
	}

	// Geo filter applies only with both an origin and a positive radius.
	// Businesses without a location field drop out of the filter, matching
	// the radius semantics of the ranking engine.
	origin, hasOrigin := originFromFilters(eq.Filters)
	radius, hasRadius := floatFromFilters(eq.Filters, "radiusKm")
	if hasOrigin && hasRadius && radius > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"geo_distance": map[string]interface{}{
				"distance": fmt.Sprintf("%.1fkm", radius),
				"location": origin,
			},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	if sortBy, ok := eq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "rating":
			query["sort"] = []map[string]interface{}{{"rating": "desc"}}
		case "newest":
			query["sort"] = []map[string]interface{}{{"established_year": "desc"}}
		case "distance":
			if hasOrigin {
				query["sort"] = []map[string]interface{}{{
					"_geo_distance": map[string]interface{}{
						"location": origin,
						"order":    "asc",
						"unit":     "km",
					},
				}}
			}
		}
	}

	return query
}

// buildRelatedBusinessesQuery builds a "similar businesses" query
func buildRelatedBusinessesQuery(eq ElasticsearchQuery) map[string]interface{} {
	if eq.BusinessID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name.en", "name.pt", "description.en", "description.pt", "category"},
				"like": []map[string]interface{}{
					{"_index": eq.Index, "_id": eq.BusinessID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

func originFromFilters(filters map[string]interface{}) (map[string]interface{}, bool) {
	raw, ok := filters["origin"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	lat, latOK := raw["latitude"].(float64)
	lon, lonOK := raw["longitude"].(float64)
	if !latOK || !lonOK {
		return nil, false
	}
	return map[string]interface{}{"lat": lat, "lon": lon}, true
}

func floatFromFilters(filters map[string]interface{}, key string) (float64, bool) {
	switch v := filters[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
