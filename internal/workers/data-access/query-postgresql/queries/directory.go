// internal/workers/data-access/query-postgresql/queries/directory.go
package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lusotown-workers/internal/directory/engine"
	"lusotown-workers/internal/models"
)

func DirectoryBusinesses(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()

	query := `
		SELECT id, name, description, category, city, region,
		       latitude, longitude, is_featured, is_premium, is_verified,
		       rating, review_count, established_year
		FROM directory_businesses
		WHERE is_active = TRUE`
	args := []interface{}{}

	if filters, ok := params["filters"].(map[string]interface{}); ok {
		if city, ok := filters["city"].(string); ok && city != "" {
			args = append(args, city)
			query += fmt.Sprintf(" AND city = $%d", len(args))
		}
		if category, ok := filters["category"].(string); ok && category != "" {
			args = append(args, category)
			query += fmt.Sprintf(" AND category = $%d", len(args))
		}
	}

	query += " ORDER BY created_at DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	businesses, err := scanBusinessRows(rows)
	if err != nil {
		return nil, 0, 0, err
	}

	// rank-directory-results decodes this payload as engine entities, so
	// emit the nested location shape rather than the flat row.
	results := make([]engine.Entity, 0, len(businesses))
	for _, b := range businesses {
		results = append(results, b.ToEntity())
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func BusinessDetails(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	businessIDs, ok := stringSlice(params["businessIds"])
	if !ok || len(businessIDs) == 0 {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	placeholders := make([]string, len(businessIDs))
	args := make([]interface{}, len(businessIDs))
	for i, id := range businessIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `
		SELECT id, name, description, category, city, region,
		       latitude, longitude, is_featured, is_premium, is_verified,
		       rating, review_count, established_year
		FROM directory_businesses
		WHERE id IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results, err := scanBusinessRows(rows)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}

func scanBusinessRows(rows *sql.Rows) ([]models.Business, error) {
	results := []models.Business{}

	for rows.Next() {
		var (
			b                         models.Business
			nameJSON, descriptionJSON []byte
			latitude, longitude       sql.NullFloat64
		)

		err := rows.Scan(
			&b.ID, &nameJSON, &descriptionJSON, &b.Category, &b.City, &b.Region,
			&latitude, &longitude, &b.IsFeatured, &b.IsPremium, &b.IsVerified,
			&b.Rating, &b.ReviewCount, &b.EstablishedYear,
		)
		if err != nil {
			return nil, err
		}

		// Localized fields are stored as JSONB, keyed by language code.
		b.Name = map[string]string{}
		if len(nameJSON) > 0 {
			if err := json.Unmarshal(nameJSON, &b.Name); err != nil {
				return nil, fmt.Errorf("decode name for %s: %w", b.ID, err)
			}
		}
		b.Description = map[string]string{}
		if len(descriptionJSON) > 0 {
			if err := json.Unmarshal(descriptionJSON, &b.Description); err != nil {
				return nil, fmt.Errorf("decode description for %s: %w", b.ID, err)
			}
		}

		if latitude.Valid {
			b.Latitude = &latitude.Float64
		}
		if longitude.Valid {
			b.Longitude = &longitude.Float64
		}

		results = append(results, b)
	}

	return results, rows.Err()
}

func stringSlice(raw interface{}) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
