// internal/workers/data-access/query-postgresql/queries/community.go
package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"lusotown-workers/internal/models"
)

func CommunityProfile(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	var profile models.CommunityProfile

	err := db.QueryRowContext(ctx, `
		SELECT user_id, display_name, city, heritage_countries,
		       interests, language_preference, created_at
		FROM community_profiles
		WHERE user_id = $1`, userID).Scan(
		&profile.UserID, &profile.DisplayName, &profile.City,
		pq.Array(&profile.HeritageCountries),
		pq.Array(&profile.Interests),
		&profile.LanguagePreference, &profile.CreatedAt,
	)
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return profile, 1, execTime, nil
}

func MatchCandidates(ctx context.Context, db *sql.DB, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, ok := params["userId"].(string)
	if !ok {
		return nil, 0, 0, ErrMissingParam
	}

	start := time.Now()

	rows, err := db.QueryContext(ctx, `
		SELECT p.user_id, p.display_name, p.city
		FROM community_profiles p
		JOIN community_profiles me ON me.city = p.city
		WHERE me.user_id = $1
		  AND p.user_id <> $1
		  AND p.is_discoverable = TRUE
		ORDER BY p.created_at DESC
		LIMIT 200`, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	defer rows.Close()

	results := []map[string]interface{}{}
	for rows.Next() {
		var candidateID, displayName, city string
		if err := rows.Scan(&candidateID, &displayName, &city); err != nil {
			return nil, 0, 0, err
		}
		results = append(results, map[string]interface{}{
			"userId":      candidateID,
			"displayName": displayName,
			"city":        city,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return results, len(results), execTime, nil
}
