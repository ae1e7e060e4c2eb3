// internal/workers/matching/calculate-compatibility/store.go
package calculatecompatibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lusotown-workers/internal/matching"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

var ErrProfileNotFound = errors.New("profile not found")

const profileQuery = `SELECT heritage_countries, interests, language_preference
FROM community_profiles WHERE user_id = $1`

// ProfileStore reads community profiles from PostgreSQL with a Redis
// cache in front. Cache failures degrade to a database read.
type ProfileStore struct {
	db    *sql.DB
	cache *redis.Client
	ttl   time.Duration
}

func NewProfileStore(db *sql.DB, cache *redis.Client, ttl time.Duration) *ProfileStore {
	return &ProfileStore{db: db, cache: cache, ttl: ttl}
}

func cacheKey(userID string) string {
	return "user:profile:" + userID
}

func (s *ProfileStore) GetProfile(ctx context.Context, userID string) (*matching.Profile, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey(userID)).Result(); err == nil {
			var profile matching.Profile
			if err := json.Unmarshal([]byte(cached), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	profile, err := s.queryProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(profile); err == nil {
			s.cache.Set(ctx, cacheKey(userID), encoded, s.ttl)
		}
	}

	return profile, nil
}

func (s *ProfileStore) queryProfile(ctx context.Context, userID string) (*matching.Profile, error) {
	var profile matching.Profile
	err := s.db.QueryRowContext(ctx, profileQuery, userID).Scan(
		pq.Array(&profile.HeritageCountries),
		pq.Array(&profile.Interests),
		&profile.LanguagePreference,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", userID, err)
	}
	return &profile, nil
}
