// internal/workers/data-access/query-postgresql/handler_test.go
package querypostgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/directory/engine"
	"lusotown-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}

func createTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewHandler(createTestConfig(), db, logger.NewTestLogger(t)), mock
}

func businessRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "description", "category", "city", "region",
		"latitude", "longitude", "is_featured", "is_premium", "is_verified",
		"rating", "review_count", "established_year",
	}).AddRow(
		"biz-1", []byte(`{"en":"Lisbon Bakery","pt":"Pastelaria de Lisboa"}`), []byte(`{"en":"Fresh pastries"}`),
		"cafes", "London", "Greater London",
		51.5072, -0.1276, true, false, true,
		4.7, 120, 2015,
	)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_DirectoryBusinesses(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectQuery(`SELECT id, name, description, category, city, region, latitude, longitude, is_featured, is_premium, is_verified, rating, review_count, established_year FROM directory_businesses WHERE is_active = TRUE AND city = \$1 ORDER BY created_at DESC`).
		WithArgs("London").
		WillReturnRows(businessRows())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeDirectoryBusinesses),
		Filters:   map[string]interface{}{"city": "London"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
	assert.GreaterOrEqual(t, output.QueryExecutionTime, int64(0))

	data := output.Data.([]engine.Entity)
	require.Len(t, data, 1)
	assert.Equal(t, "biz-1", data[0].ID)
	assert.Equal(t, map[string]string{"en": "Lisbon Bakery", "pt": "Pastelaria de Lisboa"}, data[0].Name)
	assert.Equal(t, "London", data[0].Location.City)
	require.NotNil(t, data[0].Location.Latitude)
	assert.Equal(t, 51.5072, *data[0].Location.Latitude)
	assert.Equal(t, 4.7, data[0].Rating)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DirectoryBusinessesFeedRanking(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM directory_businesses WHERE is_active = TRUE ORDER BY created_at DESC`).
		WillReturnRows(businessRows())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeDirectoryBusinesses),
	})
	require.NoError(t, err)

	// The payload travels through workflow variables as JSON before
	// rank-directory-results decodes it, so round-trip it the same way.
	raw, err := json.Marshal(output.Data)
	require.NoError(t, err)
	var entities []engine.Entity
	require.NoError(t, json.Unmarshal(raw, &entities))

	result := engine.Run(entities, engine.Criteria{
		City:   "London",
		SortBy: engine.SortRelevance,
	}, logger.NewTestLogger(t))

	require.Len(t, result.Entities, 1)
	assert.Equal(t, "biz-1", result.Entities[0].ID)
	assert.Zero(t, result.Skipped)
}

func TestHandler_Execute_DirectoryBusinessesNullCoordinatesOmitted(t *testing.T) {
	handler, mock := createTestHandler(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "category", "city", "region",
		"latitude", "longitude", "is_featured", "is_premium", "is_verified",
		"rating", "review_count", "established_year",
	}).AddRow(
		"biz-2", []byte(`{"en":"Hidden Spot"}`), []byte(`{}`),
		"restaurants", "Manchester", "Greater Manchester",
		nil, nil, false, false, false,
		4.0, 8, 2019,
	)
	mock.ExpectQuery(`SELECT .+ FROM directory_businesses WHERE is_active = TRUE ORDER BY created_at DESC`).
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeDirectoryBusinesses),
	})

	require.NoError(t, err)
	data := output.Data.([]engine.Entity)
	require.Len(t, data, 1)
	assert.Nil(t, data[0].Location.Latitude)
	assert.Nil(t, data[0].Location.Longitude)
	assert.Nil(t, data[0].Location.Point())
}

func TestHandler_Execute_BusinessDetails(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM directory_businesses WHERE id IN \(\$1,\$2\)`).
		WithArgs("biz-1", "biz-2").
		WillReturnRows(businessRows())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType:   string(models.QueryTypeBusinessDetails),
		BusinessIDs: []string{"biz-1", "biz-2"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)
	data := output.Data.([]models.Business)
	require.Len(t, data, 1)
	assert.Equal(t, "London", data[0].City)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CommunityProfile(t *testing.T) {
	handler, mock := createTestHandler(t)

	rows := sqlmock.NewRows([]string{
		"user_id", "display_name", "city", "heritage_countries",
		"interests", "language_preference", "created_at",
	}).AddRow(
		"user-1", "Maria", "London", []byte("{Portugal,Brazil}"),
		[]byte("{fado,food}"), "bilingual", "2024-03-01",
	)
	mock.ExpectQuery(`SELECT user_id, display_name, city, heritage_countries, interests, language_preference, created_at FROM community_profiles WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeCommunityProfile),
		UserID:    "user-1",
	})

	require.NoError(t, err)
	data := output.Data.(models.CommunityProfile)
	assert.Equal(t, "Maria", data.DisplayName)
	assert.Equal(t, []string{"Portugal", "Brazil"}, data.HeritageCountries)
	assert.Equal(t, "bilingual", data.LanguagePreference)
}

func TestHandler_Execute_MatchCandidates(t *testing.T) {
	handler, mock := createTestHandler(t)

	rows := sqlmock.NewRows([]string{"user_id", "display_name", "city"}).
		AddRow("user-2", "João", "London").
		AddRow("user-3", "Ana", "London")
	mock.ExpectQuery(`SELECT p.user_id, p.display_name, p.city FROM community_profiles p`).
		WithArgs("user-1").
		WillReturnRows(rows)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeMatchCandidates),
		UserID:    "user-1",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, output.RowCount)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_InvalidQueryType(t *testing.T) {
	handler, _ := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "drop-all-tables",
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrInvalidQueryType)
}

func TestHandler_Execute_QueryFailureWrapped(t *testing.T) {
	handler, mock := createTestHandler(t)

	mock.ExpectQuery(`SELECT .+ FROM directory_businesses`).
		WillReturnError(sql.ErrConnDone)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeDirectoryBusinesses),
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}

func TestHandler_Execute_MissingParamIsExecutionFailure(t *testing.T) {
	handler, _ := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: string(models.QueryTypeBusinessDetails),
	})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrQueryExecutionFailed)
}
