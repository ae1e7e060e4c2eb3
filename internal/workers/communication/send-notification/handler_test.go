// internal/workers/communication/send-notification/handler_test.go
package sendnotification

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lusotown-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

type mockSES struct {
	sent []ses.SendEmailInput
	err  error
}

func (m *mockSES) SendEmail(_ context.Context, params *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, *params)
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	published []sns.PublishInput
	err       error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.published = append(m.published, *params)
	return &sns.PublishOutput{}, nil
}

func createTestHandler(t *testing.T, config *Config) (*Handler, sqlmock.Sqlmock, *mockSES, *mockSNS) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	templates, err := loadTemplates("")
	require.NoError(t, err)

	sesMock := &mockSES{}
	snsMock := &mockSNS{}

	handler := &Handler{
		config:      config,
		db:          db,
		logger:      logger.NewTestLogger(t),
		sesClient:   sesMock,
		snsClient:   snsMock,
		templateMap: templates,
	}
	return handler, mock, sesMock, snsMock
}

func enabledConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "noreply@lusotown.com",
		Timeout:      5 * time.Second,
	}
}

func expectContact(mock sqlmock.Sqlmock, recipientID, email, phone string) {
	rows := sqlmock.NewRows([]string{"email", "phone"}).AddRow(email, phone)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT email, phone FROM users WHERE id = $1`)).
		WithArgs(recipientID).
		WillReturnRows(rows)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SendsEmailForNewMatch(t *testing.T) {
	handler, mock, sesMock, _ := createTestHandler(t, enabledConfig())
	expectContact(mock, "user-1", "maria@example.com", "")

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "user-1",
		NotificationType: TypeNewMatch,
		Metadata: map[string]interface{}{
			"matchName":  "João",
			"matchScore": 80,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)

	require.Len(t, sesMock.sent, 1)
	body := *sesMock.sent[0].Message.Body.Text.Data
	assert.Contains(t, body, "João")
	assert.Contains(t, body, "80% compatible")
}

func TestHandler_Execute_HighPrioritySendsSMS(t *testing.T) {
	handler, mock, _, snsMock := createTestHandler(t, enabledConfig())
	expectContact(mock, "user-1", "", "+447700900000")

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "user-1",
		NotificationType: TypeNewMatch,
		Priority:         "high",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	require.Len(t, snsMock.published, 1)
	assert.Equal(t, "+447700900000", *snsMock.published[0].PhoneNumber)
}

func TestHandler_Execute_NormalPrioritySkipsSMS(t *testing.T) {
	handler, mock, _, snsMock := createTestHandler(t, enabledConfig())
	expectContact(mock, "user-1", "", "+447700900000")

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "user-1",
		NotificationType: TypeNewMatch,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, snsMock.published)
}

func TestHandler_Execute_UnknownRecipientIsDisabledNotError(t *testing.T) {
	handler, mock, _, _ := createTestHandler(t, enabledConfig())
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT email, phone FROM users WHERE id = $1`)).
		WithArgs("ghost").
		WillReturnError(errors.New("sql: no rows in result set"))

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "ghost",
		NotificationType: TypeNewMatch,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestHandler_Execute_UnknownTemplateFails(t *testing.T) {
	handler, mock, _, _ := createTestHandler(t, enabledConfig())
	expectContact(mock, "user-1", "maria@example.com", "")

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "user-1",
		NotificationType: "carrier_pigeon",
	})

	require.Error(t, err)
	assert.Nil(t, output)
}

func TestHandler_Execute_EmailFailureReportsFailedStatus(t *testing.T) {
	handler, mock, sesMock, _ := createTestHandler(t, enabledConfig())
	sesMock.err = errors.New("ses throttled")
	expectContact(mock, "user-1", "maria@example.com", "")

	output, err := handler.Execute(context.Background(), &Input{
		RecipientID:      "user-1",
		NotificationType: TypeSearchDigest,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

// ==========================
// Template Rendering Tests
// ==========================

func TestLoadTemplates_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"new_match":{"subject":"Custom subject","body":"Custom body","version":"2"}}`), 0o644))

	templates, err := loadTemplates(path)
	require.NoError(t, err)

	tmpl := templates[TypeNewMatch]
	assert.Equal(t, TypeNewMatch, tmpl.Type)
	assert.Equal(t, "Custom subject", tmpl.Subject)
	assert.Equal(t, "2", tmpl.Version)
	assert.NotEmpty(t, templates[TypeSearchDigest].Body)
}

func TestRenderTemplate_ReplacesAndStripsPlaceholders(t *testing.T) {
	rendered := renderTemplate("Hello {{name}}, {{missing}} you have {{count}} matches", map[string]interface{}{
		"name":  "Maria",
		"count": 3,
	})

	assert.Equal(t, "Hello Maria,  you have 3 matches", rendered)
}
