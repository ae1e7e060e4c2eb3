// internal/workers/communication/send-notification/handler.go
package sendnotification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	commonaws "lusotown-workers/internal/common/aws"
	"lusotown-workers/internal/common/logger"
	"lusotown-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-notification"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	config      *Config
	db          *sql.DB
	logger      logger.Logger
	sesClient   SESService
	snsClient   SNSService
	templateMap map[string]models.NotificationTemplate
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) (*Handler, error) {
	templateData, err := loadTemplates(config.TemplateRegistry)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(config.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Handler{
		config:      config,
		db:          db,
		logger:      log.WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient:   commonaws.NewSESClientFromConfig(awsCfg),
		snsClient:   commonaws.NewSNSClientFromConfig(awsCfg),
		templateMap: templateData,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		errorCode := "NOTIFICATION_SEND_FAILED"
		retries := int32(0)
		if errors.Is(err, ErrNotificationSendFailed) {
			retries = 3
		}
		h.failJob(client, job, errorCode, err.Error(), retries)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	email, phone, err := h.getRecipientContact(ctx, input.RecipientID)
	if err != nil {
		h.logger.Warn("recipient not found", map[string]interface{}{
			"recipientId": input.RecipientID,
		})
		return &Output{
			NotificationID: uuid.New().String(),
			Status:         StatusDisabled,
			SentAt:         time.Now().UTC().Format(time.RFC3339),
		}, nil
	}

	tmpl, exists := h.templateMap[input.NotificationType]
	if !exists {
		return nil, fmt.Errorf("template not found for type: %s", input.NotificationType)
	}

	data := map[string]interface{}{
		"recipientId":      input.RecipientID,
		"notificationType": input.NotificationType,
		"matchUserId":      input.MatchUserID,
		"priority":         input.Priority,
	}
	if input.Metadata != nil {
		for k, v := range input.Metadata {
			data[k] = v
		}
	}

	subject := renderTemplate(tmpl.Subject, data)
	body := renderTemplate(tmpl.Body, data)

	notification := models.Notification{
		ID:          uuid.New().String(),
		RecipientID: input.RecipientID,
		Type:        input.NotificationType,
		Status:      StatusDisabled,
		Payload:     data,
		SentAt:      time.Now().UTC().Format(time.RFC3339),
	}

	if h.config.EmailEnabled && email != "" {
		if err := h.sendEmail(ctx, email, subject, body); err != nil {
			h.logger.Error("email send failed", map[string]interface{}{
				"error": err,
				"email": email,
			})
			notification.Status = StatusFailed
			return outputFrom(notification), nil
		}
		notification.Channel = "email"
		notification.Status = StatusSent
	}

	// SMS is reserved for high-priority notifications.
	if h.config.SMSEnabled && phone != "" && input.Priority == "high" {
		if err := h.sendSMS(ctx, phone, body); err != nil {
			h.logger.Error("SMS send failed", map[string]interface{}{
				"error": err,
				"phone": phone,
			})
			notification.Status = StatusFailed
			return outputFrom(notification), nil
		}
		if notification.Channel == "email" {
			notification.Channel = "email+sms"
		} else {
			notification.Channel = "sms"
		}
		notification.Status = StatusSent
	}

	h.logger.Info("notification processed", map[string]interface{}{
		"notificationId": notification.ID,
		"recipientId":    notification.RecipientID,
		"channel":        notification.Channel,
		"status":         notification.Status,
	})

	return outputFrom(notification), nil
}

func outputFrom(n models.Notification) *Output {
	return &Output{
		NotificationID: n.ID,
		Status:         n.Status,
		SentAt:         n.SentAt,
	}
}

func (h *Handler) getRecipientContact(ctx context.Context, recipientID string) (string, string, error) {
	var email, phone string
	err := h.db.QueryRowContext(ctx,
		`SELECT email, phone FROM users WHERE id = $1`, recipientID).Scan(&email, &phone)
	return email, phone, err
}

func (h *Handler) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := h.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(h.config.FromEmail),
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, to, message string) error {
	_, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, _ int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

// Simplified template rendering with placeholder removal for missing values
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Remaining placeholders had no value: strip them.
	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}

// loadTemplates reads the template registry file, falling back to built-in
// defaults when no registry path is configured.
func loadTemplates(path string) (map[string]models.NotificationTemplate, error) {
	defaults := map[string]models.NotificationTemplate{
		TypeNewMatch: {
			Type:    TypeNewMatch,
			Subject: "You have a new community match",
			Body:    "Olá! {{matchName}} looks like a great connection ({{matchScore}}% compatible). Log in to say hello.",
		},
		TypeSearchDigest: {
			Type:    TypeSearchDigest,
			Subject: "New Portuguese businesses near you",
			Body:    "We found {{resultCount}} new places matching your saved search in {{city}}.",
		},
	}

	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, err
	}

	var fromFile map[string]models.NotificationTemplate
	if err := json.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parse template registry %s: %w", path, err)
	}

	// File entries override built-ins, unknown types are additive.
	for k, v := range fromFile {
		if v.Type == "" {
			v.Type = k
		}
		defaults[k] = v
	}
	return defaults, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
