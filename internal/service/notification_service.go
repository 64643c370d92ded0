package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/integration/alert"
	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/internal/repository"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/phone"
)

// Messages of the approval notification contract.
const (
	DefaultApprovalMessage = "🎉 Congratulations! You have been approved for the event. See you at OREMA Camping Tanger!"

	MsgNotificationSent       = "WhatsApp approval notification sent successfully"
	MsgRegistrationIDMissing  = "Registration ID is required"
	MsgMessagingNotConfigured = "WhatsApp API configuration missing"
	MsgNotApproved            = "Registration is not approved"
	MsgAlreadyNotified        = "Approval notification already sent"
	MsgNoPhone                = "No phone number available for this registration"
	MsgInvalidPhone           = "Invalid phone number. Please check the phone number format."
	MsgInFlight               = "Approval notification already in progress"
	MsgNotifiedNotPersisted   = "Message sent but failed to update database"
	MsgMessagingFailed        = "Internal server error"
)

type notificationRepository interface {
	FindByID(ctx context.Context, id string) (*models.Registration, error)
	MarkNotified(ctx context.Context, id string) (bool, error)
}

type messenger interface {
	Configured() bool
	SendChat(ctx context.Context, to, body string) (models.DeliveryOutcome, error)
}

type adminAuthorizer interface {
	Authorize(ctx context.Context, accessToken string) (*models.Identity, error)
}

// NotificationService sends the one-time approval WhatsApp message.
type NotificationService struct {
	repo      notificationRepository
	auth      adminAuthorizer
	messenger messenger
	guard     NotificationGuard
	alerts    alert.Notifier
	metrics   *MetricsService
	message   string
	logger    *zap.Logger
}

// NewNotificationService constructs the notification service.
func NewNotificationService(repo notificationRepository, auth adminAuthorizer, messenger messenger, guard NotificationGuard, alerts alert.Notifier, metrics *MetricsService, message string, logger *zap.Logger) *NotificationService {
	if guard == nil {
		guard = NewLocalGuard()
	}
	if alerts == nil {
		alerts = alert.Nop{}
	}
	if message == "" {
		message = DefaultApprovalMessage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, auth: auth, messenger: messenger, guard: guard, alerts: alerts, metrics: metrics, message: message, logger: logger}
}

// SendApproval authorizes the caller and notifies the applicant at most once.
func (s *NotificationService) SendApproval(ctx context.Context, req dto.SendApprovalRequest) (err error) {
	outcome := "error"
	defer func() {
		if err == nil {
			outcome = "sent"
		}
		s.metrics.ObserveNotification(outcome)
	}()

	if req.AccessToken == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, MsgNoAccessToken)
	}
	if req.RegistrationID == "" {
		return appErrors.Clone(appErrors.ErrValidation, MsgRegistrationIDMissing)
	}

	ident, err := s.auth.Authorize(ctx, req.AccessToken)
	if err != nil {
		outcome = "unauthorized"
		return err
	}
	if s.messenger == nil || !s.messenger.Configured() {
		return appErrors.Clone(appErrors.ErrConfiguration, MsgMessagingNotConfigured)
	}

	release, ok := s.guard.Acquire(ctx, req.RegistrationID)
	if !ok {
		outcome = "in_flight"
		return appErrors.Clone(appErrors.ErrConflict, MsgInFlight)
	}
	defer release()

	logger := s.logger.With(zap.String("registration_id", req.RegistrationID), zap.String("admin", ident.Email))
	ctx = repository.WithSession(ctx, models.Session{AccessToken: req.AccessToken, Identity: *ident})

	reg, err := s.repo.FindByID(ctx, req.RegistrationID)
	if err != nil {
		logger.Warn("registration lookup failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status,
			fmt.Sprintf("Registration not found. ID: %s, Error: %s", req.RegistrationID, err.Error()))
	}

	switch {
	case reg.Status != models.RegistrationStatusApproved:
		outcome = "precondition"
		return appErrors.Clone(appErrors.ErrPrecondition, MsgNotApproved)
	case reg.ApprovedNotified:
		outcome = "already_sent"
		return appErrors.Clone(appErrors.ErrPrecondition, MsgAlreadyNotified)
	case reg.PhoneNumber() == "":
		outcome = "precondition"
		return appErrors.Clone(appErrors.ErrPrecondition, MsgNoPhone)
	}

	to := phone.Normalize(reg.PhoneNumber())
	delivery, err := s.messenger.SendChat(ctx, to, s.message)
	if err != nil {
		logger.Error("whatsapp send failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, MsgMessagingFailed)
	}
	outcome = delivery.Status.String()

	switch delivery.Status {
	case models.DeliverySent:
	case models.DeliveryInvalidNumber:
		logger.Info("whatsapp rejected number", zap.String("provider_message", delivery.Message))
		return appErrors.Clone(appErrors.ErrValidation, MsgInvalidPhone)
	case models.DeliveryLimitReached:
		logger.Warn("whatsapp limit reached", zap.String("provider_message", delivery.Message))
		return appErrors.Clone(appErrors.ErrLimitReached, "")
	default:
		logger.Warn("whatsapp send rejected", zap.String("provider_message", delivery.Message))
		return appErrors.Clone(appErrors.ErrUpstream, delivery.Message)
	}

	marked, err := s.repo.MarkNotified(ctx, req.RegistrationID)
	if err != nil || !marked {
		outcome = "not_persisted"
		logger.Error("approval sent but flag not persisted", zap.Bool("marked", marked), zap.Error(err))
		alertText := fmt.Sprintf("Approval WhatsApp sent to registration %s but approved_notified was not updated", req.RegistrationID)
		if alertErr := s.alerts.Alert(context.WithoutCancel(ctx), alertText); alertErr != nil {
			logger.Warn("admin alert failed", zap.Error(alertErr))
		}
		if err == nil {
			err = fmt.Errorf("no row updated")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, MsgNotifiedNotPersisted)
	}

	logger.Info("approval notification sent")
	return nil
}
