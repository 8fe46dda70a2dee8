package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"example.com/habitkick/internal/domain"
	"example.com/habitkick/internal/notify"
	"example.com/habitkick/pkg/events"
)

// Mailer sends one email.
type Mailer interface {
	Enabled() bool
	Send(ctx context.Context, email notify.Email) (string, error)
}

// ContactDirectory resolves user ids to addresses.
type ContactDirectory interface {
	GetContact(ctx context.Context, userID string) (*domain.Contact, error)
}

// NotificationHandler emails invitees and competition results. Other event types are ignored.
type NotificationHandler struct {
	mailer   Mailer
	contacts ContactDirectory
	logger   *zap.Logger
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(mailer Mailer, contacts ContactDirectory, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{mailer: mailer, contacts: contacts, logger: logger}
}

// Handle implements Handler.
func (h *NotificationHandler) Handle(ctx context.Context, msg Message) error {
	switch msg.EventType {
	case domain.EventCompetitionPlayerInvited, domain.EventCompetitionFinalized:
	default:
		return nil
	}
	if !h.mailer.Enabled() {
		h.logger.Info("email disabled, skipping notification", zap.String("event_type", msg.EventType))
		recordEmail(msg.EventType, "skipped")
		return nil
	}

	switch msg.EventType {
	case domain.EventCompetitionPlayerInvited:
		var evt events.CompetitionPlayerInvited
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		return h.send(ctx, msg.EventType, evt.InviteeID, func(c domain.Contact) (notify.Email, error) {
			return notify.InviteEmail(c.Email, c.Username, evt)
		})
	default:
		var evt events.CompetitionFinalized
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		var errs error
		for _, standing := range evt.Standings {
			err := h.send(ctx, msg.EventType, standing.UserID, func(c domain.Contact) (notify.Email, error) {
				return notify.ResultsEmail(c.Email, c.Username, evt)
			})
			errs = errors.Join(errs, err)
		}
		return errs
	}
}

func (h *NotificationHandler) send(ctx context.Context, eventType, userID string, render func(domain.Contact) (notify.Email, error)) error {
	contact, err := h.contacts.GetContact(ctx, userID)
	if err != nil {
		return err
	}
	if contact == nil || contact.Email == "" {
		h.logger.Warn("no contact for notification", zap.String("event_type", eventType), zap.String("user_id", userID))
		recordEmail(eventType, "skipped")
		return nil
	}

	email, err := render(*contact)
	if err != nil {
		return err
	}
	id, err := h.mailer.Send(ctx, email)
	if err != nil {
		recordEmail(eventType, "failed")
		return fmt.Errorf("email %s: %w", userID, err)
	}
	recordEmail(eventType, "sent")
	h.logger.Info("notification sent", zap.String("event_type", eventType), zap.String("user_id", userID), zap.String("message_id", id))
	return nil
}
