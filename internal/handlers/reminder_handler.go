package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"foodhive/internal/models"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// ReminderHandler consumes expiry reminders from the message queue.
type ReminderHandler struct {
	logger *zap.Logger
	notify func(models.ExpiryReminder)
}

// NewReminderHandler creates a ReminderHandler. notify may be nil, in which
// case reminders are only logged.
func NewReminderHandler(logger *zap.Logger, notify func(models.ExpiryReminder)) *ReminderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderHandler{logger: logger, notify: notify}
}

// HandleDelivery decodes one reminder message. A malformed body is returned as
// an error so the consumer rejects it instead of redelivering.
func (h *ReminderHandler) HandleDelivery(d amqp.Delivery) error {
	var reminder models.ExpiryReminder
	if err := json.Unmarshal(d.Body, &reminder); err != nil {
		return fmt.Errorf("failed to decode expiry reminder: %w", err)
	}
	if reminder.ProductID == "" {
		return errors.New("expiry reminder without product ID")
	}

	h.logger.Info(reminder.Message,
		zap.String("product_id", reminder.ProductID),
		zap.String("exp_date", reminder.ExpDate.String()),
		zap.Int("days_left", reminder.DaysLeft),
	)
	if h.notify != nil {
		h.notify(reminder)
	}
	return nil
}
