package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foodhive/internal/models"
	"foodhive/pkg/metrics"

	"go.uber.org/zap"
)

// ProductLister is the read side ExpiryService needs.
type ProductLister interface {
	List(ctx context.Context) ([]models.Product, error)
}

// ReminderPublisher delivers reminders to whoever notifies the user.
type ReminderPublisher interface {
	PublishJSON(ctx context.Context, payload interface{}) error
}

// ExpiryService scans stored products and emits reminders for those about to expire.
type ExpiryService struct {
	products  ProductLister
	publisher ReminderPublisher
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu   sync.Mutex
	day  models.Date
	sent map[string]bool
}

// NewExpiryService creates a new ExpiryService. A nil publisher only logs reminders.
func NewExpiryService(products ProductLister, publisher ReminderPublisher, logger *zap.Logger, m *metrics.Metrics) *ExpiryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryService{
		products:  products,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		sent:      make(map[string]bool),
	}
}

// WithClock replaces the clock used to decide what "today" is.
func (s *ExpiryService) WithClock(now func() time.Time) *ExpiryService {
	s.now = now
	return s
}

// CheckOnce emits a reminder for every product exactly 5, 3 or 1 days from
// expiry and returns the reminders it emitted. Each reminder goes out at most
// once per day, however often the check runs. A failed publish is logged,
// retried on the next check, and does not stop the scan.
func (s *ExpiryService) CheckOnce(ctx context.Context) ([]models.ExpiryReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for expiry check: %w", err)
	}

	today := models.DateOf(s.now())
	if today != s.day {
		s.day = today
		s.sent = make(map[string]bool)
	}

	var reminders []models.ExpiryReminder
	for _, p := range products {
		reminder, due := models.ReminderFor(p, today)
		if !due {
			continue
		}
		key := fmt.Sprintf("%s_%d", p.ID, reminder.DaysLeft)
		if s.sent[key] {
			continue
		}

		if s.publisher == nil {
			s.logger.Info("Expiry reminder (messaging disabled)", zap.String("product_id", p.ID), zap.String("message", reminder.Message))
			s.metrics.ObserveReminder(metrics.OutcomeSuccess)
			s.sent[key] = true
			reminders = append(reminders, reminder)
			continue
		}
		if err := s.publisher.PublishJSON(ctx, reminder); err != nil {
			s.logger.Warn("Failed to publish expiry reminder", zap.String("product_id", p.ID), zap.Error(err))
			s.metrics.ObserveReminder(metrics.OutcomeFailure)
			continue
		}
		s.metrics.ObserveReminder(metrics.OutcomeSuccess)
		s.sent[key] = true
		reminders = append(reminders, reminder)
	}

	s.logger.Debug("Expiry check finished", zap.Int("products", len(products)), zap.Int("reminders", len(reminders)))
	return reminders, nil
}

// Run checks immediately and then on every tick until ctx is done.
func (s *ExpiryService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.CheckOnce(ctx); err != nil {
			s.logger.Warn("Expiry check failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
