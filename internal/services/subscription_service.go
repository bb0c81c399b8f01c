package services

import (
	"context"
	"log"
	"time"

	"storefront-engine/internal/domain"
	rabbit "storefront-engine/internal/infra/rabbitmq"
	"storefront-engine/internal/repository"

	"github.com/google/uuid"
)

// SubscriptionService governs recurring-delivery state. Status is a pure
// projection over the append-only event log: the latest event wins, and an
// empty log means active. Only the delivery schedule is mutated in place.
type SubscriptionService struct {
	orders    repository.OrderRepository
	events    repository.SubscriptionEventRepository
	publisher rabbit.PublisherInterface
}

func NewSubscriptionService(o repository.OrderRepository, e repository.SubscriptionEventRepository, pub rabbit.PublisherInterface) *SubscriptionService {
	return &SubscriptionService{
		orders:    o,
		events:    e,
		publisher: pub,
	}
}

func (s *SubscriptionService) subscriptionOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !o.IsSubscription {
		return nil, domain.Conflictf("order %d is not a subscription order", orderID)
	}
	return o, nil
}

func (s *SubscriptionService) CurrentStatus(ctx context.Context, orderID uint64) (*domain.SubscriptionState, error) {
	o, err := s.subscriptionOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	state := &domain.SubscriptionState{
		OrderID:          orderID,
		Status:           domain.SubscriptionActive,
		Frequency:        o.SubscriptionFrequency,
		NextDeliveryDate: o.NextDeliveryDate,
	}
	ev, err := s.events.LatestByOrder(orderID)
	if err != nil {
		return nil, err
	}
	if ev != nil {
		state.Status = ev.Status
		state.PausedUntil = ev.PausedUntil
	}
	return state, nil
}

// SetStatus appends a transition event. Valid moves: active<->paused and
// either into cancelled, which is terminal.
func (s *SubscriptionService) SetStatus(ctx context.Context, orderID uint64, newStatus domain.SubscriptionStatus, reason string, pausedUntil *time.Time) (*domain.SubscriptionStatusEvent, error) {
	if !newStatus.Valid() {
		return nil, domain.Validationf("unknown subscription status %q", newStatus)
	}

	state, err := s.CurrentStatus(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if state.Status == domain.SubscriptionCancelled {
		return nil, domain.Conflictf("subscription for order %d is cancelled", orderID)
	}
	if newStatus == state.Status {
		return nil, domain.Conflictf("subscription for order %d is already %s", orderID, newStatus)
	}

	if newStatus == domain.SubscriptionPaused {
		if pausedUntil == nil {
			return nil, domain.Validationf("pausing requires a paused_until date")
		}
		if !pausedUntil.After(time.Now()) {
			return nil, domain.Validationf("paused_until must be in the future")
		}
	} else {
		pausedUntil = nil
	}

	ev := &domain.SubscriptionStatusEvent{
		ID:             uuid.NewString(),
		OrderID:        orderID,
		Status:         newStatus,
		PreviousStatus: state.Status,
		Reason:         reason,
		PausedUntil:    pausedUntil,
		CreatedAt:      time.Now(),
	}
	if err := s.events.Append(ev); err != nil {
		return nil, err
	}

	go s.publishChanged(context.Background(), ev)

	return ev, nil
}

// SkipNextDelivery pushes the schedule forward by one frequency period,
// from the current next_delivery_date or from now when unset.
func (s *SubscriptionService) SkipNextDelivery(ctx context.Context, orderID uint64) (time.Time, error) {
	o, err := s.subscriptionOrder(ctx, orderID)
	if err != nil {
		return time.Time{}, err
	}

	period, ok := o.SubscriptionFrequency.Period()
	if !ok {
		return time.Time{}, domain.Validationf("order %d has no valid subscription frequency", orderID)
	}

	base := time.Now()
	if o.NextDeliveryDate != nil {
		base = *o.NextDeliveryDate
	}
	next := base.Add(period)

	if err := s.orders.UpdateNextDeliveryDate(orderID, next); err != nil {
		return time.Time{}, err
	}
	return next, nil
}

// UpdateFrequency changes the recurrence period. The delivery schedule is
// left alone: callers pair this with SkipNextDelivery when they want the
// date moved.
func (s *SubscriptionService) UpdateFrequency(ctx context.Context, orderID uint64, freq domain.SubscriptionFrequency) (*domain.Order, error) {
	if _, ok := freq.Period(); !ok {
		return nil, domain.Validationf("unknown subscription frequency %q", freq)
	}

	o, err := s.subscriptionOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateFrequency(orderID, freq); err != nil {
		return nil, err
	}
	o.SubscriptionFrequency = freq
	return o, nil
}

func (s *SubscriptionService) publishChanged(ctx context.Context, ev *domain.SubscriptionStatusEvent) {
	evt := domain.SubscriptionChangedEvent{
		OrderID:        ev.OrderID,
		Status:         ev.Status,
		PreviousStatus: ev.PreviousStatus,
		PausedUntil:    ev.PausedUntil,
		CreatedAt:      ev.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, domain.EventSubscriptionChanged, evt); err != nil {
		log.Printf("Failed to publish %s: %v", domain.EventSubscriptionChanged, err)
	}
}
