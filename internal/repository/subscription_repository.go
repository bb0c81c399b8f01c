package repository

import "storefront-engine/internal/domain"

type SubscriptionEventRepository interface {
	Append(ev *domain.SubscriptionStatusEvent) error
	// LatestByOrder returns the newest event for the order, or nil when the
	// log is empty.
	LatestByOrder(orderID uint64) (*domain.SubscriptionStatusEvent, error)
	ListByOrder(orderID uint64) ([]domain.SubscriptionStatusEvent, error)
}
