package repository

import "storefront-engine/internal/domain"

type ReturnRepository interface {
	Create(req *domain.ReturnRequest) error
	FindByID(id string) (*domain.ReturnRequest, error)
	// List returns returns newest first; status filters when non-empty.
	List(status domain.ReturnStatus, limit int) ([]domain.ReturnRequest, error)
	// ListByOrder returns every return filed against the order, any status.
	ListByOrder(orderID uint64) ([]domain.ReturnRequest, error)
	Update(req *domain.ReturnRequest) error
}
