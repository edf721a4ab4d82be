package biz

import (
	"context"

	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
)

// AbstractService holds the shared database handle for all services.
type AbstractService struct {
	db *gorm.DB
}

// dbFromContext returns a handle bound to the request context so queries are
// cancelled when the caller gives up.
func (s *AbstractService) dbFromContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// scopedDBFromContext additionally composes the request's tenant filter into
// the handle. Tenant-scoped tables must be queried through this method;
// contexts without a filter (background jobs) see all tenants.
func (s *AbstractService) scopedDBFromContext(ctx context.Context) *gorm.DB {
	tx := s.db.WithContext(ctx)

	if filter, ok := contexts.GetTenantFilter(ctx); ok {
		tx = filter.Apply(tx)
	}

	return tx
}
