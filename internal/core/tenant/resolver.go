package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantNotFound is returned when neither the explicit id nor the gateway
// phone number id match a tenant.
var ErrTenantNotFound = errors.New("tenant not found")

type Resolver struct {
	tenants repositories.TenantRepo
}

func NewResolver(tenants repositories.TenantRepo) *Resolver {
	return &Resolver{tenants: tenants}
}

// Resolve prefers the explicit tenant id (webhook query parameter) and falls
// back to the phone number id carried in the payload metadata.
func (r *Resolver) Resolve(ctx context.Context, tenantID, phoneNumberID string) (*models.Tenant, error) {
	if tenantID != "" {
		tenant, err := r.ResolveByID(ctx, tenantID)
		if err == nil {
			return tenant, nil
		}
		if !errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
	}

	if phoneNumberID == "" {
		return nil, ErrTenantNotFound
	}

	tenant, err := r.tenants.GetByPhoneNumberID(ctx, phoneNumberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup tenant by phone number id: %w", err)
	}
	return tenant, nil
}

// ResolveByID looks a tenant up by id. Malformed ids are
// reported as not found.
func (r *Resolver) ResolveByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	id, err := uuid.Parse(tenantID)
	if err != nil {
		return nil, ErrTenantNotFound
	}

	tenant, err := r.tenants.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup tenant: %w", err)
	}
	return tenant, nil
}
