package tenant

import (
	"context"
	"testing"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	db := testutil.NewDB(t)
	first := testutil.CreateTenant(t, db, func(tn *models.Tenant) { tn.WhatsAppPhoneNumberID = "PN-1" })
	second := testutil.CreateTenant(t, db, func(tn *models.Tenant) { tn.WhatsAppPhoneNumberID = "PN-2" })

	resolver := NewResolver(repositories.NewTenantRepo(db))
	ctx := context.Background()

	tests := []struct {
		name          string
		tenantID      string
		phoneNumberID string
		want          uuid.UUID
		wantErr       error
	}{
		{"explicit id wins over metadata", second.ID.String(), "PN-1", second.ID, nil},
		{"falls back to phone number id", "", "PN-1", first.ID, nil},
		{"unknown explicit id falls back", uuid.NewString(), "PN-2", second.ID, nil},
		{"malformed explicit id falls back", "not-a-uuid", "PN-2", second.ID, nil},
		{"nothing matches", uuid.NewString(), "PN-404", uuid.Nil, ErrTenantNotFound},
		{"nothing given", "", "", uuid.Nil, ErrTenantNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant, err := resolver.Resolve(ctx, tt.tenantID, tt.phoneNumberID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tenant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tenant.ID)
		})
	}
}
