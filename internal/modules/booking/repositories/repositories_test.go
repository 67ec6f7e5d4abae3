package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/models"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/modules/booking/repositories"
	"github.com/coioteTI/corte-e-arte-agenda-sub002/internal/shared/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestContactRepo_Upsert(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	repo := repositories.NewContactRepo(db)
	ctx := context.Background()

	first := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	created, err := repo.Upsert(ctx, tn.ID, "5511999990000", "João", first)
	require.NoError(t, err)
	assert.Equal(t, "João", created.Name)

	later := first.Add(time.Hour)
	again, err := repo.Upsert(ctx, tn.ID, "5511999990000", "Outro Nome", later)
	require.NoError(t, err)

	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "João", again.Name)
	assert.True(t, again.LastMessageAt.Equal(later))

	// Same phone under another tenant is a different contact.
	other := testutil.CreateTenant(t, db)
	elsewhere, err := repo.Upsert(ctx, other.ID, "5511999990000", "", later)
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, elsewhere.ID)
}

func TestConversationRepo_ConcurrentInboundKeepsOneActive(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	contact, err := repositories.NewContactRepo(db).Upsert(context.Background(), tn.ID, "5511999990000", "", time.Now())
	require.NoError(t, err)

	repo := repositories.NewConversationRepo(db)
	const n = 8

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordInbound(context.Background(), tn.ID, contact.ID, "Oi", time.Now())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var conversations []models.Conversation
	require.NoError(t, db.Where("tenant_id = ? AND contact_id = ?", tn.ID, contact.ID).Find(&conversations).Error)
	require.Len(t, conversations, 1)
	assert.Equal(t, n, conversations[0].UnreadCount)
	assert.Equal(t, models.ConversationStatusActive, conversations[0].Status)
}

func TestConversationRepo_ClosedConversationDoesNotBlockNewOne(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	contact, err := repositories.NewContactRepo(db).Upsert(context.Background(), tn.ID, "5511999990000", "", time.Now())
	require.NoError(t, err)

	repo := repositories.NewConversationRepo(db)
	ctx := context.Background()

	old, err := repo.RecordInbound(ctx, tn.ID, contact.ID, "Oi", time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Model(old).Update("status", models.ConversationStatusClosed).Error)

	none, err := repo.FindActive(ctx, tn.ID, contact.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	fresh, err := repo.RecordInbound(ctx, tn.ID, contact.ID, "Voltei", time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Equal(t, 1, fresh.UnreadCount)

	assert.ErrorIs(t, repo.MarkRead(ctx, uuid.Nil, uuid.New()), gorm.ErrRecordNotFound)
}

func TestAppointmentRepo_CreateIfSlotFree(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	repo := repositories.NewAppointmentRepo(db)
	ctx := context.Background()

	slot := func() *models.Appointment {
		return &models.Appointment{TenantID: tn.ID, Date: "2026-03-12", Time: "15:00", Status: models.AppointmentStatusScheduled, BookedBy: models.BookedByBot}
	}

	first := slot()
	ok, err := repo.CreateIfSlotFree(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.CreateIfSlotFree(ctx, slot())
	require.NoError(t, err)
	assert.False(t, ok)

	// Cancelling frees the slot.
	require.NoError(t, db.Model(first).Update("status", models.AppointmentStatusCancelled).Error)
	ok, err = repo.CreateIfSlotFree(ctx, slot())
	require.NoError(t, err)
	assert.True(t, ok)

	// Other tenants are unaffected.
	other := testutil.CreateTenant(t, db)
	ok, err = repo.CreateIfSlotFree(ctx, &models.Appointment{TenantID: other.ID, Date: "2026-03-12", Time: "15:00", Status: models.AppointmentStatusScheduled})
	require.NoError(t, err)
	assert.True(t, ok)

	occupied, err := repo.ListOccupied(ctx, tn.ID, "2026-03-12")
	require.NoError(t, err)
	require.Len(t, occupied, 1)
	assert.Equal(t, "15:00", occupied[0].Time)

	occupied, err = repo.ListOccupied(ctx, tn.ID, "2026-03-13")
	require.NoError(t, err)
	assert.Empty(t, occupied)
}

func TestMessageRepo_RecentIsChronologicalAndExcludes(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	contact, err := repositories.NewContactRepo(db).Upsert(context.Background(), tn.ID, "5511999990000", "", time.Now())
	require.NoError(t, err)
	conversation, err := repositories.NewConversationRepo(db).RecordInbound(context.Background(), tn.ID, contact.ID, "", time.Now())
	require.NoError(t, err)

	repo := repositories.NewMessageRepo(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 12; i++ {
		text := string(rune('a' + i))
		m := &models.Message{
			TenantID:       tn.ID,
			ConversationID: conversation.ID,
			Direction:      models.DirectionInbound,
			Content:        &text,
			MessageType:    models.MessageTypeText,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, m))
		ids = append(ids, m.ID)
	}

	recent, err := repo.Recent(ctx, conversation.ID, 10, ids[11])
	require.NoError(t, err)
	require.Len(t, recent, 10)
	assert.Equal(t, "b", recent[0].Text())
	assert.Equal(t, "k", recent[9].Text())
}

func TestMessageRepo_ExistsByExternalID(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	contact, err := repositories.NewContactRepo(db).Upsert(context.Background(), tn.ID, "5511999990000", "", time.Now())
	require.NoError(t, err)
	conversation, err := repositories.NewConversationRepo(db).RecordInbound(context.Background(), tn.ID, contact.ID, "", time.Now())
	require.NoError(t, err)

	repo := repositories.NewMessageRepo(db)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Message{TenantID: tn.ID, ConversationID: conversation.ID, Direction: models.DirectionInbound, ExternalID: "wamid.1"}))
	// Outbound rows carry no external id and never collide.
	require.NoError(t, repo.Create(ctx, &models.Message{TenantID: tn.ID, ConversationID: conversation.ID, Direction: models.DirectionOutbound}))
	require.NoError(t, repo.Create(ctx, &models.Message{TenantID: tn.ID, ConversationID: conversation.ID, Direction: models.DirectionOutbound}))

	exists, err := repo.ExistsByExternalID(ctx, tn.ID, "wamid.1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByExternalID(ctx, tn.ID, "")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Error(t, repo.Create(ctx, &models.Message{TenantID: tn.ID, ConversationID: conversation.ID, Direction: models.DirectionInbound, ExternalID: "wamid.1"}))
}

func TestBirthdayLogRepo_ReserveAndRelease(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	repo := repositories.NewBirthdayLogRepo(db)
	ctx := context.Background()
	contactID := uuid.New()

	ok, err := repo.Reserve(ctx, tn.ID, contactID, 2026, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Reserve(ctx, tn.ID, contactID, 2026, time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "second reservation for the same year must lose")

	ok, err = repo.Reserve(ctx, tn.ID, contactID, 2027, time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.Release(ctx, tn.ID, contactID, 2026))
	ok, err = repo.Reserve(ctx, tn.ID, contactID, 2026, time.Now())
	require.NoError(t, err)
	assert.True(t, ok, "a released year can be reserved again")

	var count int64
	db.Model(&models.BirthdaySendLog{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestTenantRepo_ListBirthdayEnabled(t *testing.T) {
	db := testutil.NewDB(t)
	on := testutil.CreateTenant(t, db)
	testutil.CreateTenant(t, db, func(tn *models.Tenant) { tn.BirthdayEnabled = false })
	testutil.CreateTenant(t, db, func(tn *models.Tenant) { tn.WhatsAppPhoneNumberID = "" })

	tenants, err := repositories.NewTenantRepo(db).ListBirthdayEnabled(context.Background())
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, on.ID, tenants[0].ID)
	assert.Equal(t, models.DayHours{Open: true, Start: "09:00", End: "19:00"}, tenants[0].Hours().For(time.Monday))
}

func TestCatalogRepo_ListActive(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	testutil.CreateService(t, db, tn.ID, "Corte", 35, 30)
	testutil.CreateService(t, db, tn.ID, "Barba", 25, 20)
	hidden := testutil.CreateService(t, db, tn.ID, "Luzes", 120, 90)
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)

	services, err := repositories.NewCatalogRepo(db).ListActive(context.Background(), tn.ID)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, "Barba", services[0].Name)
	assert.Equal(t, "Corte", services[1].Name)
	assert.InDelta(t, 25.0, services[0].Price, 0.001)
}

func TestAppointmentRepo_ListAgenda(t *testing.T) {
	db := testutil.NewDB(t)
	tn := testutil.CreateTenant(t, db)
	svc := testutil.CreateService(t, db, tn.ID, "Corte", 35, 30)
	contact, err := repositories.NewContactRepo(db).Upsert(context.Background(), tn.ID, "5511999990000", "João", time.Now())
	require.NoError(t, err)

	repo := repositories.NewAppointmentRepo(db)
	ctx := context.Background()
	for _, a := range []*models.Appointment{
		{TenantID: tn.ID, ContactID: &contact.ID, ServiceID: &svc.ID, Date: "2026-03-12", Time: "15:00", Status: models.AppointmentStatusScheduled, BookedBy: models.BookedByBot},
		{TenantID: tn.ID, Date: "2026-03-12", Time: "09:00", Status: models.AppointmentStatusCancelled, BookedBy: models.BookedByManual, Notes: "walk-in"},
		{TenantID: tn.ID, Date: "2026-04-01", Time: "10:00", Status: models.AppointmentStatusScheduled, BookedBy: models.BookedByManual},
	} {
		ok, err := repo.CreateIfSlotFree(ctx, a)
		require.NoError(t, err)
		require.True(t, ok)
	}

	entries, err := repo.ListAgenda(ctx, tn.ID, "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "09:00", entries[0].Time)
	assert.Nil(t, entries[0].ContactName)
	assert.Equal(t, "walk-in", entries[0].Notes)

	require.NotNil(t, entries[1].ServiceName)
	assert.Equal(t, "Corte", *entries[1].ServiceName)
	assert.Equal(t, "João", *entries[1].ContactName)
	assert.InDelta(t, 35.0, *entries[1].ServicePrice, 0.001)
}
