package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

func TestStorage_CreateRequest(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, factory *TestDataFactory) string
		wantErr error
	}{
		{
			name: "success create",
			setup: func(t *testing.T, factory *TestDataFactory) string {
				return factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
			},
		},
		{
			name: "conflict on second open request",
			setup: func(t *testing.T, factory *TestDataFactory) string {
				uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
				factory.CreateRequest(t, uid, "trader@example.com", "trader",
					5000, "Binance", models.RequestStatusPending)
				return uid
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "conflict while previous request approved",
			setup: func(t *testing.T, factory *TestDataFactory) string {
				uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
				factory.CreateRequest(t, uid, "trader@example.com", "trader",
					5000, "Binance", models.RequestStatusApproved)
				return uid
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "success create after rejection",
			setup: func(t *testing.T, factory *TestDataFactory) string {
				uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
				factory.CreateRequest(t, uid, "trader@example.com", "trader",
					5000, "Binance", models.RequestStatusRejected)
				return uid
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()
			factory := NewTestDataFactory(storage)
			verify := NewTestVerification(storage)

			userUID := tt.setup(t, factory)

			id, err := storage.CreateRequest(context.Background(), models.PremiumRequest{
				UserUID:    userUID,
				UserEmail:  "trader@example.com",
				UserName:   "trader",
				FundAmount: 25000,
				Exchange:   "Bybit",
			})

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, id)
			verify.VerifyRequestStatus(t, id, models.RequestStatusPending)
		})
	}
}

func TestStorage_HasOpenRequest(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   bool
	}{
		{name: "pending request is open", status: models.RequestStatusPending, want: true},
		{name: "approved request is open", status: models.RequestStatusApproved, want: true},
		{name: "rejected request is not open", status: models.RequestStatusRejected, want: false},
		{name: "no requests", status: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()
			factory := NewTestDataFactory(storage)

			uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
			if tt.status != "" {
				factory.CreateRequest(t, uid, "trader@example.com", "trader",
					5000, "Binance", tt.status)
			}

			got, err := storage.HasOpenRequest(context.Background(), uid)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorage_GetRequest(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
	id := factory.CreateRequest(t, uid, "trader@example.com", "trader",
		15000, "OKX", models.RequestStatusPending)

	t.Run("success get", func(t *testing.T) {
		got, err := storage.GetRequest(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, uid, got.UserUID)
		assert.Equal(t, "trader@example.com", got.UserEmail)
		assert.Equal(t, "trader", got.UserName)
		assert.InDelta(t, 15000, got.FundAmount, 0.001)
		assert.Equal(t, "OKX", got.Exchange)
		assert.Equal(t, models.RequestStatusPending, got.Status)
		assert.Empty(t, got.AdminNotes)
		assert.Nil(t, got.ReviewedAt)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := storage.GetRequest(context.Background(), uuid.NewString())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := storage.GetRequest(context.Background(), "not-a-uuid")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStorage_ListRequests(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	firstUID := factory.CreateUser(t, "first@example.com", "first", models.RoleUser)
	secondUID := factory.CreateUser(t, "second@example.com", "second", models.RoleUser)
	oldID := factory.CreateRequest(t, firstUID, "first@example.com", "first",
		5000, "Binance", models.RequestStatusRejected)
	time.Sleep(10 * time.Millisecond)
	newID := factory.CreateRequest(t, secondUID, "second@example.com", "second",
		70000, "Bybit", models.RequestStatusPending)

	t.Run("all requests newest first", func(t *testing.T) {
		got, err := storage.ListRequests(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, newID, got[0].ID)
		assert.Equal(t, oldID, got[1].ID)
	})

	t.Run("filter by status", func(t *testing.T) {
		got, err := storage.ListRequests(context.Background(), models.RequestStatusPending)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, newID, got[0].ID)
	})

	t.Run("filter without matches", func(t *testing.T) {
		got, err := storage.ListRequests(context.Background(), models.RequestStatusApproved)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStorage_ListRequestsByUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
	otherUID := factory.CreateUser(t, "other@example.com", "other", models.RoleUser)
	oldID := factory.CreateRequest(t, uid, "trader@example.com", "trader",
		5000, "Binance", models.RequestStatusRejected)
	time.Sleep(10 * time.Millisecond)
	newID := factory.CreateRequest(t, uid, "trader@example.com", "trader",
		9000, "Bybit", models.RequestStatusPending)
	factory.CreateRequest(t, otherUID, "other@example.com", "other",
		3000, "OKX", models.RequestStatusPending)

	got, err := storage.ListRequestsByUser(context.Background(), uid)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newID, got[0].ID)
	assert.Equal(t, oldID, got[1].ID)
}

func TestStorage_DecideRequest(t *testing.T) {
	tests := []struct {
		name       string
		decision   string
		adminNotes string
		wantVIP    bool
		wantStatus string
	}{
		{
			name:       "approve grants entitlement",
			decision:   models.DecisionApproved,
			adminNotes: "verified account",
			wantVIP:    true,
			wantStatus: models.PremiumStatusActive,
		},
		{
			name:       "reject keeps entitlement off",
			decision:   models.DecisionRejected,
			wantVIP:    false,
			wantStatus: models.PremiumStatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()
			factory := NewTestDataFactory(storage)
			verify := NewTestVerification(storage)

			uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
			id := factory.CreateRequest(t, uid, "trader@example.com", "trader",
				5000, "Binance", models.RequestStatusPending)

			got, err := storage.DecideRequest(context.Background(), id, tt.decision, tt.adminNotes)
			require.NoError(t, err)
			assert.Equal(t, tt.decision, got.Status)
			assert.Equal(t, tt.adminNotes, got.AdminNotes)
			require.NotNil(t, got.ReviewedAt)

			verify.VerifyRequestStatus(t, id, tt.decision)
			verify.VerifyUserEntitlement(t, uid, tt.wantVIP, tt.wantStatus)
		})
	}

	t.Run("second decision fails", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()
		factory := NewTestDataFactory(storage)

		uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
		id := factory.CreateRequest(t, uid, "trader@example.com", "trader",
			5000, "Binance", models.RequestStatusPending)

		_, err := storage.DecideRequest(context.Background(), id, models.DecisionApproved, "")
		require.NoError(t, err)

		_, err = storage.DecideRequest(context.Background(), id, models.DecisionRejected, "")
		require.ErrorIs(t, err, domain.ErrState)
	})

	t.Run("unknown id", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		_, err := storage.DecideRequest(context.Background(), uuid.NewString(), models.DecisionApproved, "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		_, err := storage.DecideRequest(context.Background(), "not-a-uuid", models.DecisionApproved, "")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStorage_DeleteRequest(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleUser)
	id := factory.CreateRequest(t, uid, "trader@example.com", "trader",
		5000, "Binance", models.RequestStatusRejected)

	count, err := storage.DeleteRequest(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	verify.VerifyRequestDeleted(t, id)

	count, err = storage.DeleteRequest(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = storage.DeleteRequest(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_RequestStatsAndPendingCount(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	firstUID := factory.CreateUser(t, "first@example.com", "first", models.RoleUser)
	secondUID := factory.CreateUser(t, "second@example.com", "second", models.RoleUser)
	thirdUID := factory.CreateUser(t, "third@example.com", "third", models.RoleUser)
	factory.CreateRequest(t, firstUID, "first@example.com", "first",
		5000, "Binance", models.RequestStatusPending)
	factory.CreateRequest(t, secondUID, "second@example.com", "second",
		9000, "Bybit", models.RequestStatusApproved)
	factory.CreateRequest(t, thirdUID, "third@example.com", "third",
		3000, "OKX", models.RequestStatusRejected)

	stats, err := storage.GetRequestStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)

	pending, err := storage.CountPendingRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestStorage_RegisterUser(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, factory *TestDataFactory)
		user    models.User
		wantErr error
	}{
		{
			name:  "success register",
			setup: func(t *testing.T, factory *TestDataFactory) {},
			user: models.User{
				Email:         "Trader@Example.COM",
				Username:      "trader",
				PasswordHash:  "hashedpassword",
				Role:          models.RoleUser,
				PremiumStatus: models.PremiumStatusNone,
			},
		},
		{
			name: "duplicate username",
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "other@example.com", "trader", models.RoleUser)
			},
			user: models.User{
				Email:         "trader@example.com",
				Username:      "trader",
				PasswordHash:  "hashedpassword",
				Role:          models.RoleUser,
				PremiumStatus: models.PremiumStatusNone,
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "duplicate email",
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "trader@example.com", "other", models.RoleUser)
			},
			user: models.User{
				Email:         "trader@example.com",
				Username:      "trader",
				PasswordHash:  "hashedpassword",
				Role:          models.RoleUser,
				PremiumStatus: models.PremiumStatusNone,
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()
			factory := NewTestDataFactory(storage)

			tt.setup(t, factory)

			uid, err := storage.RegisterUser(context.Background(), tt.user)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, uid)

			got, err := storage.GetUser(context.Background(), uid)
			require.NoError(t, err)
			assert.Equal(t, "trader@example.com", got.Email)
			assert.Equal(t, "trader", got.Username)
			assert.Equal(t, models.RoleUser, got.Role)
			assert.False(t, got.VIPAccess)
			assert.Equal(t, models.PremiumStatusNone, got.PremiumStatus)
		})
	}
}

func TestStorage_GetUserByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	uid := factory.CreateUser(t, "trader@example.com", "trader", models.RoleAdmin)

	t.Run("success get", func(t *testing.T) {
		got, err := storage.GetUserByUsername(context.Background(), "trader")
		require.NoError(t, err)
		assert.Equal(t, uid, got.UID)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := storage.GetUserByUsername(context.Background(), "ghost")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	factory.CreateUser(t, "first@example.com", "first", models.RoleUser)
	time.Sleep(10 * time.Millisecond)
	secondUID := factory.CreateUser(t, "second@example.com", "second", models.RoleAdmin)

	got, err := storage.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, secondUID, got[0].UID)
}

func TestStorage_SetEntitlement(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantStatus string
	}{
		{name: "enable vip", enabled: true, wantStatus: models.PremiumStatusActive},
		{name: "disable vip", enabled: false, wantStatus: models.PremiumStatusInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()
			factory := NewTestDataFactory(storage)
			verify := NewTestVerification(storage)

			uid := factory.CreateUserWithPremium(t, "trader@example.com", "trader",
				!tt.enabled, models.PremiumStatusNone)

			err := storage.SetEntitlement(context.Background(), uid, tt.enabled)
			require.NoError(t, err)
			verify.VerifyUserEntitlement(t, uid, tt.enabled, tt.wantStatus)

			if tt.enabled {
				got, err := storage.GetUser(context.Background(), uid)
				require.NoError(t, err)
				require.NotNil(t, got.PremiumApprovedAt)
			}
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		err := storage.SetEntitlement(context.Background(), uuid.NewString(), true)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed uid", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		err := storage.SetEntitlement(context.Background(), "not-a-uuid", true)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStorage_WebinarCRUD(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	date := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	id, err := storage.CreateWebinar(context.Background(), models.Webinar{
		Title:           "Risk management basics",
		Speaker:         "A. Ivanov",
		Description:     "Position sizing and stop losses",
		Date:            date,
		DurationMinutes: 90,
		Link:            "https://stream.example.com/risk",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	all, err := storage.ListWebinars(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Risk management basics", all[0].Title)
	assert.Equal(t, 90, all[0].DurationMinutes)
	assert.True(t, date.Equal(all[0].Date.UTC()))

	err = storage.UpdateWebinar(context.Background(), models.Webinar{
		Title:           "Risk management advanced",
		Speaker:         "A. Ivanov",
		Description:     "Portfolio level limits",
		Date:            date,
		DurationMinutes: 120,
		Link:            "https://stream.example.com/risk",
	}, id)
	require.NoError(t, err)

	all, err = storage.ListWebinars(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Risk management advanced", all[0].Title)
	assert.Equal(t, 120, all[0].DurationMinutes)

	err = storage.UpdateWebinar(context.Background(), models.Webinar{
		Title:   "Ghost",
		Speaker: "Nobody",
		Date:    date,
	}, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = storage.UpdateWebinar(context.Background(), models.Webinar{
		Title:   "Ghost",
		Speaker: "Nobody",
		Date:    date,
	}, "not-a-uuid")
	require.ErrorIs(t, err, domain.ErrNotFound)

	count, err := storage.DeleteWebinar(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = storage.DeleteWebinar(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = storage.DeleteWebinar(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_ListUpcomingWebinars(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	now := time.Now().UTC()
	factory.CreateWebinar(t, "Past session", now.Add(-24*time.Hour))
	nearID := factory.CreateWebinar(t, "Near session", now.Add(24*time.Hour))
	farID := factory.CreateWebinar(t, "Far session", now.Add(72*time.Hour))

	got, err := storage.ListUpcomingWebinars(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, nearID, got[0].ID)
	assert.Equal(t, farID, got[1].ID)

	got, err = storage.ListUpcomingWebinars(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, nearID, got[0].ID)
}

func TestStorage_ListLiveWebinars(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	factory := NewTestDataFactory(storage)

	now := time.Now().UTC()
	liveID := factory.CreateWebinar(t, "Live session", now.Add(-30*time.Minute))
	factory.CreateWebinar(t, "Old session", now.Add(-3*time.Hour))
	factory.CreateWebinar(t, "Future session", now.Add(3*time.Hour))

	got, err := storage.ListLiveWebinars(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, liveID, got[0].ID)
}
