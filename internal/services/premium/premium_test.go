package premium

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-hub/internal/config"
	"github.com/magabrotheeeer/membership-hub/internal/domain"
	"github.com/magabrotheeeer/membership-hub/internal/models"
)

type RequestRepoMock struct{ mock.Mock }

func (m *RequestRepoMock) CreateRequest(ctx context.Context, req models.PremiumRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *RequestRepoMock) HasOpenRequest(ctx context.Context, userUID string) (bool, error) {
	args := m.Called(ctx, userUID)
	return args.Bool(0), args.Error(1)
}
func (m *RequestRepoMock) GetRequest(ctx context.Context, id string) (*models.PremiumRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumRequest), args.Error(1)
}
func (m *RequestRepoMock) ListRequests(ctx context.Context, status string) ([]*models.PremiumRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PremiumRequest), args.Error(1)
}
func (m *RequestRepoMock) ListRequestsByUser(ctx context.Context, userUID string) ([]*models.PremiumRequest, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PremiumRequest), args.Error(1)
}
func (m *RequestRepoMock) DecideRequest(ctx context.Context, id, decision, adminNotes string) (*models.PremiumRequest, error) {
	args := m.Called(ctx, id, decision, adminNotes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumRequest), args.Error(1)
}
func (m *RequestRepoMock) DeleteRequest(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RequestRepoMock) CountPendingRequests(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *RequestRepoMock) GetRequestStats(ctx context.Context) (*models.RequestStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RequestStats), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *UserRepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}
func (m *UserRepoMock) SetEntitlement(ctx context.Context, userUID string, enabled bool) error {
	return m.Called(ctx, userUID, enabled).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) PublishDecision(info models.DecisionInfo) error {
	return m.Called(info).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func defaultBounds() config.Premium {
	return config.Premium{MinFundAmount: 100, MaxFundAmount: 1000000}
}

func newService(r *RequestRepoMock, u *UserRepoMock, c *CacheMock, n *NotifierMock) *Service {
	return New(r, u, c, n, defaultBounds(), newNoopLogger())
}

func TestService_Submit(t *testing.T) {
	user := &models.User{
		UID:      "uid-1",
		Email:    "trader@example.com",
		Username: "trader",
		Role:     models.RoleUser,
	}

	tests := []struct {
		name       string
		req        models.DummyRequest
		setupMocks func(r *RequestRepoMock, u *UserRepoMock, c *CacheMock)
		wantID     string
		wantErr    error
	}{
		{
			name: "success submit",
			req:  models.DummyRequest{FundAmount: 5000, Exchange: "Binance"},
			setupMocks: func(r *RequestRepoMock, u *UserRepoMock, c *CacheMock) {
				u.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
				r.On("HasOpenRequest", mock.Anything, "uid-1").Return(false, nil).Once()
				r.On("CreateRequest", mock.Anything, mock.MatchedBy(func(req models.PremiumRequest) bool {
					return req.UserUID == "uid-1" &&
						req.UserEmail == "trader@example.com" &&
						req.UserName == "trader" &&
						req.FundAmount == 5000 &&
						req.Exchange == "Binance"
				})).Return("req-1", nil).Once()
				c.On("Invalidate", "premium:stats").Return(nil).Once()
			},
			wantID: "req-1",
		},
		{
			name:       "amount below minimum",
			req:        models.DummyRequest{FundAmount: 50, Exchange: "Binance"},
			setupMocks: func(_ *RequestRepoMock, _ *UserRepoMock, _ *CacheMock) {},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "amount above maximum",
			req:        models.DummyRequest{FundAmount: 2000000, Exchange: "Binance"},
			setupMocks: func(_ *RequestRepoMock, _ *UserRepoMock, _ *CacheMock) {},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "blank exchange",
			req:        models.DummyRequest{FundAmount: 5000, Exchange: "   "},
			setupMocks: func(_ *RequestRepoMock, _ *UserRepoMock, _ *CacheMock) {},
			wantErr:    domain.ErrValidation,
		},
		{
			name: "open request exists",
			req:  models.DummyRequest{FundAmount: 5000, Exchange: "Bybit"},
			setupMocks: func(r *RequestRepoMock, u *UserRepoMock, _ *CacheMock) {
				u.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
				r.On("HasOpenRequest", mock.Anything, "uid-1").Return(true, nil).Once()
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "unknown user",
			req:  models.DummyRequest{FundAmount: 5000, Exchange: "Binance"},
			setupMocks: func(_ *RequestRepoMock, u *UserRepoMock, _ *CacheMock) {
				u.On("GetUser", mock.Anything, "uid-1").Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "storage error on create",
			req:  models.DummyRequest{FundAmount: 5000, Exchange: "Binance"},
			setupMocks: func(r *RequestRepoMock, u *UserRepoMock, _ *CacheMock) {
				u.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
				r.On("HasOpenRequest", mock.Anything, "uid-1").Return(false, nil).Once()
				r.On("CreateRequest", mock.Anything, mock.Anything).Return("", errors.New("connection reset")).Once()
			},
			wantErr: domain.ErrBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := new(RequestRepoMock)
			users := new(UserRepoMock)
			cache := new(CacheMock)
			svc := newService(requests, users, cache, nil)

			tt.setupMocks(requests, users, cache)

			got, err := svc.Submit(context.Background(), "uid-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			requests.AssertExpectations(t)
			users.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_Submit_TrimsExchange(t *testing.T) {
	requests := new(RequestRepoMock)
	users := new(UserRepoMock)
	cache := new(CacheMock)
	svc := newService(requests, users, cache, nil)

	users.On("GetUser", mock.Anything, "uid-1").
		Return(&models.User{UID: "uid-1", Email: "t@e.com", Username: "t"}, nil).Once()
	requests.On("HasOpenRequest", mock.Anything, "uid-1").Return(false, nil).Once()
	requests.On("CreateRequest", mock.Anything, mock.MatchedBy(func(req models.PremiumRequest) bool {
		return req.Exchange == "Other: MEXC"
	})).Return("req-9", nil).Once()
	cache.On("Invalidate", "premium:stats").Return(nil).Once()

	id, err := svc.Submit(context.Background(), "uid-1",
		models.DummyRequest{FundAmount: 100, Exchange: "  Other: MEXC  "})
	assert.NoError(t, err)
	assert.Equal(t, "req-9", id)
	requests.AssertExpectations(t)
}

func TestService_Decide(t *testing.T) {
	approved := &models.PremiumRequest{
		ID:         "req-1",
		UserUID:    "uid-1",
		UserEmail:  "trader@example.com",
		UserName:   "trader",
		Status:     models.RequestStatusApproved,
		AdminNotes: "verified",
	}

	tests := []struct {
		name       string
		actorRole  string
		req        models.DummyDecision
		setupMocks func(r *RequestRepoMock, c *CacheMock, n *NotifierMock)
		wantStatus string
		wantErr    error
	}{
		{
			name:      "success approve publishes notification",
			actorRole: models.RoleAdmin,
			req:       models.DummyDecision{Decision: models.DecisionApproved, AdminNotes: "verified"},
			setupMocks: func(r *RequestRepoMock, c *CacheMock, n *NotifierMock) {
				r.On("DecideRequest", mock.Anything, "req-1", models.DecisionApproved, "verified").
					Return(approved, nil).Once()
				c.On("Invalidate", "premium:stats").Return(nil).Once()
				n.On("PublishDecision", models.DecisionInfo{
					UserEmail:  "trader@example.com",
					UserName:   "trader",
					Status:     models.RequestStatusApproved,
					AdminNotes: "verified",
				}).Return(nil).Once()
			},
			wantStatus: models.RequestStatusApproved,
		},
		{
			name:      "publish failure does not fail decision",
			actorRole: models.RoleAdmin,
			req:       models.DummyDecision{Decision: models.DecisionApproved, AdminNotes: "verified"},
			setupMocks: func(r *RequestRepoMock, c *CacheMock, n *NotifierMock) {
				r.On("DecideRequest", mock.Anything, "req-1", models.DecisionApproved, "verified").
					Return(approved, nil).Once()
				c.On("Invalidate", "premium:stats").Return(nil).Once()
				n.On("PublishDecision", mock.Anything).Return(errors.New("broker down")).Once()
			},
			wantStatus: models.RequestStatusApproved,
		},
		{
			name:       "forbidden for non-admin",
			actorRole:  models.RoleUser,
			req:        models.DummyDecision{Decision: models.DecisionApproved},
			setupMocks: func(_ *RequestRepoMock, _ *CacheMock, _ *NotifierMock) {},
			wantErr:    domain.ErrForbidden,
		},
		{
			name:      "already decided",
			actorRole: models.RoleAdmin,
			req:       models.DummyDecision{Decision: models.DecisionRejected},
			setupMocks: func(r *RequestRepoMock, _ *CacheMock, _ *NotifierMock) {
				r.On("DecideRequest", mock.Anything, "req-1", models.DecisionRejected, "").
					Return(nil, domain.ErrState).Once()
			},
			wantErr: domain.ErrState,
		},
		{
			name:      "request not found",
			actorRole: models.RoleAdmin,
			req:       models.DummyDecision{Decision: models.DecisionRejected},
			setupMocks: func(r *RequestRepoMock, _ *CacheMock, _ *NotifierMock) {
				r.On("DecideRequest", mock.Anything, "req-1", models.DecisionRejected, "").
					Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := new(RequestRepoMock)
			users := new(UserRepoMock)
			cache := new(CacheMock)
			notifier := new(NotifierMock)
			svc := newService(requests, users, cache, notifier)

			tt.setupMocks(requests, cache, notifier)

			got, err := svc.Decide(context.Background(), tt.actorRole, "req-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, got.Status)
			}

			requests.AssertExpectations(t)
			cache.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestService_ListAll(t *testing.T) {
	tests := []struct {
		name       string
		actorRole  string
		filter     string
		setupMocks func(r *RequestRepoMock)
		wantLen    int
		wantErr    error
	}{
		{
			name:      "success without filter",
			actorRole: models.RoleAdmin,
			filter:    "",
			setupMocks: func(r *RequestRepoMock) {
				r.On("ListRequests", mock.Anything, "").
					Return([]*models.PremiumRequest{{ID: "a"}, {ID: "b"}}, nil).Once()
			},
			wantLen: 2,
		},
		{
			name:      "success with pending filter",
			actorRole: models.RoleAdmin,
			filter:    models.RequestStatusPending,
			setupMocks: func(r *RequestRepoMock) {
				r.On("ListRequests", mock.Anything, models.RequestStatusPending).
					Return([]*models.PremiumRequest{{ID: "a"}}, nil).Once()
			},
			wantLen: 1,
		},
		{
			name:       "unknown filter",
			actorRole:  models.RoleAdmin,
			filter:     "draft",
			setupMocks: func(_ *RequestRepoMock) {},
			wantErr:    domain.ErrValidation,
		},
		{
			name:       "forbidden for non-admin",
			actorRole:  models.RoleUser,
			filter:     "",
			setupMocks: func(_ *RequestRepoMock) {},
			wantErr:    domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := new(RequestRepoMock)
			svc := newService(requests, new(UserRepoMock), new(CacheMock), nil)

			tt.setupMocks(requests)

			got, err := svc.ListAll(context.Background(), tt.actorRole, tt.filter)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Len(t, got, tt.wantLen)
			}
			requests.AssertExpectations(t)
		})
	}
}

func TestService_Stats(t *testing.T) {
	stats := &models.RequestStats{Total: 10, Pending: 3, Approved: 5, Rejected: 2}

	t.Run("cache hit skips storage", func(t *testing.T) {
		requests := new(RequestRepoMock)
		cache := new(CacheMock)
		svc := newService(requests, new(UserRepoMock), cache, nil)

		cache.On("Get", "premium:stats", mock.Anything).
			Run(func(args mock.Arguments) {
				*(args.Get(1).(*models.RequestStats)) = *stats
			}).Return(true, nil).Once()

		got, err := svc.Stats(context.Background(), models.RoleAdmin)
		assert.NoError(t, err)
		assert.Equal(t, stats, got)
		requests.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache miss reads storage and fills cache", func(t *testing.T) {
		requests := new(RequestRepoMock)
		cache := new(CacheMock)
		svc := newService(requests, new(UserRepoMock), cache, nil)

		cache.On("Get", "premium:stats", mock.Anything).Return(false, nil).Once()
		requests.On("GetRequestStats", mock.Anything).Return(stats, nil).Once()
		cache.On("Set", "premium:stats", stats, time.Minute).Return(nil).Once()

		got, err := svc.Stats(context.Background(), models.RoleAdmin)
		assert.NoError(t, err)
		assert.Equal(t, stats, got)
		requests.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error falls back to storage", func(t *testing.T) {
		requests := new(RequestRepoMock)
		cache := new(CacheMock)
		svc := newService(requests, new(UserRepoMock), cache, nil)

		cache.On("Get", "premium:stats", mock.Anything).Return(false, errors.New("redis down")).Once()
		requests.On("GetRequestStats", mock.Anything).Return(stats, nil).Once()
		cache.On("Set", "premium:stats", stats, time.Minute).Return(nil).Once()

		got, err := svc.Stats(context.Background(), models.RoleAdmin)
		assert.NoError(t, err)
		assert.Equal(t, stats, got)
	})

	t.Run("forbidden for non-admin", func(t *testing.T) {
		svc := newService(new(RequestRepoMock), new(UserRepoMock), new(CacheMock), nil)
		_, err := svc.Stats(context.Background(), models.RoleUser)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestService_ToggleVIP(t *testing.T) {
	tests := []struct {
		name       string
		actorRole  string
		enabled    bool
		setupMocks func(u *UserRepoMock)
		wantErr    error
	}{
		{
			name:      "success enable",
			actorRole: models.RoleAdmin,
			enabled:   true,
			setupMocks: func(u *UserRepoMock) {
				u.On("SetEntitlement", mock.Anything, "uid-1", true).Return(nil).Once()
			},
		},
		{
			name:      "success disable",
			actorRole: models.RoleAdmin,
			enabled:   false,
			setupMocks: func(u *UserRepoMock) {
				u.On("SetEntitlement", mock.Anything, "uid-1", false).Return(nil).Once()
			},
		},
		{
			name:      "user not found",
			actorRole: models.RoleAdmin,
			enabled:   true,
			setupMocks: func(u *UserRepoMock) {
				u.On("SetEntitlement", mock.Anything, "uid-1", true).Return(domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:       "forbidden for non-admin",
			actorRole:  models.RoleUser,
			enabled:    true,
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserRepoMock)
			svc := newService(new(RequestRepoMock), users, new(CacheMock), nil)

			tt.setupMocks(users)

			err := svc.ToggleVIP(context.Background(), tt.actorRole, "uid-1", tt.enabled)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestService_Delete(t *testing.T) {
	t.Run("success delete invalidates stats", func(t *testing.T) {
		requests := new(RequestRepoMock)
		cache := new(CacheMock)
		svc := newService(requests, new(UserRepoMock), cache, nil)

		requests.On("DeleteRequest", mock.Anything, "req-1").Return(1, nil).Once()
		cache.On("Invalidate", "premium:stats").Return(nil).Once()

		count, err := svc.Delete(context.Background(), models.RoleAdmin, "req-1")
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		cache.AssertExpectations(t)
	})

	t.Run("missing request keeps cache untouched", func(t *testing.T) {
		requests := new(RequestRepoMock)
		cache := new(CacheMock)
		svc := newService(requests, new(UserRepoMock), cache, nil)

		requests.On("DeleteRequest", mock.Anything, "req-1").Return(0, nil).Once()

		count, err := svc.Delete(context.Background(), models.RoleAdmin, "req-1")
		assert.NoError(t, err)
		assert.Equal(t, 0, count)
		cache.AssertExpectations(t)
	})

	t.Run("forbidden for non-admin", func(t *testing.T) {
		svc := newService(new(RequestRepoMock), new(UserRepoMock), new(CacheMock), nil)
		_, err := svc.Delete(context.Background(), models.RoleUser, "req-1")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestService_PendingCount(t *testing.T) {
	requests := new(RequestRepoMock)
	svc := newService(requests, new(UserRepoMock), new(CacheMock), nil)

	requests.On("CountPendingRequests", mock.Anything).Return(4, nil).Once()

	count, err := svc.PendingCount(context.Background(), models.RoleAdmin)
	assert.NoError(t, err)
	assert.Equal(t, 4, count)

	_, err = svc.PendingCount(context.Background(), models.RoleUser)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
