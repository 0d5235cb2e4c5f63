package access

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/membership-hub/internal/models"
)

type UserReaderMock struct{ mock.Mock }

func (m *UserReaderMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestGate_CheckDashboard(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		err  error
		want Decision
	}{
		{
			name: "active premium grants access",
			user: &models.User{UID: "uid-1", PremiumStatus: models.PremiumStatusActive},
			want: Granted,
		},
		{
			name: "pending status denied",
			user: &models.User{UID: "uid-1", PremiumStatus: models.PremiumStatusPending},
			want: Denied,
		},
		{
			name: "inactive status denied",
			user: &models.User{UID: "uid-1", PremiumStatus: models.PremiumStatusInactive},
			want: Denied,
		},
		{
			name: "no premium denied",
			user: &models.User{UID: "uid-1", PremiumStatus: models.PremiumStatusNone},
			want: Denied,
		},
		{
			name: "storage error denies access",
			err:  errors.New("connection reset"),
			want: Denied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserReaderMock)
			users.On("GetUser", mock.Anything, "uid-1").Return(tt.user, tt.err).Once()

			gate := New(users, newNoopLogger())
			assert.Equal(t, tt.want, gate.CheckDashboard(context.Background(), "uid-1"))
			users.AssertExpectations(t)
		})
	}
}

func TestGate_CheckAdmin(t *testing.T) {
	tests := []struct {
		name string
		user *models.User
		err  error
		want Decision
	}{
		{
			name: "admin role grants access",
			user: &models.User{UID: "uid-1", Role: models.RoleAdmin},
			want: Granted,
		},
		{
			name: "user role denied",
			user: &models.User{UID: "uid-1", Role: models.RoleUser},
			want: Denied,
		},
		{
			name: "storage error denies access",
			err:  errors.New("connection reset"),
			want: Denied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UserReaderMock)
			users.On("GetUser", mock.Anything, "uid-1").Return(tt.user, tt.err).Once()

			gate := New(users, newNoopLogger())
			assert.Equal(t, tt.want, gate.CheckAdmin(context.Background(), "uid-1"))
			users.AssertExpectations(t)
		})
	}
}
