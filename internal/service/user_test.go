package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_issue_tracker/internal/models"
	"github.com/shenikar/civic_issue_tracker/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (*userService, *mocks.MockUserRepository, *mocks.MockTokenIssuer) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	tokens := mocks.NewMockTokenIssuer(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	svc := NewUserService(repo, tokens, logger).(*userService)
	svc.cost = bcrypt.MinCost
	svc.now = func() time.Time { return fixedNow }
	return svc, repo, tokens
}

func TestRegister_Success(t *testing.T) {
	svc, repo, _ := newTestUserService(t)
	user := &models.User{Name: " Asha ", Email: " Asha@Example.COM ", Phone: "9999999999"}

	repo.EXPECT().Create(gomock.Any(), user).Return(nil).Times(1)

	require.NoError(t, svc.Register(context.Background(), user, "secret1"))

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.RoleCitizen, user.Role)
	assert.Equal(t, 0, user.Points)
	assert.Empty(t, user.Badges)
	assert.Equal(t, fixedNow, user.CreatedAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")))
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		user     models.User
		password string
	}{
		{"missing name", models.User{Email: "a@b.c", Phone: "1"}, "secret1"},
		{"missing phone", models.User{Name: "A", Email: "a@b.c"}, "secret1"},
		{"bad email", models.User{Name: "A", Email: "not-an-email", Phone: "1"}, "secret1"},
		{"short password", models.User{Name: "A", Email: "a@b.c", Phone: "1"}, "123"},
		{"unknown role", models.User{Name: "A", Email: "a@b.c", Phone: "1", Role: "mayor"}, "secret1"},
		{"government without department", models.User{Name: "A", Email: "a@b.c", Phone: "1", Role: models.RoleGovernment}, "secret1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestUserService(t)
			repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

			user := tt.user
			err := svc.Register(context.Background(), &user, tt.password)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	svc, repo, _ := newTestUserService(t)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("insert user: %w", models.ErrConflict)).Times(1)

	err := svc.Register(context.Background(), &models.User{Name: "A", Email: "a@b.c", Phone: "1"}, "secret1")
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestLogin_Success(t *testing.T) {
	svc, repo, tokens := newTestUserService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{ID: uuid.New(), Email: "a@b.c", PasswordHash: string(hash), Role: models.RoleCitizen}

	repo.EXPECT().GetByEmail(gomock.Any(), "a@b.c").Return(user, nil).Times(1)
	tokens.EXPECT().Generate(user).Return("jwt-token", nil).Times(1)

	token, got, err := svc.Login(context.Background(), " A@B.C ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)
	assert.Equal(t, user, got)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo, tokens := newTestUserService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	repo.EXPECT().GetByEmail(gomock.Any(), "a@b.c").Return(&models.User{PasswordHash: string(hash)}, nil).Times(1)
	tokens.EXPECT().Generate(gomock.Any()).Times(0)

	_, _, err = svc.Login(context.Background(), "a@b.c", "wrong")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, repo, _ := newTestUserService(t)
	repo.EXPECT().GetByEmail(gomock.Any(), "ghost@b.c").Return(nil, fmt.Errorf("user: %w", models.ErrNotFound)).Times(1)

	_, _, err := svc.Login(context.Background(), "ghost@b.c", "secret1")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.False(t, errors.Is(err, models.ErrNotFound), "login must not reveal unknown emails")
}

func TestGetUser(t *testing.T) {
	svc, repo, _ := newTestUserService(t)
	user := &models.User{ID: uuid.New()}

	repo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil).Times(1)
	got, err := svc.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	missing := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), missing).Return(nil, fmt.Errorf("user: %w", models.ErrNotFound)).Times(1)
	_, err = svc.GetUser(context.Background(), missing)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
