package auth

import (
	"context"
	"testing"
	"time"

	"studiorent/internal/domain"
	jwtsvc "studiorent/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func staffUser(t *testing.T, role domain.UserRole) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &domain.User{ID: 1, Email: "manager@studio.kz", PasswordHash: string(hash), Role: role}
}

func TestLogin_Success(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindActiveByEmail", mock.Anything, "manager@studio.kz").
		Return(staffUser(t, domain.RoleManager), nil)
	j := jwtsvc.New("test-secret", time.Hour)
	service := NewService(users, j)

	token, user, err := service.Login(context.Background(), "manager@studio.kz", "secret123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(1), user.ID)

	claims, err := j.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindActiveByEmail", mock.Anything, "manager@studio.kz").
		Return(staffUser(t, domain.RoleManager), nil)
	service := NewService(users, jwtsvc.New("test-secret", time.Hour))

	_, _, err := service.Login(context.Background(), "manager@studio.kz", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_CustomerRejected(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindActiveByEmail", mock.Anything, "anna@example.com").
		Return(staffUser(t, domain.RoleCustomer), nil)
	service := NewService(users, jwtsvc.New("test-secret", time.Hour))

	_, _, err := service.Login(context.Background(), "anna@example.com", "secret123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("FindActiveByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)
	service := NewService(users, jwtsvc.New("test-secret", time.Hour))

	_, _, err := service.Login(context.Background(), "nobody@example.com", "secret123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
