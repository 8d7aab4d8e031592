package customer

import (
	"context"
	"errors"
	"strings"

	"studiorent/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken means the email belongs to a soft-deleted account. Such an
// identity is never silently resurrected.
var ErrEmailTaken = errors.New("email belongs to a removed account")

// Contact is what the booking form knows about the customer.
type Contact struct {
	FullName string
	Email    string
	Phone    string
	ID       *int64
}

type UserRepository interface {
	FindActiveByEmail(ctx context.Context, email string) (*domain.User, error)
	FindDeletedByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

// Resolve finds or provisions the customer account for a booking.
//
// Order: active account by email; soft-deleted account by email (conflict);
// explicit consumer id; id from the contact payload; otherwise a new account
// with a generated password.
func (s *Service) Resolve(ctx context.Context, contact Contact, consumerID *int64) (*domain.User, error) {
	consumer, err := s.users.FindActiveByEmail(ctx, contact.Email)
	if err != nil {
		return nil, err
	}
	if consumer != nil {
		return consumer, nil
	}

	deleted, err := s.users.FindDeletedByEmail(ctx, contact.Email)
	if err != nil {
		return nil, err
	}
	if deleted != nil {
		return nil, ErrEmailTaken
	}

	if consumerID != nil {
		consumer, err = s.users.FindByID(ctx, *consumerID)
		if err != nil {
			return nil, err
		}
		if consumer != nil {
			return consumer, nil
		}
	}

	if contact.ID != nil {
		consumer, err = s.users.FindByID(ctx, *contact.ID)
		if err != nil {
			return nil, err
		}
		if consumer != nil {
			return consumer, nil
		}
	}

	return s.createDefault(ctx, contact)
}

func (s *Service) createDefault(ctx context.Context, contact Contact) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(generatePassword()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        contact.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Name:         contact.FullName,
		Phone:        contact.Phone,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// generatePassword makes a one-time password for accounts provisioned during
// booking; the customer resets it through the regular recovery flow.
func generatePassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
