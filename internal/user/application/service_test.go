package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/user/domain"
)

type memUserRepo struct {
	nextID uint
	users  map[uint]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: make(map[uint]*domain.User)}
}

func (r *memUserRepo) Save(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		for _, u := range r.users {
			if u.Email == user.Email {
				return gorm.ErrDuplicatedKey
			}
		}
		user.ID = r.nextID
		r.nextID++
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestRegister(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "jane@example.com", "secret", "Jane", "Doe")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, "secret", user.PasswordHash, "password must never be stored in clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "jane@example.com", "secret", "Jane", "Doe")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "jane@example.com", "other", "Janet", "Doe")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestAuthenticate(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "jane@example.com", "secret", "Jane", "Doe")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetUnknownUser(t *testing.T) {
	svc := NewUserService(newMemUserRepo())

	_, err := svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc := NewUserService(newMemUserRepo())
	ctx := context.Background()

	user, err := svc.Register(ctx, "jane@example.com", "secret", "Jane", "Doe")
	require.NoError(t, err)
	assert.False(t, user.HasShippingAddress())

	updated, err := svc.UpdateProfile(ctx, user.ID, domain.ProfileUpdate{
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "555-0100",
		Address:   "1 Main St",
		City:      "Springfield",
		Zipcode:   "12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", updated.Address)
	assert.True(t, updated.HasShippingAddress())

	reloaded, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Springfield", reloaded.City)
}
