package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wyfcoding/zenstore/internal/wishlist/domain"
)

type memWishlistRepo struct {
	nextID uint
	items  map[uint]*domain.Item
}

func newMemWishlistRepo() *memWishlistRepo {
	return &memWishlistRepo{nextID: 1, items: make(map[uint]*domain.Item)}
}

func (r *memWishlistRepo) Get(ctx context.Context, userID, productID uint) (*domain.Item, error) {
	for _, it := range r.items {
		if it.UserID == userID && it.ProductID == productID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memWishlistRepo) Create(ctx context.Context, item *domain.Item) error {
	for _, it := range r.items {
		if it.UserID == item.UserID && it.ProductID == item.ProductID {
			return gorm.ErrDuplicatedKey
		}
	}
	item.ID = r.nextID
	r.nextID++
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memWishlistRepo) Delete(ctx context.Context, item *domain.Item) error {
	delete(r.items, item.ID)
	return nil
}

func (r *memWishlistRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Item, error) {
	var out []domain.Item
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *memWishlistRepo) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var out []uint
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, it.ProductID)
		}
	}
	return out, nil
}

func TestToggleAlternates(t *testing.T) {
	repo := newMemWishlistRepo()
	svc := NewWishlistService(repo)
	ctx := context.Background()

	status, err := svc.Toggle(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdded, status)

	ids, err := svc.IDs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)

	status, err = svc.Toggle(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRemoved, status)

	ids, err = svc.IDs(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// toggling again re-adds
	status, err = svc.Toggle(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAdded, status)
}

func TestToggleIsPerUser(t *testing.T) {
	repo := newMemWishlistRepo()
	svc := NewWishlistService(repo)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, 7, 1)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, 8, 1)
	require.NoError(t, err)

	// removing from one user leaves the other untouched
	status, err := svc.Toggle(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRemoved, status)

	ids, err := svc.IDs(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)
}
