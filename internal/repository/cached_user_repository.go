package repository

import (
	"context"
	"time"

	"github.com/eaglebank/finance/internal/models"
	sharedredis "github.com/eaglebank/finance/internal/redis"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	userViewKeyPrefix  = "user:view:"
	userEmailKeyPrefix = "user:email:"
)

// CachedUserRepository reads users from Redis first and falls back to the
// wrapped repository, warming the cache on every cold read. Users are never
// updated, so entries only expire by TTL.
type CachedUserRepository struct {
	next  UserRepository
	cache *sharedredis.ViewCache[models.User]
}

func NewCachedUserRepository(next UserRepository, client *goredis.Client, ttl time.Duration, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		next:  next,
		cache: sharedredis.NewViewCache[models.User](client, ttl, log),
	}
}

func (r *CachedUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.next.Create(ctx, user); err != nil {
		return err
	}
	r.cacheUser(ctx, user)
	return nil
}

func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := r.cache.Get(ctx, userViewKeyPrefix+id); ok {
		return user, nil
	}
	user, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cacheUser(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := r.cache.Get(ctx, userEmailKeyPrefix+email); ok {
		return user, nil
	}
	user, err := r.next.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	r.cacheUser(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) cacheUser(ctx context.Context, user *models.User) {
	r.cache.Set(ctx, user, userViewKeyPrefix+user.ID, userEmailKeyPrefix+user.Email)
}
