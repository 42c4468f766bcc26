package visit

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/meditrack/visit-api/internal/model"
	"github.com/meditrack/visit-api/internal/repository"
)

// CachedDoctorRepository is a read-through cache over doctor lookups.
// Doctors are immutable reference data, so entries never go stale within
// their TTL. Misses are not cached; conflict checks never go through here.
type CachedDoctorRepository struct {
	repo  repository.DoctorRepository
	cache *cache.Cache
}

func NewCachedDoctorRepository(repo repository.DoctorRepository, ttl, cleanupInterval time.Duration) *CachedDoctorRepository {
	return &CachedDoctorRepository{
		repo:  repo,
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (c *CachedDoctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	key := strconv.FormatInt(id, 10)
	if cached, ok := c.cache.Get(key); ok {
		doctor := cached.(model.Doctor)
		return &doctor, nil
	}

	doctor, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, *doctor, cache.DefaultExpiration)
	return doctor, nil
}
