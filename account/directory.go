package account

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (User, error)
	FindAcademyAdmin(ctx context.Context, academyID string) (User, error)
}

//go:generate mockgen -source=directory.go -destination=mocks/directory_mock.go -package=mocks

// Directory resolves users through a short-lived in-memory cache.
type Directory struct {
	repo  UserRepository
	cache *cache.Cache
}

func NewDirectory(repo UserRepository, ttl time.Duration) *Directory {
	return &Directory{repo: repo, cache: cache.New(ttl, 5*ttl)}
}

func (d *Directory) GetUser(ctx context.Context, id string) (User, error) {
	if cached, found := d.cache.Get("user:" + id); found {
		return cached.(User), nil
	}

	user, err := d.repo.GetUserByID(ctx, id)

	if err != nil {
		return User{}, err
	}

	d.cache.Set("user:"+id, user, cache.DefaultExpiration)

	return user, nil
}

func (d *Directory) AcademyAdmin(ctx context.Context, academyID string) (User, error) {
	if cached, found := d.cache.Get("admin:" + academyID); found {
		return cached.(User), nil
	}

	admin, err := d.repo.FindAcademyAdmin(ctx, academyID)

	if err != nil {
		return User{}, err
	}

	d.cache.Set("admin:"+academyID, admin, cache.DefaultExpiration)

	return admin, nil
}

// Forget drops a cached user, e.g. after a role change.
func (d *Directory) Forget(id string) {
	d.cache.Delete("user:" + id)
}
