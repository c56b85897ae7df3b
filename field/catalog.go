package field

import (
	"context"
	"time"

	"github.com/kickoff-academy/field-booking-backend/account"
	"github.com/patrickmn/go-cache"
)

//go:generate mockgen -source=catalog.go -destination=mocks/catalog_mock.go -package=mocks

type FieldRepository interface {
	GetFieldByID(ctx context.Context, id string) (Field, error)
	ListFields(ctx context.Context, filter Filter) ([]Field, error)
}

type Catalog struct {
	repo  FieldRepository
	cache *cache.Cache
}

func NewCatalog(repo FieldRepository, ttl time.Duration) *Catalog {
	return &Catalog{repo: repo, cache: cache.New(ttl, 5*ttl)}
}

func (c *Catalog) GetField(ctx context.Context, id string) (Field, error) {
	if cached, found := c.cache.Get(id); found {
		return cached.(Field), nil
	}

	f, err := c.repo.GetFieldByID(ctx, id)

	if err != nil {
		return Field{}, err
	}

	c.cache.Set(id, f, cache.DefaultExpiration)

	return f, nil
}

// ListFields returns the active fields visible to the user. External clients
// and system admins browse every academy, everyone else only their own.
func (c *Catalog) ListFields(ctx context.Context, user account.User, filter Filter) ([]Field, error) {
	if !seesAllAcademies(user) {
		if user.AcademyID == nil {
			return []Field{}, nil
		}
		filter.AcademyID = *user.AcademyID
	}

	return c.repo.ListFields(ctx, filter)
}

func (c *Catalog) VisibleTo(user account.User, f Field) bool {
	return seesAllAcademies(user) || user.InAcademy(f.AcademyID)
}

func seesAllAcademies(user account.User) bool {
	return user.Role == account.RoleExternalClient || user.Role == account.RoleSystemAdmin
}
