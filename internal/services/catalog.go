package service

import (
	"context"
	"database/sql"
	stdErrors "errors"
	"html"
	"strings"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// cleanName strips markup and collapses whitespace, so "  <b>Home</b>  Goods "
// and "Home Goods" are the same name.
func cleanName(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(sanitizer.Sanitize(s))), " ")
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(sanitizer.Sanitize(s)))
}

// mapRepoError turns a repository failure into the AppError the handlers report.
func mapRepoError(err error, notFound, action string) error {
	switch {
	case stdErrors.Is(err, sql.ErrNoRows):
		return errors.NotFoundError(notFound).WithError(err)
	case stdErrors.Is(err, repository.ErrDuplicateName):
		return errors.ConflictError("Name already exists").WithError(err)
	case stdErrors.Is(err, repository.ErrReferenced):
		return errors.ConflictError("Category still has products").WithError(err)
	case stdErrors.Is(err, repository.ErrMissingParent):
		return errors.NotFoundError("Category not found").WithError(err)
	default:
		return errors.DatabaseError(action).WithError(err)
	}
}

// invalidate drops cached reads. The database is already updated, so a
// failure here only means a stale entry until its TTL runs out.
func invalidate(ctx context.Context, c cache.Cache, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate cache", "keys", keys, "error", err)
	}
}
