package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	CategoryKeyPrefix = "category"
	ProductKeyPrefix  = "product"
	CheckoutKeyPrefix = "checkout_attempts"
)

var (
	CategoryListKey = Key(CategoryKeyPrefix, "all")
	ProductCountKey = Key(ProductKeyPrefix, "count")
)
