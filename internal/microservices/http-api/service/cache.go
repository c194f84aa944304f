package service

import (
	"context"
	"strconv"
)

// Cache is the read-through cache used for genre listings and related books.
// *cache.Cache satisfies it. Constructors treat nil as NoCache.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, v any)
	Delete(ctx context.Context, keys ...string)
	DeletePrefix(ctx context.Context, prefix string)
}

type noCache struct{}

func (noCache) GetJSON(context.Context, string, any) bool { return false }
func (noCache) SetJSON(context.Context, string, any)      {}
func (noCache) Delete(context.Context, ...string)         {}
func (noCache) DeletePrefix(context.Context, string)      {}

// NoCache disables caching.
var NoCache Cache = noCache{}

const genresCacheKey = "genres:active"

// relatedCachePrefix covers every cached related list. A book shows up in
// the lists of other books, so admin writes drop them all.
const relatedCachePrefix = "books:related:"

func relatedCacheKey(isbn string, limit int) string {
	return relatedCachePrefix + isbn + ":" + strconv.Itoa(limit)
}
