package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/rs/zerolog/log"

	"github.com/foodwaste/predictor/internal/domain"
)

const (
	classifyPrefix = "c\x00"
	matchPrefix    = "m\x00"
)

// CachedClassifier memoizes a classifier's answers in an in-memory cache.
// Failures are never cached.
type CachedClassifier struct {
	next      domain.Classifier
	cache     *freecache.Cache
	expirySec int
}

// NewCachedClassifier wraps next with a cache of sizeInBytes. A zero ttl
// keeps entries until they are evicted.
func NewCachedClassifier(next domain.Classifier, sizeInBytes int, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{
		next:      next,
		cache:     freecache.NewCache(sizeInBytes),
		expirySec: int(ttl / time.Second),
	}
}

// Classify implements domain.Classifier.
func (c *CachedClassifier) Classify(ctx context.Context, text string) (string, error) {
	key := []byte(classifyPrefix + text)
	if category, _, ok := c.get(key); ok {
		return category, nil
	}

	category, err := c.next.Classify(ctx, text)
	if err != nil {
		return "", err
	}
	c.set(key, category, 0)
	return category, nil
}

// MatchBestCategory implements domain.Classifier.
func (c *CachedClassifier) MatchBestCategory(ctx context.Context, text string) (string, float64, error) {
	key := []byte(matchPrefix + text)
	if category, score, ok := c.get(key); ok {
		return category, score, nil
	}

	category, score, err := c.next.MatchBestCategory(ctx, text)
	if err != nil {
		return "", 0, err
	}
	c.set(key, category, score)
	return category, score, nil
}

// HitRate reports the cache hit ratio.
func (c *CachedClassifier) HitRate() float64 {
	return c.cache.HitRate()
}

func (c *CachedClassifier) get(key []byte) (string, float64, bool) {
	raw, err := c.cache.Get(key)
	if err != nil {
		return "", 0, false
	}

	category, scoreText, found := strings.Cut(string(raw), "\x00")
	if !found {
		return "", 0, false
	}
	score, err := strconv.ParseFloat(scoreText, 64)
	if err != nil {
		return "", 0, false
	}
	return category, score, true
}

func (c *CachedClassifier) set(key []byte, category string, score float64) {
	value := category + "\x00" + strconv.FormatFloat(score, 'g', -1, 64)
	if err := c.cache.Set(key, []byte(value), c.expirySec); err != nil {
		log.Warn().Err(err).Msg("Failed to cache classifier result")
	}
}
