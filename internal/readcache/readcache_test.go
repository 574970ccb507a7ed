package readcache

import (
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

func TestSetAfterInvalidateIsDropped(t *testing.T) {
	c := New("team", cache.New(time.Minute, time.Minute), nil)

	gen := c.Generation()
	c.Invalidate()

	assert.False(t, c.Set("list", "stale", gen))
	_, ok := c.Get("list")
	assert.False(t, ok)

	assert.True(t, c.Set("list", "fresh", c.Generation()))
	v, ok := c.Get("list")
	assert.True(t, ok)
	assert.Equal(t, "fresh", v)
}

func TestInvalidateFlushes(t *testing.T) {
	c := New("blog", cache.New(time.Minute, time.Minute), nil)
	c.Set("a", 1, c.Generation())
	c.Invalidate()

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestNilStoreDisablesCaching(t *testing.T) {
	c := New("blog", nil, nil)

	assert.False(t, c.Set("a", 1, c.Generation()))
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.NotPanics(t, c.Invalidate)
}

func TestLookupsAreCounted(t *testing.T) {
	m := metrics.New("dentalcare")
	c := New("team", cache.New(time.Minute, time.Minute), m)

	c.Get("list")
	c.Set("list", 1, c.Generation())
	c.Get("list")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("team", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("team", "hit")))
}
