package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter_PerDomainBuckets(t *testing.T) {
	dl := NewDomainLimiter(0.1, 1)

	// First hit per domain consumes the burst token; a second immediate hit
	// on the same domain must wait, but another domain has its own bucket.
	assert.True(t, dl.Allow("https://a.example/p/1"))
	assert.False(t, dl.Allow("https://a.example/p/2"))
	assert.True(t, dl.Allow("https://b.example/p/1"))
}

func TestDomainLimiter_WaitRespectsContext(t *testing.T) {
	dl := NewDomainLimiter(0.01, 1)
	require.NoError(t, dl.Wait(context.Background(), "https://a.example/p/1"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, dl.Wait(ctx, "https://a.example/p/2"))
}

func TestDomainLimiter_InvalidURLPassesThrough(t *testing.T) {
	dl := NewDomainLimiter(0.1, 1)
	assert.True(t, dl.Allow("not a url"))
	assert.NoError(t, dl.Wait(context.Background(), "not a url"))
}
