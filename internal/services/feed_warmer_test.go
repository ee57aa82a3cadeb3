package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"trendboard/internal/models"
)

func TestFeedWarmer_WarmsRegionsOnStart(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	stub := &stubFeed{result: FeedResult{Videos: sampleVideos("a")}}
	w := NewFeedWarmer(stub, WarmerConfig{
		APIKey:     testAPIKey,
		Regions:    []string{"KR", "US"},
		Order:      models.OrderMostPopular,
		MaxResults: 30,
		Interval:   time.Hour,
	}, zerolog.Nop())

	require.True(t, w.Start())
	require.Eventually(t, func() bool { return stub.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	w.Stop()

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.params, 2)
	assert.Equal(t, "KR", stub.params[0].RegionCode)
	assert.Equal(t, "US", stub.params[1].RegionCode)
	assert.Equal(t, testAPIKey, stub.params[0].APIKey)
	assert.Equal(t, 30, stub.params[0].MaxResults)
}

func TestFeedWarmer_RepeatsEveryInterval(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	stub := &stubFeed{result: failed(&EmptyResultError{Endpoint: endpointChart})}
	w := NewFeedWarmer(stub, WarmerConfig{Regions: []string{"JP"}, Interval: 10 * time.Millisecond}, zerolog.Nop())

	require.True(t, w.Start())
	require.Eventually(t, func() bool { return stub.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestFeedWarmer_NoRegionsIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	stub := &stubFeed{}
	w := NewFeedWarmer(stub, WarmerConfig{}, zerolog.Nop())

	assert.False(t, w.Start())
	w.Stop()
	assert.EqualValues(t, 0, stub.calls.Load())
}

func TestFeedWarmer_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	w := NewFeedWarmer(&stubFeed{result: FeedResult{Videos: sampleVideos("a")}},
		WarmerConfig{Regions: []string{"KR"}, Interval: time.Hour}, zerolog.Nop())
	require.True(t, w.Start())

	w.Stop()
	assert.NotPanics(t, w.Stop)
}
