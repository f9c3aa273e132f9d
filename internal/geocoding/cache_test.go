package geocoding

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	place := Place{Address: "Pottruck", Origin: LatLng{Lat: 39.953488, Lng: -75.196903}}
	if err := cache.Set(ctx, "place:pott", place, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got Place
	found, err := cache.Get(ctx, "place:pott", &got)
	if err != nil || !found {
		t.Fatalf("expected hit, found=%v err=%v", found, err)
	}
	if got != place {
		t.Fatalf("expected %+v, got %+v", place, got)
	}

	now = now.Add(2 * time.Minute)
	found, err = cache.Get(ctx, "place:pott", &got)
	if err != nil || found {
		t.Fatalf("expected expired entry, found=%v err=%v", found, err)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheFromClient(client)
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	predictions := []Prediction{{ID: "p1", Description: "Van Pelt Library", PlaceID: "pl1"}}
	if err := cache.Set(ctx, "predictions:Van", predictions, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("geocoding:predictions:Van") {
		t.Fatal("expected prefixed key in redis")
	}

	var got []Prediction
	found, err := cache.Get(ctx, "predictions:Van", &got)
	if err != nil || !found {
		t.Fatalf("expected hit, found=%v err=%v", found, err)
	}
	if len(got) != 1 || got[0] != predictions[0] {
		t.Fatalf("unexpected cached predictions %+v", got)
	}

	mr.FastForward(2 * time.Hour)
	found, err = cache.Get(ctx, "predictions:Van", &got)
	if err != nil || found {
		t.Fatalf("expected miss after ttl, found=%v err=%v", found, err)
	}
}

func TestRedisCacheMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer func() { _ = cache.Close() }()

	var got Place
	found, err := cache.Get(context.Background(), "place:none", &got)
	if err != nil || found {
		t.Fatalf("expected clean miss, found=%v err=%v", found, err)
	}
}
