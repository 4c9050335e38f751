package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestClaimFirstDeliveryWins(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	d := New(client, 24*time.Hour)

	first, err := d.Claim(context.Background(), "wati:contact-1:1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatal("expected first claim to succeed")
	}

	second, err := d.Claim(context.Background(), "wati:contact-1:1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second {
		t.Fatal("expected redelivery of the same key to be rejected")
	}
}

func TestClaimDifferentKeysAreIndependent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	d := New(client, 24*time.Hour)

	if first, _ := d.Claim(context.Background(), "wati:contact-1:1700000000"); !first {
		t.Fatal("expected first key to claim")
	}
	if first, _ := d.Claim(context.Background(), "wati:contact-1:1700000060"); !first {
		t.Fatal("expected a different timestamp to claim independently")
	}
}

func TestClaimSetsExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	d := New(client, time.Hour)

	if _, err := d.Claim(context.Background(), "wati:contact-1:1700000000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ttl := mr.TTL(keyPrefix + "wati:contact-1:1700000000")
	if ttl != time.Hour {
		t.Fatalf("expected key TTL of 1h, got %v", ttl)
	}
}

func TestClaimWithoutClientAcceptsEverything(t *testing.T) {
	d := New(nil, time.Hour)

	first, err := d.Claim(context.Background(), "wati:contact-1:1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first {
		t.Fatal("expected claims to pass when redis is not configured")
	}
}
