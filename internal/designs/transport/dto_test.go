package transport

import (
	"testing"
	"time"

	"crm_backend/internal/designs/repository"
)

func TestEncodeTagsRoundTrip(t *testing.T) {
	encoded, err := EncodeTags([]string{"bridal", "temple", "antique"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded == nil {
		t.Fatal("expected encoded tags")
	}

	design := repository.Design{
		ID:        1,
		Name:      "Lakshmi haram",
		Category:  "Necklace",
		ImageURL:  "https://cdn.example.com/d/1.jpg",
		Tags:      encoded,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	resp := ToDesignResponse(design)
	if len(resp.Tags) != 3 || resp.Tags[0] != "bridal" {
		t.Fatalf("expected tags to round trip, got %v", resp.Tags)
	}
}

func TestEncodeTagsEmptyIsNil(t *testing.T) {
	encoded, err := EncodeTags(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if encoded != nil {
		t.Fatalf("expected nil for no tags, got %q", *encoded)
	}
}

func TestToDesignResponseMalformedTagsDegradeToNone(t *testing.T) {
	bad := "{not json"
	resp := ToDesignResponse(repository.Design{ID: 1, Tags: &bad})
	if resp.Tags != nil {
		t.Fatalf("expected malformed tags to be dropped, got %v", resp.Tags)
	}
}
