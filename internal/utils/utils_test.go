package utils

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(42, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	userID, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("ParseToken() = %d, want 42", userID)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	valid, _ := GenerateToken(42, "secret", time.Hour)
	expired, _ := GenerateToken(42, "secret", -time.Hour)

	cases := map[string]string{
		"wrong secret": valid,
		"expired":      expired,
		"garbage":      "not.a.token",
		"empty":        "",
	}
	for name, token := range cases {
		secret := "secret"
		if name == "wrong secret" {
			secret = "other"
		}
		if _, err := ParseToken(token, secret); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: ParseToken() error = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct{ page, limit, wantPage, wantLimit int }{
		{0, 0, 1, DefaultPageLimit},
		{3, 25, 3, 25},
		{-1, 1000, 1, MaxPageLimit},
	}
	for _, c := range cases {
		page, limit := NormalizePage(c.page, c.limit)
		if page != c.wantPage || limit != c.wantLimit {
			t.Errorf("NormalizePage(%d, %d) = %d, %d; want %d, %d", c.page, c.limit, page, limit, c.wantPage, c.wantLimit)
		}
	}
}

func TestOffset(t *testing.T) {
	cases := []struct{ page, limit, want int }{
		{1, 10, 0},
		{3, 25, 50},
		{0, 10, 0},
		{math.MaxInt64 / 5, 10, (MaxPage - 1) * 10},
		{MaxPage, math.MaxInt64, (MaxPage - 1) * MaxPageLimit},
	}
	for _, c := range cases {
		if got := Offset(c.page, c.limit); got != c.want {
			t.Errorf("Offset(%d, %d) = %d, want %d", c.page, c.limit, got, c.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ total, limit, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.limit); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestID(ctx); got != "abc" {
		t.Errorf("RequestID() = %q, want abc", got)
	}
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID(empty) = %q, want empty", got)
	}
}
