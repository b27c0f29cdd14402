package config

import (
	"testing"
	"time"
)

func TestGetdur(t *testing.T) {
	t.Setenv("TEST_DUR", "90s")
	if d := getdur("TEST_DUR", time.Minute); d != 90*time.Second {
		t.Fatalf("expected 90s, got %v", d)
	}
	t.Setenv("TEST_DUR", "not-a-duration")
	if d := getdur("TEST_DUR", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback to default, got %v", d)
	}
	if d := getdur("TEST_DUR_UNSET", 15*time.Minute); d != 15*time.Minute {
		t.Fatalf("expected default, got %v", d)
	}
}

func TestGetcsv(t *testing.T) {
	t.Setenv("TEST_CSV", "http://a.example, http://b.example ,")
	got := getcsv("TEST_CSV")
	if len(got) != 2 || got[0] != "http://a.example" || got[1] != "http://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
	if got := getcsv("TEST_CSV_UNSET"); got != nil {
		t.Fatalf("expected nil for unset, got %v", got)
	}
}
