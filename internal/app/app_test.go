package app

import (
	"context"
	"eld-trip-planner/internal/config"
	"eld-trip-planner/internal/domain"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		DBDriver:         "sqlite",
		DBPath:           filepath.Join(dir, "app.db"),
		EstimateCacheTTL: time.Hour,
		SeedPath:         filepath.Join(dir, "missing.json"),
	}
}

func TestOpenPlansWithoutExternalServices(t *testing.T) {
	ctx := context.Background()

	a, err := Open(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if a.EstimateCache != nil {
		t.Fatalf("expected no estimate cache without redis")
	}

	req, err := domain.NewTripRequest("Chicago, IL", "Indianapolis, IN", "Atlanta, GA", 10)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	trip, plan, err := a.Planner.PlanAndSave(ctx, req, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(plan.Days) == 0 {
		t.Fatalf("expected daily logs")
	}

	stored, err := a.Repo.GetPlan(ctx, trip.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	if len(stored.Days) != len(plan.Days) {
		t.Fatalf("stored %d days, planned %d", len(stored.Days), len(plan.Days))
	}
}

func TestOpenUsesRedisWhenReachable(t *testing.T) {
	s := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.RedisAddr = s.Addr()

	a, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if a.EstimateCache == nil {
		t.Fatalf("expected redis estimate cache")
	}

	if _, err := a.Estimator.ResolveDistance(context.Background(), "Denver, CO", "Dallas, TX", "Houston, TX"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(s.Keys()) != 1 {
		t.Fatalf("expected one cached estimate, got keys %v", s.Keys())
	}
}

func TestOpenSkipsUnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisAddr = "127.0.0.1:1"

	a, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if a.EstimateCache != nil {
		t.Fatalf("expected estimate cache to be disabled")
	}
}

func TestOpenRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = "mysql"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected unknown driver error")
	}

	cfg = testConfig(t)
	cfg.DBDriver = "postgres"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected missing DATABASE_URL error")
	}

	cfg = testConfig(t)
	cfg.SeedPath = filepath.Join(t.TempDir(), "seeds.json")
	if err := os.WriteFile(cfg.SeedPath, []byte(`not json`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected seed parse error")
	}
}

func TestLoadSeedsFallsBack(t *testing.T) {
	seeds, err := loadSeeds(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(seeds) == 0 {
		t.Fatalf("expected built-in cities")
	}

	if _, err := loadSeeds(t.TempDir()); err == nil || errors.Is(err, os.ErrNotExist) {
		t.Fatalf("reading a directory should fail with a non not-exist error, got %v", err)
	}
}
