package strategy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/niveshquant/quantfolio/internal/sectors"
)

func TestLoad(t *testing.T) {
	yamlContent := `meta:
  strategy_id: aggressive_smallcap
  version: 2.1.0
gate:
  min_market_cap: 500
allocation:
  sector_cap: 20
  cap_safety_75: 11
sectors:
  Specialty Chemicals:
    roce_threshold: 18
    debt_threshold: 0.8
    cyclicality: medium
    group: Chemicals
`
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("write temp strategy: %v", err)
	}

	cfg, raw, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Meta.StrategyID != "aggressive_smallcap" {
		t.Errorf("expected strategy_id=aggressive_smallcap, got %s", cfg.Meta.StrategyID)
	}
	if cfg.Gate.MinMarketCap != 500 {
		t.Errorf("expected min_market_cap=500, got %.0f", cfg.Gate.MinMarketCap)
	}
	if cfg.Allocation.SectorCap != 20 {
		t.Errorf("expected sector_cap=20, got %.0f", cfg.Allocation.SectorCap)
	}

	// Fields the file does not mention keep their defaults.
	if cfg.Gate.MinPromoterHolding != 26 {
		t.Errorf("expected default min_promoter_holding=26, got %.0f", cfg.Gate.MinPromoterHolding)
	}
	if cfg.Scoring.MarketBaseline3M != 5 {
		t.Errorf("expected default market_baseline_3m=5, got %.0f", cfg.Scoring.MarketBaseline3M)
	}
	if cfg.Report.TopPickCount != 5 {
		t.Errorf("expected default top_pick_count=5, got %d", cfg.Report.TopPickCount)
	}

	if string(raw) != yamlContent {
		t.Error("raw bytes do not match the file content")
	}

	hash, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}
	hash2, _ := Hash(cfg)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read strategy file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("gate:\n  min_marketcap: 500\n"))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "min_marketcap") {
		t.Errorf("error should name the unknown key, got: %v", err)
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	_, err := Parse([]byte("allocation:\n  max_candidates: 0\n"))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "allocation.max_candidates") {
		t.Errorf("error should name the field, got: %v", err)
	}
}

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("# tuning notes go here\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := Default()
	if cfg.Meta.StrategyID != want.Meta.StrategyID {
		t.Errorf("expected default strategy_id, got %s", cfg.Meta.StrategyID)
	}
	if cfg.Allocation != want.Allocation {
		t.Error("expected default allocation parameters")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if warnings := Warn(cfg); len(warnings) != 0 {
		t.Errorf("default config should carry no warnings, got %v", warnings)
	}
}

func TestHashChangesWithConfig(t *testing.T) {
	base, err := Hash(Default())
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	cfg := Default()
	cfg.Allocation.SectorCap = 20
	changed, err := Hash(cfg)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if base == changed {
		t.Error("hash must change when a parameter changes")
	}
}

func TestSectorTableAppliesOverrides(t *testing.T) {
	cfg := Default()
	cfg.Sectors = map[string]SectorOverride{
		"Plastic Products": {
			ROCEThreshold: 20,
			DebtThreshold: 0.5,
			Cyclicality:   "low",
			Group:         sectors.GroupConsumer,
		},
	}

	table := cfg.SectorTable()
	profile := table.Lookup("plastic products")
	if profile.ROCEThreshold != 20 {
		t.Errorf("expected overridden roce=20, got %.0f", profile.ROCEThreshold)
	}
	if profile.Group != sectors.GroupConsumer {
		t.Errorf("expected group %s, got %s", sectors.GroupConsumer, profile.Group)
	}

	// Industries the override does not touch match the built-in table.
	builtin := sectors.NewTable().Lookup("Specialty Chemicals")
	if got := table.Lookup("Specialty Chemicals"); got != builtin {
		t.Errorf("untouched industry changed: got %+v, want %+v", got, builtin)
	}
}

func TestSectorTableWithoutOverrides(t *testing.T) {
	table := Default().SectorTable()
	if table.Size() != sectors.NewTable().Size() {
		t.Error("expected the built-in table when no overrides are set")
	}
}
