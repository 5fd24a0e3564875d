package strategy

import (
	"github.com/niveshquant/quantfolio/internal/allocation"
	"github.com/niveshquant/quantfolio/internal/gate"
	"github.com/niveshquant/quantfolio/internal/recommend"
	"github.com/niveshquant/quantfolio/internal/scoring"
	"github.com/niveshquant/quantfolio/internal/sectors"
)

// Config is the complete strategy file: every tunable the weekly run
// reads, in one YAML document. A sparse file overrides only the fields
// it names; everything else keeps the Default() value. The canonical
// JSON form of this struct is what Hash fingerprints, so renaming a
// field changes the hash.
type Config struct {
	Meta       Meta              `yaml:"meta" json:"meta"`
	Gate       gate.Config       `yaml:"gate" json:"gate"`
	Scoring    scoring.Config    `yaml:"scoring" json:"scoring"`
	Allocation allocation.Config `yaml:"allocation" json:"allocation"`
	Report     recommend.Config  `yaml:"report" json:"report"`

	// Sectors overrides the built-in industry table. Keys are industry
	// names as they appear in the snapshot; a key the table does not
	// know adds a new industry.
	Sectors map[string]SectorOverride `yaml:"sectors,omitempty" json:"sectors,omitempty"`
}

// Meta identifies the strategy for audit trails and report headers.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Notes      string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// SectorOverride is a full replacement profile for one industry.
// Partial overrides are not merged; state every field.
type SectorOverride struct {
	ROCEThreshold       float64 `yaml:"roce_threshold" json:"roce_threshold"`
	DebtThreshold       float64 `yaml:"debt_threshold" json:"debt_threshold"`
	Cyclicality         string  `yaml:"cyclicality" json:"cyclicality"`
	Group               string  `yaml:"group" json:"group"`
	RateSensitive       bool    `yaml:"rate_sensitive,omitempty" json:"rate_sensitive,omitempty"`
	CurrencyBeneficiary bool    `yaml:"currency_beneficiary,omitempty" json:"currency_beneficiary,omitempty"`
}

// Default returns the strategy every component ships with. Running with
// no strategy file at all is equivalent to running with this.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "india-equity-weekly",
			Version:    "1.0.0",
		},
		Gate:       gate.DefaultConfig(),
		Scoring:    scoring.DefaultConfig(),
		Allocation: allocation.DefaultConfig(),
		Report:     recommend.DefaultConfig(),
	}
}

// SectorTable materializes the industry table with any overrides from
// the strategy file layered on top of the built-ins.
func (c *Config) SectorTable() *sectors.Table {
	if len(c.Sectors) == 0 {
		return sectors.NewTable()
	}
	overrides := make(map[string]sectors.Profile, len(c.Sectors))
	for industry, o := range c.Sectors {
		overrides[industry] = sectors.Profile{
			ROCEThreshold:       o.ROCEThreshold,
			DebtThreshold:       o.DebtThreshold,
			Cyclicality:         sectors.Cyclicality(o.Cyclicality),
			Group:               o.Group,
			RateSensitive:       o.RateSensitive,
			CurrencyBeneficiary: o.CurrencyBeneficiary,
		}
	}
	return sectors.NewTableWithOverrides(overrides)
}
