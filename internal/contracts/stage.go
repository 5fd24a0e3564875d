package contracts

// Pipeline stage definitions.
// All logs, metrics, and run results use these constants.
//
// Pipeline flow:
//   INGEST → REGIME → GATE → SCORING → RANKING → ALLOCATION → ENRICHMENT
//   → ASSEMBLY → PERSISTENCE

// Stage represents a pipeline stage
type Stage string

const (
	// StageIngest loads and parses the weekly CSV snapshot.
	// Location: internal/ingest/
	StageIngest Stage = "INGEST"

	// StageRegime detects the market condition over the full universe,
	// before any stock is excluded.
	// Location: internal/selection/
	StageRegime Stage = "REGIME"

	// StageGate applies the quality gate to every stock.
	// Location: internal/gate/
	StageGate Stage = "GATE"

	// StageScoring runs the five scoring layers on gate-passed stocks.
	// Location: internal/scoring/
	StageScoring Stage = "SCORING"

	// StageRanking blends layers into the composite and ranks.
	// Location: internal/selection/
	StageRanking Stage = "RANKING"

	// StageAllocation sizes the model portfolio.
	// Location: internal/allocation/
	StageAllocation Stage = "ALLOCATION"

	// StageEnrichment runs the optional post-processing stages.
	// Location: internal/enrich/
	StageEnrichment Stage = "ENRICHMENT"

	// StageAssembly builds the weekly recommendation document.
	// Location: internal/recommend/
	StageAssembly Stage = "ASSEMBLY"

	// StagePersistence saves the recommendation keyed by week.
	// Location: internal/store/
	StagePersistence Stage = "PERSISTENCE"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// Description returns a short human description of the stage
func (s Stage) Description() string {
	switch s {
	case StageIngest:
		return "snapshot load"
	case StageRegime:
		return "market regime detection"
	case StageGate:
		return "quality gate"
	case StageScoring:
		return "layer scoring"
	case StageRanking:
		return "composite ranking"
	case StageAllocation:
		return "position sizing"
	case StageAssembly:
		return "recommendation assembly"
	case StageEnrichment:
		return "enrichment"
	case StagePersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageIngest,
		StageRegime,
		StageGate,
		StageScoring,
		StageRanking,
		StageAllocation,
		StageEnrichment,
		StageAssembly,
		StagePersistence,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult records one stage execution inside a run.
type StageResult struct {
	Stage       Stage  `json:"stage"`
	Success     bool   `json:"success"`
	InputCount  int    `json:"inputCount"`
	OutputCount int    `json:"outputCount"`
	DurationMS  int64  `json:"durationMs"`
	Error       string `json:"error,omitempty"`
}
