package contracts

// GateResult is the outcome of the quality gate for one stock.
// Failures are disqualifying; warnings ride along into the final report.
// A stock passes if and only if it has zero hard failures.
type GateResult struct {
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Fail records a hard failure and flips Passed.
func (g *GateResult) Fail(reason string) {
	g.Passed = false
	g.Failures = append(g.Failures, reason)
}

// Warn records a non-disqualifying warning.
func (g *GateResult) Warn(reason string) {
	g.Warnings = append(g.Warnings, reason)
}
