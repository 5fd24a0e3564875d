package sectors

import "strings"

// Cyclicality classifies how tightly an industry's earnings track the
// economic cycle.
type Cyclicality string

const (
	CyclicalityHigh   Cyclicality = "high"
	CyclicalityMedium Cyclicality = "medium"
	CyclicalityLow    Cyclicality = "low"
)

// Sector groups used for portfolio concentration caps.
const (
	GroupFinancials  = "Financials"
	GroupIT          = "IT & Software"
	GroupHealthcare  = "Healthcare & Pharma"
	GroupConsumer    = "Consumer"
	GroupAuto        = "Auto & Ancillaries"
	GroupIndustrials = "Industrials & Capital Goods"
	GroupCommodities = "Commodities & Materials"
	GroupEnergy      = "Energy & Utilities"
	GroupInfra       = "Infrastructure & Realty"
	GroupChemicals   = "Chemicals"
	GroupTelecom     = "Telecom & Media"
	GroupDiversified = "Diversified"
)

// Profile holds the per-industry reference values the gate and scorers
// judge a stock against.
type Profile struct {
	// ROCEThreshold is the minimum acceptable return on capital (%).
	ROCEThreshold float64
	// DebtThreshold is the tolerable debt-to-equity for the industry.
	DebtThreshold float64
	Cyclicality   Cyclicality
	Group         string
	// RateSensitive industries move with the interest rate cycle.
	RateSensitive bool
	// CurrencyBeneficiary industries earn in foreign currency and gain
	// from a weak rupee.
	CurrencyBeneficiary bool
}

// DefaultProfile is applied to industries the table does not know:
// ROCE 12%, debt-to-equity 1.5, medium cyclicality, no macro flags.
var DefaultProfile = Profile{
	ROCEThreshold: 12,
	DebtThreshold: 1.5,
	Cyclicality:   CyclicalityMedium,
	Group:         GroupDiversified,
}

// Table maps industry names (as exported by the screening sheet) to
// profiles. The table is read-only after construction; one instance is
// shared by the gate and every scorer.
type Table struct {
	profiles map[string]Profile
}

// NewTable returns the built-in industry table.
func NewTable() *Table {
	return &Table{profiles: builtin()}
}

// NewTableWithOverrides layers strategy-file overrides on top of the
// built-in table. Override keys are industry names; unknown keys simply
// add new industries.
func NewTableWithOverrides(overrides map[string]Profile) *Table {
	profiles := builtin()
	for industry, profile := range overrides {
		profiles[normalize(industry)] = profile
	}
	return &Table{profiles: profiles}
}

// Lookup returns the profile for an industry, falling back to
// DefaultProfile for unknown names. Matching ignores case and surrounding
// whitespace.
func (t *Table) Lookup(industry string) Profile {
	if p, ok := t.profiles[normalize(industry)]; ok {
		return p
	}
	return DefaultProfile
}

// IsFinancial reports whether the industry belongs to the financials
// group. Lenders are naturally leveraged, so debt-based checks skip them.
func (t *Table) IsFinancial(industry string) bool {
	return t.Lookup(industry).Group == GroupFinancials
}

// Known reports whether the industry has an explicit profile
func (t *Table) Known(industry string) bool {
	_, ok := t.profiles[normalize(industry)]
	return ok
}

// Size returns the number of explicit industry profiles
func (t *Table) Size() int {
	return len(t.profiles)
}

func normalize(industry string) string {
	return strings.ToLower(strings.TrimSpace(industry))
}

// builtin returns the industry map. Thresholds follow the conventional
// screening bands for each industry on the Indian exchanges.
func builtin() map[string]Profile {
	raw := map[string]Profile{
		// Financials. ROCE is not meaningful for lenders; thresholds are
		// set low and the gate skips leverage checks for this group.
		"banks - private sector": {ROCEThreshold: 10, DebtThreshold: 10, Cyclicality: CyclicalityMedium, Group: GroupFinancials, RateSensitive: true},
		"banks - public sector":  {ROCEThreshold: 8, DebtThreshold: 12, Cyclicality: CyclicalityMedium, Group: GroupFinancials, RateSensitive: true},
		"finance":                {ROCEThreshold: 11, DebtThreshold: 6, Cyclicality: CyclicalityMedium, Group: GroupFinancials, RateSensitive: true},
		"finance - housing":      {ROCEThreshold: 10, DebtThreshold: 8, Cyclicality: CyclicalityMedium, Group: GroupFinancials, RateSensitive: true},
		"finance - nbfc":         {ROCEThreshold: 11, DebtThreshold: 7, Cyclicality: CyclicalityMedium, Group: GroupFinancials, RateSensitive: true},
		"insurance":              {ROCEThreshold: 12, DebtThreshold: 4, Cyclicality: CyclicalityLow, Group: GroupFinancials, RateSensitive: true},
		"stock/ commodity brokers": {ROCEThreshold: 15, DebtThreshold: 2, Cyclicality: CyclicalityHigh, Group: GroupFinancials, RateSensitive: true},

		// IT and software exporters
		"it - software":         {ROCEThreshold: 20, DebtThreshold: 0.3, Cyclicality: CyclicalityLow, Group: GroupIT, CurrencyBeneficiary: true},
		"it - services":         {ROCEThreshold: 18, DebtThreshold: 0.3, Cyclicality: CyclicalityLow, Group: GroupIT, CurrencyBeneficiary: true},
		"computers - software":  {ROCEThreshold: 20, DebtThreshold: 0.3, Cyclicality: CyclicalityLow, Group: GroupIT, CurrencyBeneficiary: true},
		"it - hardware":         {ROCEThreshold: 14, DebtThreshold: 0.8, Cyclicality: CyclicalityMedium, Group: GroupIT},
		"bpo/ites":              {ROCEThreshold: 16, DebtThreshold: 0.5, Cyclicality: CyclicalityLow, Group: GroupIT, CurrencyBeneficiary: true},

		// Healthcare
		"pharmaceuticals":       {ROCEThreshold: 15, DebtThreshold: 0.7, Cyclicality: CyclicalityLow, Group: GroupHealthcare, CurrencyBeneficiary: true},
		"pharmaceuticals - api": {ROCEThreshold: 14, DebtThreshold: 0.8, Cyclicality: CyclicalityMedium, Group: GroupHealthcare, CurrencyBeneficiary: true},
		"healthcare":            {ROCEThreshold: 13, DebtThreshold: 0.8, Cyclicality: CyclicalityLow, Group: GroupHealthcare},
		"hospitals":             {ROCEThreshold: 12, DebtThreshold: 1.0, Cyclicality: CyclicalityLow, Group: GroupHealthcare},
		"diagnostics":           {ROCEThreshold: 16, DebtThreshold: 0.5, Cyclicality: CyclicalityLow, Group: GroupHealthcare},

		// Consumer staples and discretionary
		"fmcg":                    {ROCEThreshold: 20, DebtThreshold: 0.5, Cyclicality: CyclicalityLow, Group: GroupConsumer},
		"consumer food":           {ROCEThreshold: 16, DebtThreshold: 0.8, Cyclicality: CyclicalityLow, Group: GroupConsumer},
		"personal care":           {ROCEThreshold: 20, DebtThreshold: 0.5, Cyclicality: CyclicalityLow, Group: GroupConsumer},
		"breweries & distilleries": {ROCEThreshold: 15, DebtThreshold: 0.8, Cyclicality: CyclicalityLow, Group: GroupConsumer},
		"cigarettes":              {ROCEThreshold: 22, DebtThreshold: 0.3, Cyclicality: CyclicalityLow, Group: GroupConsumer},
		"retail":                  {ROCEThreshold: 14, DebtThreshold: 1.0, Cyclicality: CyclicalityMedium, Group: GroupConsumer, RateSensitive: true},
		"consumer durables":       {ROCEThreshold: 15, DebtThreshold: 0.8, Cyclicality: CyclicalityMedium, Group: GroupConsumer, RateSensitive: true},
		"diamond & jewellery":     {ROCEThreshold: 13, DebtThreshold: 1.2, Cyclicality: CyclicalityMedium, Group: GroupConsumer, RateSensitive: true},
		"textiles":                {ROCEThreshold: 11, DebtThreshold: 1.5, Cyclicality: CyclicalityHigh, Group: GroupConsumer, CurrencyBeneficiary: true},

		// Auto
		"automobiles - passenger cars":    {ROCEThreshold: 14, DebtThreshold: 1.0, Cyclicality: CyclicalityHigh, Group: GroupAuto, RateSensitive: true},
		"automobiles - 2 & 3 wheelers":    {ROCEThreshold: 16, DebtThreshold: 0.8, Cyclicality: CyclicalityHigh, Group: GroupAuto, RateSensitive: true},
		"automobiles - trucks & lcv":      {ROCEThreshold: 13, DebtThreshold: 1.2, Cyclicality: CyclicalityHigh, Group: GroupAuto, RateSensitive: true},
		"auto ancillaries":                {ROCEThreshold: 14, DebtThreshold: 1.0, Cyclicality: CyclicalityHigh, Group: GroupAuto},
		"tyres":                           {ROCEThreshold: 13, DebtThreshold: 1.2, Cyclicality: CyclicalityHigh, Group: GroupAuto},

		// Industrials
		"capital goods":       {ROCEThreshold: 14, DebtThreshold: 1.0, Cyclicality: CyclicalityMedium, Group: GroupIndustrials},
		"engineering":         {ROCEThreshold: 13, DebtThreshold: 1.2, Cyclicality: CyclicalityMedium, Group: GroupIndustrials},
		"electric equipment":  {ROCEThreshold: 15, DebtThreshold: 0.8, Cyclicality: CyclicalityMedium, Group: GroupIndustrials},
		"defence":             {ROCEThreshold: 14, DebtThreshold: 0.8, Cyclicality: CyclicalityMedium, Group: GroupIndustrials},
		"bearings":            {ROCEThreshold: 16, DebtThreshold: 0.5, Cyclicality: CyclicalityMedium, Group: GroupIndustrials},
		"abrasives":           {ROCEThreshold: 15, DebtThreshold: 0.5, Cyclicality: CyclicalityMedium, Group: GroupIndustrials},

		// Commodities
		"steel":             {ROCEThreshold: 10, DebtThreshold: 2.0, Cyclicality: CyclicalityHigh, Group: GroupCommodities},
		"aluminium":         {ROCEThreshold: 10, DebtThreshold: 2.0, Cyclicality: CyclicalityHigh, Group: GroupCommodities},
		"mining & minerals": {ROCEThreshold: 11, DebtThreshold: 1.5, Cyclicality: CyclicalityHigh, Group: GroupCommodities},
		"cement":            {ROCEThreshold: 11, DebtThreshold: 1.5, Cyclicality: CyclicalityHigh, Group: GroupCommodities},
		"paper":             {ROCEThreshold: 10, DebtThreshold: 1.8, Cyclicality: CyclicalityHigh, Group: GroupCommodities},
		"sugar":             {ROCEThreshold: 10, DebtThreshold: 2.0, Cyclicality: CyclicalityHigh, Group: GroupCommodities},

		// Energy and utilities
		"refineries":         {ROCEThreshold: 11, DebtThreshold: 1.5, Cyclicality: CyclicalityHigh, Group: GroupEnergy},
		"oil exploration":    {ROCEThreshold: 12, DebtThreshold: 1.2, Cyclicality: CyclicalityHigh, Group: GroupEnergy},
		"power generation":   {ROCEThreshold: 9, DebtThreshold: 2.5, Cyclicality: CyclicalityMedium, Group: GroupEnergy, RateSensitive: true},
		"power transmission": {ROCEThreshold: 9, DebtThreshold: 2.5, Cyclicality: CyclicalityLow, Group: GroupEnergy, RateSensitive: true},
		"gas distribution":   {ROCEThreshold: 13, DebtThreshold: 1.0, Cyclicality: CyclicalityMedium, Group: GroupEnergy},

		// Infrastructure
		"construction":   {ROCEThreshold: 10, DebtThreshold: 2.0, Cyclicality: CyclicalityHigh, Group: GroupInfra, RateSensitive: true},
		"infrastructure": {ROCEThreshold: 10, DebtThreshold: 2.2, Cyclicality: CyclicalityHigh, Group: GroupInfra, RateSensitive: true},
		"realty":         {ROCEThreshold: 9, DebtThreshold: 2.0, Cyclicality: CyclicalityHigh, Group: GroupInfra, RateSensitive: true},
		"logistics":      {ROCEThreshold: 12, DebtThreshold: 1.5, Cyclicality: CyclicalityHigh, Group: GroupInfra},

		// Chemicals
		"chemicals":           {ROCEThreshold: 14, DebtThreshold: 1.0, Cyclicality: CyclicalityMedium, Group: GroupChemicals},
		"specialty chemicals": {ROCEThreshold: 16, DebtThreshold: 0.8, Cyclicality: CyclicalityMedium, Group: GroupChemicals, CurrencyBeneficiary: true},
		"fertilizers":         {ROCEThreshold: 11, DebtThreshold: 1.5, Cyclicality: CyclicalityMedium, Group: GroupChemicals},
		"paints":              {ROCEThreshold: 20, DebtThreshold: 0.4, Cyclicality: CyclicalityMedium, Group: GroupChemicals},
		"plastics":            {ROCEThreshold: 13, DebtThreshold: 1.2, Cyclicality: CyclicalityMedium, Group: GroupChemicals},

		// Telecom, media, travel
		"telecom - services":    {ROCEThreshold: 10, DebtThreshold: 2.5, Cyclicality: CyclicalityMedium, Group: GroupTelecom, RateSensitive: true},
		"media & entertainment": {ROCEThreshold: 12, DebtThreshold: 1.2, Cyclicality: CyclicalityHigh, Group: GroupTelecom},
		"aviation":              {ROCEThreshold: 10, DebtThreshold: 3.0, Cyclicality: CyclicalityHigh, Group: GroupInfra},
		"hotels & restaurants":  {ROCEThreshold: 11, DebtThreshold: 1.5, Cyclicality: CyclicalityHigh, Group: GroupConsumer},
	}

	profiles := make(map[string]Profile, len(raw))
	for industry, profile := range raw {
		profiles[normalize(industry)] = profile
	}
	return profiles
}
