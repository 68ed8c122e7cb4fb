package domain

import "time"

// ReportVersion is the report wire-format version.
const ReportVersion = "1.0.0"

// DisclosurePolicy selects which analytics fields a report exposes and how
// strongly numeric values are obfuscated.
type DisclosurePolicy struct {
	IncludeVolume     bool `json:"includeVolume"`
	IncludeTradeCount bool `json:"includeTradeCount"`
	IncludeWinRate    bool `json:"includeWinRate"`
	IncludeProfitLoss bool `json:"includeProfitLoss"`
	IncludeTopAssets  bool `json:"includeTopAssets"`

	RevealIdentity bool `json:"revealIdentity"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// ExpiresInDays is the expiration horizon; 0 means the 30-day default.
	ExpiresInDays int `json:"expiresInDays,omitempty"`

	// RangeVariation is the obfuscation width in percent (0-50);
	// 0 means the 5% default.
	RangeVariation float64 `json:"rangeVariation,omitempty"`
}

// ValueRange is an obfuscated [min, max] interval published instead of an
// exact value. The zero range doubles as "not disclosed" on the wire; that
// collision with a legitimately zero value is part of the v1 format.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsHidden reports whether the range carries no information.
func (r ValueRange) IsHidden() bool {
	return r.Min == 0 && r.Max == 0
}

// TopAssetEntry is the privacy-reduced top-asset row: volume and mint are
// intentionally dropped.
type TopAssetEntry struct {
	Symbol string `json:"symbol"`
	Trades int    `json:"tradeCount"`
}

// ReportStats is the privacy-projected view of an AnalyticsSnapshot.
type ReportStats struct {
	TotalVolumeRange  ValueRange      `json:"totalVolumeRange"`
	TradeCountRange   ValueRange      `json:"tradeCountRange"`
	WinRate           float64         `json:"winRate"` // verbatim, or 0 when hidden
	ProfitLossRange   ValueRange      `json:"profitLossRange"`
	TradingDays       int             `json:"tradingDays"`
	AvgTradeSizeRange ValueRange      `json:"avgTradeSizeRange"`
	TopAssets         []TopAssetEntry `json:"topAssets"`
	PeriodStart       time.Time       `json:"periodStart"`
	PeriodEnd         time.Time       `json:"periodEnd"`
}

// ReportMetadata identifies and dates a report.
type ReportMetadata struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	GeneratedAt time.Time  `json:"generatedAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"` // nil means never expires
	Version     string     `json:"version"`
}

// ReportProof carries the integrity commitment: a hex-encoded SHA-256 over
// the canonicalized report with this field blanked.
type ReportProof struct {
	Commitment string `json:"commitment"`
}

// ReportPrivacy controls identity disclosure. Identity is omitted from
// serialization entirely when not revealed.
type ReportPrivacy struct {
	IdentityRevealed bool   `json:"identityRevealed"`
	Identity         string `json:"identity,omitempty"`
}

// Report is the committed, shareable summary. Immutable after creation;
// verification never mutates it.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Stats    ReportStats    `json:"stats"`
	Proof    ReportProof    `json:"proof"`
	Privacy  ReportPrivacy  `json:"privacy"`
}

// VerificationResult is the outcome of checking a report's commitment and
// expiration. Expired is only meaningful when Valid is true: expired data is
// still legitimate, unlike a commitment mismatch.
type VerificationResult struct {
	Valid   bool   `json:"valid"`
	Expired bool   `json:"expired"`
	Reason  string `json:"reason,omitempty"`
}
