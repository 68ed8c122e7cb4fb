package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

func buildTestReport(t *testing.T) *domain.Report {
	t.Helper()
	r, err := NewBuilder().Build(testSnapshot(), openPolicy(), "wallet123")
	require.NoError(t, err)
	return r
}

func TestVerify_TamperedStatsDetected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Report)
	}{
		{"volume min", func(r *domain.Report) { r.Stats.TotalVolumeRange.Min += 0.01 }},
		{"volume max", func(r *domain.Report) { r.Stats.TotalVolumeRange.Max *= 2 }},
		{"trade count", func(r *domain.Report) { r.Stats.TradeCountRange.Max++ }},
		{"win rate", func(r *domain.Report) { r.Stats.WinRate = 99 }},
		{"profit loss", func(r *domain.Report) { r.Stats.ProfitLossRange.Min = 1 }},
		{"trading days", func(r *domain.Report) { r.Stats.TradingDays++ }},
		{"top asset trades", func(r *domain.Report) { r.Stats.TopAssets[0].Trades += 5 }},
		{"title", func(r *domain.Report) { r.Metadata.Title = "edited" }},
		{"generated at", func(r *domain.Report) { r.Metadata.GeneratedAt = r.Metadata.GeneratedAt.Add(time.Second) }},
		{"identity flag", func(r *domain.Report) { r.Privacy.IdentityRevealed = true }},
	}

	v := NewVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildTestReport(t)
			tt.mutate(r)

			result := v.Verify(r)
			assert.False(t, result.Valid)
			assert.Equal(t, ReasonCommitmentMismatch, result.Reason)
		})
	}
}

func TestVerify_UncommittedFieldsMayChange(t *testing.T) {
	// The id and expiration live outside the hash, so rewriting them does not
	// break integrity.
	v := NewVerifier()

	r := buildTestReport(t)
	r.Metadata.ID = "completely-different-id"
	later := r.Metadata.GeneratedAt.Add(90 * 24 * time.Hour)
	r.Metadata.ExpiresAt = &later

	result := v.Verify(r)
	assert.True(t, result.Valid)
	assert.False(t, result.Expired)
}

func TestVerify_ExpiredReportStaysValid(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBuilder().WithClock(fixedClock(issued))

	policy := openPolicy()
	policy.ExpiresInDays = 1

	r, err := b.Build(testSnapshot(), policy, "w")
	require.NoError(t, err)

	v := NewVerifier().WithClock(fixedClock(issued.Add(48 * time.Hour)))
	result := v.Verify(r)

	assert.True(t, result.Valid)
	assert.True(t, result.Expired)
	assert.Equal(t, ReasonExpired, result.Reason)
}

func TestVerify_NotYetExpired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBuilder().WithClock(fixedClock(issued))

	r, err := b.Build(testSnapshot(), openPolicy(), "w")
	require.NoError(t, err)

	v := NewVerifier().WithClock(fixedClock(issued.Add(29 * 24 * time.Hour)))
	result := v.Verify(r)

	assert.True(t, result.Valid)
	assert.False(t, result.Expired)
}

func TestVerify_NilExpiryNeverExpires(t *testing.T) {
	r := buildTestReport(t)
	r.Metadata.ExpiresAt = nil

	v := NewVerifier().WithClock(fixedClock(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)))
	result := v.Verify(r)

	assert.True(t, result.Valid)
	assert.False(t, result.Expired)
}

func TestVerify_SurvivesJSONRoundTrip(t *testing.T) {
	// Stored reports are persisted as JSON; verification must hold on the
	// decoded copy.
	original := buildTestReport(t)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	result := NewVerifier().Verify(&decoded)
	assert.True(t, result.Valid, "reason: %s", result.Reason)
}
