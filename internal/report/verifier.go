package report

import (
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

// Verification failure reasons.
const (
	ReasonCommitmentMismatch = "commitment mismatch"
	ReasonExpired            = "report expired"
)

// Verifier checks report integrity and expiration. Verification is pure and
// idempotent: a stored report can be re-verified any number of times with the
// same outcome (expiration aside, which only moves forward).
type Verifier struct {
	now func() time.Time
}

// NewVerifier creates a Verifier using the wall clock.
func NewVerifier() *Verifier {
	return &Verifier{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets a custom clock, for deterministic output in tests.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify recomputes the commitment over the report's canonical form and
// compares it with the stored one, then checks expiration. A commitment
// mismatch means the data was altered after issuance. An expired report is
// still structurally valid: Valid=true, Expired=true, so callers can
// distinguish stale from tampered.
func (v *Verifier) Verify(r *domain.Report) domain.VerificationResult {
	recomputed, err := Commitment(r)
	if err != nil {
		// Canonicalization of an in-memory report can only fail on a broken
		// encoder; treat it as an integrity failure rather than panicking.
		return domain.VerificationResult{Valid: false, Reason: ReasonCommitmentMismatch}
	}

	if recomputed != r.Proof.Commitment {
		return domain.VerificationResult{Valid: false, Reason: ReasonCommitmentMismatch}
	}

	result := domain.VerificationResult{Valid: true}
	if r.Metadata.ExpiresAt != nil && r.Metadata.ExpiresAt.Before(v.now()) {
		result.Expired = true
		result.Reason = ReasonExpired
	}
	return result
}
