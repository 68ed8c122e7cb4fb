package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gabrxgomes/ShadowStats/internal/domain"
)

// canonicalMetadata is the subset of report metadata bound by the commitment.
// The report id and expiration live outside the hash: ids are assigned by
// storage and expiry is enforced directly by the verifier.
type canonicalMetadata struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generatedAt"`
	Version     string    `json:"version"`
}

// canonicalPayload fixes the exact byte form both the builder and the
// verifier hash. Field order is the struct declaration order, times are UTC
// RFC 3339, and the proof section is excluded entirely, which is equivalent
// to hashing the report with a blanked commitment. Builder and verifier MUST
// share this one definition; a second copy would silently fork the format.
type canonicalPayload struct {
	Stats    domain.ReportStats   `json:"stats"`
	Metadata canonicalMetadata    `json:"metadata"`
	Privacy  domain.ReportPrivacy `json:"privacy"`
}

// Commitment computes the hex-encoded SHA-256 commitment over the report's
// canonical form. It reads the report but never mutates it.
func Commitment(r *domain.Report) (string, error) {
	payload := canonicalPayload{
		Stats: r.Stats,
		Metadata: canonicalMetadata{
			Title:       r.Metadata.Title,
			GeneratedAt: r.Metadata.GeneratedAt,
			Version:     r.Metadata.Version,
		},
		Privacy: r.Privacy,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalize report: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
