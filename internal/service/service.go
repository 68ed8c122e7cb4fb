// Package service orchestrates the analysis pipeline: wallet history fetch,
// swap reconstruction, aggregation, caching, and report issuance.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gabrxgomes/ShadowStats/internal/analytics"
	"github.com/gabrxgomes/ShadowStats/internal/auth"
	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/helius"
	"github.com/gabrxgomes/ShadowStats/internal/observability"
	"github.com/gabrxgomes/ShadowStats/internal/report"
	"github.com/gabrxgomes/ShadowStats/internal/storage"
	"github.com/gabrxgomes/ShadowStats/internal/swap"
)

// DefaultHistoryLimit is how many transactions are fetched when the caller
// does not set one.
const DefaultHistoryLimit = 100

// HistoryProvider fetches enriched wallet transaction history.
type HistoryProvider interface {
	Transactions(ctx context.Context, wallet string, opts *helius.TransactionsOpts) ([]domain.RawTransaction, error)
}

// Options wires the service's collaborators. History, Reports, Users and
// Cache are required; Archive is optional.
type Options struct {
	History  HistoryProvider
	Reports  storage.ReportStore
	Users    storage.UserStore
	Cache    storage.AnalyticsCache
	Archive  storage.SwapArchive
	BaseURL  string
	CacheTTL time.Duration
	Log      *logrus.Logger
}

// Service runs the wallet analysis and reporting pipeline.
type Service struct {
	history  HistoryProvider
	reports  storage.ReportStore
	users    storage.UserStore
	cache    storage.AnalyticsCache
	archive  storage.SwapArchive
	baseURL  string
	cacheTTL time.Duration
	log      *logrus.Logger

	reconstructor *swap.Reconstructor
	builder       *report.Builder
	verifier      *report.Verifier
	now           func() time.Time
}

// New creates a Service.
func New(opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Service{
		history:       opts.History,
		reports:       opts.Reports,
		users:         opts.Users,
		cache:         opts.Cache,
		archive:       opts.Archive,
		baseURL:       opts.BaseURL,
		cacheTTL:      ttl,
		log:           log,
		reconstructor: swap.NewReconstructor(),
		builder:       report.NewBuilder(),
		verifier:      report.NewVerifier(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock, for deterministic output in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	s.builder = report.NewBuilder().WithClock(now)
	s.verifier = report.NewVerifier().WithClock(now)
	return s
}

// Authenticate verifies a wallet-signed login message and records the user.
func (s *Service) Authenticate(ctx context.Context, wallet string, message []byte, sigHex string) error {
	if err := auth.VerifySignature(wallet, message, sigHex); err != nil {
		return err
	}
	if err := s.users.Upsert(ctx, wallet, s.now()); err != nil {
		return fmt.Errorf("record user: %w", err)
	}
	return nil
}

// Analyze returns the wallet's analytics snapshot, serving from cache unless
// refresh is set or the cache entry has expired.
func (s *Service) Analyze(ctx context.Context, wallet string, limit int, refresh bool) (*storage.CachedAnalytics, error) {
	if err := auth.ValidateAddress(wallet); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if !refresh {
		cached, err := s.cache.Get(ctx, wallet)
		if err == nil {
			observability.RecordCacheHit()
			s.log.WithField("wallet", wallet).Debug("analytics served from cache")
			return cached, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("read analytics cache: %w", err)
		}
		observability.RecordCacheMiss()
	}

	txs, err := s.history.Transactions(ctx, wallet, &helius.TransactionsOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	swaps := s.reconstructor.ReconstructBatch(txs, wallet)
	snapshot := analytics.Aggregate(swaps)
	observability.RecordAnalysis(len(swaps))

	entry := &storage.CachedAnalytics{
		Wallet:   wallet,
		Snapshot: snapshot,
		TxCount:  len(txs),
		CachedAt: s.now(),
	}
	if len(txs) > 0 {
		// History arrives newest first.
		entry.LastSignature = txs[0].Signature
	}

	if err := s.cache.Put(ctx, entry, s.cacheTTL); err != nil {
		s.log.WithError(err).WithField("wallet", wallet).Warn("cache analytics snapshot")
	}

	if s.archive != nil && len(swaps) > 0 {
		if err := s.archive.InsertBulk(ctx, wallet, swaps); err != nil {
			s.log.WithError(err).WithField("wallet", wallet).Warn("archive swaps")
		}
	}

	if err := s.users.TouchAnalysis(ctx, wallet, s.now()); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.WithError(err).WithField("wallet", wallet).Warn("touch last analysis")
	}

	s.log.WithFields(logrus.Fields{
		"wallet": wallet,
		"txs":    len(txs),
		"swaps":  len(swaps),
	}).Info("wallet analyzed")

	return entry, nil
}

// GenerateReport builds a committed report from the wallet's current
// analytics and stores it under a hashed wallet key. Returns the report and
// its share URL.
func (s *Service) GenerateReport(ctx context.Context, wallet string, policy domain.DisclosurePolicy) (*domain.Report, string, error) {
	entry, err := s.Analyze(ctx, wallet, 0, false)
	if err != nil {
		return nil, "", err
	}

	r, err := s.builder.Build(entry.Snapshot, policy, wallet)
	if err != nil {
		return nil, "", fmt.Errorf("build report: %w", err)
	}

	record := &storage.ReportRecord{
		ID:         r.Metadata.ID,
		WalletHash: hashWallet(wallet),
		Report:     r,
		Commitment: r.Proof.Commitment,
		CreatedAt:  r.Metadata.GeneratedAt,
		ExpiresAt:  r.Metadata.ExpiresAt,
	}
	if err := s.reports.Insert(ctx, record); err != nil {
		return nil, "", fmt.Errorf("store report: %w", err)
	}

	observability.RecordReportGenerated()
	s.log.WithFields(logrus.Fields{
		"report": r.Metadata.ID,
		"wallet": record.WalletHash,
	}).Info("report generated")

	return r, s.shareURL(r.Metadata.ID), nil
}

// GetReport fetches a stored report and counts the view.
func (s *Service) GetReport(ctx context.Context, id string) (*storage.ReportRecord, error) {
	rec, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.reports.IncrementViews(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.WithError(err).WithField("report", id).Warn("increment views")
	}
	return rec, nil
}

// VerifyReport re-verifies a stored report's commitment and expiry. A
// successful verification counts as a view.
func (s *Service) VerifyReport(ctx context.Context, id string) (domain.VerificationResult, error) {
	rec, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return domain.VerificationResult{}, err
	}
	result := s.VerifyReportBody(rec.Report)
	if result.Valid {
		if err := s.reports.IncrementViews(ctx, id); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.log.WithError(err).WithField("report", id).Warn("increment views")
		}
	}
	return result, nil
}

// VerifyReportBody verifies a caller-supplied report document without
// touching storage, so third parties can check reports shared out of band.
func (s *Service) VerifyReportBody(r *domain.Report) domain.VerificationResult {
	result := s.verifier.Verify(r)
	observability.RecordReportVerified(result.Valid)
	return result
}

// PurgeExpiredReports removes reports past their expiry.
func (s *Service) PurgeExpiredReports(ctx context.Context) (int64, error) {
	deleted, err := s.reports.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		observability.RecordReportsPurged(deleted)
		s.log.WithField("deleted", deleted).Info("expired reports purged")
	}
	return deleted, nil
}

func (s *Service) shareURL(id string) string {
	return fmt.Sprintf("%s/api/report/%s", s.baseURL, id)
}

// hashWallet derives the storage key for a wallet. Report rows never hold
// the plaintext address.
func hashWallet(wallet string) string {
	sum := sha256.Sum256([]byte(wallet))
	return hex.EncodeToString(sum[:])
}
