package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	"rebate_audit/internal/database"
	"rebate_audit/internal/models"
	"rebate_audit/internal/repository"
)

var (
	// ErrQueryContract means the query ran but did not return the audit columns.
	ErrQueryContract = errors.New("report query does not return the audit columns")
	ErrStoreMissing  = errors.New("store does not exist")
)

// ReportCache holds finished results keyed by query and parameters.
type ReportCache interface {
	GetReport(ctx context.Context, key string) (*models.ReportResult, bool, error)
	SetReport(ctx context.Context, key string, result *models.ReportResult, ttl time.Duration) error
	InvalidateReports(ctx context.Context) error
}

type ReportService interface {
	// Run executes the audit query. It never creates the store; compose with
	// SeedService.EnsureStore for first-run behaviour.
	Run(ctx context.Context, params models.ReportParams) (*models.ReportResult, error)
}

type reportService struct {
	store *database.Store
	query string
	cache ReportCache
	ttl   time.Duration
	log   *logrus.Entry
}

func NewReportService(store *database.Store, query string, cache ReportCache, ttl time.Duration, log *logrus.Entry) ReportService {
	return &reportService{store: store, query: query, cache: cache, ttl: ttl, log: log}
}

func (s *reportService) Run(ctx context.Context, params models.ReportParams) (*models.ReportResult, error) {
	key := s.cacheKey(params)
	if s.cache != nil {
		cached, ok, err := s.cache.GetReport(ctx, key)
		if err != nil {
			s.log.WithError(err).Warn("report cache unavailable")
		} else if ok {
			s.log.WithField("params", params.String()).Debug("report served from cache")
			return cached, nil
		}
	}

	result, err := s.execute(ctx, params)
	if err != nil {
		return nil, err
	}
	if missing := result.MissingColumns(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrQueryContract, missing)
	}
	if result.Empty() {
		s.log.WithField("params", params.String()).Debug("no matching rows, using zero summary")
		result = models.ZeroResult()
	}

	if s.cache != nil {
		if err := s.cache.SetReport(ctx, key, result, s.ttl); err != nil {
			s.log.WithError(err).Warn("failed to cache report")
		}
	}
	return result, nil
}

func (s *reportService) execute(ctx context.Context, params models.ReportParams) (*models.ReportResult, error) {
	ok, err := s.store.Exists()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStoreMissing
	}

	db, err := s.store.Open()
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	repo, err := repository.NewReportRepository(db)
	if err != nil {
		return nil, err
	}
	result, err := repo.Run(ctx, s.query, params.Named())
	if err != nil {
		return nil, fmt.Errorf("failed to run report query: %w", err)
	}
	return result, nil
}

// cacheKey changes whenever the query text does, so an edited report.sql
// never serves stale results.
func (s *reportService) cacheKey(params models.ReportParams) string {
	sum := blake2b.Sum256([]byte(s.query))
	return fmt.Sprintf("%s|%s|%s|%s", hex.EncodeToString(sum[:8]), params.Start, params.End, params.Partner)
}
