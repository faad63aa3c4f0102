package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rebate_audit/internal/database"
	"rebate_audit/internal/generator"
	"rebate_audit/internal/migrations"
	"rebate_audit/internal/models"
	"rebate_audit/internal/repository"
)

type SeedResult struct {
	Counts repository.TableCounts `json:"counts"`
	Digest string                 `json:"digest"`
}

type SeedService interface {
	// Seed replaces the store with a freshly generated dataset.
	Seed(ctx context.Context) (*SeedResult, error)
	// EnsureStore seeds only when no store exists and reports whether it did.
	EnsureStore(ctx context.Context) (bool, error)
}

// seedService serializes rebuilds; the HTTP surface may call it from
// concurrent requests.
type seedService struct {
	mu       sync.Mutex
	store    *database.Store
	opts     generator.Options
	cache    ReportCache
	log      *logrus.Entry
	generate func(generator.Options) (*models.Dataset, error)
}

// NewSeedService takes a nil cache when report caching is off.
func NewSeedService(store *database.Store, opts generator.Options, cache ReportCache, log *logrus.Entry) SeedService {
	return &seedService{store: store, opts: opts, cache: cache, log: log, generate: generator.Generate}
}

func (s *seedService) Seed(ctx context.Context) (*SeedResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed(ctx)
}

func (s *seedService) EnsureStore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.store.Exists()
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}

	s.log.Info("no store found, seeding")
	if _, err := s.seed(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *seedService) seed(ctx context.Context) (*SeedResult, error) {
	ds, err := s.generate(s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}

	var result *SeedResult
	if s.store.Target().IsFile() {
		result, err = s.rebuildFile(ctx, ds)
	} else {
		result, err = s.rebuildInPlace(ctx, ds)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateReports(ctx); err != nil {
			s.log.WithError(err).Warn("failed to invalidate cached reports")
		}
	}

	s.log.WithFields(logrus.Fields{
		"seed":    s.opts.Seed,
		"orders":  result.Counts.Orders,
		"details": result.Counts.Details,
		"units":   result.Counts.Units,
		"digest":  result.Digest,
	}).Info("store rebuilt")
	return result, nil
}

// rebuildFile builds the new store in a uniquely named file next to the old
// one and swaps it in with a rename, so readers see either the previous store
// or the complete new one.
func (s *seedService) rebuildFile(ctx context.Context, ds *models.Dataset) (*SeedResult, error) {
	path := s.store.Target().DSN

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create build file: %w", err)
	}
	tmp := f.Name()
	f.Close()

	db, err := s.store.OpenFile(tmp)
	if err != nil {
		os.Remove(tmp)
		return nil, err
	}
	result, err := populate(ctx, db, ds)
	if cerr := database.Close(db); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to build store: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("failed to replace store: %w", err)
	}
	return result, nil
}

// rebuildInPlace relies on the server running DDL inside the transaction.
// Postgres does; MySQL commits implicitly on DDL.
func (s *seedService) rebuildInPlace(ctx context.Context, ds *models.Dataset) (*SeedResult, error) {
	db, err := s.store.Open()
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	result, err := populate(ctx, db, ds)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild store: %w", err)
	}
	return result, nil
}

// populate writes ds in one transaction and reads it back before commit, so a
// store whose rows differ from the generated dataset is never published.
func populate(ctx context.Context, db *gorm.DB, ds *models.Dataset) (*SeedResult, error) {
	result := &SeedResult{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migrations.RunMigrations(tx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		repo := repository.NewOrderRepository(tx)
		if err := repo.CreateDataset(ds); err != nil {
			return fmt.Errorf("failed to insert dataset: %w", err)
		}

		counts, err := repo.Counts()
		if err != nil {
			return fmt.Errorf("failed to count rows: %w", err)
		}
		stored, err := repo.LoadDataset()
		if err != nil {
			return fmt.Errorf("failed to read back dataset: %w", err)
		}
		if got, want := stored.Digest(), ds.Digest(); got != want {
			return fmt.Errorf("stored dataset digest %s does not match generated %s", got, want)
		}
		result.Counts = counts
		result.Digest = stored.Digest()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
