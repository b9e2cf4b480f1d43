package service

import (
	"context"
	"fmt"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/common"
	"github.com/emojitopng/emojitopng-backend/internal/domain"
	"github.com/emojitopng/emojitopng-backend/internal/ingest"
	"github.com/emojitopng/emojitopng-backend/internal/repository"
	pkglogger "github.com/emojitopng/emojitopng-backend/pkg/logger"
)

// LoadResult 한 번의 로드 결과
type LoadResult struct {
	Records  []domain.EmojiRecord
	Source   domain.DatasetSource
	Skipped  []ingest.RowIssue
	LoadedAt time.Time
}

// Status summarises the result for health and admin responses
func (r *LoadResult) Status() domain.DatasetStatus {
	return domain.DatasetStatus{
		Source:   r.Source,
		Records:  len(r.Records),
		Skipped:  len(r.Skipped),
		LoadedAt: r.LoadedAt,
	}
}

// DatasetService resolves which raw dataset is authoritative and manages
// the single override slot. The override wins over the bundle whenever it
// parses to at least one record.
type DatasetService struct {
	overrides repository.OverrideRepository
	bundle    repository.BundleSource
	now       func() time.Time
}

// NewDatasetService creates a new DatasetService. bundle may be nil.
func NewDatasetService(overrides repository.OverrideRepository, bundle repository.BundleSource) *DatasetService {
	return &DatasetService{overrides: overrides, bundle: bundle, now: time.Now}
}

// Load returns the records of the highest priority usable source:
// override, then bundle, then an empty catalog. It never fails.
func (s *DatasetService) Load(ctx context.Context) *LoadResult {
	// 로드는 시작되면 끝까지 진행
	ctx = context.WithoutCancel(ctx)
	log := pkglogger.WithComponent("dataset")

	if res := s.loadOverride(ctx); res != nil {
		return s.finish(res, domain.SourceOverride)
	}

	if s.bundle != nil {
		raw, err := s.bundle.Fetch(ctx)
		if err != nil {
			log.Error().Err(err).Msg("bundled dataset unavailable")
		} else {
			res := ingest.Parse(raw)
			if !res.Empty() {
				return s.finish(res, domain.SourceBundle)
			}
			log.Warn().Int("skipped", len(res.Skipped)).Msg("bundled dataset has no valid records")
		}
	}

	log.Warn().Msg("no dataset available, serving empty catalog")
	return s.finish(&ingest.Result{Records: []domain.EmojiRecord{}}, domain.SourceNone)
}

// loadOverride returns nil when the override is absent, unreadable or empty
func (s *DatasetService) loadOverride(ctx context.Context) *ingest.Result {
	log := pkglogger.WithComponent("dataset")

	raw, ok, err := s.overrides.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to read override, falling back to bundle")
		return nil
	}
	if !ok {
		return nil
	}

	res := ingest.Parse(raw)
	if res.Empty() {
		log.Warn().Int("skipped", len(res.Skipped)).Msg("override has no valid records, falling back to bundle")
		return nil
	}
	return res
}

func (s *DatasetService) finish(res *ingest.Result, source domain.DatasetSource) *LoadResult {
	out := &LoadResult{
		Records:  res.Records,
		Source:   source,
		Skipped:  res.Skipped,
		LoadedAt: s.now(),
	}

	catalogLoadsTotal.WithLabelValues(string(source)).Inc()
	catalogRowsSkippedTotal.Add(float64(len(res.Skipped)))

	pkglogger.GetLogger().Info().
		Str("source", string(source)).
		Int("records", len(out.Records)).
		Int("skipped", len(out.Skipped)).
		Msg("dataset loaded")
	return out
}

// Validate parses raw without persisting anything
func (s *DatasetService) Validate(raw string) *ingest.Result {
	return ingest.Parse(raw)
}

// Save validates raw and, only when it yields at least one record, stores it
// verbatim in the override slot. A rejected import leaves the slot untouched.
func (s *DatasetService) Save(ctx context.Context, raw string) (*ingest.Result, error) {
	res := ingest.Parse(raw)
	if res.Empty() {
		if len(res.Skipped) > 0 {
			return res, common.NewValidationError(len(res.Skipped),
				"no valid rows found (%d rows skipped, first at line %d: %s)",
				len(res.Skipped), res.Skipped[0].Line, res.Skipped[0].Reason)
		}
		return res, common.NewValidationError(0, "no valid rows found")
	}

	if err := s.overrides.Put(ctx, raw); err != nil {
		return res, fmt.Errorf("%w: %v", common.ErrStorageFailed, err)
	}

	pkglogger.WithComponent("dataset").Info().
		Int("records", len(res.Records)).
		Int("skipped", len(res.Skipped)).
		Int("bytes", len(raw)).
		Msg("override saved")
	return res, nil
}

// Clear removes the override. An empty slot is not an error.
func (s *DatasetService) Clear(ctx context.Context) error {
	if err := s.overrides.Delete(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailed, err)
	}
	pkglogger.WithComponent("dataset").Info().Msg("override cleared")
	return nil
}

// Export returns the raw text of the source Load would pick
func (s *DatasetService) Export(ctx context.Context) (string, domain.DatasetSource, error) {
	raw, ok, err := s.overrides.Get(ctx)
	if err != nil {
		return "", domain.SourceNone, fmt.Errorf("%w: %v", common.ErrStorageFailed, err)
	}
	if ok && !ingest.Parse(raw).Empty() {
		return raw, domain.SourceOverride, nil
	}

	if s.bundle != nil {
		raw, err := s.bundle.Fetch(ctx)
		if err == nil && !ingest.Parse(raw).Empty() {
			return raw, domain.SourceBundle, nil
		}
	}
	return "", domain.SourceNone, common.ErrNoDataset
}
