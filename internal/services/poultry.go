package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"farmtrack/internal/domain"
)

type poultryService struct {
	repo domain.PoultryRepository
}

// NewPoultryService creates a PoultryService.
func NewPoultryService(repo domain.PoultryRepository) domain.PoultryService {
	return &poultryService{repo: repo}
}

func (s *poultryService) CreateFlock(ctx context.Context, flock *domain.Flock) error {
	if flock.Identifier == "" {
		return fmt.Errorf("flock identifier is required")
	}
	if flock.InitialHeadcount <= 0 {
		return fmt.Errorf("initial headcount must be positive")
	}
	if flock.CurrentHeadcount == 0 {
		flock.CurrentHeadcount = flock.InitialHeadcount
	}
	if flock.Status == "" {
		flock.Status = domain.FlockActive
	}
	if err := s.repo.CreateFlock(ctx, flock); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			return err
		}
		return fmt.Errorf("failed to create flock: %w", err)
	}
	return nil
}

func (s *poultryService) GetFlockByID(ctx context.Context, id string) (*domain.Flock, error) {
	flock, err := s.repo.GetFlockByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get flock: %w", err)
	}
	return flock, nil
}

func (s *poultryService) UpdateFlock(ctx context.Context, id string, update domain.FlockUpdate) (*domain.Flock, error) {
	flock, err := s.GetFlockByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.HousingSystem != nil {
		flock.HousingSystem = *update.HousingSystem
	}
	if update.Strain != nil {
		flock.Strain = *update.Strain
	}
	if update.CullDate != nil {
		flock.CullDate = update.CullDate
		flock.Status = domain.FlockCulled
	}
	if update.CurrentHeadcount != nil {
		if *update.CurrentHeadcount < 0 {
			return nil, fmt.Errorf("current headcount cannot be negative")
		}
		flock.CurrentHeadcount = *update.CurrentHeadcount
	}
	if update.Status != nil {
		flock.Status = *update.Status
	}
	if update.Notes != nil {
		flock.Notes = *update.Notes
	}
	flock.UpdatedAt = time.Now()
	if err := s.repo.UpdateFlock(ctx, flock); err != nil {
		return nil, fmt.Errorf("failed to update flock: %w", err)
	}
	return flock, nil
}

func (s *poultryService) ListFlocks(ctx context.Context, filter domain.FlockFilter, params domain.PaginationParams) ([]*domain.Flock, int, error) {
	flocks, total, err := s.repo.ListFlocks(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flocks: %w", err)
	}
	return flocks, total, nil
}

func (s *poultryService) RecordEggLaying(ctx context.Context, rec *domain.EggLayingRecord) error {
	flock, err := s.GetFlockByID(ctx, rec.FlockID)
	if err != nil {
		return err
	}
	if rec.EggCount < 0 {
		return fmt.Errorf("egg count cannot be negative")
	}
	// Derive the laying rate from the live headcount when the client did not
	// compute it.
	if rec.LayingRate == 0 && flock.CurrentHeadcount > 0 {
		rec.LayingRate = float64(rec.EggCount) / float64(flock.CurrentHeadcount) * 100
	}
	rec.CreatedAt = time.Now()
	if err := s.repo.CreateEggLayingRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to record egg laying: %w", err)
	}
	return nil
}

func (s *poultryService) ListEggLayingRecords(ctx context.Context, filter domain.EggLayingFilter, params domain.PaginationParams) ([]*domain.EggLayingRecord, int, error) {
	records, total, err := s.repo.ListEggLayingRecords(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list egg laying records: %w", err)
	}
	return records, total, nil
}

func (s *poultryService) RecordWeighing(ctx context.Context, rec *domain.WeighingRecord) error {
	if _, err := s.GetFlockByID(ctx, rec.FlockID); err != nil {
		return err
	}
	if rec.SampleSize <= 0 {
		return fmt.Errorf("sample size must be positive")
	}
	if rec.MeanWeight == 0 && rec.TotalWeight > 0 {
		rec.MeanWeight = rec.TotalWeight / float64(rec.SampleSize)
	}
	rec.CreatedAt = time.Now()
	if err := s.repo.CreateWeighingRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to record weighing: %w", err)
	}
	return nil
}

func (s *poultryService) ListWeighingRecords(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.WeighingRecord, int, error) {
	records, total, err := s.repo.ListWeighingRecords(ctx, flockID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list weighing records: %w", err)
	}
	return records, total, nil
}

func (s *poultryService) RecordGrowthPerformance(ctx context.Context, perf *domain.GrowthPerformance) error {
	if _, err := s.GetFlockByID(ctx, perf.FlockID); err != nil {
		return err
	}
	perf.CreatedAt = time.Now()
	if err := s.repo.CreateGrowthPerformance(ctx, perf); err != nil {
		return fmt.Errorf("failed to record growth performance: %w", err)
	}
	return nil
}

func (s *poultryService) ListGrowthPerformances(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.GrowthPerformance, int, error) {
	perfs, total, err := s.repo.ListGrowthPerformances(ctx, flockID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list growth performances: %w", err)
	}
	return perfs, total, nil
}

// exportPageSize bounds memory while paging through all flocks for export.
const exportPageSize = 200

func (s *poultryService) ExportFlocksCSV(ctx context.Context) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"identifier", "bird_type", "production_type", "housing_system", "strain",
		"placement_date", "cull_date", "initial_headcount", "current_headcount", "status",
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for page := 1; ; page++ {
		flocks, total, err := s.repo.ListFlocks(ctx, domain.FlockFilter{}, domain.PaginationParams{Page: page, PageSize: exportPageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to list flocks for export: %w", err)
		}
		for _, f := range flocks {
			cullDate := ""
			if f.CullDate != nil {
				cullDate = f.CullDate.Format(time.DateOnly)
			}
			row := []string{
				f.Identifier, f.BirdType, f.ProductionType, f.HousingSystem, f.Strain,
				f.PlacementDate.Format(time.DateOnly), cullDate,
				strconv.Itoa(f.InitialHeadcount), strconv.Itoa(f.CurrentHeadcount), f.Status,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
		}
		if page*exportPageSize >= total || len(flocks) == 0 {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
