package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmtrack/internal/domain"
)

// Acceptable water quality ranges for pond readings. A reading outside the
// fair range is graded poor; dissolved oxygen below the survival floor or
// ammonia above the toxicity ceiling is critical.
const (
	waterTempMin = 20.0 // °C
	waterTempMax = 32.0
	waterPHMin   = 6.0
	waterPHMax   = 9.0

	oxygenGoodMin     = 5.0 // mg/l
	oxygenFairMin     = 4.0
	oxygenCriticalMin = 2.5

	ammoniaGoodMax     = 0.05 // mg/l
	ammoniaFairMax     = 0.2
	ammoniaCriticalMax = 0.5

	nitriteFairMax = 0.5 // mg/l
)

type fisheryService struct {
	repo domain.FisheryRepository
}

// NewFisheryService creates a FisheryService.
func NewFisheryService(repo domain.FisheryRepository) domain.FisheryService {
	return &fisheryService{repo: repo}
}

func (s *fisheryService) CreatePond(ctx context.Context, pond *domain.Pond) error {
	if pond.Name == "" {
		return fmt.Errorf("pond name is required")
	}
	if pond.Volume <= 0 && pond.Area > 0 && pond.MeanDepth > 0 {
		pond.Volume = pond.Area * pond.MeanDepth
	}
	if err := s.repo.CreatePond(ctx, pond); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			return err
		}
		return fmt.Errorf("failed to create pond: %w", err)
	}
	return nil
}

func (s *fisheryService) GetPond(ctx context.Context, id string) (*domain.PondWithOccupancy, error) {
	pond, err := s.repo.GetPondByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pond: %w", err)
	}
	count, err := s.repo.CountFishByPondID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count fish: %w", err)
	}
	return &domain.PondWithOccupancy{
		Pond:          pond,
		FishCount:     count,
		OccupancyRate: pond.OccupancyRate(count),
	}, nil
}

func (s *fisheryService) ListPonds(ctx context.Context, params domain.PaginationParams) ([]*domain.Pond, int, error) {
	ponds, total, err := s.repo.ListPonds(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list ponds: %w", err)
	}
	return ponds, total, nil
}

func (s *fisheryService) RecordWaterQuality(ctx context.Context, reading *domain.WaterQualityReading) error {
	if _, err := s.repo.GetPondByID(ctx, reading.PondID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to get pond: %w", err)
	}
	reading.Grade = GradeWaterQuality(reading)
	reading.CreatedAt = time.Now()
	if err := s.repo.CreateWaterQualityReading(ctx, reading); err != nil {
		return fmt.Errorf("failed to record water quality: %w", err)
	}
	return nil
}

func (s *fisheryService) ListWaterQualityReadings(ctx context.Context, pondID string, params domain.PaginationParams) ([]*domain.WaterQualityReading, int, error) {
	readings, total, err := s.repo.ListWaterQualityReadings(ctx, pondID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list water quality readings: %w", err)
	}
	return readings, total, nil
}

func (s *fisheryService) StockFish(ctx context.Context, stocking *domain.FishStocking) error {
	pond, err := s.repo.GetPondByID(ctx, stocking.PondID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to get pond: %w", err)
	}
	if stocking.Count <= 0 {
		return fmt.Errorf("fish count must be positive")
	}
	if pond.MaxCapacity > 0 {
		current, err := s.repo.CountFishByPondID(ctx, stocking.PondID)
		if err != nil {
			return fmt.Errorf("failed to count fish: %w", err)
		}
		if current+stocking.Count > pond.MaxCapacity {
			return fmt.Errorf("stocking %d fish would exceed pond capacity of %d", stocking.Count, pond.MaxCapacity)
		}
	}
	stocking.CreatedAt = time.Now()
	if err := s.repo.CreateFishStocking(ctx, stocking); err != nil {
		return fmt.Errorf("failed to record fish stocking: %w", err)
	}
	return nil
}

// GradeWaterQuality classifies a reading against the acceptable ranges. The
// worst offending parameter decides the grade.
func GradeWaterQuality(r *domain.WaterQualityReading) string {
	if r.DissolvedOxygen < oxygenCriticalMin || r.Ammonia > ammoniaCriticalMax {
		return domain.WaterCritical
	}
	poor := r.DissolvedOxygen < oxygenFairMin ||
		r.Ammonia > ammoniaFairMax ||
		r.Nitrite > nitriteFairMax ||
		r.PH < waterPHMin || r.PH > waterPHMax ||
		r.Temperature < waterTempMin || r.Temperature > waterTempMax
	if poor {
		return domain.WaterPoor
	}
	if r.DissolvedOxygen < oxygenGoodMin || r.Ammonia > ammoniaGoodMax {
		return domain.WaterFair
	}
	return domain.WaterGood
}
