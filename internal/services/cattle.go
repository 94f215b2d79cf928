package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"farmtrack/internal/domain"
)

type cattleService struct {
	repo domain.CattleRepository
}

// NewCattleService creates a CattleService.
func NewCattleService(repo domain.CattleRepository) domain.CattleService {
	return &cattleService{repo: repo}
}

func (s *cattleService) CreateAnimal(ctx context.Context, animal *domain.Animal) error {
	if animal.TagNumber == "" {
		return fmt.Errorf("tag number is required")
	}
	if animal.Sex != domain.SexFemale && animal.Sex != domain.SexMale {
		return fmt.Errorf("sex must be %q or %q", domain.SexFemale, domain.SexMale)
	}
	if _, err := s.repo.GetAnimalByTag(ctx, animal.TagNumber); err == nil {
		return domain.ErrDuplicateIdentifier
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check tag number: %w", err)
	}
	if animal.Status == "" {
		animal.Status = domain.AnimalActive
	}
	if err := s.repo.CreateAnimal(ctx, animal); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			return err
		}
		return fmt.Errorf("failed to create animal: %w", err)
	}
	return nil
}

func (s *cattleService) GetAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	animal, err := s.repo.GetAnimalByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get animal: %w", err)
	}
	return animal, nil
}

func (s *cattleService) UpdateAnimal(ctx context.Context, id string, update domain.AnimalUpdate) (*domain.Animal, error) {
	animal, err := s.GetAnimal(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Breed != nil {
		animal.Breed = *update.Breed
	}
	if update.Status != nil {
		switch *update.Status {
		case domain.AnimalActive, domain.AnimalSold, domain.AnimalDead:
			animal.Status = *update.Status
		default:
			return nil, fmt.Errorf("invalid animal status %q", *update.Status)
		}
	}
	if update.Notes != nil {
		animal.Notes = *update.Notes
	}
	animal.UpdatedAt = time.Now()
	if err := s.repo.UpdateAnimal(ctx, animal); err != nil {
		return nil, fmt.Errorf("failed to update animal: %w", err)
	}
	return animal, nil
}

func (s *cattleService) ListAnimals(ctx context.Context, filter domain.AnimalFilter, params domain.PaginationParams) ([]*domain.Animal, int, error) {
	animals, total, err := s.repo.ListAnimals(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list animals: %w", err)
	}
	return animals, total, nil
}

func (s *cattleService) RecordMilkProduction(ctx context.Context, rec *domain.MilkProductionRecord) error {
	animal, err := s.GetAnimal(ctx, rec.AnimalID)
	if err != nil {
		return err
	}
	if animal.Sex != domain.SexFemale {
		return fmt.Errorf("milk production can only be recorded for females")
	}
	if rec.Liters < 0 {
		return fmt.Errorf("liters cannot be negative")
	}
	rec.CreatedAt = time.Now()
	if err := s.repo.CreateMilkProductionRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to record milk production: %w", err)
	}
	return nil
}

func (s *cattleService) ListMilkProductionRecords(ctx context.Context, animalID string, params domain.PaginationParams) ([]*domain.MilkProductionRecord, int, error) {
	records, total, err := s.repo.ListMilkProductionRecords(ctx, animalID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list milk production records: %w", err)
	}
	return records, total, nil
}
