package domain

import (
	"context"
	"time"
)

// Cattle sexes.
const (
	SexFemale = "female"
	SexMale   = "male"
)

// Cattle animal statuses.
const (
	AnimalActive = "active"
	AnimalSold   = "sold"
	AnimalDead   = "dead"
)

// Animal represents a single head of cattle.
// swagger:model Animal
type Animal struct {
	ID        string    `json:"id"`
	TagNumber string    `json:"tag_number"`
	Breed     string    `json:"breed"`
	Sex       string    `json:"sex"`
	BirthDate time.Time `json:"birth_date"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAnimal returns a new active Animal. ID is set by the repository on create.
func NewAnimal(tagNumber, breed, sex string, birthDate, createdAt time.Time) *Animal {
	return &Animal{
		TagNumber: tagNumber,
		Breed:     breed,
		Sex:       sex,
		BirthDate: birthDate,
		Status:    AnimalActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// MilkProductionRecord is a daily milk yield record for one animal.
// swagger:model MilkProductionRecord
type MilkProductionRecord struct {
	ID          string    `json:"id"`
	AnimalID    string    `json:"animal_id"`
	RecordDate  time.Time `json:"record_date"`
	Liters      float64   `json:"liters"`
	FatRate     float64   `json:"fat_rate"`     // %
	ProteinRate float64   `json:"protein_rate"` // %
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// AnimalFilter narrows animal listings.
type AnimalFilter struct {
	Breed  string
	Status string
}

// CattleRepository defines the interface for cattle storage.
type CattleRepository interface {
	CreateAnimal(ctx context.Context, animal *Animal) error
	GetAnimalByID(ctx context.Context, id string) (*Animal, error)
	GetAnimalByTag(ctx context.Context, tagNumber string) (*Animal, error)
	UpdateAnimal(ctx context.Context, animal *Animal) error
	ListAnimals(ctx context.Context, filter AnimalFilter, params PaginationParams) ([]*Animal, int, error)

	CreateMilkProductionRecord(ctx context.Context, rec *MilkProductionRecord) error
	ListMilkProductionRecords(ctx context.Context, animalID string, params PaginationParams) ([]*MilkProductionRecord, int, error)
}

// AnimalUpdate carries optional field updates for an animal; nil means unchanged.
type AnimalUpdate struct {
	Breed  *string
	Status *string
	Notes  *string
}

// CattleService defines the business logic for cattle management.
type CattleService interface {
	CreateAnimal(ctx context.Context, animal *Animal) error
	GetAnimal(ctx context.Context, id string) (*Animal, error)
	UpdateAnimal(ctx context.Context, id string, update AnimalUpdate) (*Animal, error)
	ListAnimals(ctx context.Context, filter AnimalFilter, params PaginationParams) ([]*Animal, int, error)
	RecordMilkProduction(ctx context.Context, rec *MilkProductionRecord) error
	ListMilkProductionRecords(ctx context.Context, animalID string, params PaginationParams) ([]*MilkProductionRecord, int, error)
}
