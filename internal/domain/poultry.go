package domain

import (
	"context"
	"time"
)

// Bird types kept in poultry flocks.
const (
	BirdChicken = "chicken"
	BirdHen     = "hen"
	BirdDuck    = "duck"
	BirdTurkey  = "turkey"
	BirdQuail   = "quail"
	BirdOther   = "other"
)

// Poultry production types.
const (
	ProductionEggs = "eggs"
	ProductionMeat = "meat"
	ProductionDual = "dual"
)

// Poultry housing systems.
const (
	HousingFreeRange = "free_range"
	HousingIntensive = "intensive"
	HousingOrganic   = "organic"
	HousingLabel     = "label"
)

// Flock statuses.
const (
	FlockActive = "active"
	FlockCulled = "culled"
)

// Flock represents a poultry batch managed as one unit.
// swagger:model Flock
type Flock struct {
	ID               string     `json:"id"`
	Identifier       string     `json:"identifier"`
	BirdType         string     `json:"bird_type"`
	ProductionType   string     `json:"production_type"`
	HousingSystem    string     `json:"housing_system"`
	Strain           string     `json:"strain"`
	PlacementDate    time.Time  `json:"placement_date"`
	CullDate         *time.Time `json:"cull_date"`
	InitialHeadcount int        `json:"initial_headcount"`
	CurrentHeadcount int        `json:"current_headcount"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewFlock returns a new active Flock with current headcount equal to the
// initial one. ID is set by the repository on create.
func NewFlock(identifier, birdType, productionType, housingSystem, strain string, placementDate time.Time, initialHeadcount int, createdAt time.Time) *Flock {
	return &Flock{
		Identifier:       identifier,
		BirdType:         birdType,
		ProductionType:   productionType,
		HousingSystem:    housingSystem,
		Strain:           strain,
		PlacementDate:    placementDate,
		InitialHeadcount: initialHeadcount,
		CurrentHeadcount: initialHeadcount,
		Status:           FlockActive,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}
}

// EggLayingRecord is a daily laying control for a flock.
// swagger:model EggLayingRecord
type EggLayingRecord struct {
	ID            string    `json:"id"`
	FlockID       string    `json:"flock_id"`
	RecordDate    time.Time `json:"record_date"`
	EggCount      int       `json:"egg_count"`
	MeanEggWeight float64   `json:"mean_egg_weight"` // g
	LayingRate    float64   `json:"laying_rate"`     // %
	BrokenRate    float64   `json:"broken_rate"`     // %
	DirtyRate     float64   `json:"dirty_rate"`      // %
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeighingRecord is a sample weighing of a flock.
// swagger:model WeighingRecord
type WeighingRecord struct {
	ID          string    `json:"id"`
	FlockID     string    `json:"flock_id"`
	WeighedAt   time.Time `json:"weighed_at"`
	SampleSize  int       `json:"sample_size"`
	MeanWeight  float64   `json:"mean_weight"`  // kg
	TotalWeight float64   `json:"total_weight"` // kg
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// GrowthPerformance aggregates growth and feed indicators for a flock on a
// control date.
// swagger:model GrowthPerformance
type GrowthPerformance struct {
	ID             string    `json:"id"`
	FlockID        string    `json:"flock_id"`
	RecordDate     time.Time `json:"record_date"`
	MeanWeight     float64   `json:"mean_weight"`      // g
	DailyGain      float64   `json:"daily_gain"`       // g/day
	FeedIntake     float64   `json:"feed_intake"`      // kg
	FeedConversion float64   `json:"feed_conversion"`  // kg feed / kg live weight
	MortalityRate  float64   `json:"mortality_rate"`   // %
	Uniformity     float64   `json:"uniformity"`       // %
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

// FlockFilter narrows flock listings.
type FlockFilter struct {
	ProductionType string
	Status         string
}

// EggLayingFilter narrows laying-record listings.
type EggLayingFilter struct {
	FlockID   string
	StartDate *time.Time
	EndDate   *time.Time
}

// PoultryRepository defines the interface for poultry storage.
type PoultryRepository interface {
	CreateFlock(ctx context.Context, flock *Flock) error
	GetFlockByID(ctx context.Context, id string) (*Flock, error)
	UpdateFlock(ctx context.Context, flock *Flock) error
	ListFlocks(ctx context.Context, filter FlockFilter, params PaginationParams) ([]*Flock, int, error)

	CreateEggLayingRecord(ctx context.Context, rec *EggLayingRecord) error
	ListEggLayingRecords(ctx context.Context, filter EggLayingFilter, params PaginationParams) ([]*EggLayingRecord, int, error)

	CreateWeighingRecord(ctx context.Context, rec *WeighingRecord) error
	ListWeighingRecords(ctx context.Context, flockID string, params PaginationParams) ([]*WeighingRecord, int, error)

	CreateGrowthPerformance(ctx context.Context, perf *GrowthPerformance) error
	ListGrowthPerformances(ctx context.Context, flockID string, params PaginationParams) ([]*GrowthPerformance, int, error)
}

// FlockUpdate carries optional field updates for a flock; nil means unchanged.
type FlockUpdate struct {
	HousingSystem    *string
	Strain           *string
	CullDate         *time.Time
	CurrentHeadcount *int
	Status           *string
	Notes            *string
}

// PoultryService defines the business logic for poultry management.
type PoultryService interface {
	CreateFlock(ctx context.Context, flock *Flock) error
	GetFlockByID(ctx context.Context, id string) (*Flock, error)
	UpdateFlock(ctx context.Context, id string, update FlockUpdate) (*Flock, error)
	ListFlocks(ctx context.Context, filter FlockFilter, params PaginationParams) ([]*Flock, int, error)
	RecordEggLaying(ctx context.Context, rec *EggLayingRecord) error
	ListEggLayingRecords(ctx context.Context, filter EggLayingFilter, params PaginationParams) ([]*EggLayingRecord, int, error)
	RecordWeighing(ctx context.Context, rec *WeighingRecord) error
	ListWeighingRecords(ctx context.Context, flockID string, params PaginationParams) ([]*WeighingRecord, int, error)
	RecordGrowthPerformance(ctx context.Context, perf *GrowthPerformance) error
	ListGrowthPerformances(ctx context.Context, flockID string, params PaginationParams) ([]*GrowthPerformance, int, error)
	// ExportFlocksCSV writes all flocks joined with their laying records as CSV.
	ExportFlocksCSV(ctx context.Context) ([]byte, error)
}
