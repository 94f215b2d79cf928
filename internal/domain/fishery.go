package domain

import (
	"context"
	"time"
)

// Aquatic environments for fish ponds.
const (
	EnvironmentFreshwater = "freshwater"
	EnvironmentBrackish   = "brackish"
	EnvironmentSaltwater  = "saltwater"
)

// Water quality grades assigned to a reading.
const (
	WaterGood     = "good"
	WaterFair     = "fair"
	WaterPoor     = "poor"
	WaterCritical = "critical"
)

// Pond represents a fish rearing basin.
// swagger:model Pond
type Pond struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Environment      string    `json:"environment"`
	RearingType      string    `json:"rearing_type"`
	Volume           float64   `json:"volume"`        // m3
	Area             float64   `json:"area"`          // m2
	MeanDepth        float64   `json:"mean_depth"`    // m
	MaxCapacity      int       `json:"max_capacity"`  // fish
	CommissionedAt   time.Time `json:"commissioned_at"`
	FiltrationSystem string    `json:"filtration_system"`
	AerationSystem   string    `json:"aeration_system"`
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewPond returns a new Pond. ID is set by the repository on create.
func NewPond(name, environment, rearingType string, volume, area, meanDepth float64, maxCapacity int, commissionedAt, createdAt time.Time) *Pond {
	return &Pond{
		Name:           name,
		Environment:    environment,
		RearingType:    rearingType,
		Volume:         volume,
		Area:           area,
		MeanDepth:      meanDepth,
		MaxCapacity:    maxCapacity,
		CommissionedAt: commissionedAt,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
}

// OccupancyRate returns the pond's occupancy in percent for the given fish
// count, or 0 when capacity is unknown.
func (p *Pond) OccupancyRate(fishCount int) float64 {
	if p.MaxCapacity <= 0 {
		return 0
	}
	return float64(fishCount) / float64(p.MaxCapacity) * 100
}

// WaterQualityReading is a water control for a pond.
// swagger:model WaterQualityReading
type WaterQualityReading struct {
	ID              string    `json:"id"`
	PondID          string    `json:"pond_id"`
	MeasuredAt      time.Time `json:"measured_at"`
	Temperature     float64   `json:"temperature"`      // °C
	PH              float64   `json:"ph"`
	DissolvedOxygen float64   `json:"dissolved_oxygen"` // mg/l
	Ammonia         float64   `json:"ammonia"`          // mg/l
	Nitrite         float64   `json:"nitrite"`          // mg/l
	Nitrate         float64   `json:"nitrate"`          // mg/l
	Salinity        float64   `json:"salinity"`         // ppt
	Turbidity       float64   `json:"turbidity"`        // NTU
	Grade           string    `json:"grade"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// FishStocking records fish placed in a pond.
// swagger:model FishStocking
type FishStocking struct {
	ID         string    `json:"id"`
	PondID     string    `json:"pond_id"`
	Species    string    `json:"species"`
	Origin     string    `json:"origin"`
	StockedAt  time.Time `json:"stocked_at"`
	Count      int       `json:"count"`
	MeanWeight float64   `json:"mean_weight"` // g
	MeanLength float64   `json:"mean_length"` // cm
	FeedType   string    `json:"feed_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// FisheryRepository defines the interface for fish farming storage.
type FisheryRepository interface {
	CreatePond(ctx context.Context, pond *Pond) error
	GetPondByID(ctx context.Context, id string) (*Pond, error)
	UpdatePond(ctx context.Context, pond *Pond) error
	ListPonds(ctx context.Context, params PaginationParams) ([]*Pond, int, error)

	CreateWaterQualityReading(ctx context.Context, reading *WaterQualityReading) error
	ListWaterQualityReadings(ctx context.Context, pondID string, params PaginationParams) ([]*WaterQualityReading, int, error)
	// LatestWaterQualityByPond returns the most recent reading per pond.
	LatestWaterQualityByPond(ctx context.Context) ([]*WaterQualityReading, error)

	CreateFishStocking(ctx context.Context, stocking *FishStocking) error
	ListFishStockings(ctx context.Context, pondID string, params PaginationParams) ([]*FishStocking, int, error)
	// CountFishByPondID sums stocked fish for occupancy computation.
	CountFishByPondID(ctx context.Context, pondID string) (int, error)
}

// PondWithOccupancy bundles a pond with its derived occupancy rate.
type PondWithOccupancy struct {
	Pond          *Pond   `json:"pond"`
	FishCount     int     `json:"fish_count"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// FisheryService defines the business logic for fish farming management.
type FisheryService interface {
	CreatePond(ctx context.Context, pond *Pond) error
	GetPond(ctx context.Context, id string) (*PondWithOccupancy, error)
	ListPonds(ctx context.Context, params PaginationParams) ([]*Pond, int, error)
	RecordWaterQuality(ctx context.Context, reading *WaterQualityReading) error
	ListWaterQualityReadings(ctx context.Context, pondID string, params PaginationParams) ([]*WaterQualityReading, int, error)
	StockFish(ctx context.Context, stocking *FishStocking) error
	ListFishStockings(ctx context.Context, pondID string, params PaginationParams) ([]*FishStocking, int, error)
}
