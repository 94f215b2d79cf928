package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"farmtrack/internal/domain"
)

type fisheryRepository struct {
	DB *sql.DB
}

// NewFisheryRepository returns a domain.FisheryRepository implemented with Postgres.
func NewFisheryRepository(db *sql.DB) domain.FisheryRepository {
	return &fisheryRepository{DB: db}
}

func (r *fisheryRepository) CreatePond(ctx context.Context, p *domain.Pond) error {
	query := `
		INSERT INTO ponds (name, environment, rearing_type, volume, area, mean_depth, max_capacity, commissioned_at, filtration_system, aeration_system, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		p.Name, p.Environment, p.RearingType, p.Volume, p.Area, p.MeanDepth, p.MaxCapacity,
		p.CommissionedAt, p.FiltrationSystem, p.AerationSystem, p.Notes, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	return nil
}

func (r *fisheryRepository) GetPondByID(ctx context.Context, id string) (*domain.Pond, error) {
	query := `
		SELECT id, name, environment, rearing_type, volume, area, mean_depth, max_capacity, commissioned_at, filtration_system, aeration_system, notes, created_at, updated_at
		FROM ponds
		WHERE id = $1
	`
	p := &domain.Pond{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Environment, &p.RearingType, &p.Volume, &p.Area, &p.MeanDepth, &p.MaxCapacity,
		&p.CommissionedAt, &p.FiltrationSystem, &p.AerationSystem, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *fisheryRepository) UpdatePond(ctx context.Context, p *domain.Pond) error {
	query := `
		UPDATE ponds
		SET name = $2, rearing_type = $3, max_capacity = $4, filtration_system = $5, aeration_system = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		p.ID, p.Name, p.RearingType, p.MaxCapacity, p.FiltrationSystem, p.AerationSystem, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *fisheryRepository) ListPonds(ctx context.Context, params domain.PaginationParams) ([]*domain.Pond, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM ponds`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, name, environment, rearing_type, volume, area, mean_depth, max_capacity, commissioned_at, filtration_system, aeration_system, notes, created_at, updated_at
		FROM ponds
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	ponds := make([]*domain.Pond, 0)
	for rows.Next() {
		p := &domain.Pond{}
		err := rows.Scan(
			&p.ID, &p.Name, &p.Environment, &p.RearingType, &p.Volume, &p.Area, &p.MeanDepth, &p.MaxCapacity,
			&p.CommissionedAt, &p.FiltrationSystem, &p.AerationSystem, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		ponds = append(ponds, p)
	}
	return ponds, total, rows.Err()
}

func (r *fisheryRepository) CreateWaterQualityReading(ctx context.Context, reading *domain.WaterQualityReading) error {
	query := `
		INSERT INTO water_quality_readings (pond_id, measured_at, temperature, ph, dissolved_oxygen, ammonia, nitrite, nitrate, salinity, turbidity, grade, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		reading.PondID, reading.MeasuredAt, reading.Temperature, reading.PH, reading.DissolvedOxygen,
		reading.Ammonia, reading.Nitrite, reading.Nitrate, reading.Salinity, reading.Turbidity,
		reading.Grade, reading.Notes, reading.CreatedAt,
	).Scan(&reading.ID)
}

func (r *fisheryRepository) ListWaterQualityReadings(ctx context.Context, pondID string, params domain.PaginationParams) ([]*domain.WaterQualityReading, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM water_quality_readings WHERE pond_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, pondID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, pond_id, measured_at, temperature, ph, dissolved_oxygen, ammonia, nitrite, nitrate, salinity, turbidity, grade, notes, created_at
		FROM water_quality_readings
		WHERE pond_id = $1
		ORDER BY measured_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, pondID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	readings := make([]*domain.WaterQualityReading, 0)
	for rows.Next() {
		reading, err := scanWaterQualityReading(rows)
		if err != nil {
			return nil, 0, err
		}
		readings = append(readings, reading)
	}
	return readings, total, rows.Err()
}

func (r *fisheryRepository) LatestWaterQualityByPond(ctx context.Context) ([]*domain.WaterQualityReading, error) {
	query := `
		SELECT DISTINCT ON (pond_id) id, pond_id, measured_at, temperature, ph, dissolved_oxygen, ammonia, nitrite, nitrate, salinity, turbidity, grade, notes, created_at
		FROM water_quality_readings
		ORDER BY pond_id, measured_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	readings := make([]*domain.WaterQualityReading, 0)
	for rows.Next() {
		reading, err := scanWaterQualityReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, rows.Err()
}

func scanWaterQualityReading(rows *sql.Rows) (*domain.WaterQualityReading, error) {
	reading := &domain.WaterQualityReading{}
	err := rows.Scan(
		&reading.ID, &reading.PondID, &reading.MeasuredAt, &reading.Temperature, &reading.PH,
		&reading.DissolvedOxygen, &reading.Ammonia, &reading.Nitrite, &reading.Nitrate,
		&reading.Salinity, &reading.Turbidity, &reading.Grade, &reading.Notes, &reading.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return reading, nil
}

func (r *fisheryRepository) CreateFishStocking(ctx context.Context, s *domain.FishStocking) error {
	query := `
		INSERT INTO fish_stockings (pond_id, species, origin, stocked_at, count, mean_weight, mean_length, feed_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.PondID, s.Species, s.Origin, s.StockedAt, s.Count, s.MeanWeight, s.MeanLength, s.FeedType, s.CreatedAt,
	).Scan(&s.ID)
}

func (r *fisheryRepository) ListFishStockings(ctx context.Context, pondID string, params domain.PaginationParams) ([]*domain.FishStocking, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM fish_stockings WHERE pond_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, pondID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, pond_id, species, origin, stocked_at, count, mean_weight, mean_length, feed_type, created_at
		FROM fish_stockings
		WHERE pond_id = $1
		ORDER BY stocked_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, pondID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	stockings := make([]*domain.FishStocking, 0)
	for rows.Next() {
		s := &domain.FishStocking{}
		err := rows.Scan(&s.ID, &s.PondID, &s.Species, &s.Origin, &s.StockedAt, &s.Count, &s.MeanWeight, &s.MeanLength, &s.FeedType, &s.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		stockings = append(stockings, s)
	}
	return stockings, total, rows.Err()
}

func (r *fisheryRepository) CountFishByPondID(ctx context.Context, pondID string) (int, error) {
	var count int
	query := `SELECT COALESCE(SUM(count), 0) FROM fish_stockings WHERE pond_id = $1`
	if err := r.DB.QueryRowContext(ctx, query, pondID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
