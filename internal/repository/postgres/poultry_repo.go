package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"farmtrack/internal/domain"
)

type poultryRepository struct {
	DB *sql.DB
}

// NewPoultryRepository returns a domain.PoultryRepository implemented with Postgres.
func NewPoultryRepository(db *sql.DB) domain.PoultryRepository {
	return &poultryRepository{DB: db}
}

func (r *poultryRepository) CreateFlock(ctx context.Context, f *domain.Flock) error {
	query := `
		INSERT INTO flocks (identifier, bird_type, production_type, housing_system, strain, placement_date, initial_headcount, current_headcount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		f.Identifier, f.BirdType, f.ProductionType, f.HousingSystem, f.Strain,
		f.PlacementDate, f.InitialHeadcount, f.CurrentHeadcount, f.Status, f.Notes,
		f.CreatedAt, f.UpdatedAt,
	).Scan(&f.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	return nil
}

func (r *poultryRepository) GetFlockByID(ctx context.Context, id string) (*domain.Flock, error) {
	query := `
		SELECT id, identifier, bird_type, production_type, housing_system, strain, placement_date, cull_date, initial_headcount, current_headcount, status, notes, created_at, updated_at
		FROM flocks
		WHERE id = $1
	`
	f := &domain.Flock{}
	var cullDate sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.Identifier, &f.BirdType, &f.ProductionType, &f.HousingSystem, &f.Strain,
		&f.PlacementDate, &cullDate, &f.InitialHeadcount, &f.CurrentHeadcount, &f.Status, &f.Notes,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cullDate.Valid {
		f.CullDate = &cullDate.Time
	}
	return f, nil
}

func (r *poultryRepository) UpdateFlock(ctx context.Context, f *domain.Flock) error {
	query := `
		UPDATE flocks
		SET housing_system = $2, strain = $3, cull_date = $4, current_headcount = $5, status = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		f.ID, f.HousingSystem, f.Strain, f.CullDate, f.CurrentHeadcount, f.Status, f.Notes, f.UpdatedAt,
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

func (r *poultryRepository) ListFlocks(ctx context.Context, filter domain.FlockFilter, params domain.PaginationParams) ([]*domain.Flock, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.ProductionType != "" {
		args = append(args, filter.ProductionType)
		where += fmt.Sprintf(" AND production_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM flocks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.PageSize, params.Offset())
	query := fmt.Sprintf(`
		SELECT id, identifier, bird_type, production_type, housing_system, strain, placement_date, cull_date, initial_headcount, current_headcount, status, notes, created_at, updated_at
		FROM flocks%s
		ORDER BY placement_date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	flocks := make([]*domain.Flock, 0)
	for rows.Next() {
		f := &domain.Flock{}
		var cullDate sql.NullTime
		err := rows.Scan(
			&f.ID, &f.Identifier, &f.BirdType, &f.ProductionType, &f.HousingSystem, &f.Strain,
			&f.PlacementDate, &cullDate, &f.InitialHeadcount, &f.CurrentHeadcount, &f.Status, &f.Notes,
			&f.CreatedAt, &f.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if cullDate.Valid {
			f.CullDate = &cullDate.Time
		}
		flocks = append(flocks, f)
	}
	return flocks, total, rows.Err()
}

func (r *poultryRepository) CreateEggLayingRecord(ctx context.Context, rec *domain.EggLayingRecord) error {
	query := `
		INSERT INTO egg_laying_records (flock_id, record_date, egg_count, mean_egg_weight, laying_rate, broken_rate, dirty_rate, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rec.FlockID, rec.RecordDate, rec.EggCount, rec.MeanEggWeight,
		rec.LayingRate, rec.BrokenRate, rec.DirtyRate, rec.Notes, rec.CreatedAt,
	).Scan(&rec.ID)
}

func (r *poultryRepository) ListEggLayingRecords(ctx context.Context, filter domain.EggLayingFilter, params domain.PaginationParams) ([]*domain.EggLayingRecord, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.FlockID != "" {
		args = append(args, filter.FlockID)
		where += fmt.Sprintf(" AND flock_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND record_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND record_date <= $%d", len(args))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM egg_laying_records`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.PageSize, params.Offset())
	query := fmt.Sprintf(`
		SELECT id, flock_id, record_date, egg_count, mean_egg_weight, laying_rate, broken_rate, dirty_rate, notes, created_at
		FROM egg_laying_records%s
		ORDER BY record_date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	records := make([]*domain.EggLayingRecord, 0)
	for rows.Next() {
		rec := &domain.EggLayingRecord{}
		err := rows.Scan(
			&rec.ID, &rec.FlockID, &rec.RecordDate, &rec.EggCount, &rec.MeanEggWeight,
			&rec.LayingRate, &rec.BrokenRate, &rec.DirtyRate, &rec.Notes, &rec.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (r *poultryRepository) CreateWeighingRecord(ctx context.Context, rec *domain.WeighingRecord) error {
	query := `
		INSERT INTO weighing_records (flock_id, weighed_at, sample_size, mean_weight, total_weight, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rec.FlockID, rec.WeighedAt, rec.SampleSize, rec.MeanWeight, rec.TotalWeight, rec.Notes, rec.CreatedAt,
	).Scan(&rec.ID)
}

func (r *poultryRepository) ListWeighingRecords(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.WeighingRecord, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM weighing_records WHERE flock_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, flockID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, flock_id, weighed_at, sample_size, mean_weight, total_weight, notes, created_at
		FROM weighing_records
		WHERE flock_id = $1
		ORDER BY weighed_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, flockID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	records := make([]*domain.WeighingRecord, 0)
	for rows.Next() {
		rec := &domain.WeighingRecord{}
		err := rows.Scan(&rec.ID, &rec.FlockID, &rec.WeighedAt, &rec.SampleSize, &rec.MeanWeight, &rec.TotalWeight, &rec.Notes, &rec.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (r *poultryRepository) CreateGrowthPerformance(ctx context.Context, perf *domain.GrowthPerformance) error {
	query := `
		INSERT INTO growth_performances (flock_id, record_date, mean_weight, daily_gain, feed_intake, feed_conversion, mortality_rate, uniformity, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		perf.FlockID, perf.RecordDate, perf.MeanWeight, perf.DailyGain, perf.FeedIntake,
		perf.FeedConversion, perf.MortalityRate, perf.Uniformity, perf.Notes, perf.CreatedAt,
	).Scan(&perf.ID)
}

func (r *poultryRepository) ListGrowthPerformances(ctx context.Context, flockID string, params domain.PaginationParams) ([]*domain.GrowthPerformance, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM growth_performances WHERE flock_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, flockID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, flock_id, record_date, mean_weight, daily_gain, feed_intake, feed_conversion, mortality_rate, uniformity, notes, created_at
		FROM growth_performances
		WHERE flock_id = $1
		ORDER BY record_date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, flockID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	perfs := make([]*domain.GrowthPerformance, 0)
	for rows.Next() {
		perf := &domain.GrowthPerformance{}
		err := rows.Scan(
			&perf.ID, &perf.FlockID, &perf.RecordDate, &perf.MeanWeight, &perf.DailyGain,
			&perf.FeedIntake, &perf.FeedConversion, &perf.MortalityRate, &perf.Uniformity, &perf.Notes, &perf.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		perfs = append(perfs, perf)
	}
	return perfs, total, rows.Err()
}
