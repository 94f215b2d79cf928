package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"farmtrack/internal/domain"
)

type cattleRepository struct {
	DB *sql.DB
}

// NewCattleRepository returns a domain.CattleRepository implemented with Postgres.
func NewCattleRepository(db *sql.DB) domain.CattleRepository {
	return &cattleRepository{DB: db}
}

const animalColumns = `id, tag_number, breed, sex, birth_date, status, notes, created_at, updated_at`

func (r *cattleRepository) CreateAnimal(ctx context.Context, a *domain.Animal) error {
	query := `
		INSERT INTO animals (tag_number, breed, sex, birth_date, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		a.TagNumber, a.Breed, a.Sex, a.BirthDate, a.Status, a.Notes, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrDuplicateIdentifier
		}
		return err
	}
	return nil
}

func (r *cattleRepository) GetAnimalByID(ctx context.Context, id string) (*domain.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE id = $1`
	return scanAnimal(r.DB.QueryRowContext(ctx, query, id))
}

func (r *cattleRepository) GetAnimalByTag(ctx context.Context, tagNumber string) (*domain.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE tag_number = $1`
	return scanAnimal(r.DB.QueryRowContext(ctx, query, tagNumber))
}

func scanAnimal(row *sql.Row) (*domain.Animal, error) {
	a := &domain.Animal{}
	err := row.Scan(&a.ID, &a.TagNumber, &a.Breed, &a.Sex, &a.BirthDate, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *cattleRepository) UpdateAnimal(ctx context.Context, a *domain.Animal) error {
	query := `
		UPDATE animals
		SET breed = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, a.ID, a.Breed, a.Status, a.Notes, a.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *cattleRepository) ListAnimals(ctx context.Context, filter domain.AnimalFilter, params domain.PaginationParams) ([]*domain.Animal, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	if filter.Breed != "" {
		args = append(args, filter.Breed)
		where += fmt.Sprintf(" AND breed = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM animals`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.PageSize, params.Offset())
	query := fmt.Sprintf(`
		SELECT `+animalColumns+`
		FROM animals%s
		ORDER BY tag_number
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	animals := make([]*domain.Animal, 0)
	for rows.Next() {
		a := &domain.Animal{}
		err := rows.Scan(&a.ID, &a.TagNumber, &a.Breed, &a.Sex, &a.BirthDate, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		animals = append(animals, a)
	}
	return animals, total, rows.Err()
}

func (r *cattleRepository) CreateMilkProductionRecord(ctx context.Context, rec *domain.MilkProductionRecord) error {
	query := `
		INSERT INTO milk_production_records (animal_id, record_date, liters, fat_rate, protein_rate, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		rec.AnimalID, rec.RecordDate, rec.Liters, rec.FatRate, rec.ProteinRate, rec.Notes, rec.CreatedAt,
	).Scan(&rec.ID)
}

func (r *cattleRepository) ListMilkProductionRecords(ctx context.Context, animalID string, params domain.PaginationParams) ([]*domain.MilkProductionRecord, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM milk_production_records WHERE animal_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, animalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, animal_id, record_date, liters, fat_rate, protein_rate, notes, created_at
		FROM milk_production_records
		WHERE animal_id = $1
		ORDER BY record_date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, animalID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	records := make([]*domain.MilkProductionRecord, 0)
	for rows.Next() {
		rec := &domain.MilkProductionRecord{}
		err := rows.Scan(&rec.ID, &rec.AnimalID, &rec.RecordDate, &rec.Liters, &rec.FatRate, &rec.ProteinRate, &rec.Notes, &rec.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}
