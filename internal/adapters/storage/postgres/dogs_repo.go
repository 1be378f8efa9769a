package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"dog-registry/internal/domain/dogs"
)

type DogsRepo struct {
	db *sql.DB
}

func NewDogsRepo(db *sql.DB) *DogsRepo {
	return &DogsRepo{db: db}
}

func (r *DogsRepo) Create(ctx context.Context, d dogs.Dog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dogs (
			id, name, breed, age, color, weight, temperament,
			is_safe_to_pet, safety_explanation,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		d.ID,
		d.Name,
		d.Breed,
		d.Age,
		d.Color,
		toNullFloat(d.Weight),
		d.Temperament,
		d.IsSafeToPet,
		d.SafetyExplanation,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

func (r *DogsRepo) Update(ctx context.Context, d dogs.Dog) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dogs
		SET
			name = $2,
			breed = $3,
			age = $4,
			color = $5,
			weight = $6,
			temperament = $7,
			is_safe_to_pet = $8,
			safety_explanation = $9,
			updated_at = $10
		WHERE id = $1
	`,
		d.ID,
		d.Name,
		d.Breed,
		d.Age,
		d.Color,
		toNullFloat(d.Weight),
		d.Temperament,
		d.IsSafeToPet,
		d.SafetyExplanation,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) GetByID(ctx context.Context, id string) (dogs.Dog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dogs.Dog{}, dogs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, name, breed, age, color, weight, temperament,
			is_safe_to_pet, safety_explanation,
			created_at, updated_at
		FROM dogs
		WHERE id = $1
	`, id)

	d, err := scanDog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return dogs.Dog{}, dogs.ErrNotFound
		}
		return dogs.Dog{}, err
	}
	return d, nil
}

func (r *DogsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dogs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return dogs.ErrNotFound
	}
	return nil
}

func (r *DogsRepo) List(ctx context.Context, f dogs.ListFilter) ([]dogs.Dog, int, error) {
	// el filtro por predicción gana sobre la búsqueda por texto
	where := ""
	args := []any{}
	switch {
	case f.Prediction != "":
		where = "WHERE is_safe_to_pet = $1"
		args = append(args, f.Prediction)
	case f.Search != "":
		where = "WHERE name ILIKE $1 OR breed ILIKE $1"
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dogs "+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := `
		SELECT
			id, name, breed, age, color, weight, temperament,
			is_safe_to_pet, safety_explanation,
			created_at, updated_at
		FROM dogs ` + where + `
		ORDER BY created_at ASC, id ASC
		LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]dogs.Dog, 0)
	for rows.Next() {
		d, err := scanDog(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *DogsRepo) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dogs`).Scan(&total)
	return total, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDog(row rowScanner) (dogs.Dog, error) {
	var d dogs.Dog
	var w sql.NullFloat64
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Breed,
		&d.Age,
		&d.Color,
		&w,
		&d.Temperament,
		&d.IsSafeToPet,
		&d.SafetyExplanation,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return dogs.Dog{}, err
	}
	if w.Valid {
		v := w.Float64
		d.Weight = &v
	}
	return d, nil
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{Valid: false}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
