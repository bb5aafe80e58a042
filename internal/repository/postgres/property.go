package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hostelhub-backend/internal/domain"
	"hostelhub-backend/internal/repository"
)

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, owner_id, name, address, city, description, mess_offered, sign_order, created_on, updated_on`

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	now := time.Now().Format(time.RFC3339)
	query := `INSERT INTO properties (owner_id, name, address, city, description, mess_offered, sign_order, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query, p.OwnerID, p.Name, p.Address, p.City, p.Description, p.MessOffered, p.SignOrder, now, now).Scan(&p.ID)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	p := &domain.Property{}
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.City, &p.Description, &p.MessOffered, &p.SignOrder, &p.CreatedOn, &p.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `UPDATE properties SET name=$1, address=$2, city=$3, description=$4, mess_offered=$5, sign_order=$6, updated_on=$7 WHERE id=$8`
	_, err := r.db.ExecContext(ctx, query, p.Name, p.Address, p.City, p.Description, p.MessOffered, p.SignOrder, time.Now().Format(time.RFC3339), p.ID)
	return err
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID int32, page, pageSize int32) ([]domain.Property, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM properties WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	props, err := scanProperties(rows)
	if err != nil {
		return nil, 0, err
	}
	return props, count, nil
}

func (r *propertyRepository) Search(ctx context.Context, city, query string, page, pageSize int32) ([]domain.Property, int32, error) {
	offset := (page - 1) * pageSize
	sqlStr := `SELECT ` + propertyColumns + ` FROM properties WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if city != "" {
		sqlStr += fmt.Sprintf(" AND lower(city) = lower($%d)", argIdx)
		args = append(args, city)
		argIdx++
	}
	if query != "" {
		sqlStr += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+query+"%")
		argIdx++
	}

	var count int32
	countSql := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sqlStr += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	props, err := scanProperties(rows)
	if err != nil {
		return nil, 0, err
	}
	return props, count, nil
}

func scanProperties(rows *sql.Rows) ([]domain.Property, error) {
	var props []domain.Property
	for rows.Next() {
		var p domain.Property
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Address, &p.City, &p.Description, &p.MessOffered, &p.SignOrder, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}
