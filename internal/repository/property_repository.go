package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type propertyRepository struct {
	db *DB
}

func NewPropertyRepository(db *DB) PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `
	id, name, address, property_type, carpet_area, exclusive_area, common_area,
	floor_number, parking_details, amenities, initial_rate, current_rate,
	developer, rera_id, created_at, updated_at
`

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	query := `
		INSERT INTO properties (name, address, property_type, carpet_area, exclusive_area,
			common_area, floor_number, parking_details, amenities, initial_rate,
			current_rate, developer, rera_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		p.Name,
		p.Address,
		p.PropertyType,
		p.CarpetArea,
		p.ExclusiveArea,
		p.CommonArea,
		p.FloorNumber,
		p.ParkingDetails,
		p.Amenities,
		p.InitialRate,
		p.CurrentRate,
		p.Developer,
		p.ReraID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	var p domain.Property
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &p, query, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *propertyRepository) List(ctx context.Context, limit, offset int) ([]*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties ORDER BY id LIMIT $1 OFFSET $2`

	var properties []*domain.Property
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &properties, query, limit, offset); err != nil {
		return nil, err
	}

	return properties, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	query := `
		UPDATE properties
		SET name = $2, address = $3, property_type = $4, carpet_area = $5,
			exclusive_area = $6, common_area = $7, floor_number = $8,
			parking_details = $9, amenities = $10, initial_rate = $11,
			current_rate = $12, developer = $13, rera_id = $14, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		p.ID,
		p.Name,
		p.Address,
		p.PropertyType,
		p.CarpetArea,
		p.ExclusiveArea,
		p.CommonArea,
		p.FloorNumber,
		p.ParkingDetails,
		p.Amenities,
		p.InitialRate,
		p.CurrentRate,
		p.Developer,
		p.ReraID,
	).Scan(&p.UpdatedAt)
}

func (r *propertyRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	return err
}
