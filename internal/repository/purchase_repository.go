package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/propstack/acquisition-engine/internal/domain"
)

type purchaseRepository struct {
	db *DB
}

func NewPurchaseRepository(db *DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

const purchaseColumns = `
	p.id, p.property_id, p.user_id, p.base_cost, p.other_charges, p.ifms,
	p.lease_rent, p.amc, p.gst, p.purchase_date, p.registration_date,
	p.possession_date, p.seller, p.remarks, p.created_at, p.updated_at,
	pr.name AS property_name
`

const purchaseFrom = ` FROM purchases p JOIN properties pr ON pr.id = p.property_id `

func (r *purchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	query := `
		INSERT INTO purchases (property_id, user_id, base_cost, other_charges, ifms,
			lease_rent, amc, gst, purchase_date, registration_date, possession_date,
			seller, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		p.PropertyID,
		p.UserID,
		p.BaseCost,
		p.OtherCharges,
		p.IFMS,
		p.LeaseRent,
		p.AMC,
		p.GST,
		p.PurchaseDate,
		p.RegistrationDate,
		p.PossessionDate,
		p.Seller,
		p.Remarks,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *purchaseRepository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + purchaseFrom + ` WHERE p.id = $1`

	var p domain.Purchase
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &p, query, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *purchaseRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Purchase, error) {
	// Lock only the purchases row; the property join happens after.
	query := `
		SELECT ` + purchaseColumns + `
		FROM (SELECT * FROM purchases WHERE id = $1 FOR UPDATE) p
		JOIN properties pr ON pr.id = p.property_id
	`

	var p domain.Purchase
	if err := sqlx.GetContext(ctx, r.db.ext(ctx), &p, query, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *purchaseRepository) List(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + purchaseFrom + ` WHERE 1=1`
	args := []interface{}{}

	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		query += ` AND p.property_id = ` + placeholder(len(args))
	}

	query += ` ORDER BY p.id`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT ` + placeholder(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET ` + placeholder(len(args))
	}

	var purchases []*domain.Purchase
	if err := sqlx.SelectContext(ctx, r.db.ext(ctx), &purchases, query, args...); err != nil {
		return nil, err
	}

	return purchases, nil
}

func (r *purchaseRepository) Update(ctx context.Context, p *domain.Purchase) error {
	query := `
		UPDATE purchases
		SET base_cost = $2, other_charges = $3, ifms = $4, lease_rent = $5,
			amc = $6, gst = $7, purchase_date = $8, registration_date = $9,
			possession_date = $10, seller = $11, remarks = $12, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.db.ext(ctx).QueryRowxContext(ctx, query,
		p.ID,
		p.BaseCost,
		p.OtherCharges,
		p.IFMS,
		p.LeaseRent,
		p.AMC,
		p.GST,
		p.PurchaseDate,
		p.RegistrationDate,
		p.PossessionDate,
		p.Seller,
		p.Remarks,
	).Scan(&p.UpdatedAt)
}

func (r *purchaseRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ext(ctx).ExecContext(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	return err
}

func (r *purchaseRepository) CountByProperty(ctx context.Context, propertyID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, r.db.ext(ctx), &count,
		`SELECT COUNT(*) FROM purchases WHERE property_id = $1`, propertyID)
	return count, err
}
