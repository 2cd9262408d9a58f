package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is a user's acquisition record against one property, carrying
// the authoritative cost breakdown.
type Purchase struct {
	ID         int64 `json:"id" db:"id"`
	PropertyID int64 `json:"property_id" db:"property_id"`
	UserID     int64 `json:"user_id" db:"user_id"`

	BaseCost     decimal.Decimal     `json:"base_cost" db:"base_cost"`
	OtherCharges decimal.NullDecimal `json:"other_charges" db:"other_charges"`
	IFMS         decimal.NullDecimal `json:"ifms" db:"ifms"`
	LeaseRent    decimal.NullDecimal `json:"lease_rent" db:"lease_rent"`
	AMC          decimal.NullDecimal `json:"amc" db:"amc"`
	GST          decimal.NullDecimal `json:"gst" db:"gst"`

	PurchaseDate     time.Time  `json:"purchase_date" db:"purchase_date"`
	RegistrationDate *time.Time `json:"registration_date,omitempty" db:"registration_date"`
	PossessionDate   *time.Time `json:"possession_date,omitempty" db:"possession_date"`

	Seller  *string `json:"seller,omitempty" db:"seller"`
	Remarks *string `json:"remarks,omitempty" db:"remarks"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Derived, never stored.
	PropertyCost  decimal.Decimal `json:"property_cost" db:"-"`
	TotalCost     decimal.Decimal `json:"total_cost" db:"-"`
	TotalSaleCost decimal.Decimal `json:"total_sale_cost" db:"-"`

	// Read-side denormalization for list/detail projections.
	PropertyName string `json:"property_name,omitempty" db:"property_name"`
}

// ComputeDerived fills the cost roll-ups. Absent optional charges count
// as zero here, unlike the area sum on Property.
func (p *Purchase) ComputeDerived() {
	p.PropertyCost = p.BaseCost.Add(orZero(p.OtherCharges))
	p.TotalCost = p.PropertyCost.Add(orZero(p.IFMS)).Add(orZero(p.LeaseRent)).Add(orZero(p.AMC))
	p.TotalSaleCost = p.TotalCost.Add(orZero(p.GST))
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

type CreatePurchaseRequest struct {
	PropertyID int64 `json:"property_id" validate:"required,gt=0"`

	BaseCost     decimal.Decimal     `json:"base_cost" validate:"decimal_gt_zero"`
	OtherCharges decimal.NullDecimal `json:"other_charges"`
	IFMS         decimal.NullDecimal `json:"ifms"`
	LeaseRent    decimal.NullDecimal `json:"lease_rent"`
	AMC          decimal.NullDecimal `json:"amc"`
	GST          decimal.NullDecimal `json:"gst"`

	PurchaseDate     time.Time  `json:"purchase_date" validate:"required"`
	RegistrationDate *time.Time `json:"registration_date"`
	PossessionDate   *time.Time `json:"possession_date"`

	Seller  *string `json:"seller"`
	Remarks *string `json:"remarks"`
}

type UpdatePurchaseRequest struct {
	BaseCost     *decimal.Decimal     `json:"base_cost"`
	OtherCharges *decimal.NullDecimal `json:"other_charges"`
	IFMS         *decimal.NullDecimal `json:"ifms"`
	LeaseRent    *decimal.NullDecimal `json:"lease_rent"`
	AMC          *decimal.NullDecimal `json:"amc"`
	GST          *decimal.NullDecimal `json:"gst"`

	PurchaseDate     *time.Time `json:"purchase_date"`
	RegistrationDate *time.Time `json:"registration_date"`
	PossessionDate   *time.Time `json:"possession_date"`

	Seller  *string `json:"seller"`
	Remarks *string `json:"remarks"`
}

// PurchaseFilter narrows purchase listings.
type PurchaseFilter struct {
	PropertyID *int64
	Limit      int
	Offset     int
}
