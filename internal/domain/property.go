package domain

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Property represents a real-estate property record.
type Property struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Address      *string `json:"address,omitempty" db:"address"`
	PropertyType *string `json:"property_type,omitempty" db:"property_type"`

	CarpetArea    decimal.NullDecimal `json:"carpet_area" db:"carpet_area"`
	ExclusiveArea decimal.NullDecimal `json:"exclusive_area" db:"exclusive_area"`
	CommonArea    decimal.NullDecimal `json:"common_area" db:"common_area"`
	FloorNumber   *int                `json:"floor_number,omitempty" db:"floor_number"`

	ParkingDetails *string        `json:"parking_details,omitempty" db:"parking_details"`
	Amenities      pq.StringArray `json:"amenities" db:"amenities"`

	InitialRate decimal.Decimal `json:"initial_rate" db:"initial_rate"`
	CurrentRate decimal.Decimal `json:"current_rate" db:"current_rate"`

	Developer *string `json:"developer,omitempty" db:"developer"`
	ReraID    *string `json:"rera_id,omitempty" db:"rera_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Derived, never stored.
	SuperArea    decimal.NullDecimal `json:"super_area" db:"-"`
	CurrentPrice decimal.NullDecimal `json:"current_price" db:"-"`
}

// ComputeDerived fills super_area and current_price from the area components.
// Both stay absent unless all three area components are present: a missing
// component propagates as absence, not as zero.
func (p *Property) ComputeDerived() {
	p.SuperArea = SumAreas(p.CarpetArea, p.ExclusiveArea, p.CommonArea)
	if p.SuperArea.Valid {
		p.CurrentPrice = decimal.NewNullDecimal(p.CurrentRate.Mul(p.SuperArea.Decimal))
	} else {
		p.CurrentPrice = decimal.NullDecimal{}
	}
}

// SumAreas returns carpet + exclusive + common only when all three are
// present; otherwise the result is absent.
func SumAreas(carpet, exclusive, common decimal.NullDecimal) decimal.NullDecimal {
	if !carpet.Valid || !exclusive.Valid || !common.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(carpet.Decimal.Add(exclusive.Decimal).Add(common.Decimal))
}

// DTOs for requests

type CreatePropertyRequest struct {
	Name         string  `json:"name" validate:"required"`
	Address      *string `json:"address"`
	PropertyType *string `json:"property_type"`

	CarpetArea    decimal.NullDecimal `json:"carpet_area"`
	ExclusiveArea decimal.NullDecimal `json:"exclusive_area"`
	CommonArea    decimal.NullDecimal `json:"common_area"`
	FloorNumber   *int                `json:"floor_number"`

	ParkingDetails *string  `json:"parking_details"`
	Amenities      []string `json:"amenities"`

	InitialRate decimal.Decimal `json:"initial_rate" validate:"decimal_gt_zero"`
	CurrentRate decimal.Decimal `json:"current_rate" validate:"decimal_gt_zero"`

	Developer *string `json:"developer"`
	ReraID    *string `json:"rera_id"`
}

// UpdatePropertyRequest is a partial patch: nil fields are left untouched.
type UpdatePropertyRequest struct {
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	PropertyType *string `json:"property_type"`

	CarpetArea    *decimal.NullDecimal `json:"carpet_area"`
	ExclusiveArea *decimal.NullDecimal `json:"exclusive_area"`
	CommonArea    *decimal.NullDecimal `json:"common_area"`
	FloorNumber   *int                 `json:"floor_number"`

	ParkingDetails *string  `json:"parking_details"`
	Amenities      []string `json:"amenities"`

	InitialRate *decimal.Decimal `json:"initial_rate"`
	CurrentRate *decimal.Decimal `json:"current_rate"`

	Developer *string `json:"developer"`
	ReraID    *string `json:"rera_id"`
}
