package domain

import (
	"encoding/json"
	"time"
)

// DocumentEntity is the closed set of entities a document can attach to.
type DocumentEntity string

const (
	DocumentEntityProperty DocumentEntity = "property"
	DocumentEntityPurchase DocumentEntity = "purchase"
)

func (e DocumentEntity) Valid() bool {
	return e == DocumentEntityProperty || e == DocumentEntityPurchase
}

// Document stores a reference to an externally uploaded file. Upload and
// storage of the file itself are outside this service.
type Document struct {
	ID         int64          `json:"id" db:"id"`
	EntityType DocumentEntity `json:"entity_type" db:"entity_type"`
	EntityID   int64          `json:"entity_id" db:"entity_id"`
	FilePath   string         `json:"file_path" db:"file_path"`

	Metadata json.RawMessage `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CreateDocumentRequest struct {
	EntityType DocumentEntity  `json:"entity_type" validate:"required"`
	EntityID   int64           `json:"entity_id" validate:"required,gt=0"`
	FilePath   string          `json:"file_path" validate:"required"`
	Metadata   json.RawMessage `json:"metadata"`
}
