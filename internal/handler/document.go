package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type DocumentHandler struct {
	service   *service.DocumentService
	validator *validator.Validate
}

func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc, validator: newValidate()}
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDocumentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	d, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, d)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "documentId")
	if !ok {
		response.BadRequest(w, "Invalid document id", nil)
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, d)
}

// List returns documents for one entity, e.g.
// GET /documents?entity_type=purchase&entity_id=3.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	entityType := domain.DocumentEntity(r.URL.Query().Get("entity_type"))
	entityID := queryInt64(r, "entity_id")
	if entityID == nil {
		response.BadRequest(w, "entity_id is required", nil)
		return
	}
	items, err := h.service.List(r.Context(), entityType, *entityID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "documentId")
	if !ok {
		response.BadRequest(w, "Invalid document id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
