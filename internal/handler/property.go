package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type PropertyHandler struct {
	service   *service.PropertyService
	validator *validator.Validate
}

func NewPropertyHandler(svc *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: svc, validator: newValidate()}
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePropertyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	p, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, p)
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "propertyId")
	if !ok {
		response.BadRequest(w, "Invalid property id", nil)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, p)
}

func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)
	items, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "propertyId")
	if !ok {
		response.BadRequest(w, "Invalid property id", nil)
		return
	}
	var req domain.UpdatePropertyRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	p, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, p)
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "propertyId")
	if !ok {
		response.BadRequest(w, "Invalid property id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
