package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type PurchaseHandler struct {
	service   *service.PurchaseService
	validator *validator.Validate
}

func NewPurchaseHandler(svc *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{service: svc, validator: newValidate()}
}

func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid "+userIDHeader+" header")
		return
	}
	var req domain.CreatePurchaseRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	p, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, p)
}

func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "purchaseId")
	if !ok {
		response.BadRequest(w, "Invalid purchase id", nil)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, p)
}

func (h *PurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.PurchaseFilter{
		PropertyID: queryInt64(r, "property_id"),
		Limit:      queryInt(r, "limit", 100),
		Offset:     queryInt(r, "offset", 0),
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *PurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "purchaseId")
	if !ok {
		response.BadRequest(w, "Invalid purchase id", nil)
		return
	}
	var req domain.UpdatePurchaseRequest
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

func (h *PurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "purchaseId")
	if !ok {
		response.BadRequest(w, "Invalid purchase id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
