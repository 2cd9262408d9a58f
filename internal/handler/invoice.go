package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type InvoiceHandler struct {
	service   *service.InvoiceService
	validator *validator.Validate
}

func NewInvoiceHandler(svc *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: svc, validator: newValidate()}
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvoiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	inv, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, inv)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "invoiceId")
	if !ok {
		response.BadRequest(w, "Invalid invoice id", nil)
		return
	}
	inv, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, inv)
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.InvoiceFilter{
		PurchaseID: queryInt64(r, "purchase_id"),
		Status:     queryString(r, "status"),
		Milestone:  queryString(r, "milestone"),
		FromDate:   queryDate(r, "from_date"),
		ToDate:     queryDate(r, "to_date"),
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "invoiceId")
	if !ok {
		response.BadRequest(w, "Invalid invoice id", nil)
		return
	}
	var req domain.UpdateInvoiceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	inv, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, inv)
}

func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "invoiceId")
	if !ok {
		response.BadRequest(w, "Invalid invoice id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
