package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: svc, validator: newValidate()}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid "+userIDHeader+" header")
		return
	}
	var req domain.CreatePaymentRequest
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

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "paymentId")
	if !ok {
		response.BadRequest(w, "Invalid payment id", nil)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, p)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.PaymentFilter{
		InvoiceID:   queryInt64(r, "invoice_id"),
		SourceID:    queryInt64(r, "source_id"),
		PaymentMode: queryString(r, "payment_mode"),
		FromDate:    queryDate(r, "from_date"),
		ToDate:      queryDate(r, "to_date"),
		FromAmount:  queryDecimal(r, "from_amount"),
		ToAmount:    queryDecimal(r, "to_amount"),
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *PaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "paymentId")
	if !ok {
		response.BadRequest(w, "Invalid payment id", nil)
		return
	}
	var req domain.UpdatePaymentRequest
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

func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "paymentId")
	if !ok {
		response.BadRequest(w, "Invalid payment id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
