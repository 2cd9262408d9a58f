package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type PaymentSourceHandler struct {
	service   *service.PaymentSourceService
	validator *validator.Validate
}

func NewPaymentSourceHandler(svc *service.PaymentSourceService) *PaymentSourceHandler {
	return &PaymentSourceHandler{service: svc, validator: newValidate()}
}

func (h *PaymentSourceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid "+userIDHeader+" header")
		return
	}
	var req domain.CreatePaymentSourceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	src, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, src)
}

func (h *PaymentSourceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "sourceId")
	if !ok {
		response.BadRequest(w, "Invalid payment source id", nil)
		return
	}
	src, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, src)
}

func (h *PaymentSourceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid "+userIDHeader+" header")
		return
	}
	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *PaymentSourceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "sourceId")
	if !ok {
		response.BadRequest(w, "Invalid payment source id", nil)
		return
	}
	var req domain.UpdatePaymentSourceRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	src, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, src)
}

func (h *PaymentSourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "sourceId")
	if !ok {
		response.BadRequest(w, "Invalid payment source id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
