package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(svc *service.LoanService) *LoanHandler {
	return &LoanHandler{service: svc, validator: newValidate()}
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid "+userIDHeader+" header")
		return
	}
	var req domain.CreateLoanRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	l, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, l)
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "loanId")
	if !ok {
		response.BadRequest(w, "Invalid loan id", nil)
		return
	}
	l, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, l)
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.LoanFilter{
		PurchaseID: queryInt64(r, "purchase_id"),
		IsActive:   queryBool(r, "is_active"),
		FromAmount: queryDecimal(r, "from_amount"),
		ToAmount:   queryDecimal(r, "to_amount"),
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "loanId")
	if !ok {
		response.BadRequest(w, "Invalid loan id", nil)
		return
	}
	var req domain.UpdateLoanRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	l, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, l)
}

func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "loanId")
	if !ok {
		response.BadRequest(w, "Invalid loan id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
