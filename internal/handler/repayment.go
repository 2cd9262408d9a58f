package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/propstack/acquisition-engine/internal/domain"
	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type RepaymentHandler struct {
	service   *service.RepaymentService
	validator *validator.Validate
}

func NewRepaymentHandler(svc *service.RepaymentService) *RepaymentHandler {
	return &RepaymentHandler{service: svc, validator: newValidate()}
}

func (h *RepaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRepaymentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	rp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Created(w, rp)
}

func (h *RepaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "repaymentId")
	if !ok {
		response.BadRequest(w, "Invalid repayment id", nil)
		return
	}
	rp, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, rp)
}

func (h *RepaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.RepaymentFilter{
		LoanID:   queryInt64(r, "loan_id"),
		SourceID: queryInt64(r, "source_id"),
		FromDate: queryDate(r, "from_date"),
		ToDate:   queryDate(r, "to_date"),
	}
	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, items)
}

func (h *RepaymentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "repaymentId")
	if !ok {
		response.BadRequest(w, "Invalid repayment id", nil)
		return
	}
	var req domain.UpdateRepaymentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	rp, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, rp)
}

func (h *RepaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "repaymentId")
	if !ok {
		response.BadRequest(w, "Invalid repayment id", nil)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		response.AppError(w, err)
		return
	}
	response.NoContent(w)
}
