package handler

import (
	"net/http"

	"github.com/propstack/acquisition-engine/internal/service"
	"github.com/propstack/acquisition-engine/pkg/response"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

func (h *ReportHandler) AcquisitionCostDetail(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathID(r, "purchaseId")
	if !ok {
		response.BadRequest(w, "Invalid purchase id", nil)
		return
	}
	entries, err := h.service.AcquisitionCostDetail(r.Context(), purchaseID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, entries)
}

func (h *ReportHandler) AcquisitionCostSummary(w http.ResponseWriter, r *http.Request) {
	purchaseID, ok := pathID(r, "purchaseId")
	if !ok {
		response.BadRequest(w, "Invalid purchase id", nil)
		return
	}
	summary, err := h.service.AcquisitionCostSummary(r.Context(), purchaseID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, summary)
}

func (h *ReportHandler) LoanRepaymentDetail(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(r, "loanId")
	if !ok {
		response.BadRequest(w, "Invalid loan id", nil)
		return
	}
	rows, err := h.service.LoanRepaymentDetail(r.Context(), loanID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, rows)
}

func (h *ReportHandler) LoanRepaymentSummary(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(r, "loanId")
	if !ok {
		response.BadRequest(w, "Invalid loan id", nil)
		return
	}
	summary, err := h.service.LoanRepaymentSummary(r.Context(), loanID)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, summary)
}
