package handler

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/propstack/acquisition-engine/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportAcquisitionCostDetail streams the acquisition ledger of one
// purchase as an XLSX workbook.
func (h *ReportHandler) ExportAcquisitionCostDetail(w http.ResponseWriter, r *http.Request) {
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

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Acquisition Cost"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Principal", "Interest", "Others", "Payment", "Source", "Mode", "Reference", "Type"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}

	for row, e := range entries {
		values := []interface{}{
			e.PaymentDate.Format("2006-01-02"),
			cellDecimal(e.Principal),
			cellDecimal(e.Interest),
			cellDecimal(e.Others),
			cellDecimal(e.Payment),
			e.Source,
			e.Mode,
			strOrEmpty(e.Reference),
			e.EntryType,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	writeWorkbook(w, f, fmt.Sprintf("acquisition_cost_purchase_%d.xlsx", purchaseID))
}

// ExportLoanRepaymentDetail streams the repayment ledger of one loan,
// including the running totals, as an XLSX workbook.
func (h *ReportHandler) ExportLoanRepaymentDetail(w http.ResponseWriter, r *http.Request) {
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

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Loan Repayments"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Principal", "Interest", "Other Fees", "Penalties", "Total Payment", "Source", "Mode", "Principal Paid", "Total Paid", "Principal Balance"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}

	for row, d := range rows {
		values := []interface{}{
			d.PaymentDate.Format("2006-01-02"),
			cellDecimal(d.PrincipalAmount),
			cellDecimal(d.InterestAmount),
			cellDecimal(d.OtherFees),
			cellDecimal(d.Penalties),
			cellDecimal(d.TotalPayment),
			d.SourceName,
			d.Mode,
			cellDecimal(d.TotalPrincipalPaid),
			cellDecimal(d.TotalPaid),
			cellDecimal(d.PrincipalBalance),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	writeWorkbook(w, f, fmt.Sprintf("loan_repayments_%d.xlsx", loanID))
}

func writeWorkbook(w http.ResponseWriter, f *excelize.File, filename string) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := f.WriteTo(w); err != nil {
		// Headers are already out; nothing sensible left to send.
		return
	}
}

// cellDecimal converts for spreadsheet cells. Exactness matters in the
// API responses, not in the exported workbook.
func cellDecimal(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
