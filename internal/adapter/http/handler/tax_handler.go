package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// TaxHandler exposes the withholding calculator.
type TaxHandler struct{}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler() *TaxHandler {
	return &TaxHandler{}
}

// Withholding computes monthly income tax for ?ptkp=&gross=. An optional
// month=12 settles the year instead of applying the monthly rate.
func (h *TaxHandler) Withholding(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParsePTKPStatus(r.URL.Query().Get("ptkp"))
	if err != nil {
		writeDomainError(w, "invalid PTKP status", err)
		return
	}

	gross, err := decimal.NewFromString(r.URL.Query().Get("gross"))
	if err != nil {
		writeDomainError(w, "invalid gross", fmt.Errorf("%w: gross must be a number", domain.ErrValidation))
		return
	}
	if err := domain.ValidateMoney(gross); err != nil {
		writeDomainError(w, "invalid gross", err)
		return
	}

	month := 1
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			writeDomainError(w, "invalid month", fmt.Errorf("%w: month must be 1-12", domain.ErrValidation))
			return
		}
	}

	writeJSON(w, http.StatusOK, domain.ComputeWithholdingForMonth(status, gross, month))
}
