package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fleet-assistant-backend/internal/aggregate"
	"fleet-assistant-backend/internal/model"
)

type ledgerTotal struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type yearSummary struct {
	Year    string      `json:"year"`
	Income  ledgerTotal `json:"income"`
	Expense ledgerTotal `json:"expense"`
}

type summaryResponse struct {
	Years      []string        `json:"years"`
	Income     ledgerTotal     `json:"income"`
	Expense    ledgerTotal     `json:"expense"`
	Difference decimal.Decimal `json:"difference"`
	PerYear    []yearSummary   `json:"per_year"`
}

func totalOf(list []model.Transaction, year string) ledgerTotal {
	if year != "" {
		list = aggregate.FilterByYears(list, []string{year})
	}
	return ledgerTotal{Total: aggregate.SumTotal(list, ""), Count: len(list)}
}

// TransactionSummary handles GET /api/transactions/summary.
func (h *Handler) TransactionSummary(c *gin.Context) {
	years, err := queryYears(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ledger, err := h.snapshots.LedgerSnapshot(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load ledger snapshot")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transaction data unavailable"})
		return
	}

	income := aggregate.FilterByYears(ledger.Income, years)
	expense := aggregate.FilterByYears(ledger.Expense, years)

	resp := summaryResponse{
		Years:   nonNil(years),
		Income:  totalOf(income, ""),
		Expense: totalOf(expense, ""),
		PerYear: []yearSummary{},
	}
	resp.Difference = resp.Income.Total.Sub(resp.Expense.Total)
	for _, y := range years {
		resp.PerYear = append(resp.PerYear, yearSummary{
			Year:    y,
			Income:  totalOf(income, y),
			Expense: totalOf(expense, y),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Transaction handles GET /api/transactions/:number.
func (h *Handler) Transaction(c *gin.Context) {
	number := strings.TrimSpace(c.Param("number"))

	ledger, err := h.snapshots.LedgerSnapshot(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to load ledger snapshot")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transaction data unavailable"})
		return
	}

	t, ok := aggregate.FindByNumber(ledger.Select(true, true), number)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}
