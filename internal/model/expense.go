package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense has no line items and no vehicle linkage.
type Expense struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	Number      string          `gorm:"size:64;index" json:"number"`
	Date        string          `gorm:"size:32" json:"date"`
	Total       decimal.Decimal `gorm:"type:numeric(20,2)" json:"total"`
	Status      string          `gorm:"size:64" json:"status"`
	RecordedBy  string          `gorm:"size:128" json:"recorded_by"`
	Description string          `gorm:"size:256" json:"description"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

func (e *Expense) UnmarshalJSON(data []byte) error {
	r, err := decodeRaw(data)
	if err != nil {
		return err
	}
	*e = Expense{
		ID:          r.str("id", "expense_id"),
		Number:      r.str("no_expense", "nomor_expense", "nomor", "no", "number"),
		Date:        r.str("tanggal", "tanggal_expense", "date", "created_at"),
		Total:       r.amount("total_bayar", "jumlah", "amount", "total"),
		Status:      r.str("status"),
		RecordedBy:  r.str("dicatat_oleh", "diterima_oleh", "recorded_by", "created_by"),
		Description: r.str("keterangan", "deskripsi", "description"),
	}
	return nil
}
