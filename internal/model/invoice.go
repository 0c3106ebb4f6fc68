package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an income record. An invoice without line items stands for a
// single implicit line item.
type Invoice struct {
	ID         string          `gorm:"primaryKey;size:64" json:"id"`
	Number     string          `gorm:"size:64;index" json:"number"`
	Customer   string          `gorm:"size:256" json:"customer"`
	Date       string          `gorm:"size:32" json:"date"`
	StartDate  string          `gorm:"size:32" json:"start_date"`
	EndDate    string          `gorm:"size:32" json:"end_date"`
	Total      decimal.Decimal `gorm:"type:numeric(20,2)" json:"total"`
	Status     string          `gorm:"size:64" json:"status"`
	RecordedBy string          `gorm:"size:128" json:"recorded_by"`
	VehicleID  string          `gorm:"size:64;index" json:"vehicle_id"`
	Vehicle    *Vehicle        `gorm:"foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`
	Items      []LineItem      `gorm:"foreignKey:InvoiceID;references:ID" json:"items,omitempty"`
	CreatedAt  time.Time       `json:"-"`
	UpdatedAt  time.Time       `json:"-"`
}

// LineItem is one load/route assignment inside an invoice.
type LineItem struct {
	ID          uint     `gorm:"primaryKey" json:"-"`
	InvoiceID   string   `gorm:"size:64;index" json:"-"`
	Position    int      `json:"-"`
	VehicleID   string   `gorm:"size:64;index" json:"vehicle_id"`
	Vehicle     *Vehicle `gorm:"foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`
	StartDate   string   `gorm:"size:32" json:"start_date"`
	EndDate     string   `gorm:"size:32" json:"end_date"`
	Description string   `gorm:"size:256" json:"description"`
}

func (inv *Invoice) UnmarshalJSON(data []byte) error {
	r, err := decodeRaw(data)
	if err != nil {
		return err
	}
	veh, bareID := r.vehicle(vehicleObjAliases...)
	*inv = Invoice{
		ID:         r.str("id", "invoice_id"),
		Number:     r.str("no_invoice", "nomor_invoice", "nomor", "no", "invoice_no", "number"),
		Customer:   r.str("nama_pelanggan", "pelanggan", "customer_name", "customer", "nama"),
		Date:       r.str("tanggal", "tanggal_invoice", "date", "created_at"),
		StartDate:  r.str(startDateAliases...),
		EndDate:    r.str(endDateAliases...),
		Total:      r.amount("total_bayar", "total_dibayar", "total_paid", "grand_total", "total"),
		Status:     r.str("status", "status_pembayaran"),
		RecordedBy: r.str("diterima_oleh", "dicatat_oleh", "recorded_by", "created_by"),
		VehicleID:  r.str(vehicleIDAliases...),
		Vehicle:    veh,
	}
	if inv.VehicleID == "" {
		inv.VehicleID = bareID
	}
	for i, raw := range r.array("items", "line_items", "rincian", "detail", "muatan") {
		var item LineItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		item.Position = i
		inv.Items = append(inv.Items, item)
	}
	return nil
}

func (li *LineItem) UnmarshalJSON(data []byte) error {
	r, err := decodeRaw(data)
	if err != nil {
		return err
	}
	veh, bareID := r.vehicle(vehicleObjAliases...)
	*li = LineItem{
		VehicleID:   r.str(vehicleIDAliases...),
		Vehicle:     veh,
		StartDate:   r.str(startDateAliases...),
		EndDate:     r.str(endDateAliases...),
		Description: r.str("keterangan", "rute", "route", "description"),
	}
	if li.VehicleID == "" {
		li.VehicleID = bareID
	}
	return nil
}
