package model

import "time"

// Vehicle is a fleet unit as returned by the backend.
type Vehicle struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:128" json:"name"`
	Plate     string    `gorm:"size:32;index" json:"plate"`
	Capacity  string    `gorm:"size:32" json:"capacity"`
	Status    string    `gorm:"size:32" json:"status"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UnmarshalJSON accepts the backend's Indonesian field names as well as the
// names this service writes.
func (v *Vehicle) UnmarshalJSON(data []byte) error {
	r, err := decodeRaw(data)
	if err != nil {
		return err
	}
	*v = Vehicle{
		ID:       r.str("id", "id_armada"),
		Name:     r.str("nama_armada", "nama_kendaraan", "nama", "name"),
		Plate:    r.str("plat_nomor", "plat", "no_polisi", "nopol", "plate"),
		Capacity: r.str("kapasitas", "tonase", "capacity"),
		Status:   r.str("status"),
	}
	return nil
}
