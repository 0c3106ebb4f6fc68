package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// rawRecord is a loosely typed JSON row. Backends disagree on field names,
// so every accessor takes an ordered list of aliases and returns the first
// usable value.
type rawRecord map[string]json.RawMessage

func decodeRaw(data []byte) (rawRecord, error) {
	var r rawRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// scalar renders a JSON string, number or bool as text. Objects and arrays yield "".
func scalar(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return "true"
		}
		return "false"
	}
	return ""
}

func (r rawRecord) str(keys ...string) string {
	for _, k := range keys {
		if v := scalar(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// amount parses the first present alias as a decimal. Anything that is not
// a number (or a numeric string) counts as zero.
func (r rawRecord) amount(keys ...string) decimal.Decimal {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok || isNull(raw) {
			continue
		}
		d, err := decimal.NewFromString(scalar(raw))
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return decimal.Zero
}

// vehicle returns an embedded vehicle object, or the bare id when the alias
// holds a scalar instead of an object.
func (r rawRecord) vehicle(keys ...string) (*Vehicle, string) {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok || isNull(raw) {
			continue
		}
		var v Vehicle
		if err := json.Unmarshal(raw, &v); err == nil {
			return &v, ""
		}
		if id := scalar(raw); id != "" {
			return nil, id
		}
	}
	return nil, ""
}

func (r rawRecord) array(keys ...string) []json.RawMessage {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok || isNull(raw) {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			return items
		}
	}
	return nil
}

// Alias lists shared by invoices and their line items.
var (
	vehicleIDAliases  = []string{"armada_id", "id_armada", "vehicle_id"}
	vehicleObjAliases = []string{"armada", "kendaraan", "vehicle"}
	startDateAliases  = []string{"tanggal_berangkat", "tgl_berangkat", "tanggal_mulai", "departure_date", "start_date"}
	endDateAliases    = []string{"tanggal_tiba", "tgl_tiba", "tanggal_selesai", "arrival_date", "end_date"}
)
