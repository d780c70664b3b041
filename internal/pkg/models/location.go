package models

import (
	"encoding/json"
	"time"
)

// Reading source values for LocationReading.Source
const (
	SourceGPS   = "gps"
	SourceIPLog = "iplog"
)

// LocationReading is one accepted location observation. A reading is
// immutable once appended to the history log; ReceivedAt is authoritative
// for ordering.
type LocationReading struct {
	ID         string            `json:"id"`
	Latitude   *float64          `json:"latitude"`
	Longitude  *float64          `json:"longitude"`
	Accuracy   *float64          `json:"accuracy,omitempty"`
	ObservedAt string            `json:"observed_at,omitempty"`
	DeviceInfo string            `json:"device_info,omitempty"`
	Name       string            `json:"name,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	SourceIP   string            `json:"source_ip,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	Source     string            `json:"source"`
	Geohash    string            `json:"geohash,omitempty"`
	GeoMeta    map[string]string `json:"geo_meta,omitempty"`
	ReceivedAt time.Time         `json:"received_at"`
}

// HasPosition reports whether the reading carries coordinates. Visit
// readings without a resolved IP position do not.
func (r *LocationReading) HasPosition() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// CaptureRequest is the wire payload posted by the capture page. Lat and Lon
// are kept raw so validation can tell a missing field from a non-numeric one.
type CaptureRequest struct {
	Lat        json.RawMessage `json:"lat"`
	Lon        json.RawMessage `json:"lon"`
	Accuracy   *float64        `json:"accuracy"`
	TS         json.RawMessage `json:"ts"`
	DeviceInfo string          `json:"deviceInfo"`
	Phone      string          `json:"phone"`
	Name       string          `json:"name"`
}

// VisitRequest is the wire payload posted when the capture page loads,
// before any geolocation consent has been given.
type VisitRequest struct {
	TS    json.RawMessage `json:"ts"`
	Phone string          `json:"phone"`
	Name  string          `json:"name"`
}

// RequestMeta carries connection-level facts captured server-side. SourceIP
// is recorded for audit, not trusted as ground truth.
type RequestMeta struct {
	SourceIP  string
	UserAgent string
}

// GeoLookup is the result of a coarse IP geolocation lookup
type GeoLookup struct {
	Latitude  *float64
	Longitude *float64
	Meta      map[string]string
}
