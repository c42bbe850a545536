package meteo

import (
	"time"
)

// Station represents one weather station discovered in the open-data
// catalog. The ID is stable and used as the repository key; Name and Meta
// may be refreshed on re-upsert.
type Station struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	DatasetID string         `json:"datasetId"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Record is a single cleaned observation. The station reference is a plain
// foreign key: the repository never checks that the station exists.
// A zero Timestamp means the raw row carried no parseable timestamp.
// Measurements are optional; nil means the field was absent or unusable.
type Record struct {
	StationID string    `json:"stationId"`
	Timestamp time.Time `json:"timestamp,omitzero"`

	Temperature *float64 `json:"temperatureC,omitempty"`
	Humidity    *float64 `json:"humidityPct,omitempty"`
	Pressure    *float64 `json:"pressureHpa,omitempty"`
	WindSpeed   *float64 `json:"windSpeedMs,omitempty"`
	WindDir     *float64 `json:"windDirDeg,omitempty"`
	Rain        *float64 `json:"rainMm,omitempty"`

	// Raw keeps the original row for diagnostics.
	Raw map[string]any `json:"-"`
}

// HasTimestamp reports whether the observation carries a usable timestamp.
func (r Record) HasTimestamp() bool {
	return !r.Timestamp.IsZero()
}
