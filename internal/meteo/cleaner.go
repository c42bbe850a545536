package meteo

import (
	"strconv"
	"strings"

	"github.com/odsmeteo/meteo-toulouse/internal/common"
)

// Field name candidates per measurement, across the naming conventions the
// Toulouse Métropole datasets use (French and English, long and short).
var (
	tempKeys    = []string{"temperature", "temp", "temp_c", "tair", "temperature_c", "t", "tc"}
	humKeys     = []string{"humidity", "humidite", "hum", "rh", "hr", "humidite_rel", "hum_rel"}
	pressKeys   = []string{"pressure", "pression", "press_hpa", "pression_hpa", "p", "pa", "p_hpa"}
	windSpdKeys = []string{"wind_speed", "wind", "vitesse_vent", "ff", "ff10", "vent_ms", "vent_vitesse"}
	windDirKeys = []string{"wind_dir", "wind_direction", "dd", "dir_vent", "direction_vent"}
	rainKeys    = []string{"rain", "pluie", "precipitation", "precipitations", "rr", "rr1", "rr24"}
	tsKeys      = []string{"date_observation", "date_mesure", "date_heure", "date", "datetime", "timestamp", "heure", "time"}
)

// Cleaner turns raw open-data rows into typed Records. Matching is
// best-effort: candidate names are compared against normalized field names,
// exact match first, then substring.
type Cleaner struct{}

// NewCleaner returns a Cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean builds a Record for stationID from a raw row. Fields that cannot be
// matched or coerced stay nil; an unparseable timestamp stays zero. The raw
// row is preserved on the record for diagnostics.
func (c *Cleaner) Clean(raw map[string]any, stationID string) Record {
	return Record{
		StationID:   stationID,
		Timestamp:   common.ParseTimeAny(firstMatch(raw, tsKeys)),
		Temperature: toFloat(firstMatch(raw, tempKeys)),
		Humidity:    toFloat(firstMatch(raw, humKeys)),
		Pressure:    toFloat(firstMatch(raw, pressKeys)),
		WindSpeed:   toFloat(firstMatch(raw, windSpdKeys)),
		WindDir:     toFloat(firstMatch(raw, windDirKeys)),
		Rain:        toFloat(firstMatch(raw, rainKeys)),
		Raw:         raw,
	}
}

// firstMatch returns the value of the first raw field whose normalized name
// matches one of the candidates, trying exact matches before substring
// matches so "temp" does not shadow an exact "temperature" column.
func firstMatch(raw map[string]any, candidates []string) any {
	normToOrig := make(map[string]string, len(raw))
	for k := range raw {
		normToOrig[common.Norm(k)] = k
	}

	for _, cand := range candidates {
		if orig, ok := normToOrig[common.Norm(cand)]; ok {
			return raw[orig]
		}
	}
	for _, cand := range candidates {
		cn := common.Norm(cand)
		for kn, orig := range normToOrig {
			if strings.Contains(kn, cn) {
				return raw[orig]
			}
		}
	}
	return nil
}

// toFloat coerces numbers and numeric strings (including comma decimals)
// to a float pointer, nil when the value is absent or not numeric.
func toFloat(v any) *float64 {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return &x
	case float32:
		f := float64(x)
		return &f
	case int:
		f := float64(x)
		return &f
	case int64:
		f := float64(x)
		return &f
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(x, ",", "."))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
