package meteo

// ForecastTemperature computes a naive temperature forecast as the
// arithmetic mean of the temperatures present in records (expected to be
// the most recent observations, newest first). The second return is false
// when no record carries a temperature.
func ForecastTemperature(records []Record) (float64, bool) {
	var sum float64
	var n int
	for _, r := range records {
		if r.Temperature != nil {
			sum += *r.Temperature
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
