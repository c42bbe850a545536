package repository

import (
	"testing"
	"time"

	"github.com/odsmeteo/meteo-toulouse/internal/meteo"
)

func station(id string) meteo.Station {
	return meteo.Station{ID: id, Name: "Station " + id, DatasetID: "ds-" + id}
}

func recordAt(stationID string, ts time.Time) meteo.Record {
	return meteo.Record{StationID: stationID, Timestamp: ts}
}

func TestUpsertStation(t *testing.T) {
	repo := New()

	repo.UpsertStation(station("st-01"))

	st, ok := repo.Station("st-01")
	if !ok {
		t.Fatal("expected st-01 to be present")
	}
	if st.Name != "Station st-01" {
		t.Errorf("unexpected name %q", st.Name)
	}

	if _, ok := repo.Station("nope"); ok {
		t.Error("expected unknown id to be absent")
	}
}

func TestUpsertStationIdempotent(t *testing.T) {
	repo := New()

	repo.UpsertStation(station("st-01"))
	repo.AddRecord("st-01", recordAt("st-01", time.Now()))

	// Re-upserting refreshes metadata but must not reset the records.
	updated := station("st-01")
	updated.Name = "Renamed"
	repo.UpsertStation(updated)

	if st, _ := repo.Station("st-01"); st.Name != "Renamed" {
		t.Errorf("expected refreshed name, got %q", st.Name)
	}
	if n := repo.RecordCount("st-01"); n != 1 {
		t.Errorf("expected 1 record to survive re-upsert, got %d", n)
	}
}

func TestStationsAllPresentOnce(t *testing.T) {
	repo := New()
	ids := []string{"a", "b", "c", "d"}
	for _, id := range ids {
		repo.UpsertStation(station(id))
	}

	got := repo.Stations()
	if len(got) != len(ids) {
		t.Fatalf("expected %d stations, got %d", len(ids), len(got))
	}
	seen := make(map[string]int)
	for _, st := range got {
		seen[st.ID]++
	}
	for _, id := range ids {
		if seen[id] != 1 {
			t.Errorf("station %s listed %d times", id, seen[id])
		}
	}
}

func TestAddRecordAutoVivifies(t *testing.T) {
	repo := New()

	// No UpsertStation call: the observation sequence appears on demand.
	repo.AddRecord("ghost", recordAt("ghost", time.Now()))

	if n := repo.RecordCount("ghost"); n != 1 {
		t.Errorf("expected 1 record for never-upserted station, got %d", n)
	}
	if _, ok := repo.Station("ghost"); ok {
		t.Error("auto-vivification must not create a station entry")
	}
}

func TestLatestRecordsOrdering(t *testing.T) {
	repo := New()
	repo.UpsertStation(station("st-01"))

	// Inserted out of order on purpose.
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	repo.AddRecord("st-01", recordAt("st-01", d1))
	repo.AddRecord("st-01", recordAt("st-01", d3))
	repo.AddRecord("st-01", recordAt("st-01", d2))

	got := repo.LatestRecords("st-01", 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	want := []time.Time{d3, d2, d1}
	for i := range want {
		if !got[i].Timestamp.Equal(want[i]) {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i].Timestamp)
		}
	}
}

func TestLatestRecordsLimit(t *testing.T) {
	repo := New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		repo.AddRecord("st-01", recordAt("st-01", base.AddDate(0, 0, i)))
	}

	if got := repo.LatestRecords("st-01", 3); len(got) != 3 {
		t.Errorf("expected 3 records, got %d", len(got))
	}
	if got := repo.LatestRecords("st-01", 50); len(got) != 10 {
		t.Errorf("expected all 10 records when n exceeds total, got %d", len(got))
	}
	if got := repo.LatestRecords("unknown", 5); got != nil {
		t.Errorf("expected nil for unknown station, got %v", got)
	}
}

func TestLatestRecordsMissingTimestampsSortLast(t *testing.T) {
	repo := New()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	repo.AddRecord("st-01", meteo.Record{StationID: "st-01"}) // no timestamp
	repo.AddRecord("st-01", recordAt("st-01", ts))
	repo.AddRecord("st-01", meteo.Record{StationID: "st-01"}) // no timestamp

	got := repo.LatestRecords("st-01", 3)
	if !got[0].Timestamp.Equal(ts) {
		t.Errorf("expected the timestamped record first, got %v", got[0].Timestamp)
	}
	if got[1].HasTimestamp() || got[2].HasTimestamp() {
		t.Error("expected untimestamped records at the back")
	}
}

func TestLatestRecordsStableTies(t *testing.T) {
	repo := New()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	one, two := 1.0, 2.0
	repo.AddRecord("st-01", meteo.Record{StationID: "st-01", Timestamp: ts, Temperature: &one})
	repo.AddRecord("st-01", meteo.Record{StationID: "st-01", Timestamp: ts, Temperature: &two})

	got := repo.LatestRecords("st-01", 2)
	if *got[0].Temperature != 1 || *got[1].Temperature != 2 {
		t.Error("equal timestamps must keep their insertion order")
	}
}
