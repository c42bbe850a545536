// Package ingest pulls observations from the open-data portal into the
// repository, honoring the per-station TTL so fresh stations are not
// re-fetched.
package ingest

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/odsmeteo/meteo-toulouse/internal/common"
	"github.com/odsmeteo/meteo-toulouse/internal/container"
	"github.com/odsmeteo/meteo-toulouse/internal/meteo"
	"github.com/odsmeteo/meteo-toulouse/internal/ods"
	"github.com/odsmeteo/meteo-toulouse/internal/repository"
)

// Fetcher is the slice of the ODS client the ingester needs.
type Fetcher interface {
	DatasetInfo(ctx context.Context, datasetID string) (ods.Dataset, error)
	Records(ctx context.Context, datasetID string, q ods.RecordsQuery) ([]map[string]any, error)
}

// Service orchestrates fetch, clean and store for station observations.
type Service struct {
	client  Fetcher
	repo    *repository.CachedRepository
	cleaner *meteo.Cleaner
	maxRows int
}

// New returns an ingestion service storing at most maxRows observations per
// station and run.
func New(client Fetcher, repo *repository.CachedRepository, cleaner *meteo.Cleaner, maxRows int) *Service {
	if maxRows <= 0 {
		maxRows = 5
	}
	return &Service{
		client:  client,
		repo:    repo,
		cleaner: cleaner,
		maxRows: maxRows,
	}
}

// preferredDateFields are tried in order when picking the column to sort a
// dataset's rows by.
var preferredDateFields = []string{
	"date_observation", "date_mesure", "date", "datetime", "timestamp", "time", "heure",
}

// dateField picks the dataset's primary date column: a preferred name when
// present, otherwise the first date-typed field, otherwise empty.
func dateField(ds ods.Dataset) string {
	for _, pref := range preferredDateFields {
		for _, f := range ds.Fields {
			if common.Norm(f.Name) == common.Norm(pref) {
				return f.Name
			}
		}
	}
	for _, f := range ds.Fields {
		if f.Type == "date" || f.Type == "datetime" {
			return f.Name
		}
	}
	return ""
}

// IngestStation fetches the newest rows of a station's dataset, cleans them
// and appends them to the repository, then resets the station's TTL window.
// A station whose cache is still fresh is skipped. Returns the number of
// stored observations.
func (s *Service) IngestStation(ctx context.Context, st meteo.Station) (int, error) {
	if !s.repo.NeedsRefresh(st.ID) {
		return 0, nil
	}

	var orderBy string
	if ds, err := s.client.DatasetInfo(ctx, st.DatasetID); err == nil {
		if field := dateField(ds); field != "" {
			orderBy = field + " desc"
		}
	} else {
		// Without the field list the rows still load, just unsorted.
		log.Printf("ingest: no dataset info for %s, fetching unsorted: %v", st.DatasetID, err)
	}

	rows, err := s.client.Records(ctx, st.DatasetID, ods.RecordsQuery{
		OrderBy: orderBy,
		MaxRows: s.maxRows,
	})
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		s.repo.AddRecord(st.ID, s.cleaner.Clean(row, st.ID))
	}
	s.repo.MarkRefreshed(st.ID)
	return len(rows), nil
}

// IngestAll drains a FIFO queue of the given stations, ingesting each in
// turn. Per-station failures are logged and skipped so one broken dataset
// does not starve the rest. Returns the total number of stored
// observations.
func (s *Service) IngestAll(ctx context.Context, stations []meteo.Station) int {
	runID := uuid.NewString()
	log.Printf("ingest: run %s starting for %d stations", runID, len(stations))

	pending := container.NewQueue[meteo.Station]()
	for _, st := range stations {
		pending.Enqueue(st)
	}

	total := 0
	for {
		st, ok := pending.Dequeue()
		if !ok {
			break
		}
		if ctx.Err() != nil {
			log.Printf("ingest: run %s cancelled with %d stations pending", runID, pending.Len()+1)
			break
		}

		n, err := s.IngestStation(ctx, st)
		if err != nil {
			log.Printf("ingest: run %s: station %s failed: %v", runID, st.ID, err)
			continue
		}
		total += n
	}

	log.Printf("ingest: run %s stored %d observations", runID, total)
	return total
}
