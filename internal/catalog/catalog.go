// Package catalog resolves the configured station datasets against the
// open-data portal and registers them in the repository.
package catalog

import (
	"context"
	"fmt"
	"log"

	"github.com/odsmeteo/meteo-toulouse/internal/meteo"
	"github.com/odsmeteo/meteo-toulouse/internal/ods"
)

// Fetcher is the slice of the ODS client the catalog needs.
type Fetcher interface {
	DatasetInfo(ctx context.Context, datasetID string) (ods.Dataset, error)
}

// StationStore is the slice of the repository the catalog writes to.
type StationStore interface {
	UpsertStation(st meteo.Station)
}

// Service turns dataset ids into Stations. Which datasets are weather
// stations is explicit configuration, not discovery: the ids come straight
// from the environment.
type Service struct {
	client Fetcher
	repo   StationStore
}

// New returns a catalog service.
func New(client Fetcher, repo StationStore) *Service {
	return &Service{client: client, repo: repo}
}

// Load fetches the catalog entry of every configured dataset and upserts a
// station for each. A dataset that cannot be resolved is skipped with a log
// line; Load only fails when no station could be registered at all.
func (s *Service) Load(ctx context.Context, datasetIDs []string) ([]meteo.Station, error) {
	var stations []meteo.Station
	for _, id := range datasetIDs {
		ds, err := s.client.DatasetInfo(ctx, id)
		if err != nil {
			log.Printf("catalog: skipping dataset %s: %v", id, err)
			continue
		}

		var meta map[string]any
		if def, ok := ds.Metas["default"]; ok {
			meta = def
		}

		st := meteo.Station{
			ID:        ds.DatasetID,
			Name:      ds.Title(),
			DatasetID: ds.DatasetID,
			Meta:      meta,
		}
		s.repo.UpsertStation(st)
		stations = append(stations, st)
	}

	if len(stations) == 0 && len(datasetIDs) > 0 {
		return nil, fmt.Errorf("none of the %d configured datasets could be loaded", len(datasetIDs))
	}
	return stations, nil
}
