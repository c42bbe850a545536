package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/odsmeteo/meteo-toulouse/internal/container"
	"github.com/odsmeteo/meteo-toulouse/internal/ingest"
	"github.com/odsmeteo/meteo-toulouse/internal/meteo"
)

// Scheduler periodically re-ingests station observations whose TTL has
// lapsed. Stations sit in a FIFO queue and each tick works on a batch from
// the front, rotating them to the back, so every station gets its turn even
// when a tick cannot cover them all.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *ingest.Service
	interval  time.Duration
	batchSize int

	mu       sync.Mutex
	stations *container.Queue[meteo.Station]
}

// New creates a scheduler refreshing up to batchSize stations every
// interval.
func New(stations []meteo.Station, interval time.Duration, batchSize int, service *ingest.Service) *Scheduler {
	queue := container.NewQueue[meteo.Station]()
	for _, st := range stations {
		queue.Enqueue(st)
	}
	if batchSize <= 0 {
		batchSize = queue.Len()
	}

	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		batchSize: batchSize,
		stations:  queue,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	if s.stations.IsEmpty() {
		log.Println("scheduler: no stations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		s.tick(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// tick refreshes the next batch of stations round-robin.
func (s *Scheduler) tick(ctx context.Context) {
	batch := s.nextBatch()
	if len(batch) == 0 {
		return
	}

	log.Printf("scheduler: refreshing %d stations", len(batch))
	total := s.service.IngestAll(ctx, batch)
	log.Printf("scheduler: refresh stored %d observations", total)
}

// nextBatch returns up to batchSize stations from the front of the queue,
// rotating each to the back.
func (s *Scheduler) nextBatch() []meteo.Station {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.batchSize
	if n > s.stations.Len() {
		n = s.stations.Len()
	}

	batch := make([]meteo.Station, 0, n)
	for i := 0; i < n; i++ {
		st, ok := s.stations.Peek()
		if !ok {
			break
		}
		batch = append(batch, st)
		s.stations.Rotate()
	}
	return batch
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
