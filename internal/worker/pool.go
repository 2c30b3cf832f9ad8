// Package worker implements the buffered worker pool pattern for async
// sensor-record ingestion. This decouples HTTP request handling from
// database writes, providing:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees

package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

// Prometheus metrics
var (
	recordsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readiness_records_ingested_total",
		Help: "Total number of sensor records accepted for ingestion",
	})

	recordsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readiness_records_processed_total",
		Help: "Total number of sensor records written by workers",
	})

	recordsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readiness_records_failed_total",
		Help: "Total number of sensor records that failed processing",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "readiness_worker_queue_depth",
		Help: "Current depth of the ingestion queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "readiness_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	recordsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "readiness_records_load_shed_total",
		Help: "Total number of sensor records dropped due to load shedding",
	})
)

// Job represents a unit of work for the worker pool
type Job struct {
	Record     *models.SensorRecord
	RawJSON    string
	ReceivedAt time.Time
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Redis         *redis.Client
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async sensor-record ingestion
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	// Start queue depth reporter
	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

// Enqueue adds a record to the queue. Returns false when the queue is
// full or the pool is shutting down; the record is shed, not buffered.
func (p *Pool) Enqueue(record *models.SensorRecord) bool {
	rawJSON, _ := json.Marshal(record)

	job := Job{
		Record:     record,
		RawJSON:    string(rawJSON),
		ReceivedAt: time.Now(),
	}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue record (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		recordsIngested.Inc()
		return true
	case <-p.ctx.Done():
		p.logger.Warn("Worker pool context canceled, dropping record")
		recordsLoadShed.Inc()
		return false
	default:
		p.logger.Warn("Ingestion queue full, dropping record")
		recordsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker processes jobs from the queue in batches
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch processing failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			recordsFailed.Add(float64(len(batch)))
		} else {
			recordsProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()

		case <-p.ctx.Done():
			flush()
			return
		}
	}
}

// processBatch writes a batch of sensor records to ClickHouse and kicks
// off Redis side effects.
func (p *Pool) processBatch(batch []Job) error {
	if len(batch) == 0 {
		return nil
	}

	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO athlete_stats.sensor_readings (
			date, athlete_id, activity_id, session_type, session_ordinal,
			metrics, raw_json, received_at
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		rec := job.Record

		day, err := rec.Day()
		if err != nil {
			// Malformed dates were already rejected at the HTTP boundary;
			// fall back to receipt time rather than poisoning the batch.
			day = job.ReceivedAt.UTC().Truncate(24 * time.Hour)
		}

		err = chBatch.Append(
			day,
			rec.AthleteID,
			rec.ActivityID,
			string(rec.SessionType),
			uint8(rec.SessionOrdinal),
			rec.Metrics,
			job.RawJSON,
			job.ReceivedAt,
		)
		if err != nil {
			p.logger.Warnw("Failed to append record to batch", "error", err, "athlete", rec.AthleteID)
			continue
		}
	}

	// Process side effects in batch (Redis state updates)
	// Must copy batch because the slice is reused in the worker loop
	batchCopy := make([]Job, len(batch))
	copy(batchCopy, batch)
	go p.processBatchSideEffects(ctx, batchCopy)

	if err := chBatch.Send(); err != nil {
		p.logger.Errorw("Failed to send batch to ClickHouse", "error", err, "batchSize", len(batch))
		return err
	}

	return nil
}

// processBatchSideEffects maintains the hot Redis state for a batch:
// per-activity athlete sets and last-seen days, used by readiness probes
// and roster tooling.
func (p *Pool) processBatchSideEffects(ctx context.Context, batch []Job) {
	if len(batch) == 0 {
		return
	}

	pipe := p.config.Redis.Pipeline()

	for _, job := range batch {
		rec := job.Record
		if rec.AthleteID == "" {
			continue
		}

		if rec.ActivityID != "" {
			pipe.SAdd(ctx, "activity:"+rec.ActivityID+":athletes", rec.AthleteID)
		}
		pipe.HSet(ctx, "athlete_last_seen", rec.AthleteID, rec.Date)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		p.logger.Errorw("Redis pipeline failed", "error", err)
	}
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
