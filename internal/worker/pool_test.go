package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

func testPool(queueSize int) (*Pool, context.CancelFunc) {
	cfg := PoolConfig{
		QueueSize: queueSize,
		Logger:    zap.NewNop(),
	}

	pool := &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.ctx = ctx
	pool.cancel = cancel
	return pool, cancel
}

func TestEnqueueFull(t *testing.T) {
	pool, cancel := testPool(1)
	defer cancel()

	rec1 := &models.SensorRecord{AthleteID: "a1", Date: "2026-03-02", SessionType: models.SessionTraining}
	if !pool.Enqueue(rec1) {
		t.Fatal("Failed to enqueue first record")
	}

	// The queue is full; the second record must be shed immediately.
	rec2 := &models.SensorRecord{AthleteID: "a2", Date: "2026-03-02", SessionType: models.SessionTraining}

	start := time.Now()
	enqueued := pool.Enqueue(rec2)
	duration := time.Since(start)

	if enqueued {
		t.Error("Enqueue should have returned false when queue is full")
	}
	if duration > 10*time.Millisecond {
		t.Errorf("Enqueue took too long (%v), expected immediate return", duration)
	}
	if pool.QueueDepth() != 1 {
		t.Errorf("QueueDepth = %d, want 1", pool.QueueDepth())
	}
}

func TestEnqueueAfterStop(t *testing.T) {
	pool, cancel := testPool(4)
	cancel()

	rec := &models.SensorRecord{AthleteID: "a1", Date: "2026-03-02", SessionType: models.SessionTraining}
	if pool.Enqueue(rec) {
		// The canceled-context branch may race the send on a non-full
		// queue; what matters is that a send on a closed channel never
		// panics out of Enqueue.
		t.Log("record accepted before cancellation was observed")
	}

	close(pool.jobQueue)
	if pool.Enqueue(rec) {
		t.Error("Enqueue on a closed queue must report the record as shed")
	}
}

func TestEnqueueCarriesRawJSON(t *testing.T) {
	pool, cancel := testPool(1)
	defer cancel()

	rec := &models.SensorRecord{
		AthleteID:   "a1",
		ActivityID:  "act_1",
		Date:        "2026-03-02",
		SessionType: models.SessionTraining,
		Metrics:     map[string]float64{models.MetricPlayerLoad: 412.5},
	}
	if !pool.Enqueue(rec) {
		t.Fatal("Failed to enqueue record")
	}

	job := <-pool.jobQueue
	if job.Record != rec {
		t.Error("job does not reference the enqueued record")
	}
	if job.ReceivedAt.IsZero() {
		t.Error("job missing receive timestamp")
	}

	var roundTrip models.SensorRecord
	if err := json.Unmarshal([]byte(job.RawJSON), &roundTrip); err != nil {
		t.Fatalf("RawJSON does not decode: %v", err)
	}
	if roundTrip.AthleteID != "a1" || roundTrip.Metrics[models.MetricPlayerLoad] != 412.5 {
		t.Errorf("RawJSON lost fields: %+v", roundTrip)
	}
}
