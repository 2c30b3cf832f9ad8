package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Seeds a synthetic season of sensor records through the ingest endpoint
// so the training and prediction paths can be exercised locally.

var (
	apiURL  = flag.String("url", "http://localhost:8080/api/v1/ingest/sessions", "Ingest endpoint")
	token   = flag.String("token", "seed-secret-123", "Collector token")
	weeks   = flag.Int("weeks", 8, "Number of weeks to generate")
	squad   = flag.Int("squad", 16, "Number of athletes")
	seed    = flag.Int64("seed", 7, "Random seed")
	workers = flag.Int("workers", 5, "Concurrent upload workers")
)

type session struct {
	typ     string
	ordinal int
	effort  float64
}

type record struct {
	AthleteID      string             `json:"athlete_id"`
	ActivityID     string             `json:"activity_id"`
	Date           string             `json:"date"`
	SessionType    string             `json:"session_type"`
	SessionOrdinal int                `json:"session_ordinal"`
	Metrics        map[string]float64 `json:"metrics"`
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	athletes := make([]string, *squad)
	for i := range athletes {
		athletes[i] = uuid.NewString()
	}

	// One match every Saturday, training Monday through Friday with a
	// double session on Wednesdays. Intensity ramps toward match day.
	start := time.Now().AddDate(0, 0, -*weeks*7)
	var batches [][]record

	for w := 0; w < *weeks; w++ {
		monday := start.AddDate(0, 0, w*7)
		for dow := 0; dow < 7; dow++ {
			day := monday.AddDate(0, 0, dow)
			var sessions []session
			switch dow {
			case 5: // match day
				sessions = append(sessions, session{"match", 0, 1.0})
			case 6: // rest
			case 2: // double session
				sessions = append(sessions,
					session{"training", 1, 0.6},
					session{"training", 2, 0.4})
			default:
				sessions = append(sessions, session{"training", 1, 0.4 + 0.1*float64(dow)})
			}

			for _, s := range sessions {
				activityID := uuid.NewString()
				batch := make([]record, 0, len(athletes))
				for _, id := range athletes {
					jitter := 0.85 + 0.3*rng.Float64()
					e := s.effort * jitter
					batch = append(batch, record{
						AthleteID:      id,
						ActivityID:     activityID,
						Date:           day.Format("2006-01-02"),
						SessionType:    s.typ,
						SessionOrdinal: s.ordinal,
						Metrics: map[string]float64{
							"player_load":         round2(650 * e),
							"velocity":            round2(6.5 * e),
							"acceleration":        round2(3.2 * e),
							"deceleration":        round2(-3.5 * e),
							"distance":            round2(9500 * e),
							"high_speed_distance": round2(720 * e),
						},
					})
				}
				batches = append(batches, batch)
			}
		}
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var g errgroup.Group
	g.SetLimit(*workers)
	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			return postBatch(client, batch)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	fmt.Printf("Seeded %d session batches for %d athletes over %d weeks\n",
		len(batches), *squad, *weeks)
}

// postBatch uploads one session batch as newline-delimited JSON, the
// format the ingest handler splits on.
func postBatch(client *http.Client, batch []record) error {
	var sb strings.Builder
	for _, rec := range batch {
		line, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL, bytes.NewBufferString(sb.String()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	req.Header.Set("X-Collector-Token", *token)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ingest returned %s: %s", resp.Status, string(body))
	}
	return nil
}

func round2(x float64) float64 {
	return float64(int(x*100)) / 100
}
