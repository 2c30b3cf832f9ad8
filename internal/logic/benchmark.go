package logic

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

type benchmarkService struct {
	lookaheadDays int
	logger        *zap.SugaredLogger
}

// NewBenchmarkService builds a benchmark selector with the given lookahead
// window in days. A training day whose nearest following match day falls
// outside the window is excluded from training, not imputed.
func NewBenchmarkService(lookaheadDays int, logger *zap.Logger) BenchmarkService {
	if lookaheadDays <= 0 {
		lookaheadDays = 7
	}
	return &benchmarkService{lookaheadDays: lookaheadDays, logger: logger.Sugar()}
}

// datedVector pairs a feature vector with its parsed day.
type datedVector struct {
	vec models.FeatureVector
	day time.Time
}

// Assign selects, for every training-day vector, the chronologically
// nearest following match-day vector within the lookahead window. The
// result is independent of input ordering: vectors are sorted internally
// before selection, and equidistant candidates resolve to the earlier
// match day.
func (s *benchmarkService) Assign(vectors []models.FeatureVector) []models.Benchmark {
	byAthlete := make(map[string][]datedVector)
	for _, v := range vectors {
		day, err := v.Day()
		if err != nil {
			s.logger.Warnw("Skipping vector with unparseable date", "athlete", v.AthleteID, "date", v.Date)
			continue
		}
		byAthlete[v.AthleteID] = append(byAthlete[v.AthleteID], datedVector{vec: v, day: day})
	}

	athletes := make([]string, 0, len(byAthlete))
	for id := range byAthlete {
		athletes = append(athletes, id)
	}
	sort.Strings(athletes)

	window := time.Duration(s.lookaheadDays) * 24 * time.Hour

	var benchmarks []models.Benchmark
	for _, id := range athletes {
		season := byAthlete[id]
		sort.Slice(season, func(i, j int) bool {
			if !season[i].day.Equal(season[j].day) {
				return season[i].day.Before(season[j].day)
			}
			return season[i].vec.Tag() < season[j].vec.Tag()
		})

		var matches []datedVector
		for _, d := range season {
			if d.vec.SessionType == models.SessionMatch {
				matches = append(matches, d)
			}
		}

		for _, d := range season {
			if d.vec.SessionType != models.SessionTraining {
				continue
			}

			best, ok := nearestFollowing(d.day, matches, window)
			if !ok {
				continue
			}
			benchmarks = append(benchmarks, models.Benchmark{Training: d.vec, Match: best.vec})
		}
	}

	return benchmarks
}

// nearestFollowing picks the first match day at or after the training day
// within the window. Matches are sorted ascending, so the earliest
// qualifying one wins, which also settles any equidistant tie.
func nearestFollowing(day time.Time, matches []datedVector, window time.Duration) (datedVector, bool) {
	for _, m := range matches {
		if m.day.Before(day) {
			continue
		}
		if m.day.Sub(day) > window {
			break
		}
		return m, true
	}
	return datedVector{}, false
}

// BuildExamples derives a ratio target per benchmark: the mean over the
// metrics shared by both vectors of training value over match value.
// Metrics the match-day vector reports as zero or negative are skipped so
// a quiet benchmark metric cannot blow up the ratio.
func (s *benchmarkService) BuildExamples(benchmarks []models.Benchmark) []models.TrainingExample {
	examples := make([]models.TrainingExample, 0, len(benchmarks))
	for _, b := range benchmarks {
		var sum float64
		var n int
		for _, name := range models.MetricNames() {
			trainVal, okT := b.Training.Metrics[name]
			matchVal, okM := b.Match.Metrics[name]
			if !okT || !okM || matchVal <= 0 {
				continue
			}
			sum += trainVal / matchVal
			n++
		}
		if n == 0 {
			continue
		}
		examples = append(examples, models.TrainingExample{
			Vector: b.Training,
			Target: sum / float64(n),
		})
	}
	return examples
}
