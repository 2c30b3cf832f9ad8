package logic

import (
	"sort"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

type reportService struct{}

func NewReportService() ReportService {
	return &reportService{}
}

// BuildDailyReport summarizes one day's predictions: per-position
// averages, the grouped team score built from the strongest contributors
// per position (top 3 defenders, top 2 forwards, all midfielders, top
// goalkeeper), and the plain overall average.
func (s *reportService) BuildDailyReport(date string, predictions []models.Prediction) *models.DailyReport {
	report := &models.DailyReport{
		Date:             date,
		Individual:       predictions,
		PositionAverages: make(map[string]float64, 4),
		TeamGroups:       make(map[string][]float64, 4),
	}

	byPosition := map[string][]float64{
		models.PositionForward:    nil,
		models.PositionDefender:   nil,
		models.PositionMidfielder: nil,
		models.PositionGoalkeeper: nil,
	}

	var total float64
	for _, p := range predictions {
		if p.RunID != "" && report.RunID == "" {
			report.RunID = p.RunID
		}
		total += p.Score
		if _, ok := byPosition[p.Position]; ok {
			byPosition[p.Position] = append(byPosition[p.Position], p.Score)
		}
	}

	for pos, scores := range byPosition {
		report.PositionAverages[pos] = round3(mean(scores))
	}

	report.TeamGroups["Top 3 Defenders"] = topN(byPosition[models.PositionDefender], 3)
	report.TeamGroups["Top 2 Forwards"] = topN(byPosition[models.PositionForward], 2)
	report.TeamGroups["All Midfielders"] = topN(byPosition[models.PositionMidfielder], len(byPosition[models.PositionMidfielder]))
	report.TeamGroups["Top Goalkeeper"] = topN(byPosition[models.PositionGoalkeeper], 1)

	var grouped []float64
	for _, scores := range report.TeamGroups {
		grouped = append(grouped, scores...)
	}
	report.GroupedScore = round3(mean(grouped))

	if len(predictions) > 0 {
		report.OverallScore = round3(total / float64(len(predictions)))
	}

	return report
}

// TeamSummary averages the top-N athletes by player load for every
// session present in the vectors, the squad-level view used for team
// trend charts.
func (s *reportService) TeamSummary(vectors []models.FeatureVector, squadSize int) []models.TeamSessionSummary {
	if squadSize <= 0 {
		squadSize = 11
	}

	type sessionKey struct {
		date    string
		typ     models.SessionType
		ordinal int
	}
	sessions := make(map[sessionKey][]models.FeatureVector)
	for _, v := range vectors {
		k := sessionKey{date: v.Date, typ: v.SessionType, ordinal: v.SessionOrdinal}
		sessions[k] = append(sessions[k], v)
	}

	keys := make([]sessionKey, 0, len(sessions))
	for k := range sessions {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		if keys[i].typ != keys[j].typ {
			return keys[i].typ < keys[j].typ
		}
		return keys[i].ordinal < keys[j].ordinal
	})

	summaries := make([]models.TeamSessionSummary, 0, len(keys))
	for _, k := range keys {
		squad := sessions[k]
		sort.Slice(squad, func(i, j int) bool {
			li := squad[i].Metrics[models.MetricPlayerLoad]
			lj := squad[j].Metrics[models.MetricPlayerLoad]
			if li != lj {
				return li > lj
			}
			return squad[i].AthleteID < squad[j].AthleteID
		})
		if len(squad) > squadSize {
			squad = squad[:squadSize]
		}

		averages := make(map[string]float64, len(models.MetricPolicies))
		for _, name := range models.MetricNames() {
			var sum float64
			var n int
			for _, v := range squad {
				if val, ok := v.Metrics[name]; ok {
					sum += val
					n++
				}
			}
			if n > 0 {
				averages[name] = round3(sum / float64(n))
			}
		}

		summaries = append(summaries, models.TeamSessionSummary{
			Date:           k.date,
			SessionType:    k.typ,
			SessionOrdinal: k.ordinal,
			SquadSize:      len(squad),
			Averages:       averages,
		})
	}

	return summaries
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// topN returns the n highest scores, descending. The input is copied so
// callers keep their ordering.
func topN(scores []float64, n int) []float64 {
	if n <= 0 || len(scores) == 0 {
		return []float64{}
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
