package logic

import (
	"context"
	"fmt"

	"github.com/Guanghan-Li/Athlete-Data-Analytic/internal/models"
)

type rosterStore struct {
	pg PgPool
}

func NewRosterStore(pg PgPool) RosterStore {
	return &rosterStore{pg: pg}
}

func (s *rosterStore) ListAthletes(ctx context.Context) ([]models.Athlete, error) {
	rows, err := s.pg.Query(ctx, `
		SELECT id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(position, '')
		FROM athletes
		ORDER BY last_name, first_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query athletes: %w", err)
	}
	defer rows.Close()

	var athletes []models.Athlete
	for rows.Next() {
		var a models.Athlete
		if err := rows.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Position); err != nil {
			return nil, fmt.Errorf("scan athlete: %w", err)
		}
		athletes = append(athletes, a)
	}
	return athletes, rows.Err()
}

// RosterIndex returns the roster keyed by athlete id for prediction
// enrichment.
func (s *rosterStore) RosterIndex(ctx context.Context) (map[string]models.Athlete, error) {
	athletes, err := s.ListAthletes(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.Athlete, len(athletes))
	for _, a := range athletes {
		index[a.ID] = a
	}
	return index, nil
}
