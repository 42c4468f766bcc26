package postgres

import (
	"context"
	"fmt"

	"github.com/meditrack/visit-api/internal/model"
)

func (r *doctorRepository) Get(ctx context.Context, id int64) (*model.Doctor, error) {
	query := `
		SELECT id, first_name, last_name, timezone
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		return nil, fmt.Errorf("failed to get doctor %d: %w", id, err)
	}
	return &doctor, nil
}
