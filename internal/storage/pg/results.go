package pg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/iiw-bench/internal/bench/report"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var imageResultColumns = []string{
	"run_id", "image_id", "whdr", "whdr_equal", "whdr_inequal", "comparisons", "duration_ms", "error",
}

// ResultStore persists benchmark reports: one whdr_runs row per job and
// method, and the per-image scores underneath it.
type ResultStore struct {
	pool *ConnectionPool
}

func NewResultStore(pool *ConnectionPool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) SaveReport(ctx context.Context, r *report.Report) error {
	tx, err := s.pool.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	saved := 0
	for _, jr := range r.Jobs {
		runIDs := make(map[string]uuid.UUID, len(jr.Aggregated))
		for _, agg := range jr.Aggregated {
			id := uuid.New()
			runIDs[agg.MethodName] = id

			_, err := tx.Exec(ctx, `
				INSERT INTO whdr_runs (id, report_id, job_name, method, delta, color_space,
					whdr, whdr_equal, whdr_inequal, evaluated, undefined, failed, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`,
				id, r.Meta.RunID, jr.JobName, agg.MethodName, r.Config.Delta, r.Config.ColorSpace,
				agg.WHDR, agg.Equal, agg.Inequal, agg.Evaluated, agg.Undefined, agg.Failed, r.Meta.Timestamp,
			)
			if err != nil {
				return fmt.Errorf("insert run %s/%s: %w", jr.JobName, agg.MethodName, err)
			}
		}

		rows, err := imageRows(runIDs, jr.PerImage)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"whdr_image_results"}, imageResultColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("bulk insert image results for job %s: %w", jr.JobName, err)
		}
		saved += int(n)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.Info("Report stored", "report_id", r.Meta.RunID, "image_rows", saved)
	return nil
}

func imageRows(runIDs map[string]uuid.UUID, entries []report.Entry) ([][]any, error) {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		runID, ok := runIDs[e.MethodName]
		if !ok {
			return nil, fmt.Errorf("no run row for method %q", e.MethodName)
		}
		var errText *string
		if e.Error != "" {
			errText = &e.Error
		}
		rows = append(rows, []any{
			runID,
			e.ImageID,
			e.WHDR,
			e.Equal,
			e.Inequal,
			e.Comparisons,
			e.Duration.Milliseconds(),
			errText,
		})
	}
	return rows, nil
}
