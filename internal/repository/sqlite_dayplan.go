package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/timebox/internal/db"
	"github.com/alexanderramin/timebox/internal/domain"
)

// SQLiteDayPlanRepo implements DayPlanRepo using a SQLite database.
type SQLiteDayPlanRepo struct {
	db db.DBTX
}

// NewSQLiteDayPlanRepo creates a new SQLiteDayPlanRepo.
func NewSQLiteDayPlanRepo(conn db.DBTX) *SQLiteDayPlanRepo {
	return &SQLiteDayPlanRepo{db: conn}
}

func (r *SQLiteDayPlanRepo) Get(ctx context.Context, date string) (*domain.DayPlan, error) {
	var (
		plan      = domain.DayPlan{Date: date}
		goalsJSON string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT brain_dump, top_goals_json, generation_seq, updated_at FROM day_plans WHERE date = ?`, date,
	).Scan(&plan.BrainDump, &goalsJSON, &plan.GenerationSeq, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("day plan %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning day plan %s: %w", date, err)
	}
	if err := json.Unmarshal([]byte(goalsJSON), &plan.TopGoals); err != nil {
		return nil, fmt.Errorf("decoding top goals for %s: %w", date, err)
	}
	plan.UpdatedAt = parseTime(updatedAt)

	items, err := r.items(ctx, date)
	if err != nil {
		return nil, err
	}
	plan.Items = items
	return &plan, nil
}

func (r *SQLiteDayPlanRepo) items(ctx context.Context, date string) ([]domain.ScheduleItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, start_time, duration, activity, activity_type
		 FROM schedule_items WHERE date = ? ORDER BY start_time, id`, date)
	if err != nil {
		return nil, fmt.Errorf("listing schedule items for %s: %w", date, err)
	}
	defer rows.Close()

	items := []domain.ScheduleItem{}
	for rows.Next() {
		var it domain.ScheduleItem
		var t string
		if err := rows.Scan(&it.ID, &it.StartTime, &it.Duration, &it.Activity, &t); err != nil {
			return nil, fmt.Errorf("scanning schedule item: %w", err)
		}
		it.ActivityType = domain.ActivityType(t)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Save upserts the plan row and rewrites the day's items. Run it inside a
// UnitOfWork so the delete and inserts land together.
func (r *SQLiteDayPlanRepo) Save(ctx context.Context, plan *domain.DayPlan) error {
	goals := plan.TopGoals
	if goals == nil {
		goals = []string{}
	}
	goalsJSON, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encoding top goals: %w", err)
	}

	updatedAt := nowUTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO day_plans (date, brain_dump, top_goals_json, generation_seq, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   brain_dump = excluded.brain_dump,
		   top_goals_json = excluded.top_goals_json,
		   generation_seq = MAX(day_plans.generation_seq, excluded.generation_seq),
		   updated_at = excluded.updated_at`,
		plan.Date, plan.BrainDump, string(goalsJSON), plan.GenerationSeq, updatedAt)
	if err != nil {
		return fmt.Errorf("saving day plan %s: %w", plan.Date, err)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_items WHERE date = ?`, plan.Date); err != nil {
		return fmt.Errorf("clearing schedule items for %s: %w", plan.Date, err)
	}
	for _, it := range plan.Items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO schedule_items (date, id, start_time, duration, activity, activity_type)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			plan.Date, it.ID, it.StartTime, it.Duration, it.Activity, string(it.ActivityType))
		if err != nil {
			return fmt.Errorf("inserting schedule item %s: %w", it.ID, err)
		}
	}
	plan.UpdatedAt = parseTime(updatedAt)
	return nil
}

func (r *SQLiteDayPlanRepo) BumpGenerationSeq(ctx context.Context, date string) (int64, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO day_plans (date, generation_seq, updated_at) VALUES (?, 1, ?)
		 ON CONFLICT(date) DO UPDATE SET generation_seq = day_plans.generation_seq + 1`,
		date, nowUTC())
	if err != nil {
		return 0, fmt.Errorf("bumping generation seq for %s: %w", date, err)
	}
	var seq int64
	if err := r.db.QueryRowContext(ctx, `SELECT generation_seq FROM day_plans WHERE date = ?`, date).Scan(&seq); err != nil {
		return 0, fmt.Errorf("reading generation seq for %s: %w", date, err)
	}
	return seq, nil
}

func (r *SQLiteDayPlanRepo) Dates(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := r.db.QueryContext(ctx, `SELECT date FROM day_plans ORDER BY date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing plan dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning plan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
