package plans

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("plan not found")

type Repo struct{ DB *pgxpool.Pool }

const cols = `id, user_id, title, start_date, end_date, source, content, create_time`

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.StartDate, &p.EndDate,
		&p.Source, &p.Content, &p.CreateTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO trip_plan (user_id, title, start_date, end_date, source, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		in.UserID, in.Title, in.StartDate, in.EndDate, in.Source, in.Content,
	).Scan(&id)
	return id, err
}

func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Plan, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+cols+` FROM trip_plan WHERE user_id=$1 ORDER BY create_time DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int64) (*Plan, error) {
	p, err := scanPlan(r.DB.QueryRow(ctx, `SELECT `+cols+` FROM trip_plan WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}
