package scenic

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("scenic not found")

type Repo struct{ DB *pgxpool.Pool }

const cols = `id, name, description, city, latitude, longitude, cover_image, create_time`

func scanScenic(row pgx.Row) (*Scenic, error) {
	var s Scenic
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.City, &s.Latitude,
		&s.Longitude, &s.CoverImage, &s.CreateTime)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Scenic, error) {
	s, err := scanScenic(r.DB.QueryRow(ctx, `SELECT `+cols+` FROM scenic WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *Repo) List(ctx context.Context, keyword, city string, page, pageSize int) ([]Scenic, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if keyword != "" {
		args = append(args, "%"+keyword+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	if city != "" {
		args = append(args, city)
		where += fmt.Sprintf(` AND city = $%d`, len(args))
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM scenic`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.DB.Query(ctx, `SELECT `+cols+` FROM scenic`+where+
		fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Scenic{}
	for rows.Next() {
		s, err := scanScenic(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

func (r *Repo) MapPoints(ctx context.Context) ([]MapPoint, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, latitude, longitude, cover_image FROM scenic`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MapPoint{}
	for rows.Next() {
		var p MapPoint
		if err := rows.Scan(&p.ID, &p.Name, &p.Latitude, &p.Longitude, &p.CoverImage); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
