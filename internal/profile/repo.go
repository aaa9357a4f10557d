package profile

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justyn/travelmap-api/internal/catalog"
	"github.com/justyn/travelmap-api/internal/scenic"
)

type Repo struct{ DB *pgxpool.Pool }

// AddFavorite is idempotent: favoriting the same target twice is a no-op.
func (r *Repo) AddFavorite(ctx context.Context, userID, targetID int64, targetType string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO favorite (user_id, target_id, target_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, target_id, target_type) DO NOTHING`,
		userID, targetID, targetType)
	return err
}

func (r *Repo) RemoveFavorite(ctx context.Context, userID, targetID int64, targetType string) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM favorite WHERE user_id=$1 AND target_id=$2 AND target_type=$3`,
		userID, targetID, targetType)
	return err
}

func (r *Repo) FavoriteScenics(ctx context.Context, userID int64) ([]scenic.Scenic, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT s.id, s.name, s.description, s.city, s.latitude, s.longitude, s.cover_image, s.create_time
		FROM favorite f
		JOIN scenic s ON f.target_id = s.id
		WHERE f.user_id = $1 AND f.target_type = $2
		ORDER BY f.create_time DESC`, userID, TargetScenic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []scenic.Scenic{}
	for rows.Next() {
		var s scenic.Scenic
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.City, &s.Latitude,
			&s.Longitude, &s.CoverImage, &s.CreateTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) FavoriteProducts(ctx context.Context, userID int64) ([]catalog.Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT p.id, p.name, p.description, p.cover_image, p.price, p.stock, p.type, p.scenic_id, p.hotel_address, p.create_time
		FROM favorite f
		JOIN product p ON f.target_id = p.id
		WHERE f.user_id = $1 AND f.target_type = $2
		ORDER BY f.create_time DESC`, userID, TargetProduct)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []catalog.Product{}
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CoverImage, &p.Price,
			&p.Stock, &p.Type, &p.ScenicID, &p.HotelAddress, &p.CreateTime); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) AddVisited(ctx context.Context, userID, scenicID int64, rating *int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO visited (user_id, scenic_id, visit_date, rating)
		VALUES ($1, $2, $3, $4)`,
		userID, scenicID, time.Now().Format("2006-01-02"), rating)
	return err
}

func (r *Repo) ListVisited(ctx context.Context, userID int64) ([]VisitedView, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT v.scenic_id, v.visit_date, v.rating, s.name, s.city, s.cover_image
		FROM visited v
		JOIN scenic s ON v.scenic_id = s.id
		WHERE v.user_id = $1
		ORDER BY v.visit_date DESC, v.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []VisitedView{}
	for rows.Next() {
		var v VisitedView
		if err := rows.Scan(&v.ScenicID, &v.VisitDate, &v.Rating, &v.Name, &v.City, &v.CoverImage); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
