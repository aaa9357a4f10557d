package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, name, description, cover_image, price, stock, type, scenic_id, hotel_address, create_time`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CoverImage, &p.Price,
		&p.Stock, &p.Type, &p.ScenicID, &p.HotelAddress, &p.CreateTime)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Get(ctx context.Context, id int64) (*Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM product WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

type Filter struct {
	Keyword  string
	Type     string
	Page     int
	PageSize int
}

// List does the mall-wide query: keyword matches name/description, type is exact.
func (r *Repo) List(ctx context.Context, f Filter) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if f.Keyword != "" {
		args = append(args, "%"+f.Keyword+"%")
		where += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d)`, len(args), len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where += fmt.Sprintf(` AND type = $%d`, len(args))
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM product`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	sql := `SELECT ` + productCols + ` FROM product` + where +
		fmt.Sprintf(` ORDER BY id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.queryProducts(ctx, sql, args, total)
}

// Bookings narrows to HOTEL/TICKET inventory, optionally by the scenic's city.
func (r *Repo) Bookings(ctx context.Context, btype, city string, page, pageSize int) ([]Product, int, error) {
	where := ` WHERE p.type = $1`
	args := []any{btype}
	join := ""
	if city != "" {
		join = ` LEFT JOIN scenic s ON p.scenic_id = s.id`
		args = append(args, city)
		where += fmt.Sprintf(` AND s.city = $%d`, len(args))
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM product p`+join+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	cols := `p.id, p.name, p.description, p.cover_image, p.price, p.stock, p.type, p.scenic_id, p.hotel_address, p.create_time`
	sql := `SELECT ` + cols + ` FROM product p` + join + where +
		fmt.Sprintf(` ORDER BY p.id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.queryProducts(ctx, sql, args, total)
}

func (r *Repo) queryProducts(ctx context.Context, sql string, args []any, total int) ([]Product, int, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}
