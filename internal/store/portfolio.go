package store

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

var ErrPortfolioNotFound = apperr.NotFound("Portfolio item not found")

const portfolioColumns = `id, title, description, category, image_url, featured, sort_order, created_at`

func scanPortfolio(row pgx.Row) (*models.PortfolioItem, error) {
	var p models.PortfolioItem
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Category, &p.ImageURL, &p.Featured, &p.Order, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPortfolio returns items matching f, highest order first and newest
// first within an order.
func (s *PostgresStore) ListPortfolio(ctx context.Context, f models.PortfolioFilter) ([]models.PortfolioItem, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != nil {
		args = append(args, *f.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if f.Featured != nil {
		args = append(args, *f.Featured)
		where = append(where, "featured = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + portfolioColumns + ` FROM portfolio_items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY sort_order DESC, created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dbErr("PORTFOLIO_LIST_FAILED", err)
	}
	defer rows.Close()

	items := []models.PortfolioItem{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, dbErr("PORTFOLIO_SCAN_FAILED", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr("PORTFOLIO_LIST_FAILED", err)
	}
	return items, nil
}

func (s *PostgresStore) GetPortfolio(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	p, err := scanPortfolio(s.db.QueryRow(ctx,
		`SELECT `+portfolioColumns+` FROM portfolio_items WHERE id = $1`, id,
	))
	if err != nil {
		return nil, readErr("PORTFOLIO_GET_FAILED", err, ErrPortfolioNotFound, "id", id)
	}
	return p, nil
}

func (s *PostgresStore) CreatePortfolio(ctx context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error) {
	created, err := scanPortfolio(s.db.QueryRow(ctx,
		`INSERT INTO portfolio_items (title, description, category, image_url, featured, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+portfolioColumns,
		p.Title, p.Description, p.Category, p.ImageURL, p.Featured, p.Order,
	))
	if err != nil {
		return nil, writeErr("PORTFOLIO_CREATE_FAILED", err, "title", p.Title)
	}
	return created, nil
}

// UpdatePortfolio overwrites every mutable column of the item with p.ID.
func (s *PostgresStore) UpdatePortfolio(ctx context.Context, p *models.PortfolioItem) (*models.PortfolioItem, error) {
	updated, err := scanPortfolio(s.db.QueryRow(ctx,
		`UPDATE portfolio_items
		 SET title = $2, description = $3, category = $4, image_url = $5, featured = $6, sort_order = $7
		 WHERE id = $1
		 RETURNING `+portfolioColumns,
		p.ID, p.Title, p.Description, p.Category, p.ImageURL, p.Featured, p.Order,
	))
	if err != nil {
		return nil, updateErr("PORTFOLIO_UPDATE_FAILED", err, ErrPortfolioNotFound, "id", p.ID)
	}
	return updated, nil
}

func (s *PostgresStore) DeletePortfolio(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "portfolio_items", id, ErrPortfolioNotFound)
}

// deleteByID removes one row from table. table is always a constant.
func (s *PostgresStore) deleteByID(ctx context.Context, table string, id int64, notFound error) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return dbErr("DELETE_FAILED", err, "table", table, "id", id)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
