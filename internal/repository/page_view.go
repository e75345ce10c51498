package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

type PageViewRepository interface {
	Create(view *model.PageView) error
	TopPaths(since time.Time, limit int) ([]*model.PathCount, error)
}

type pageViewRepository struct {
	db *sqlx.DB
}

func NewPageViewRepository(db *sqlx.DB) PageViewRepository {
	return &pageViewRepository{db: db}
}

func (r *pageViewRepository) Create(view *model.PageView) error {
	query := `INSERT INTO page_views (id, user_id, path, referrer, user_agent, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		view.ID,
		view.UserID,
		view.Path,
		view.Referrer,
		view.UserAgent,
		view.CreatedAt,
	)

	return err
}

func (r *pageViewRepository) TopPaths(since time.Time, limit int) ([]*model.PathCount, error) {
	counts := []*model.PathCount{}
	query := `SELECT path, COUNT(*) AS views FROM page_views
	          WHERE created_at >= $1
	          GROUP BY path
	          ORDER BY views DESC, path ASC
	          LIMIT $2`

	err := r.db.Select(&counts, query, since, limit)
	if err != nil {
		return nil, err
	}

	return counts, nil
}
