package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

const (
	ResolutionSortRecent   = "recent"
	ResolutionSortProgress = "progress"
	ResolutionSortTitle    = "title"
	ResolutionSortTarget   = "target"
)

var (
	ErrResolutionNotFound = errors.New("resolution not found")
)

// ResolutionFilter narrows a listing. Zero values match everything.
type ResolutionFilter struct {
	Category model.Category
	Status   model.Status
	Sort     string
}

type ResolutionRepository interface {
	Create(resolution *model.Resolution) error
	ByID(userID, resolutionID string) (*model.Resolution, error)
	Resolutions(userID string, filter ResolutionFilter) ([]*model.Resolution, error)
	Update(resolution *model.Resolution) error
	Delete(userID, resolutionID string) error
}

type resolutionRepository struct {
	db *sqlx.DB
}

func NewResolutionRepository(db *sqlx.DB) ResolutionRepository {
	return &resolutionRepository{db: db}
}

func (r *resolutionRepository) Create(resolution *model.Resolution) error {
	query := `INSERT INTO resolutions (id, user_id, title, description, category, status, target_date, progress, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		resolution.ID,
		resolution.UserID,
		resolution.Title,
		resolution.Description,
		resolution.Category,
		resolution.Status,
		resolution.TargetDate,
		resolution.Progress,
		resolution.CreatedAt,
		resolution.UpdatedAt,
	)

	return err
}

func (r *resolutionRepository) ByID(userID, resolutionID string) (*model.Resolution, error) {
	resolution := &model.Resolution{}
	query := `SELECT * FROM resolutions WHERE id = $1 AND user_id = $2`

	err := r.db.Get(resolution, query, resolutionID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrResolutionNotFound
	}
	if err != nil {
		return nil, err
	}

	return resolution, nil
}

func (r *resolutionRepository) Resolutions(userID string, filter ResolutionFilter) ([]*model.Resolution, error) {
	resolutions := []*model.Resolution{}

	query := `SELECT * FROM resolutions WHERE user_id = $1`
	args := []any{userID}

	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	// Only known sort keys reach the ORDER BY clause
	switch filter.Sort {
	case ResolutionSortProgress:
		query += " ORDER BY progress DESC, updated_at DESC"
	case ResolutionSortTitle:
		query += " ORDER BY LOWER(title) ASC"
	case ResolutionSortTarget:
		query += " ORDER BY CASE WHEN target_date IS NULL THEN 1 ELSE 0 END, target_date ASC"
	default: // ResolutionSortRecent or empty
		query += " ORDER BY updated_at DESC"
	}

	err := r.db.Select(&resolutions, query, args...)
	if err != nil {
		return nil, err
	}

	return resolutions, nil
}

func (r *resolutionRepository) Update(resolution *model.Resolution) error {
	resolution.UpdatedAt = time.Now().UTC()

	query := `UPDATE resolutions
	          SET title = $1, description = $2, category = $3, status = $4, target_date = $5, progress = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.Exec(query,
		resolution.Title,
		resolution.Description,
		resolution.Category,
		resolution.Status,
		resolution.TargetDate,
		resolution.Progress,
		resolution.UpdatedAt,
		resolution.ID,
		resolution.UserID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrResolutionNotFound
	}

	return nil
}

func (r *resolutionRepository) Delete(userID, resolutionID string) error {
	query := `DELETE FROM resolutions WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, resolutionID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrResolutionNotFound
	}

	return nil
}
