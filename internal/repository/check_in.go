package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

var (
	ErrCheckInNotFound = errors.New("check-in not found")
)

type CheckInRepository interface {
	Create(checkIn *model.CheckIn) error
	ByID(resolutionID, checkInID string) (*model.CheckIn, error)
	CheckIns(resolutionID string) ([]*model.CheckIn, error)
	Delete(resolutionID, checkInID string) error
	// CountSince counts check-ins across all of a user's resolutions.
	CountSince(userID string, since time.Time) (int, error)
}

type checkInRepository struct {
	db *sqlx.DB
}

func NewCheckInRepository(db *sqlx.DB) CheckInRepository {
	return &checkInRepository{db: db}
}

func (r *checkInRepository) Create(checkIn *model.CheckIn) error {
	query := `INSERT INTO check_ins (id, resolution_id, note, checked_in_on, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		checkIn.ID,
		checkIn.ResolutionID,
		checkIn.Note,
		checkIn.Date,
		checkIn.CreatedAt,
	)

	return err
}

func (r *checkInRepository) ByID(resolutionID, checkInID string) (*model.CheckIn, error) {
	checkIn := &model.CheckIn{}
	query := `SELECT * FROM check_ins WHERE id = $1 AND resolution_id = $2`

	err := r.db.Get(checkIn, query, checkInID, resolutionID)
	if err == sql.ErrNoRows {
		return nil, ErrCheckInNotFound
	}
	if err != nil {
		return nil, err
	}

	return checkIn, nil
}

func (r *checkInRepository) CheckIns(resolutionID string) ([]*model.CheckIn, error) {
	checkIns := []*model.CheckIn{}
	query := `SELECT * FROM check_ins WHERE resolution_id = $1 ORDER BY checked_in_on DESC, created_at DESC`

	err := r.db.Select(&checkIns, query, resolutionID)
	if err != nil {
		return nil, err
	}

	return checkIns, nil
}

func (r *checkInRepository) Delete(resolutionID, checkInID string) error {
	query := `DELETE FROM check_ins WHERE id = $1 AND resolution_id = $2`

	result, err := r.db.Exec(query, checkInID, resolutionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrCheckInNotFound
	}

	return nil
}

func (r *checkInRepository) CountSince(userID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM check_ins c
	          JOIN resolutions r ON r.id = c.resolution_id
	          WHERE r.user_id = $1 AND c.created_at >= $2`
	err := r.db.QueryRow(query, userID, since).Scan(&count)
	return count, err
}
