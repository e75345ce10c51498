package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/nexaddo/ten-week-AI-resolution-project-sub001/internal/model"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	// Upsert creates the user on first login and otherwise refreshes the
	// provider-supplied identity fields. Role is never changed by an upsert.
	Upsert(user *model.User) (*model.User, error)
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	Count() (int, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Upsert is a single statement so concurrent first logins for the same email
// converge on one row instead of racing a lookup against an insert.
func (r *userRepository) Upsert(user *model.User) (*model.User, error) {
	now := time.Now().UTC()

	id := user.ID
	if id == "" {
		id = uuid.New().String()
	}
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	query := `INSERT INTO users (id, email, first_name, last_name, profile_image_url, role, provider, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (email) DO UPDATE
	          SET first_name = excluded.first_name,
	              last_name = excluded.last_name,
	              profile_image_url = excluded.profile_image_url,
	              updated_at = excluded.updated_at
	          RETURNING *`

	saved := &model.User{}
	err := r.db.Get(saved, query,
		id,
		user.Email,
		user.FirstName,
		user.LastName,
		user.ProfileImageURL,
		role,
		user.Provider,
		now,
		now,
	)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
