package services

import (
	"database/sql"
	"fmt"

	"github.com/avelin/snapfeed-be/internal/auth"
	"github.com/avelin/snapfeed-be/internal/database"
	"github.com/avelin/snapfeed-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	GetByID(id int64) (models.User, error)
	GetByUsername(username string) (models.User, error)
	List() ([]models.User, error)
	UpdateProfile(id int64, bio, profilePic string) error
	SetAdmin(id int64) error
	Delete(actorID, targetID int64) (models.User, error)
}

// UserService provides business logic for account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = "id, username, password_hash, bio, profile_pic, is_admin, created_at"

// scanUser reads one user row. bio and profile_pic are nullable in the schema
// but plain strings on the model.
func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var (
		user       models.User
		bio        sql.NullString
		profilePic sql.NullString
	)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &bio, &profilePic, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		return models.User{}, err
	}
	user.Bio = bio.String
	user.ProfilePic = profilePic.String
	return user, nil
}

// Register creates a new account with a hashed password. Uniqueness of the
// username is enforced by the storage layer, so two racing registrations can
// never both succeed.
func (s *UserService) Register(username, password string) (models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var id int64
	err = withBusyRetry(func() error {
		res, err := s.db.Exec("INSERT INTO users (username, password_hash) VALUES (?, ?)", username, hash)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, models.ErrDuplicateUsername
		}
		return models.User{}, err
	}

	user, err := s.GetByID(id)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// Authenticate verifies a user's credentials. A wrong username and a wrong
// password both come back as ErrNotAuthenticated.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.GetByUsername(username)
	if err != nil {
		return models.User{}, models.ErrNotAuthenticated
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, models.ErrNotAuthenticated
	}
	user.PasswordHash = ""
	return user, nil
}

// GetByID retrieves a single user by their ID.
func (s *UserService) GetByID(id int64) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// GetByUsername retrieves a single user by their username, including the
// password hash.
func (s *UserService) GetByUsername(username string) (models.User, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE username = ?", username)
	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

// List returns all users ordered by id.
func (s *UserService) List() ([]models.User, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = ""
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateProfile overwrites both profile fields unconditionally; an empty string
// clears a field. This is a full overwrite, not a partial patch.
func (s *UserService) UpdateProfile(id int64, bio, profilePic string) error {
	return withBusyRetry(func() error {
		res, err := s.db.Exec("UPDATE users SET bio = ?, profile_pic = ? WHERE id = ?", bio, profilePic, id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// SetAdmin grants the admin role. Promoting an existing admin is a no-op.
func (s *UserService) SetAdmin(id int64) error {
	return withBusyRetry(func() error {
		res, err := s.db.Exec("UPDATE users SET is_admin = 1 WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
}

// Delete removes the target account and, through the foreign key cascade, all
// of its posts. Admins cannot delete themselves. The deleted record is
// returned so callers can clean up the target's sessions.
func (s *UserService) Delete(actorID, targetID int64) (models.User, error) {
	if actorID == targetID {
		return models.User{}, models.ErrSelfDeleteForbidden
	}

	target, err := s.GetByID(targetID)
	if err != nil {
		return models.User{}, err
	}

	err = withBusyRetry(func() error {
		res, err := s.db.Exec("DELETE FROM users WHERE id = ?", targetID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	target.PasswordHash = ""
	return target, nil
}
