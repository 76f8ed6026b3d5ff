package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/highlow/internal/models"
)

const userColumns = `id, user_name, password, bank, administrator`

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sql.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.UserName, &u.Password, &u.Bank, &u.Administrator); err != nil {
		return nil, err
	}
	return u, nil
}

// ==========================
// Create User
// ==========================

// Create inserts a user whose password is already hashed. Bank and
// administrator come from the caller; the id is assigned by the database.
func (r *UserRepo) Create(ctx context.Context, u models.User) (*models.User, error) {
	query := `
		INSERT INTO highlow_users (user_name, password, bank, administrator)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, u.UserName, u.Password, u.Bank, u.Administrator))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM highlow_users WHERE id = $1`

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, userName string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM highlow_users WHERE user_name = $1`

	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user by name: %w", err)
	}
	return user, nil
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM highlow_users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ==========================
// Update User
// ==========================

// Update writes the non-nil fields of upd. An empty update is a no-op.
func (r *UserRepo) Update(ctx context.Context, id int, upd models.UserUpdate) error {
	if upd.Empty() {
		return nil
	}

	var sets []string
	var args []interface{}
	if upd.UserName != nil {
		args = append(args, *upd.UserName)
		sets = append(sets, fmt.Sprintf("user_name = $%d", len(args)))
	}
	if upd.Bank != nil {
		args = append(args, *upd.Bank)
		sets = append(sets, fmt.Sprintf("bank = $%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE highlow_users SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update user %d: %w", id, err)
	}
	return requireRow(result)
}

// ==========================
// Delete User
// ==========================
func (r *UserRepo) Delete(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM highlow_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *UserRepo) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
