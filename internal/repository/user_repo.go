package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siddik-official/evolution-gadget/internal/apperr"
	"github.com/siddik-official/evolution-gadget/internal/model"
	"github.com/siddik-official/evolution-gadget/internal/query"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, role, is_active, phone, avatar,
	addr_street, addr_city, addr_state, addr_country, addr_zip,
	created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var street, city, state, country, zip *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.Phone, &u.Avatar,
		&street, &city, &state, &country, &zip, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if street != nil {
		u.Address = &model.Address{Street: *street, City: *city, State: *state, Country: *country, ZipCode: *zip}
	}
	return &u, nil
}

// Create inserts a new user with an already-hashed password and returns
// the stored record. Email uniqueness is enforced by the database.
func (r *UserRepository) Create(ctx context.Context, name, email, passwordHash string, role model.Role) (*model.User, error) {
	q := `INSERT INTO users (name, email, password_hash, role) VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	return scanUser(r.DB.QueryRow(ctx, q, name, email, passwordHash, role))
}

// GetByID fetches a user excluding the password hash.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRow(ctx, q, id))
	if err != nil {
		return nil, notFound(err, "USER_NOT_FOUND", "User not found")
	}
	return u, nil
}

// GetByEmail fetches a user including the password hash, for login.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	q := `SELECT password_hash, ` + userColumns + ` FROM users WHERE email = $1`
	var u model.User
	var street, city, state, country, zip *string
	err := r.DB.QueryRow(ctx, q, email).Scan(&u.PasswordHash,
		&u.ID, &u.Name, &u.Email, &u.Role, &u.IsActive, &u.Phone, &u.Avatar,
		&street, &city, &state, &country, &zip, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "USER_NOT_FOUND", "User not found")
	}
	if street != nil {
		u.Address = &model.Address{Street: *street, City: *city, State: *state, Country: *country, ZipCode: *zip}
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := r.DB.QueryRow(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// UpdateProfile applies only the supplied fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name, phone, avatar *string, addr *model.Address) (*model.User, error) {
	q := `UPDATE users SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			avatar = COALESCE($4, avatar),
			addr_street = COALESCE($5, addr_street),
			addr_city = COALESCE($6, addr_city),
			addr_state = COALESCE($7, addr_state),
			addr_country = COALESCE($8, addr_country),
			addr_zip = COALESCE($9, addr_zip),
			updated_at = $10
		WHERE id = $1
		RETURNING ` + userColumns
	var street, city, state, country, zip *string
	if addr != nil {
		street, city, state, country, zip = &addr.Street, &addr.City, &addr.State, &addr.Country, &addr.ZipCode
	}
	u, err := scanUser(r.DB.QueryRow(ctx, q, id, name, phone, avatar, street, city, state, country, zip, time.Now()))
	if err != nil {
		return nil, notFound(err, "USER_NOT_FOUND", "User not found")
	}
	return u, nil
}

// GetPasswordHash fetches only the stored hash, for password changes.
func (r *UserRepository) GetPasswordHash(ctx context.Context, id int64) (string, error) {
	var hash string
	q := `SELECT password_hash FROM users WHERE id = $1`
	if err := r.DB.QueryRow(ctx, q, id).Scan(&hash); err != nil {
		return "", notFound(err, "USER_NOT_FOUND", "User not found")
	}
	return hash, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	q := `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.DB.Exec(ctx, q, id, passwordHash, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("USER_NOT_FOUND", "User not found")
	}
	return nil
}

// SetActive flips the soft-delete flag.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) (*model.User, error) {
	q := `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.DB.QueryRow(ctx, q, id, active, time.Now()))
	if err != nil {
		return nil, notFound(err, "USER_NOT_FOUND", "User not found")
	}
	return u, nil
}

// Delete removes the record permanently.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("USER_NOT_FOUND", "User not found")
	}
	return nil
}

// List runs one count and one fetch built from the identical predicate.
func (r *UserRepository) List(ctx context.Context, f query.UserFilters, s query.Sort, p query.Pagination) ([]model.User, int64, error) {
	b := &query.Builder{}
	f.Apply(b)
	where := b.Where()

	var total int64
	countQ := `SELECT COUNT(*) FROM users ` + where
	if err := r.DB.QueryRow(ctx, countQ, b.Args()...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQ := fmt.Sprintf(`SELECT %s FROM users %s %s %s`, userColumns, where, s.OrderBy(), b.Paginate(p))
	rows, err := r.DB.Query(ctx, listQ, b.Args()...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}
