package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"acmeledger/internal/common"
	"acmeledger/internal/models"

	"github.com/jackc/pgx/v5"
)

const (
	insertUserSQL       = `INSERT INTO users (id, username, password_hash, roles, active, created_at) VALUES ($1, $2, $3, $4::jsonb, $5, $6)`
	selectUserSQL       = `SELECT id, username, password_hash, roles, active, created_at FROM users WHERE id = $1`
	selectUserByNameSQL = `SELECT id, username, password_hash, roles, active, created_at FROM users WHERE username = $1`
	listUsersSQL        = `SELECT id, username, password_hash, roles, active, created_at FROM users ORDER BY created_at ASC`
	deleteUserSQL       = `DELETE FROM users WHERE id = $1`

	updateUserSQL = `
		UPDATE users
		SET username = COALESCE($2, username),
			password_hash = COALESCE($3, password_hash),
			roles = COALESCE($4::jsonb, roles),
			active = COALESCE($5, active)
		WHERE id = $1
		RETURNING id, username, password_hash, roles, active, created_at`
)

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	roles, err := json.Marshal(nonNilRoles(user.Roles))
	if err != nil {
		return common.StoreError("encode roles", err)
	}
	_, err = r.db.Exec(ctx, insertUserSQL, user.ID, user.Username, user.PasswordHash, string(roles), user.Active, user.CreatedAt)
	if isUniqueViolation(err) {
		return common.Conflict("User already exists")
	}
	return common.StoreError("create user", err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUserSQL, id)
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, selectUserByNameSQL, username)
}

func (r *userRepo) getOne(ctx context.Context, query, key string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound("User not found")
	}
	if err != nil {
		return nil, common.StoreError("load user", err)
	}
	return user, nil
}

func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, listUsersSQL)
	if err != nil {
		return nil, common.StoreError("list users", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, common.StoreError("scan user", err)
		}
		users = append(users, user)
	}
	return users, common.StoreError("list users", rows.Err())
}

func (r *userRepo) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	var roles *string
	if patch.Roles != nil {
		raw, err := json.Marshal(nonNilRoles(*patch.Roles))
		if err != nil {
			return nil, common.StoreError("encode roles", err)
		}
		s := string(raw)
		roles = &s
	}

	user, err := scanUser(r.db.QueryRow(ctx, updateUserSQL, id, patch.Username, patch.PasswordHash, roles, patch.Active))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, common.NotFound("User not found")
	case isUniqueViolation(err):
		return nil, common.Conflict("User already exists")
	case err != nil:
		return nil, common.StoreError("update user", err)
	}
	return user, nil
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, deleteUserSQL, id)
	if err != nil {
		return common.StoreError("delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("User not found")
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user models.User
		raw  []byte
	)
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &raw, &user.Active, &user.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSONArray(raw, &user.Roles); err != nil {
		return nil, err
	}
	user.Roles = nonNilRoles(user.Roles)
	return &user, nil
}

func nonNilRoles(roles []string) []string {
	if roles == nil {
		return []string{}
	}
	return roles
}
