package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

const adminColumns = `id, email, password_hash, role, created_at`

func (r *adminRepository) Create(ctx context.Context, account *model.AdminAccount) error {
	query := `
		INSERT INTO admin_users (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = r.now()

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", translate(err))
	}
	return nil
}

func (r *adminRepository) Get(ctx context.Context, id uuid.UUID) (*model.AdminAccount, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE id = $1`

	var account model.AdminAccount
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, fmt.Errorf("failed to get admin user: %w", translate(err))
	}
	return &account, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.AdminAccount, error) {
	query := `SELECT ` + adminColumns + ` FROM admin_users WHERE lower(email) = lower($1)`

	var account model.AdminAccount
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, fmt.Errorf("failed to get admin user by email: %w", translate(err))
	}
	return &account, nil
}
