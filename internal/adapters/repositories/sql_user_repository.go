package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ewaste-collection-service/internal/domain"
)

// SQL-backed implementation of the UserRepository port.
type SQLUserRepository struct{ DB *sql.DB }

func NewSQLUserRepository(db *sql.DB) *SQLUserRepository {
	return &SQLUserRepository{DB: db}
}

func (s *SQLUserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	query := `
	SELECT user_id, name, email, mobile, address, role, available_tomorrow, wallet_balance
	FROM users
	WHERE user_id = $1;
	`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", id, err)
	}
	return u, nil
}

func (s *SQLUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	query := `
	SELECT user_id, name, email, mobile, address, role, available_tomorrow, wallet_balance
	FROM users
	WHERE role = $1
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("list %s users: %w", role, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("list %s users: scan row: %w", role, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s users: row iteration: %w", role, err)
	}
	return users, nil
}

// CreditWallet relies on the database's atomic increment so concurrent
// settlements never lose a credit.
func (s *SQLUserRepository) CreditWallet(ctx context.Context, userID string, amount float64) error {
	query := `
	UPDATE users
	SET wallet_balance = wallet_balance + $1
	WHERE user_id = $2;
	`
	res, err := s.DB.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("credit wallet %q: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("credit wallet %q: rows affected: %w", userID, err)
	}
	if n == 0 {
		return fmt.Errorf("credit wallet %q: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// ResetAvailability is the nightly idempotent bulk update.
func (s *SQLUserRepository) ResetAvailability(ctx context.Context, roles []domain.Role) (int64, error) {
	raw := make([]string, 0, len(roles))
	for _, r := range roles {
		raw = append(raw, string(r))
	}

	query := `
	UPDATE users
	SET available_tomorrow = TRUE
	WHERE role = ANY($1::text[]);
	`
	res, err := s.DB.ExecContext(ctx, query, raw)
	if err != nil {
		return 0, fmt.Errorf("reset availability: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset availability: rows affected: %w", err)
	}
	return n, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u         domain.User
		available sql.NullBool
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Mobile, &u.Address, &u.Role, &available, &u.WalletBalance)
	if err != nil {
		return nil, err
	}
	if available.Valid {
		u.AvailableTomorrow = &available.Bool
	}
	return &u, nil
}
