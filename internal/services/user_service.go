package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/models"
)

type userServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	auth   AuthService
}

// NewUserService builds the admin-facing user CRUD. Creation is
// delegated to the auth service so password hashing and id
// generation live in one place.
func NewUserService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	auth AuthService,
) UserService {
	return &userServiceImpl{
		logger: logger,
		pgPool: pgPool,
		auth:   auth,
	}
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]*models.User, error) {
	const selectUsersQuery = `
SELECT id,
       name,
       email,
       role,
       is_active,
       created_at,
       updated_at
FROM users
ORDER BY name
`
	rows, err := s.pgPool.Query(ctx, selectUsersQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := new(models.User)
		err = rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Role,
			&user.IsActive,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan user")
			return nil, err
		}
		users = append(users, user)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.auth.Profile(ctx, userID)
}

func (s *userServiceImpl) CreateUser(ctx context.Context, params RegisterParams) (*models.User, error) {
	return s.auth.Register(ctx, params)
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, params UpdateUserParams) (*models.User, error) {
	user, err := s.auth.Profile(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	if params.IsActive != nil {
		user.IsActive = *params.IsActive
	}
	user.UpdatedAt = time.Now()

	const updateUserQuery = `
UPDATE users
SET name = $1,
    email = $2,
    role = $3,
    is_active = $4,
    updated_at = $5
WHERE id = $6
`
	tag, err := s.pgPool.Exec(
		ctx,
		updateUserQuery,
		user.Name,
		user.Email,
		user.Role,
		user.IsActive,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("email", user.Email).
				Msg("email already in use")
			return nil, ErrUserAlreadyExists
		}
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user")
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("updated user")

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated user")
	return user, nil
}
