package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jvaldemoro/timetrack/internal/models"
)

type authServiceImpl struct {
	logger        zerolog.Logger
	pgPool        *pgxpool.Pool
	jwtIssuer     string
	jwtSigningKey []byte
	jwtTokenTTL   time.Duration
}

func NewAuthService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	jwtIssuer string,
	jwtSigningKey []byte,
	jwtTokenTTL time.Duration,
) AuthService {
	return &authServiceImpl{
		logger:        logger,
		pgPool:        pgPool,
		jwtIssuer:     jwtIssuer,
		jwtSigningKey: jwtSigningKey,
		jwtTokenTTL:   jwtTokenTTL,
	}
}

type identityClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	now := time.Now()
	user := models.User{
		Name:      params.Name,
		Email:     params.Email,
		Role:      params.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, argon2id.DefaultParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password,
                   role,
                   is_active,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return nil, ErrUserAlreadyExists
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("inserted user")

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("registered user")
	return &user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	user := models.User{Email: params.Email}

	const selectUserByEmailQuery = `
SELECT id,
       name,
       password,
       role,
       is_active
FROM users
WHERE email = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectUserByEmailQuery,
		user.Email,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Password,
		&user.Role,
		&user.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("email", user.Email).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("email", user.Email).
			Msg("failed to select user by email")
		return nil, err
	}

	if !user.IsActive {
		s.logger.Warn().
			Str("user_id", user.ID).
			Msg("inactive user attempted login")
		return nil, ErrUserInactive
	}

	match, err := argon2id.ComparePasswordAndHash(params.Password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return nil, ErrUserPasswordMismatch
	}

	now := time.Now()
	expiresAt := now.Add(s.jwtTokenTTL)
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtIssuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: user.Role,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(s.jwtSigningKey)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to sign token")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("logged in")
	return &LoginResult{
		User:      &user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authServiceImpl) Profile(ctx context.Context, userID string) (*models.User, error) {
	const selectUserQuery = `
SELECT id,
       name,
       email,
       role,
       is_active,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	user := new(models.User)
	err := s.pgPool.QueryRow(
		ctx,
		selectUserQuery,
		userID,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("user_id", userID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}

func (s *authServiceImpl) ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &identityClaims{}, func(token *jwt.Token) (any, error) {
		return s.jwtSigningKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*identityClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse token claims")
	}
	return &TokenClaims{
		UserID: claims.Subject,
		Role:   claims.Role,
	}, nil
}
