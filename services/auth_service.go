package services

import (
	"abadas_server/database"
	"abadas_server/lib"
	"abadas_server/structs"
	"abadas_server/structs/tables"
	"context"
	"errors"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type AuthService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	db     *database.DB
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, db *database.DB) *AuthService {
	return &AuthService{
		logger: logger,
		cfg:    cfg,
		db:     db,
	}
}

// Login verifies credentials and returns the user. Lookup failures and bad
// passwords both come back as ErrInvalidCredentials so responses never leak
// whether an email is registered.
func (as *AuthService) Login(ctx context.Context, req *structs.LoginRequest) (*tables.User, error) {
	user, err := database.Query[tables.User](as.db).
		Where("email", req.Email).
		First(ctx)
	if err != nil {
		mapped := lib.MapPgError(err)
		if !errors.Is(mapped, lib.ErrNotFound) {
			as.logger.Error("Unexpected database error during login",
				gecho.Field("error", mapped))
		}
		return nil, lib.ErrInvalidCredentials
	}

	if err := lib.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		as.logger.Debug("Invalid password attempt",
			gecho.Field("identifier", req.Email))
		return nil, lib.ErrInvalidCredentials
	}

	return user, nil
}

// Register creates a customer account. Duplicate emails map to ErrConflict.
func (as *AuthService) Register(ctx context.Context, req *structs.LoginRequest) (*tables.User, error) {
	hash, err := lib.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &tables.User{
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "customer",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if _, err := as.db.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err)
	}

	as.logger.Info("User registered", gecho.Field("user_id", user.Id))
	return user, nil
}

func (as *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	user, err := database.Query[tables.User](as.db).
		Where("id", id).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return user, nil
}

// IssueAccessToken signs an access token for the user with the configured
// secret and expiry.
func (as *AuthService) IssueAccessToken(user *tables.User) (string, error) {
	return lib.GenerateAccessToken(user, as.cfg.Auth.AccessTokenSecret, as.cfg.Auth.AccessTokenExpiry)
}

func (as *AuthService) AccessTokenExpiry() time.Duration {
	return as.cfg.Auth.AccessTokenExpiry
}
