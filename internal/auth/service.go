package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/stockpos/internal/users"
	pkgAuth "github.com/angelmondragon/stockpos/pkg/auth"
	"github.com/angelmondragon/stockpos/pkg/config"
	"github.com/angelmondragon/stockpos/pkg/db"
	"github.com/angelmondragon/stockpos/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stockpos/pkg/errors"
	"github.com/angelmondragon/stockpos/pkg/logger"
	"github.com/angelmondragon/stockpos/pkg/security"
	"github.com/angelmondragon/stockpos/pkg/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service verifies and rotates local credentials.
type Service interface {
	// Authenticate returns nil without error on any credential mismatch.
	Authenticate(ctx context.Context, email, password string) (*users.UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	UpdatePassword(ctx context.Context, req UpdatePasswordRequest) (bool, error)
	InitializeDefaultUser(ctx context.Context) (bool, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdatePasswordHash(ctx context.Context, email, hash string) (int64, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	PasswordConfig config.PasswordConfig
	JWTConfig      config.JWTConfig
	AuthConfig     config.AuthConfig
	Logger         *logger.Logger
	Now            func() time.Time
}

type service struct {
	users    userRepository
	password config.PasswordConfig
	jwtCfg   config.JWTConfig
	admin    config.AuthConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs the credential service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		users:    params.UserRepo,
		password: params.PasswordConfig,
		jwtCfg:   params.JWTConfig,
		admin:    params.AuthConfig,
		logg:     logg,
		now:      now,
	}, nil
}

// Authenticate verifies email and password against the active user. A legacy
// unsalted credential that verifies is re-hashed in the salted format before
// returning.
func (s *service) Authenticate(ctx context.Context, email, password string) (*users.UserDTO, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil || user == nil {
		return nil, err
	}

	if security.Detect(user.PasswordHash) == security.FormatLegacy {
		if err := s.storePassword(ctx, user.Email, password); err != nil {
			return nil, err
		}
		s.logg.Info(s.logg.WithUserID(ctx, fmt.Sprint(user.ID)), "legacy credential migrated")
	}

	at := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, db.Classify(err, "update last login")
	}
	user.LastLoginAt = &at
	return users.FromModel(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	token, expiresAt, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// UpdatePassword stores a fresh salted hash for NewPassword. It returns false
// without error when the user is unknown or CurrentPassword does not verify.
func (s *service) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) (bool, error) {
	if err := validation.Struct(&req); err != nil {
		return false, err
	}
	user, err := s.verify(ctx, req.Email, req.CurrentPassword)
	if err != nil || user == nil {
		return false, err
	}
	if err := s.storePassword(ctx, user.Email, req.NewPassword); err != nil {
		return false, err
	}
	s.logg.Info(s.logg.WithUserID(ctx, fmt.Sprint(user.ID)), "password updated")
	return true, nil
}

// InitializeDefaultUser creates the configured administrator when no user
// holds its email or username. created reports whether a row was written.
func (s *service) InitializeDefaultUser(ctx context.Context) (bool, error) {
	email := strings.TrimSpace(s.admin.AdminEmail)
	username := strings.TrimSpace(s.admin.AdminUsername)
	if email == "" || username == "" || s.admin.AdminPassword == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "default user credentials are not configured")
	}

	exists, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return false, db.Classify(err, "lookup default user")
	}
	if exists {
		return false, nil
	}

	hash, err := security.HashPassword(s.admin.AdminPassword, s.password)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if _, err := s.users.Create(ctx, users.CreateUserDTO{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}); err != nil {
		return false, db.Classify(err, "create default user")
	}
	s.logg.Info(s.logg.WithField(ctx, "username", username), "default user created")
	return true, nil
}

// verify returns the active user when password matches the stored credential
// and nil otherwise. Only store failures surface as errors.
func (s *service) verify(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, nil
	}
	user, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, db.Classify(err, "lookup user")
	}

	var valid bool
	switch security.Detect(user.PasswordHash) {
	case security.FormatSalted:
		valid, err = security.VerifyPassword(password, user.PasswordHash, s.password)
		if err != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, fmt.Sprint(user.ID)), "stored credential is malformed")
			return nil, nil
		}
	case security.FormatLegacy:
		valid = security.VerifyLegacy(password, user.PasswordHash)
	}
	if !valid {
		return nil, nil
	}
	return user, nil
}

func (s *service) storePassword(ctx context.Context, email, password string) error {
	hash, err := security.HashPassword(password, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if _, err := s.users.UpdatePasswordHash(ctx, email, hash); err != nil {
		return db.Classify(err, "update password")
	}
	return nil
}
