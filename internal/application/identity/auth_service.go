package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yoquet/backend/internal/domain/identity"
	"github.com/yoquet/backend/internal/domain/shared"
	"github.com/yoquet/backend/internal/infrastructure/auth"
)

// Mailer delivers transactional mail. The only message today is the
// password-reset link.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// AuthService handles registration, login and token lifecycle
type AuthService struct {
	users       identity.UserRepository
	jwt         *auth.JWTService
	blacklist   auth.TokenBlacklist
	mailer      Mailer
	frontendURL string
	logger      *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	users identity.UserRepository,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
	mailer Mailer,
	frontendURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		jwt:         jwt,
		blacklist:   blacklist,
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Register creates a new account and returns it logged in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if taken, err := s.users.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already taken")
	}
	if taken, err := s.users.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
	)
	return s.authResponse(user)
}

// Login verifies credentials and issues a token pair. Unknown users and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	return s.authResponse(user)
}

// Refresh exchanges a valid refresh token for a new pair. The used
// refresh token is revoked so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateToken(req.RefreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if revoked, err := s.blacklist.IsRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, shared.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

// Logout revokes both tokens of a session
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if claims, err := s.jwt.ValidateToken(accessToken, auth.TokenTypeAccess); err == nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			return err
		}
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwt.ValidateToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		// already invalid, nothing to revoke
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL())
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// RequestPasswordReset mails a reset link to the account, if one
// exists. The response is identical either way so the endpoint cannot
// be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req PasswordResetRequest) error {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.jwt.GenerateResetToken(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		return err
	}

	s.logger.Info("password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

// ConfirmPasswordReset sets a new password from a valid reset token.
// The token is single-use: it is revoked on success.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req PasswordResetConfirm) error {
	claims, err := s.jwt.ValidateToken(req.Token, auth.TokenTypeReset)
	if err != nil {
		return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset link is invalid or expired")
	}
	if revoked, err := s.blacklist.IsRevoked(ctx, claims.ID); err != nil {
		return err
	} else if revoked {
		return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset link is invalid or expired")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return shared.NewDomainError("INVALID_RESET_TOKEN", "Reset link is invalid or expired")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return err
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *AuthService) authResponse(user *identity.User) (*AuthResponse, error) {
	tokens, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toUserDTO(user), Tokens: tokens}, nil
}
