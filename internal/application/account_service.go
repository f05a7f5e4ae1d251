package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/medrec/healthcare-api/internal/domain/entity"
	"github.com/medrec/healthcare-api/internal/domain/repository"
	"github.com/medrec/healthcare-api/pkg/helpers"
	"github.com/medrec/healthcare-api/pkg/mailer"
	"github.com/medrec/healthcare-api/pkg/rules"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const sessionTTL = 24 * time.Hour

// AccountService handles registration and the session lifecycle.
type AccountService struct {
	Repo        repository.UserRepository
	JWT         *helpers.JWTManager
	Redis       *redis.Client
	Logger      *logrus.Logger
	Pub         *helpers.RabbitPublisher
	MailEnabled bool
}

func NewAccountService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, pub *helpers.RabbitPublisher, mailEnabled bool) *AccountService {
	return &AccountService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger, Pub: pub, MailEnabled: mailEnabled}
}

// TokenPair is an access/refresh token pair with expiries.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Register validates the candidate, checks username/email uniqueness, and
// persists the user with a bcrypt hash. On validation failure no user is
// created and the field errors are returned.
func (s *AccountService) Register(ctx context.Context, c rules.UserCandidate) (*entity.User, rules.FieldErrors, error) {
	errs := rules.User(c)
	if !errs.Empty() {
		return nil, errs, nil
	}

	// Friendlier duplicate messages; the unique constraints stay authoritative.
	if taken, err := s.usernameTaken(ctx, c.Username); err != nil {
		return nil, nil, err
	} else if taken {
		errs.Add("username", rules.MsgUsernameTaken)
	}
	if taken, err := s.emailTaken(ctx, c.Email); err != nil {
		return nil, nil, err
	} else if taken {
		errs.Add("email", rules.MsgEmailTaken)
	}
	if !errs.Empty() {
		return nil, errs, nil
	}

	hash, err := helpers.HashPassword(c.Password)
	if err != nil {
		return nil, nil, err
	}

	u := &entity.User{Username: c.Username, Email: c.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent registration.
			return nil, s.duplicateErrors(ctx, c), nil
		}
		return nil, nil, err
	}

	s.enqueueWelcome(ctx, u)
	return u, nil, nil
}

func (s *AccountService) usernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.Repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AccountService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.Repo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *AccountService) duplicateErrors(ctx context.Context, c rules.UserCandidate) rules.FieldErrors {
	errs := rules.FieldErrors{}
	if taken, err := s.usernameTaken(ctx, c.Username); err == nil && taken {
		errs.Add("username", rules.MsgUsernameTaken)
	}
	if taken, err := s.emailTaken(ctx, c.Email); err == nil && taken {
		errs.Add("email", rules.MsgEmailTaken)
	}
	if errs.Empty() {
		errs.Add(rules.NonFieldErrors, "A user with these details already exists.")
	}
	return errs
}

func (s *AccountService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	if err := s.Pub.PublishJSON(ctx, mailer.WelcomeJob(u.Username, u.Email)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}

// Authenticate validates email/password without issuing tokens.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates an access/refresh pair and records the session in
// Redis under a fresh session id.
func (s *AccountService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := helpers.SessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Login authenticates and issues the token pair.
func (s *AccountService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Refresh rotates the token pair and session id when the refresh token's
// session still matches the one in Redis.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if s.Redis != nil {
		data, err := s.Redis.HGetAll(ctx, helpers.SessionKey(u.ID)).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, ErrInvalidCredentials
		}
	}
	return s.IssueTokens(ctx, u)
}

// Logout drops the session.
func (s *AccountService) Logout(ctx context.Context, userID string) {
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, helpers.SessionKey(userID)).Err()
	}
}

// GetProfile returns the account for the given id.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}
