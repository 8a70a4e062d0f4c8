// Package account implements registration, login and profile management on
// top of the user store.
package account

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"tacticalapi/internal/apperr"
	"tacticalapi/internal/auth"
	"tacticalapi/internal/config"
	"tacticalapi/internal/models"
	"tacticalapi/internal/store"
)

const (
	MinPasswordLen   = 6
	MinUsernameLen   = 3
	MaxUsernameLen   = 20
	DefaultPageLimit = 10
)

var errUsernameLength = apperr.Validation(fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLen, MaxUsernameLen))

// checkUsername applies the length bounds to an already trimmed username.
func checkUsername(username string) error {
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		return errUsernameLength
	}
	return nil
}

var (
	errUserNotFound       = apperr.NotFound("User not found")
	errInvalidCredentials = apperr.Unauthenticated("Invalid email or password")
)

type Service struct {
	users  store.UserStore
	issuer *auth.Issuer
	lg     *zap.SugaredLogger
	now    func() time.Time
}

func NewService(users store.UserStore, issuer *auth.Issuer, lg *zap.SugaredLogger) *Service {
	return &Service{users: users, issuer: issuer, lg: lg, now: time.Now}
}

// Session is a user together with a freshly issued token.
type Session struct {
	User  *models.User
	Token string
}

type Registration struct {
	User   *models.User
	APIKey string
	Token  string
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*Registration, error) {
	username = strings.TrimSpace(username)
	if err := checkUsername(username); err != nil {
		return nil, err
	}
	taken, err := s.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, apperr.Internal("Error registering user", err)
	}
	if taken {
		return nil, apperr.Conflict("User already exists with that email or username")
	}

	u, err := models.NewUser(username, email, password)
	if err != nil {
		return nil, apperr.Internal("Error registering user", err)
	}
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return nil, apperr.Internal("Error registering user", err)
	}
	u.APIKey = &key

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, apperr.Conflict("User already exists with that email or username")
		}
		return nil, apperr.Internal("Error registering user", err)
	}
	tok, err := s.issuer.Issue(u.Identity())
	if err != nil {
		return nil, apperr.Internal("Error registering user", err)
	}
	s.lg.Infow("user registered", "user_id", u.ID, "username", u.Username)
	return &Registration{User: u, APIKey: key, Token: tok}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Internal("Error logging in", err)
	}
	if !u.CheckPassword(password) {
		return nil, errInvalidCredentials
	}

	now := s.now().UTC()
	u.LastLogin = &now
	if err := s.users.Update(ctx, u); err != nil {
		return nil, apperr.Internal("Error logging in", err)
	}
	tok, err := s.issuer.Issue(u.Identity())
	if err != nil {
		return nil, apperr.Internal("Error logging in", err)
	}
	return &Session{User: u, Token: tok}, nil
}

func (s *Service) get(ctx context.Context, id, failMsg string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, apperr.Internal(failMsg, err)
	}
	return u, nil
}

func (s *Service) APIKey(ctx context.Context, userID string) (string, error) {
	u, err := s.get(ctx, userID, "Error getting API key")
	if err != nil {
		return "", err
	}
	if u.APIKey == nil {
		return "", nil
	}
	return *u.APIKey, nil
}

// RegenerateAPIKey replaces the stored key; the previous one stops matching immediately.
func (s *Service) RegenerateAPIKey(ctx context.Context, userID string) (string, error) {
	u, err := s.get(ctx, userID, "Error regenerating API key")
	if err != nil {
		return "", err
	}
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return "", apperr.Internal("Error regenerating API key", err)
	}
	u.APIKey = &key
	if err := s.users.Update(ctx, u); err != nil {
		return "", apperr.Internal("Error regenerating API key", err)
	}
	return key, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.get(ctx, userID, "Error getting user profile")
}

// ProfileUpdate carries the self-service editable fields. Empty means unchanged.
type ProfileUpdate struct {
	Username string
	Email    string
}

func (s *Service) UpdateMe(ctx context.Context, userID string, upd ProfileUpdate) (*models.User, error) {
	const failMsg = "Error updating profile"
	u, err := s.get(ctx, userID, failMsg)
	if err != nil {
		return nil, err
	}

	if email := models.NormalizeEmail(upd.Email); email != "" && email != u.Email {
		if taken, err := s.taken(ctx, s.users.FindByEmail, email, failMsg); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Validation("Email already in use")
		}
		u.Email = email
	}
	if username := strings.TrimSpace(upd.Username); username != "" && username != u.Username {
		if err := checkUsername(username); err != nil {
			return nil, err
		}
		if taken, err := s.taken(ctx, s.users.FindByUsername, username, failMsg); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Validation("Username already in use")
		}
		u.Username = username
	}

	if err := s.save(ctx, u, failMsg); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) taken(ctx context.Context, find func(context.Context, string) (*models.User, error), v, failMsg string) (bool, error) {
	_, err := find(ctx, v)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, apperr.Internal(failMsg, err)
	}
}

func (s *Service) save(ctx context.Context, u *models.User, failMsg string) error {
	err := s.users.Update(ctx, u)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return errUserNotFound
	case errors.Is(err, store.ErrDuplicateKey):
		return apperr.Conflict("Username or email already in use")
	default:
		return apperr.Internal(failMsg, err)
	}
}

func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current password and new password are required")
	}
	if len(next) < MinPasswordLen {
		return apperr.Validation("New password must be at least 6 characters long")
	}
	const failMsg = "Error updating password"
	u, err := s.get(ctx, userID, failMsg)
	if err != nil {
		return err
	}
	if !u.CheckPassword(current) {
		return apperr.Unauthenticated("Current password is incorrect")
	}
	if err := u.SetPassword(next); err != nil {
		return apperr.Internal(failMsg, err)
	}
	return s.save(ctx, u, failMsg)
}

func (s *Service) LinkDiscord(ctx context.Context, userID, discordID string) error {
	discordID = strings.TrimSpace(discordID)
	if discordID == "" {
		return apperr.Validation("Discord ID is required")
	}
	const failMsg = "Error linking Discord account"
	owner, err := s.users.FindByDiscordID(ctx, discordID)
	switch {
	case err == nil && owner.ID != userID:
		return apperr.Validation("Discord ID is already linked to another account")
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return apperr.Internal(failMsg, err)
	}
	u, err := s.get(ctx, userID, failMsg)
	if err != nil {
		return err
	}
	u.DiscordID = &discordID
	return s.save(ctx, u, failMsg)
}

type Page struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

// List pages through all users. Non-positive page and limit fall back to 1 and 10.
func (s *Service) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	users, err := s.users.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, apperr.Internal("Error getting users", err)
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperr.Internal("Error getting users", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return &Page{
		Users: users,
		Total: total,
		Page:  page,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.get(ctx, id, "Error getting user")
}

// AdminUpdate carries the fields an administrator may change. Nil means unchanged.
type AdminUpdate struct {
	Username    *string
	Email       *string
	IsAdmin     *bool
	IsBotOwner  *bool
	AccessLevel *int
}

func (s *Service) AdminUpdate(ctx context.Context, id string, upd AdminUpdate) (*models.User, error) {
	const failMsg = "Error updating user"
	if upd.AccessLevel != nil && (*upd.AccessLevel < models.AccessBasic || *upd.AccessLevel > models.AccessAdmin) {
		return nil, apperr.Validation("Access level must be between 1 and 3")
	}
	u, err := s.get(ctx, id, failMsg)
	if err != nil {
		return nil, err
	}
	if upd.Username != nil && strings.TrimSpace(*upd.Username) != "" {
		username := strings.TrimSpace(*upd.Username)
		if err := checkUsername(username); err != nil {
			return nil, err
		}
		u.Username = username
	}
	if upd.Email != nil && models.NormalizeEmail(*upd.Email) != "" {
		u.Email = models.NormalizeEmail(*upd.Email)
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
	if upd.IsBotOwner != nil {
		u.IsBotOwner = *upd.IsBotOwner
	}
	if upd.AccessLevel != nil {
		u.AccessLevel = *upd.AccessLevel
	}
	if err := s.save(ctx, u, failMsg); err != nil {
		return nil, err
	}
	s.lg.Infow("user updated by admin", "user_id", u.ID)
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.users.Delete(ctx, id)
	switch {
	case err == nil:
		s.lg.Infow("user deleted", "user_id", id)
		return nil
	case errors.Is(err, store.ErrNotFound):
		return errUserNotFound
	default:
		return apperr.Internal("Error deleting user", err)
	}
}

// EnsureAdmin creates the seed administrator when credentials are configured
// and neither its username nor email exists yet.
func (s *Service) EnsureAdmin(ctx context.Context, seed config.AdminSeed) (bool, error) {
	if seed.Email == "" || seed.Password == "" {
		return false, nil
	}
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, seed.Username, seed.Email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	u, err := models.NewUser(seed.Username, seed.Email, seed.Password)
	if err != nil {
		return false, err
	}
	u.IsAdmin = true
	u.IsBotOwner = true
	u.AccessLevel = models.AccessAdmin
	key, err := auth.GenerateAPIKey()
	if err != nil {
		return false, err
	}
	u.APIKey = &key
	if err := s.users.Create(ctx, u); err != nil {
		return false, err
	}
	s.lg.Infow("seeded default admin", "email", u.Email)
	return true, nil
}
