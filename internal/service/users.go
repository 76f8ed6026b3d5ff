package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crucial707/highlow/internal/auth"
	"github.com/crucial707/highlow/internal/models"
	"github.com/crucial707/highlow/internal/repo"
)

// UserStore is the persistence the directory needs. repo.UserRepo implements it
// for Postgres. Lookups return repo.ErrNotFound; unique violations return repo.ErrConflict.
type UserStore interface {
	Create(ctx context.Context, u models.User) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int, upd models.UserUpdate) error
	Delete(ctx context.Context, id int) error
}

type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}

type TokenIssuer interface {
	Issue(subject string, userID int) (string, error)
}

// LoginResult is a successful login: the user and a bearer token for it.
type LoginResult struct {
	User  *models.User
	Token string
}

// UserPatch is a profile update request. Both keys must be present; a nil
// pointer means the key was absent from the request body.
type UserPatch struct {
	UserName *string `json:"user_name"`
	Bank     *int    `json:"bank"`
}

// UserService implements registration, login and profile management.
type UserService struct {
	store  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUserService(store UserStore, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{store: store, hasher: hasher, tokens: tokens}
}

// Register creates a user after checking the password policy and that the name is free.
func (s *UserService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	if userName == "" {
		return nil, MissingFieldError("user_name")
	}
	if password == "" {
		return nil, MissingFieldError("password")
	}

	if err := auth.ValidatePassword(password); err != nil {
		return nil, ValidationError(err.Error())
	}

	taken, err := s.usernameTaken(ctx, userName, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ConflictError(MsgUsernameTaken)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Create(ctx, models.User{
		UserName: userName,
		Password: hash,
		Bank:     models.DefaultBank,
	})
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ConflictError(MsgUsernameTaken)
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token. Unknown users and wrong
// passwords produce the same error.
func (s *UserService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	if userName == "" {
		return nil, MissingFieldError("user_name")
	}
	if password == "" {
		return nil, MissingFieldError("password")
	}

	user, err := s.store.GetByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, AuthenticationError(MsgBadCredentials)
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(ctx, password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, AuthenticationError(MsgBadCredentials)
	}

	token, err := s.tokens.Issue(user.UserName, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFoundError(MsgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

// Update applies a profile patch. Only user_name (when non-empty) and bank are written.
func (s *UserService) Update(ctx context.Context, id int, patch UserPatch) error {
	if patch.UserName == nil {
		return MissingFieldError("user_name")
	}
	if patch.Bank == nil {
		return MissingFieldError("bank")
	}
	if *patch.UserName == "" && *patch.Bank == 0 {
		return ValidationError(MsgUpdateEmpty)
	}
	if *patch.Bank < 0 {
		return ValidationError(MsgNegativeBank)
	}

	upd := models.UserUpdate{Bank: patch.Bank}
	if *patch.UserName != "" {
		taken, err := s.usernameTaken(ctx, *patch.UserName, id)
		if err != nil {
			return err
		}
		if taken {
			return ConflictError(MsgUsernameTaken)
		}
		upd.UserName = patch.UserName
	}

	if err := s.store.Update(ctx, id, upd); err != nil {
		switch {
		case errors.Is(err, repo.ErrConflict):
			return ConflictError(MsgUsernameTaken)
		case errors.Is(err, repo.ErrNotFound):
			return NotFoundError(MsgUserNotFound)
		}
		return err
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFoundError(MsgUserNotFound)
		}
		return err
	}
	return nil
}

// usernameTaken reports whether userName belongs to a user other than exceptID.
func (s *UserService) usernameTaken(ctx context.Context, userName string, exceptID int) (bool, error) {
	existing, err := s.store.GetByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check username: %w", err)
	}
	return existing.ID != exceptID, nil
}
