package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"foodiq-go/internal/db"
)

const (
	RoleCanteen = "canteen"
	RoleNGO     = "ngo"
)

// tokenBytes gives 128 bits of entropy per bearer token.
const tokenBytes = 16

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=canteen ngo"`
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"userId"`
	Role    string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
	Name   string `json:"name"`
}

func NormalizeEmail(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return s
}

func HashPassword(pw string) (string, error) {
	if pw == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(hash string, pw string) bool {
	if hash == "" || pw == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// NewToken returns a random hex-encoded bearer token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (a *App) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(strings.ToLower(in.Role))
	if in.Role == "" {
		in.Role = RoleCanteen
	}
	if err := a.validateStruct(in); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := NewToken()
	if err != nil {
		return nil, fmt.Errorf("new token: %w", err)
	}

	id, err := a.store.Q.CreateUser(ctx, db.CreateUserParams{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Name:         in.Name,
		Location:     strings.TrimSpace(in.Location),
		Phone:        strings.TrimSpace(in.Phone),
		Token:        token,
	})
	if errors.Is(err, db.ErrDuplicate) {
		return nil, newError(ErrConflict, "email already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	a.log.Info("user registered", "user_id", id, "role", in.Role)
	return &RegisterResult{Message: "User registered", Token: token, UserID: id, Role: in.Role}, nil
}

// Login checks credentials and rotates the user's token.
func (a *App) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrAuth
	}

	u, err := a.store.Q.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || !CheckPassword(u.PasswordHash, in.Password) {
		return nil, ErrAuth
	}

	token, err := NewToken()
	if err != nil {
		return nil, fmt.Errorf("new token: %w", err)
	}
	if err := a.store.Q.SetUserToken(ctx, u.ID, token); err != nil {
		return nil, fmt.Errorf("set token: %w", err)
	}

	return &LoginResult{Token: token, UserID: u.ID, Role: u.Role, Name: u.Name}, nil
}

// ResolveToken maps a bearer token to its user, or ErrAuth.
func (a *App) ResolveToken(ctx context.Context, token string) (*db.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrAuth
	}
	u, err := a.store.Q.GetUserByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("get user by token: %w", err)
	}
	if u == nil {
		return nil, ErrAuth
	}
	return u, nil
}

// Profile loads the stored user row for id.
func (a *App) Profile(ctx context.Context, userID int64) (*db.User, error) {
	u, err := a.store.Q.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, newError(ErrNotFound, "user %d not found", userID)
	}
	return u, nil
}
