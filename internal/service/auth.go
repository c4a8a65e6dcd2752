package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/store"
	"github.com/Dan9191/finance-service/internal/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// DefaultAccountName names the cash account seeded at registration and used by imports
const DefaultAccountName = "Cash"

// defaultCategories are seeded for every new user
var defaultCategories = []models.Category{
	{Name: "Salary", Type: models.Income, Icon: "wallet"},
	{Name: "Freelance", Type: models.Income, Icon: "briefcase"},
	{Name: "Food & Drinks", Type: models.Expense, Icon: "utensils"},
	{Name: "Transportation", Type: models.Expense, Icon: "gas-pump"},
	{Name: "Entertainment", Type: models.Expense, Icon: "film"},
	{Name: "Bills", Type: models.Expense, Icon: "file-invoice"},
	{Name: "Shopping", Type: models.Expense, Icon: "shopping-cart"},
	{Name: "Health", Type: models.Expense, Icon: "notes-medical"},
}

// RegisterInput is the registration request body
type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) validate() error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" {
		return validationf("full_name is required")
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if len(in.Password) < minPasswordLength {
		return validationf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationf("email is invalid")
	}
	return nil
}

// ProfileInput updates the caller's profile. Empty fields are left unchanged.
type ProfileInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user with hashed password, a default cash account and default categories
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
	}

	err = s.store.WithTx(ctx, func(st store.Store) error {
		if err := st.CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return conflictf("email is already registered")
			}
			return err
		}
		account := &models.Account{
			UserID:         user.ID,
			Name:           DefaultAccountName,
			Type:           models.AccountCash,
			OpeningBalance: decimal.Zero,
		}
		if err := st.CreateAccount(ctx, account); err != nil {
			return err
		}
		for _, c := range defaultCategories {
			c.UserID = user.ID
			if err := st.CreateCategory(ctx, &c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "register", "user", 0, err)
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, validationf("email and password are required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Kind: ErrUnauthorized, Message: "invalid credentials"}
		}
		return nil, s.fail(ctx, "login", "user", 0, err)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &Error{Kind: ErrUnauthorized, Message: "invalid credentials"}
	}

	token, err := utils.GenerateToken(user.ID, s.config.JWTSecret, s.config.JWTTTL)
	if err != nil {
		return nil, err
	}

	s.log.Infof("User logged in: %s", user.Email)
	return &models.LoginResult{Token: token, User: *user}, nil
}

// Profile returns the caller's user record
func (s *Service) Profile(ctx context.Context, ownerID int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "get", "user", ownerID, err)
	}
	return user, nil
}

// UpdateProfile changes name, email or password of the caller
func (s *Service) UpdateProfile(ctx context.Context, ownerID int64, in ProfileInput) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, s.fail(ctx, "get", "user", ownerID, err)
	}

	if name := strings.TrimSpace(in.FullName); name != "" {
		user.FullName = name
	}
	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" {
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLength {
			return nil, validationf("password must be at least %d characters", minPasswordLength)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, conflictf("email is already registered")
		}
		return nil, s.fail(ctx, "update", "user", ownerID, err)
	}

	s.log.WithField("owner", ownerID).Info("Profile updated")
	return user, nil
}
