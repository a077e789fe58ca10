package main

import (
	"errors"
	"fmt"
	"strings"

	"chitieu/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmailTaken marks the one registration failure callers report as a
// conflict rather than a server error.
var ErrEmailTaken = errors.New("email already in use")

// normalizeEmail is the canonical form stored and matched everywhere an
// email enters the system. The users.email unique index assumes it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates an account with the default "user" role and returns it.
func RegisterUser(name, email, password string) (models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return models.User{}, fmt.Errorf("name required")
	}
	if email == "" {
		return models.User{}, fmt.Errorf("email required")
	}
	if len(password) < 6 { // basic password policy
		return models.User{}, fmt.Errorf("password too short (min 6)")
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return models.User{}, ErrEmailTaken
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	// ensure role exists (idempotent)
	var role models.Role
	if err := db.Where("name = ?", "user").First(&role).Error; err != nil {
		role = models.Role{Name: "user", Description: "regular user"}
		if err2 := db.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err2 != nil {
			return models.User{}, fmt.Errorf("failed to ensure user role: %v", err2)
		}
	}
	rid := role.ID
	user := models.User{Name: name, Email: email, HashedPassword: hashedPassword, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race condition after initial check
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate checks email + password and returns the matching user.
// The error is deliberately identical for unknown email and wrong password.
func Authenticate(email, password string) (models.User, error) {
	email = normalizeEmail(email)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid credentials")
	}
	return user, nil
}

// ChangePassword verifies the current password before storing a new hash.
func ChangePassword(user *models.User, current, next string) error {
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(current)); err != nil {
		return fmt.Errorf("current password is incorrect")
	}
	if len(next) < 6 {
		return fmt.Errorf("password too short (min 6)")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	return db.Model(user).Update("hashed_password", hashed).Error
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "already exists")
}

// roleName resolves the role label stored in JWT claims. Empty when unset.
func roleName(user *models.User) string {
	if user.RoleID == nil {
		return ""
	}
	var r models.Role
	if err := db.First(&r, *user.RoleID).Error; err != nil {
		return ""
	}
	return r.Name
}
