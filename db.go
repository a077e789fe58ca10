package main

import (
	"log/slog"
	"os"
	"strings"

	"chitieu/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		slog.Error("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
		os.Exit(1)
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("failed to connect postgres database", "err", err)
		os.Exit(1)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			slog.Warn("migration warning (roles)", "err", err)
		}
	}
	seedRoles()

	// Now migrate the rest (users get FK to roles, transactions to users,
	// attachments to transactions). Migrate models individually so a failure
	// on one doesn't block others.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.User{}); err != nil {
			slog.Warn("migration warning (users)", "err", err)
		}
		if err := db.AutoMigrate(&models.Transaction{}); err != nil {
			slog.Warn("migration warning (transactions)", "err", err)
		}
		if err := db.AutoMigrate(&models.Attachment{}); err != nil {
			slog.Warn("migration warning (attachments)", "err", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			slog.Warn("migration warning (refresh_tokens)", "err", err)
		}
	}

	seedDB()
}

func seedRoles() {
	roles := []models.Role{{Name: "administrator", Description: "full access"}, {Name: "user", Description: "regular user"}}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			slog.Warn("failed to find administrator role", "err", err)
		}
		rid := role.ID
		admin := models.User{
			Name:   "Administrator",
			Email:  "admin@example.com",
			RoleID: &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		slog.Info("seeded admin user", "email", "admin@example.com")
	}
	ensureUploadBase()
}

// ensureUploadBase creates the base directory for attachment files.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		slog.Warn("failed to create upload base dir", "dir", base, "err", err)
	}
}

// uploadBaseDir returns the base directory for attachment files (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
