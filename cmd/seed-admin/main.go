// seed-admin creates or updates the bootstrap admin user.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin
//
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD, with development
// defaults when unset.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/models"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@igreja.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMe!2024"
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrador"
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		user := models.User{
			Name:     name,
			Email:    email,
			Password: string(hashed),
			Role:     models.RoleAdmin,
			IsActive: true,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created admin user %q\n", email)
		return
	}

	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(map[string]any{
		"password":  string(hashed),
		"name":      name,
		"role":      models.RoleAdmin,
		"is_active": true,
	}).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated admin user %q\n", email)
}
