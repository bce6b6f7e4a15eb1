package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/config"
	"github.com/Dev-RuiDiniz/igreja_dashboard_backend/utils"
	"gorm.io/gorm"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email" binding:"required"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'operator'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

func CreateUser(ctx context.Context, input NewUser) (*User, error) {
	db := config.GetDB()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(email) {
		return nil, errors.New("invalid email")
	}
	if err := utils.ValidateUnique[User](ctx, "email", email, 0); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = RoleOperator
	}
	switch role {
	case RoleAdmin, RoleOperator, RoleVolunteer:
	default:
		return nil, errors.New("invalid role")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials and returns a signed token.
func Authenticate(ctx context.Context, email string, password string) (*User, string, error) {
	db := config.GetDB()

	var user User
	err := db.WithContext(ctx).Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", errors.New("invalid credentials")
		}
		return nil, "", err
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	token, err := utils.JwtGenerate(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, "", err
	}

	_ = LogActionStandalone(ctx, AuditActionUserLogin, "user", user.ID, map[string]interface{}{"email": user.Email})
	return &user, token, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id)
}
