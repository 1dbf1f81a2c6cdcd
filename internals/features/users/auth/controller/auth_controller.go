package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/configs"
	"github.com/TheOGApplePie/wmcc-admin-dashboard/internals/features/users/auth/model"
	helper "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/helpers"
	authmw "github.com/TheOGApplePie/wmcc-admin-dashboard/internals/middlewares/auth"
)

const tokenTTL = 24 * time.Hour

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validate: validator.New()}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// POST /api/login
// Issues a 24h HS256 token, both in the body and as an httpOnly cookie
// for the browser client.
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrsToMap(err))
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var user model.AdminUserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&user, "admin_user_email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Login failed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.AdminUserPasswordHash), []byte(req.Password)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.AdminUserID.String(),
		"email": user.AdminUserEmail,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to issue token")
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    signed,
		Expires:  now.Add(tokenTTL),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token": signed,
		"expires_at":   now.Add(tokenTTL),
		"user": fiber.Map{
			"id":    user.AdminUserID,
			"email": user.AdminUserEmail,
			"name":  user.AdminUserName,
		},
	})
}

// POST /api/logout
// JWTs stay valid until expiry; logout only clears the browser cookie.
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
	return helper.JsonOK(c, "Logged out", nil)
}

// POST /api/a/change-password
func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, _ := c.Locals(authmw.LocUserID).(string)
	if userID == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidatorErrsToMap(err))
	}

	var user model.AdminUserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&user, "admin_user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.AdminUserPasswordHash), []byte(req.CurrentPassword)); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&model.AdminUserModel{}).
		Where("admin_user_id = ?", user.AdminUserID).
		Update("admin_user_password_hash", string(hash)).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	return helper.JsonUpdated(c, "Password changed", nil)
}

// GET /api/a/me
// Identity echo for the dashboard shell.
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals(authmw.LocUserID).(string)
	var user model.AdminUserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&user, "admin_user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return helper.JsonOK(c, "OK", fiber.Map{
		"id":    user.AdminUserID,
		"email": user.AdminUserEmail,
		"name":  user.AdminUserName,
	})
}
