package authController

import (
	"time"
	"trademaster/config"
	"trademaster/database"
	"trademaster/middleware"
	"trademaster/models"
	"trademaster/services"
	"trademaster/utils/logger"
	"trademaster/validators"
	authValidator "trademaster/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins   = 3
	failedLoginWindow = 15 * time.Minute
	loginBlockPeriod  = time.Minute
)

func Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.SignupRequest)
	db := database.Database.Db

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&count).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "check email"))
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "hash password"))
	}

	newUser := models.User{
		Name:     reqData.Name,
		Email:    reqData.Email,
		Role:     models.RoleUser,
		Password: string(hashedPassword),
	}

	if err := db.Create(&newUser).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "create user"))
	}

	logger.Log.Info("User registered", "user_id", newUser.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	db := database.Database.Db

	var user models.User
	err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "load user"))
	}

	now := time.Now()
	if user.Blocked(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > failedLoginWindow {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after repeated failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			unblockTime := now.Add(loginBlockPeriod)
			user.BlockedUntil = &unblockTime
			logger.Log.Warn("Account temporarily blocked", "user_id", user.ID)
		}
		if err := db.Save(&user).Error; err != nil {
			logger.Log.Error("Failed to record failed login", "user_id", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.BlockedUntil = nil
	if err := db.Save(&user).Error; err != nil {
		logger.Log.Error("Failed to save last login time", "user_id", user.ID, "error", err)
	}

	ip := c.IP()
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		ip = forwarded
	}
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get(fiber.HeaderUserAgent),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		logger.Log.Error("Failed to save login tracking", "user_id", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "sign token"))
	}

	logger.Log.Info("User logged in", "user_id", user.ID, "ip", ip)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func LoginHistoryList(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	reqData := c.Locals("validatedList").(*validators.PageQuery)

	db := database.Database.Db.Model(&models.LoginTracking{}).Where("user_id = ? AND is_deleted = ?", userID, false)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "count logins"))
	}

	var history []models.LoginTracking
	if err := db.Order("timestamp desc").Offset(reqData.Offset()).Limit(reqData.Limit).Find(&history).Error; err != nil {
		return middleware.ErrorResponse(c, services.Internal(err, "list logins"))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"loginTracking": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}
