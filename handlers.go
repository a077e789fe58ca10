package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"chitieu/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	// bundled browser client + attachment files
	r.StaticFile("/", "./public/index.html")
	r.Static("/assets", "./public/assets")
	r.Static("/uploads", uploadBaseDir())

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", registerHandler)
	auth.POST("/login", loginHandler)
	auth.POST("/refresh", refreshHandler)
	auth.POST("/revoke_refresh", revokeRefreshHandler)
	authed := auth.Group("")
	authed.Use(jwtAuthMiddleware())
	authed.GET("/me", meHandler)
	authed.POST("/logout", logoutHandler)
	authed.PUT("/updateprofile", updateProfileHandler)
	authed.PUT("/updatepassword", updatePasswordHandler)

	tx := api.Group("/transactions")
	tx.Use(jwtAuthMiddleware())
	tx.POST("", createTransactionHandler)
	tx.GET("", listTransactionsHandler)
	tx.GET("/stats/summary", summaryStatsHandler)
	tx.GET("/stats/category", categoryStatsHandler)
	tx.GET("/stats/monthly", monthlyStatsHandler)
	tx.GET("/:id", getTransactionHandler)
	tx.PUT("/:id", updateTransactionHandler)
	tx.DELETE("/:id", deleteTransactionHandler)
	tx.POST("/:id/attachments", uploadAttachmentHandler)
	tx.DELETE("/:id/attachments/:attID", deleteAttachmentHandler)

	export := api.Group("/export")
	export.Use(jwtAuthMiddleware())
	export.GET("/pdf", exportPDFHandler)
	export.GET("/excel", exportExcelHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			respondError(c, http.StatusUnauthorized, "missing or invalid Authorization header")
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondError(c, http.StatusUnauthorized, "invalid claims")
			c.Abort()
			return
		}
		uid, _ := claims["uid"].(float64)
		if uid <= 0 {
			respondError(c, http.StatusUnauthorized, "invalid claims")
			c.Abort()
			return
		}
		c.Set("userID", uint(uid))
		if role, _ := claims["role"].(string); role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

// getUserFromContext fetches the currently authenticated user using the id set by jwtAuthMiddleware
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	idVal, _ := c.Get("userID")
	if idVal == nil {
		return nil, false
	}
	id := idVal.(uint)
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// signAccessToken issues a HS256 access token for the given user.
func signAccessToken(user *models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   user.ID,
		"email": user.Email,
		"role":  roleName(user),
		"exp":   time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

func userPayload(user *models.User) gin.H {
	return gin.H{"id": user.ID, "name": user.Name, "email": user.Email, "role": roleName(user)}
}

func registerHandler(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	user, err := RegisterUser(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			respondError(c, http.StatusConflict, err.Error())
		} else {
			respondError(c, http.StatusInternalServerError, "failed to create account")
		}
		return
	}
	sendTokenResponse(c, http.StatusCreated, &user, "registered successfully")
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	sendTokenResponse(c, http.StatusOK, &user, "login successful")
}

// sendTokenResponse issues the access + refresh token pair alongside the user payload.
func sendTokenResponse(c *gin.Context, status int, user *models.User, message string) {
	tokenString, err := signAccessToken(user, 24*time.Hour)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create refresh token")
		return
	}
	c.JSON(status, gin.H{
		"success":       true,
		"message":       message,
		"token":         tokenString,
		"refresh_token": refreshToken,
		"user":          userPayload(user),
	})
}

func meHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": userPayload(user)})
}

func updateProfileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	var req struct {
		Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
		Email *string `json:"email" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		// same canonical form as registration, or the login lookup misses
		user.Email = normalizeEmail(*req.Email)
	}
	if err := db.Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			respondError(c, http.StatusConflict, "email already in use")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "profile updated", "data": userPayload(user)})
}

func updatePasswordHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if err := ChangePassword(user, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}
	sendTokenResponse(c, http.StatusOK, user, "password changed")
}

// logoutHandler revokes the presented refresh token. Access tokens simply expire.
func logoutHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken != "" {
		if rt, err := findRefreshTokenByRaw(req.RefreshToken); err == nil {
			rt.Revoked = true
			db.Save(rt)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		respondError(c, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "user not found")
		return
	}
	tokenString, err := signAccessToken(&user, 15*time.Minute)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to rotate refresh token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		respondError(c, http.StatusNotFound, "refresh token not found")
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "failed to revoke token")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "refresh token revoked"})
}
