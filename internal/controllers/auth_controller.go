package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"mtambo/internal/middleware"
	"mtambo/internal/services"
)

// AuthController handles signup, login, token refresh/logout and password
// changes.
type AuthController struct {
	accounts *services.AccountService
	identity *services.IdentityService
	tokens   *services.TokenService
}

func NewAuthController(accounts *services.AccountService, identity *services.IdentityService, tokens *services.TokenService) *AuthController {
	return &AuthController{accounts: accounts, identity: identity, tokens: tokens}
}

// Signup creates an account with its role profile and returns a token pair.
// Open to anonymous callers.
func (ctl *AuthController) Signup(c *gin.Context) {
	var input services.CreateAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := ctl.accounts.CreateAccount(input)
	if err != nil {
		respondError(c, err)
		return
	}

	pair, err := ctl.tokens.Issue(user)
	if err != nil {
		logrus.WithError(err).Error("could not issue tokens after signup")
		respondError(c, err)
		return
	}

	detail, err := ctl.accounts.Detail(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"user":    detail,
	})
}

func (ctl *AuthController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	user, err := ctl.identity.Authenticate(body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	pair, err := ctl.tokens.Issue(user)
	if err != nil {
		logrus.WithError(err).Error("could not issue tokens on login")
		respondError(c, err)
		return
	}

	detail, err := ctl.accounts.Detail(user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"user":    detail,
	})
}

// Refresh exchanges a refresh token for a fresh pair.
func (ctl *AuthController) Refresh(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	pair, err := ctl.tokens.Refresh(body.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout blacklists the presented refresh token.
func (ctl *AuthController) Logout(c *gin.Context) {
	var body struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	if err := ctl.tokens.Blacklist(body.Refresh); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

// ChangePassword replaces the caller's password after verifying the old one.
func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var body struct {
		OldPassword        string `json:"old_password" binding:"required"`
		NewPassword        string `json:"new_password" binding:"required"`
		ConfirmNewPassword string `json:"confirm_new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	user := middleware.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := ctl.identity.ChangePassword(user, body.OldPassword, body.NewPassword, body.ConfirmNewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}
