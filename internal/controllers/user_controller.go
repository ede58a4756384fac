package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mtambo/internal/middleware"
	"mtambo/internal/services"
)

// UserController exposes account retrieval and mutation within the caller's
// visible scope.
type UserController struct {
	accounts *services.AccountService
}

func NewUserController(accounts *services.AccountService) *UserController {
	return &UserController{accounts: accounts}
}

// List returns every visible user as a detail view. Staff and superusers
// see all accounts.
func (ctl *UserController) List(c *gin.Context) {
	caller := middleware.CallerFrom(c)

	users, err := ctl.accounts.VisibleUsers(caller)
	if err != nil {
		respondError(c, err)
		return
	}

	details := make([]*services.UserDetail, 0, len(users))
	for i := range users {
		detail, err := ctl.accounts.Detail(&users[i])
		if err != nil {
			respondError(c, err)
			return
		}
		details = append(details, detail)
	}
	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (ctl *UserController) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := ctl.accounts.GetUser(middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := ctl.accounts.Detail(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (ctl *UserController) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var input services.UpdateAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := ctl.accounts.UpdateAccount(middleware.CallerFrom(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := ctl.accounts.Detail(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (ctl *UserController) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := ctl.accounts.DeleteAccount(middleware.CallerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
