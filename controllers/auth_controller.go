package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bossppp/cozy-hotel-bookings/middleware"
	"github.com/Bossppp/cozy-hotel-bookings/services"
	"github.com/Bossppp/cozy-hotel-bookings/utils"
)

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	var payload services.RegisterInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	user, token, err := ctrl.AuthSvc.Register(c.Request.Context(), payload)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{"token": token, "user": user})
}

// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email and password required")
		return
	}

	user, token, err := ctrl.AuthSvc.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	if err := ctrl.AuthSvc.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to log out")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{})
}

// GET /api/v1/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authorized to access this route")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// PUT /api/v1/auth/updatedetails
func (ctrl *AuthController) UpdateDetails(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "not authorized to access this route")
		return
	}

	var payload services.UpdateDetailsInput
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	updated, err := ctrl.AuthSvc.UpdateDetails(c.Request.Context(), user.ID, payload)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusOK, updated)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case services.IsValidation(err):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrEmailTaken):
		utils.JSONError(c, http.StatusConflict, "email already registered")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "something went wrong")
	}
}
