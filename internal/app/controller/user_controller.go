package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/motoparts-backend/internal/app/service"
	apperrors "github.com/ikkim/motoparts-backend/internal/errors"
	"github.com/ikkim/motoparts-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register creates an account
// POST /users
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := ctrl.userService.Register(service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email is already registered")
			return
		}
		log.Error("Registration failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers returns every user
// GET /users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	users, err := ctrl.userService.ListUsers()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list users", err)
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetProfile returns the authenticated user
// GET /users/profile
func (ctrl *UserController) GetProfile(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser returns one user
// GET /users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")

	user, err := ctrl.userService.GetUserByID(id)
	if err != nil {
		ctrl.respondUserError(c, err, id, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser changes the phone number or password of a user
// PUT /users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}

	id := c.Param("id")
	user, err := ctrl.userService.UpdateUser(id, req.toInput())
	if err != nil {
		ctrl.respondUserError(c, err, id, "update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user and returns the removed record
// DELETE /users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id := c.Param("id")

	user, err := ctrl.userService.DeleteUser(id)
	if err != nil {
		ctrl.respondUserError(c, err, id, "delete user")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (ctrl *UserController) respondUserError(c *gin.Context, err error, id, operation string) {
	if errors.Is(err, service.ErrUserNotFound) {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		return
	}
	middleware.GetLoggerFromContext(c).Error("User operation failed", err, map[string]interface{}{
		"user_id":   id,
		"operation": operation,
	})
	apperrors.ParseAndRespond(c, err, operation)
}
