package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/domain"
	"storefront_admin/internal/usecase"
)

type UserHandler struct {
	useCase usecase.UserUseCase
	log     *logrus.Logger
}

func NewUserHandler(uc usecase.UserUseCase, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("", h.ListUsers)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.useCase.FetchAll(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list users: %v", err)
		useCaseError(c, err, "Failed to retrieve users")
		return
	}
	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var in domain.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Errorf("Failed to bind JSON for create user: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Errorf("Failed to create user %s: %v", in.Email, err)
		useCaseError(c, err, "Failed to create user")
		return
	}
	SuccessResponse(c, http.StatusCreated, "User created successfully", created)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var in domain.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Errorf("Failed to bind JSON for update user ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.Update(c.Request.Context(), id, in)
	if err != nil {
		h.log.Errorf("Failed to update user ID %d: %v", id, err)
		useCaseError(c, err, "Failed to update user")
		return
	}
	SuccessResponse(c, http.StatusOK, "User updated successfully", updated)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.useCase.Remove(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete user ID %d: %v", id, err)
		useCaseError(c, err, "Failed to delete user")
		return
	}
	SuccessResponse(c, http.StatusOK, "User deleted successfully", nil)
}
