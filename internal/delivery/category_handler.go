package delivery

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/domain"
	"storefront_admin/internal/usecase"
)

type CategoryHandler struct {
	useCase usecase.CategoryUseCase
	log     *logrus.Logger
}

func NewCategoryHandler(uc usecase.CategoryUseCase, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterRoutes(router gin.IRouter) {
	categories := router.Group("/categories")
	{
		categories.POST("", h.CreateCategory)
		categories.GET("", h.ListCategories)
		categories.GET("/:id", h.GetCategoryByID)
		categories.PUT("/:id", h.UpdateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

type categoryForm struct {
	Name        string                `form:"name"`
	Description string                `form:"description"`
	Image       *multipart.FileHeader `form:"image"`
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// bindCategory reads a multipart category form. The returned func closes
// the image file, if any.
func (h *CategoryHandler) bindCategory(c *gin.Context) (domain.CategoryInput, func(), error) {
	var form categoryForm
	if err := c.ShouldBind(&form); err != nil {
		return domain.CategoryInput{}, func() {}, err
	}
	in := domain.CategoryInput{Name: form.Name, Description: form.Description}
	if form.Image == nil {
		return in, func() {}, nil
	}
	uploads, closeFiles, err := openUploads([]*multipart.FileHeader{form.Image})
	if err != nil {
		return domain.CategoryInput{}, func() {}, err
	}
	in.Image = &uploads[0]
	return in, closeFiles, nil
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	in, closeFiles, err := h.bindCategory(c)
	if err != nil {
		h.log.Errorf("Failed to bind form for create category: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer closeFiles()

	created, err := h.useCase.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Errorf("Failed to create category '%s': %v", in.Name, err)
		useCaseError(c, err, "Failed to create category")
		return
	}

	h.log.Infof("Category created successfully: ID %d, Name %s", created.ID, created.Name)
	SuccessResponse(c, http.StatusCreated, "Category created successfully", created)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.FetchAll(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		useCaseError(c, err, "Failed to retrieve categories")
		return
	}

	if len(categories) == 0 {
		SuccessResponse(c, http.StatusOK, "No categories found", []domain.Category{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.log.Warnf("Invalid category ID parameter: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	category, err := h.useCase.FetchByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get category by ID %d: %v", id, err)
		useCaseError(c, err, "Failed to retrieve category")
		return
	}
	SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.log.Warnf("Invalid category ID parameter for update: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	in, closeFiles, err := h.bindCategory(c)
	if err != nil {
		h.log.Errorf("Failed to bind form for update category ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer closeFiles()

	updated, err := h.useCase.Update(c.Request.Context(), id, in)
	if err != nil {
		h.log.Errorf("Failed to update category ID %d: %v", id, err)
		useCaseError(c, err, "Failed to update category")
		return
	}

	h.log.Infof("Category updated successfully: ID %d", id)
	SuccessResponse(c, http.StatusOK, "Category updated successfully", updated)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.log.Warnf("Invalid category ID parameter for delete: %s", c.Param("id"))
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	if err := h.useCase.Remove(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete category ID %d: %v", id, err)
		useCaseError(c, err, "Failed to delete category")
		return
	}

	h.log.Infof("Category deleted successfully: ID %d", id)
	SuccessResponse(c, http.StatusOK, "Category deleted successfully", nil)
}
