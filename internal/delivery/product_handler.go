package delivery

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/domain"
	"storefront_admin/internal/usecase"
)

const maxUploadMemory = 32 << 20

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.POST("", h.CreateProduct)
		products.GET("", h.ListProducts)
		products.GET("/unassigned", h.ListUnassigned)
		products.GET("/category/:categoryId", h.ListByCategory)
		products.POST("/category/:categoryId", h.AssignToCategory)
		products.DELETE("/category/:categoryId/:productId", h.RemoveFromCategory)
		products.GET("/:id", h.GetProductByID)
		products.PUT("/:id", h.UpdateProduct)
		products.DELETE("/:id", h.DeleteProduct)
	}
}

// productPayload is the JSON shape accepted on update when no files are sent.
type productPayload struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Gender      string   `json:"gender"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (p productPayload) input() domain.ProductInput {
	return domain.ProductInput{
		Name:        p.Name,
		Brand:       p.Brand,
		Gender:      p.Gender,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		Images:      p.Images,
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bindProductForm reads a multipart product form. Text values under
// "images" are kept as existing image references, files under the same key
// become uploads.
func bindProductForm(c *gin.Context) (domain.ProductInput, func(), error) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		return domain.ProductInput{}, func() {}, fmt.Errorf("invalid multipart form: %w", err)
	}
	form := c.Request.MultipartForm

	value := func(key string) string {
		if vs := form.Value[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}

	in := domain.ProductInput{
		Name:        value("name"),
		Brand:       value("brand"),
		Gender:      value("gender"),
		Description: value("description"),
		Images:      form.Value["images"],
	}
	if raw := value("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.ProductInput{}, func() {}, fmt.Errorf("invalid price %q", raw)
		}
		in.Price = price
	}
	if raw := value("quantity"); raw != "" {
		quantity, err := strconv.Atoi(raw)
		if err != nil {
			return domain.ProductInput{}, func() {}, fmt.Errorf("invalid quantity %q", raw)
		}
		in.Quantity = quantity
	}

	uploads, closeFiles, err := openUploads(form.File["images"])
	if err != nil {
		return domain.ProductInput{}, func() {}, err
	}
	in.Uploads = uploads
	return in, closeFiles, nil
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	in, closeFiles, err := bindProductForm(c)
	if err != nil {
		h.log.Errorf("Failed to bind form for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer closeFiles()

	created, err := h.useCase.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Errorf("Failed to create product '%s': %v", in.Name, err)
		useCaseError(c, err, "Failed to create product")
		return
	}

	h.log.Infof("Product created successfully: ID %s, Name %s", created.ID, created.Name)
	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.FetchAll(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		useCaseError(c, err, "Failed to retrieve products")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := domain.ProductID(c.Param("id"))

	product, err := h.useCase.FetchByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get product by ID %s: %v", id, err)
		useCaseError(c, err, "Failed to retrieve product")
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := domain.ProductID(c.Param("id"))

	var (
		in         domain.ProductInput
		closeFiles = func() {}
	)
	if isMultipart(c) {
		var err error
		in, closeFiles, err = bindProductForm(c)
		if err != nil {
			h.log.Errorf("Failed to bind form for update product ID %s: %v", id, err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	} else {
		var payload productPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			h.log.Errorf("Failed to bind JSON for update product ID %s: %v", id, err)
			ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		in = payload.input()
	}
	defer closeFiles()

	updated, err := h.useCase.Update(c.Request.Context(), id, in)
	if err != nil {
		h.log.Errorf("Failed to update product ID %s: %v", id, err)
		useCaseError(c, err, "Failed to update product")
		return
	}

	h.log.Infof("Product updated successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := domain.ProductID(c.Param("id"))

	if err := h.useCase.Remove(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete product ID %s: %v", id, err)
		useCaseError(c, err, "Failed to delete product")
		return
	}

	h.log.Infof("Product deleted successfully: ID %s", id)
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	products, err := h.useCase.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.log.Warnf("Failed to list products of category %d: %v", categoryID, err)
		useCaseError(c, err, "Failed to load products of category")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) ListUnassigned(c *gin.Context) {
	products, err := h.useCase.ListUnassigned(c.Request.Context())
	if err != nil {
		h.log.Warnf("Failed to list unassigned products: %v", err)
		useCaseError(c, err, "Failed to load unassigned products")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) AssignToCategory(c *gin.Context) {
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	var req domain.AssignProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for assign to category %d: %v", categoryID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.useCase.AssignToCategory(c.Request.Context(), categoryID, req.ProductIDs); err != nil {
		h.log.Warnf("Failed to assign products to category %d: %v", categoryID, err)
		useCaseError(c, err, "Failed to assign products to category")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products assigned successfully", nil)
}

func (h *ProductHandler) RemoveFromCategory(c *gin.Context) {
	categoryID, ok := parseID(c, "categoryId")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}
	productID, ok := parseID(c, "productId")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.useCase.RemoveFromCategory(c.Request.Context(), categoryID, productID); err != nil {
		h.log.Warnf("Failed to remove product %d from category %d: %v", productID, categoryID, err)
		useCaseError(c, err, "Failed to remove product from category")
		return
	}
	SuccessResponse(c, http.StatusOK, "Product removed from category", nil)
}
