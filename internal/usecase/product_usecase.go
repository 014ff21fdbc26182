package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"

	"storefront_admin/internal/clients"
	"storefront_admin/internal/domain"
)

const (
	msgProductList       = "Không thể tải danh sách sản phẩm"
	msgProductDetail     = "Lỗi khi lấy chi tiết sản phẩm"
	msgProductCreate     = "Tạo sản phẩm thất bại"
	msgProductUpdate     = "Cập nhật thất bại"
	msgProductDelete     = "Xóa thất bại"
	msgProductByCategory = "Không thể tải sản phẩm của danh mục"
	msgProductUnassigned = "Không thể tải sản phẩm chưa phân loại"
	msgProductAssign     = "Gán sản phẩm vào danh mục thất bại"
	msgProductUnassign   = "Gỡ sản phẩm khỏi danh mục thất bại"
)

type ProductUseCase interface {
	GetAll(ctx context.Context)
	GetByID(ctx context.Context, id domain.ProductID)
	// FetchAll and FetchByID also update the cache but hand this call's own
	// result back to the caller.
	FetchAll(ctx context.Context) ([]domain.Product, error)
	FetchByID(ctx context.Context, id domain.ProductID) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id domain.ProductID, in domain.ProductInput) (*domain.Product, error)
	Remove(ctx context.Context, id domain.ProductID) error

	// Category-scoped calls go straight to the backend and leave the cached
	// product list alone.
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	ListUnassigned(ctx context.Context) ([]domain.Product, error)
	AssignToCategory(ctx context.Context, categoryID int64, productIDs []int64) error
	RemoveFromCategory(ctx context.Context, categoryID, productID int64) error

	Products() []domain.Product
	Product() (domain.Product, bool)
	Loading() bool
	Error() string
}

type productUseCase struct {
	api   clients.APIClient
	log   *logrus.Logger
	state resourceState[domain.Product]
}

func NewProductUseCase(api clients.APIClient, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		api: api,
		log: logger,
	}
}

func productPath(format string, id domain.ProductID) string {
	return fmt.Sprintf(format, url.PathEscape(string(id)))
}

// GetAll refreshes the cached list. Failures are recorded, not returned.
func (uc *productUseCase) GetAll(ctx context.Context) {
	_, _ = uc.FetchAll(ctx)
}

func (uc *productUseCase) FetchAll(ctx context.Context) ([]domain.Product, error) {
	defer uc.state.begin()()

	var products []domain.Product
	if err := uc.api.Get(ctx, "/products", &products); err != nil {
		uc.log.Warnf("Use Case: Failed to list products: %v", err)
		uc.state.fail(clients.DisplayMessage(err, msgProductList))
		return nil, fmt.Errorf("list products: %w", err)
	}
	uc.state.setItems(products)
	uc.log.Infof("Use Case: Retrieved %d products", len(products))
	return products, nil
}

func (uc *productUseCase) GetByID(ctx context.Context, id domain.ProductID) {
	_, _ = uc.FetchByID(ctx, id)
}

func (uc *productUseCase) FetchByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	defer uc.state.begin()()

	if id == "" {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgProductDetail))
		return nil, domain.ErrInvalidID
	}

	var product domain.Product
	if err := uc.api.Get(ctx, productPath("/products/%s", id), &product); err != nil {
		uc.log.Warnf("Use Case: Failed to get product ID %s: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgProductDetail))
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	uc.state.setCurrent(product)
	return &product, nil
}

func productForm(in domain.ProductInput) *clients.FormData {
	form := clients.NewFormData().
		Append("name", in.Name).
		Append("brand", in.Brand).
		Append("gender", in.Gender).
		Append("price", strconv.FormatFloat(in.Price, 'f', -1, 64)).
		Append("quantity", strconv.Itoa(in.Quantity)).
		Append("description", in.Description)
	for _, img := range in.Images {
		form.Append("images", img)
	}
	for _, up := range in.Uploads {
		form.AppendFile("images", up.FileName, up.ContentType, up.Content)
	}
	return form
}

func productJSON(in domain.ProductInput) domain.Product {
	return domain.Product{
		Name:        in.Name,
		Brand:       in.Brand,
		Gender:      in.Gender,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		Images:      domain.ImageList(in.Images),
	}
}

// Create always sends multipart form data, with or without uploads.
func (uc *productUseCase) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	defer uc.state.begin()()

	uc.log.Infof("Use Case: Attempting to create product '%s' with %d uploads", in.Name, len(in.Uploads))
	var created domain.Product
	if err := uc.api.Post(ctx, "/products/create", productForm(in), &created); err != nil {
		uc.log.Errorf("Use Case: Failed to create product '%s': %v", in.Name, err)
		uc.state.fail(clients.DisplayMessage(err, msgProductCreate))
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &created, nil
}

func (uc *productUseCase) Update(ctx context.Context, id domain.ProductID, in domain.ProductInput) (*domain.Product, error) {
	defer uc.state.begin()()

	if id == "" {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgProductUpdate))
		return nil, domain.ErrInvalidID
	}

	var body interface{} = productJSON(in)
	if len(in.Uploads) > 0 {
		body = productForm(in)
	}

	uc.log.Infof("Use Case: Attempting to update product ID %s", id)
	var updated domain.Product
	if err := uc.api.Put(ctx, productPath("/products/update/%s", id), body, &updated); err != nil {
		uc.log.Errorf("Use Case: Failed to update product ID %s: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgProductUpdate))
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return &updated, nil
}

func (uc *productUseCase) Remove(ctx context.Context, id domain.ProductID) error {
	defer uc.state.begin()()

	if id == "" {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgProductDelete))
		return domain.ErrInvalidID
	}

	uc.log.Infof("Use Case: Attempting to delete product ID %s", id)
	if err := uc.api.Delete(ctx, productPath("/products/delete/%s", id), nil); err != nil {
		uc.log.Errorf("Use Case: Failed to delete product ID %s: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgProductDelete))
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	uc.state.removeWhere(func(p domain.Product) bool { return p.ID == id })
	return nil
}

func (uc *productUseCase) ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	defer uc.state.begin()()

	if categoryID <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgProductByCategory))
		return nil, domain.ErrInvalidID
	}

	var products []domain.Product
	if err := uc.api.Get(ctx, fmt.Sprintf("/products/category/%d", categoryID), &products); err != nil {
		uc.log.Warnf("Use Case: Failed to list products of category %d: %v", categoryID, err)
		uc.state.fail(clients.DisplayMessage(err, msgProductByCategory))
		return nil, fmt.Errorf("list products of category %d: %w", categoryID, err)
	}
	return products, nil
}

func (uc *productUseCase) ListUnassigned(ctx context.Context) ([]domain.Product, error) {
	defer uc.state.begin()()

	var products []domain.Product
	if err := uc.api.Get(ctx, "/products/unassigned", &products); err != nil {
		uc.log.Warnf("Use Case: Failed to list unassigned products: %v", err)
		uc.state.fail(clients.DisplayMessage(err, msgProductUnassigned))
		return nil, fmt.Errorf("list unassigned products: %w", err)
	}
	return products, nil
}

func (uc *productUseCase) AssignToCategory(ctx context.Context, categoryID int64, productIDs []int64) error {
	defer uc.state.begin()()

	if categoryID <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgProductAssign))
		return domain.ErrInvalidID
	}
	if len(productIDs) == 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrNoProductIDs, msgProductAssign))
		return domain.ErrNoProductIDs
	}

	uc.log.Infof("Use Case: Assigning %d products to category %d", len(productIDs), categoryID)
	body := domain.AssignProductsRequest{ProductIDs: productIDs}
	if err := uc.api.Post(ctx, fmt.Sprintf("/products/category/%d", categoryID), body, nil); err != nil {
		uc.log.Errorf("Use Case: Failed to assign products to category %d: %v", categoryID, err)
		uc.state.fail(clients.DisplayMessage(err, msgProductAssign))
		return fmt.Errorf("assign products to category %d: %w", categoryID, err)
	}
	return nil
}

func (uc *productUseCase) RemoveFromCategory(ctx context.Context, categoryID, productID int64) error {
	defer uc.state.begin()()

	if categoryID <= 0 || productID <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgProductUnassign))
		return domain.ErrInvalidID
	}

	path := fmt.Sprintf("/products/category/%d/%d", categoryID, productID)
	if err := uc.api.Delete(ctx, path, nil); err != nil {
		uc.log.Errorf("Use Case: Failed to remove product %d from category %d: %v", productID, categoryID, err)
		uc.state.fail(clients.DisplayMessage(err, msgProductUnassign))
		return fmt.Errorf("remove product %d from category %d: %w", productID, categoryID, err)
	}
	return nil
}

func (uc *productUseCase) Products() []domain.Product { return uc.state.list() }
func (uc *productUseCase) Product() (domain.Product, bool) { return uc.state.detail() }
func (uc *productUseCase) Loading() bool { return uc.state.loading() }
func (uc *productUseCase) Error() string { return uc.state.lastError() }
