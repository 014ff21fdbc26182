package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_admin/internal/clients"
	"storefront_admin/internal/domain"
)

const (
	msgCategoryList   = "Không thể tải danh sách danh mục"
	msgCategoryDetail = "Lỗi khi lấy chi tiết danh mục"
	msgCategoryCreate = "Tạo danh mục thất bại"
	msgCategoryUpdate = "Cập nhật thất bại"
	msgCategoryDelete = "Xóa thất bại"
)

// CategoryUseCase re-fetches the category list after every successful
// mutation.
type CategoryUseCase interface {
	GetAll(ctx context.Context)
	GetByID(ctx context.Context, id int64)
	FetchAll(ctx context.Context) ([]domain.Category, error)
	FetchByID(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error)
	Remove(ctx context.Context, id int64) error

	Categories() []domain.Category
	Category() (domain.Category, bool)
	Loading() bool
	Error() string
}

type categoryUseCase struct {
	api   clients.APIClient
	log   *logrus.Logger
	state resourceState[domain.Category]
}

func NewCategoryUseCase(api clients.APIClient, logger *logrus.Logger) CategoryUseCase {
	return &categoryUseCase{
		api: api,
		log: logger,
	}
}

// GetAll refreshes the cached list. Failures are recorded, not returned.
func (uc *categoryUseCase) GetAll(ctx context.Context) {
	_, _ = uc.FetchAll(ctx)
}

// FetchAll is GetAll for callers that need this call's own result.
func (uc *categoryUseCase) FetchAll(ctx context.Context) ([]domain.Category, error) {
	defer uc.state.begin()()

	var categories []domain.Category
	if err := uc.api.Get(ctx, "/categories", &categories); err != nil {
		uc.log.Warnf("Use Case: Failed to list categories: %v", err)
		uc.state.fail(clients.DisplayMessage(err, msgCategoryList))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	uc.state.setItems(categories)
	uc.log.Infof("Use Case: Retrieved %d categories", len(categories))
	return categories, nil
}

func (uc *categoryUseCase) GetByID(ctx context.Context, id int64) {
	_, _ = uc.FetchByID(ctx, id)
}

func (uc *categoryUseCase) FetchByID(ctx context.Context, id int64) (*domain.Category, error) {
	defer uc.state.begin()()

	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted to get category with invalid ID: %d", id)
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgCategoryDetail))
		return nil, domain.ErrInvalidID
	}

	var category domain.Category
	if err := uc.api.Get(ctx, fmt.Sprintf("/categories/%d", id), &category); err != nil {
		uc.log.Warnf("Use Case: Failed to get category ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgCategoryDetail))
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	uc.state.setCurrent(category)
	return &category, nil
}

func categoryForm(in domain.CategoryInput) *clients.FormData {
	form := clients.NewFormData().Append("name", in.Name)
	if in.Description != "" {
		form.Append("description", in.Description)
	}
	if in.Image != nil {
		form.AppendFile("image", in.Image.FileName, in.Image.ContentType, in.Image.Content)
	}
	return form
}

func (uc *categoryUseCase) Create(ctx context.Context, in domain.CategoryInput) (*domain.Category, error) {
	defer uc.state.begin()()

	if err := in.Validate(); err != nil {
		uc.log.Warn("Use Case: Attempted to create category with empty name")
		uc.state.fail(clients.DisplayMessage(err, msgCategoryCreate))
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create category with name '%s'", in.Name)
	var created domain.Category
	if err := uc.api.Post(ctx, "/categories", categoryForm(in), &created); err != nil {
		uc.log.Errorf("Use Case: Failed to create category '%s': %v", in.Name, err)
		uc.state.fail(clients.DisplayMessage(err, msgCategoryCreate))
		return nil, fmt.Errorf("create category: %w", err)
	}

	uc.GetAll(ctx)
	return &created, nil
}

func (uc *categoryUseCase) Update(ctx context.Context, id int64, in domain.CategoryInput) (*domain.Category, error) {
	defer uc.state.begin()()

	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted update with invalid ID: %d", id)
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgCategoryUpdate))
		return nil, domain.ErrInvalidID
	}
	if err := in.Validate(); err != nil {
		uc.log.Warnf("Use Case: Attempted update for ID %d with empty name", id)
		uc.state.fail(clients.DisplayMessage(err, msgCategoryUpdate))
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to update category ID %d", id)
	var updated domain.Category
	if err := uc.api.Put(ctx, fmt.Sprintf("/categories/%d", id), categoryForm(in), &updated); err != nil {
		uc.log.Errorf("Use Case: Failed to update category ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgCategoryUpdate))
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}

	uc.GetAll(ctx)
	return &updated, nil
}

// Remove drops the category locally once the backend confirms, then
// re-fetches. A failed re-fetch is recorded like any read error and does
// not fail the removal.
func (uc *categoryUseCase) Remove(ctx context.Context, id int64) error {
	defer uc.state.begin()()

	if id <= 0 {
		uc.log.Warnf("Use Case: Attempted delete with invalid ID: %d", id)
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgCategoryDelete))
		return domain.ErrInvalidID
	}

	uc.log.Infof("Use Case: Attempting to delete category ID %d", id)
	if err := uc.api.Delete(ctx, fmt.Sprintf("/categories/%d", id), nil); err != nil {
		uc.log.Errorf("Use Case: Failed to delete category ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgCategoryDelete))
		return fmt.Errorf("delete category %d: %w", id, err)
	}

	uc.state.removeWhere(func(c domain.Category) bool { return c.ID == id })
	uc.GetAll(ctx)
	return nil
}

func (uc *categoryUseCase) Categories() []domain.Category { return uc.state.list() }
func (uc *categoryUseCase) Category() (domain.Category, bool) { return uc.state.detail() }
func (uc *categoryUseCase) Loading() bool { return uc.state.loading() }
func (uc *categoryUseCase) Error() string { return uc.state.lastError() }
