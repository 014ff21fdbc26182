package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_admin/internal/clients"
	"storefront_admin/internal/domain"
)

const (
	msgUserList   = "Không thể tải danh sách người dùng"
	msgUserCreate = "Tạo người dùng thất bại"
	msgUserUpdate = "Cập nhật thất bại"
	msgUserDelete = "Xóa thất bại"
)

type UserUseCase interface {
	GetAll(ctx context.Context)
	FetchAll(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, in domain.UserInput) (*domain.User, error)
	Update(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error)
	Remove(ctx context.Context, id int64) error

	Users() []domain.User
	Loading() bool
	Error() string
}

type userUseCase struct {
	api   clients.APIClient
	log   *logrus.Logger
	state resourceState[domain.User]
}

func NewUserUseCase(api clients.APIClient, logger *logrus.Logger) UserUseCase {
	return &userUseCase{
		api: api,
		log: logger,
	}
}

func (uc *userUseCase) GetAll(ctx context.Context) {
	_, _ = uc.FetchAll(ctx)
}

func (uc *userUseCase) FetchAll(ctx context.Context) ([]domain.User, error) {
	defer uc.state.begin()()

	var users []domain.User
	if err := uc.api.Get(ctx, "/users", &users); err != nil {
		uc.log.Warnf("Use Case: Failed to list users: %v", err)
		uc.state.fail(clients.DisplayMessage(err, msgUserList))
		return nil, fmt.Errorf("list users: %w", err)
	}
	uc.state.setItems(users)
	uc.log.Infof("Use Case: Retrieved %d users", len(users))
	return users, nil
}

func (uc *userUseCase) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	defer uc.state.begin()()

	uc.log.Infof("Use Case: Attempting to create user %s", in.Email)
	var created domain.User
	if err := uc.api.Post(ctx, "/users/create-user", in, &created); err != nil {
		uc.log.Errorf("Use Case: Failed to create user %s: %v", in.Email, err)
		uc.state.fail(clients.DisplayMessage(err, msgUserCreate))
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &created, nil
}

func (uc *userUseCase) Update(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error) {
	defer uc.state.begin()()

	if id <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgUserUpdate))
		return nil, domain.ErrInvalidID
	}

	var updated domain.User
	if err := uc.api.Put(ctx, fmt.Sprintf("/users/update-user/%d", id), in, &updated); err != nil {
		uc.log.Errorf("Use Case: Failed to update user ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgUserUpdate))
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return &updated, nil
}

func (uc *userUseCase) Remove(ctx context.Context, id int64) error {
	defer uc.state.begin()()

	if id <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgUserDelete))
		return domain.ErrInvalidID
	}

	uc.log.Infof("Use Case: Attempting to delete user ID %d", id)
	if err := uc.api.Delete(ctx, fmt.Sprintf("/users/delete-user/%d", id), nil); err != nil {
		uc.log.Errorf("Use Case: Failed to delete user ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgUserDelete))
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	uc.state.removeWhere(func(u domain.User) bool { return u.ID == id })
	return nil
}

func (uc *userUseCase) Users() []domain.User { return uc.state.list() }
func (uc *userUseCase) Loading() bool { return uc.state.loading() }
func (uc *userUseCase) Error() string { return uc.state.lastError() }
