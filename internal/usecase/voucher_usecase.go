package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"storefront_admin/internal/clients"
	"storefront_admin/internal/domain"
)

const (
	msgVoucherList   = "Không thể tải danh sách khuyến mãi"
	msgVoucherDetail = "Không tìm thấy khuyến mãi"
	msgVoucherCreate = "Tạo khuyến mãi thất bại"
	msgVoucherUpdate = "Cập nhật thất bại"
	msgVoucherStatus = "Cập nhật trạng thái thất bại"
	msgVoucherDelete = "Xóa thất bại"
)

type VoucherUseCase interface {
	GetAll(ctx context.Context)
	GetByID(ctx context.Context, id int64)
	FetchAll(ctx context.Context) ([]domain.Voucher, error)
	FetchByID(ctx context.Context, id int64) (*domain.Voucher, error)
	Create(ctx context.Context, in domain.VoucherInput) (*domain.Voucher, error)
	Update(ctx context.Context, id int64, in domain.VoucherInput) (*domain.Voucher, error)
	// UpdateStatus flips a voucher between active and inactive without
	// sending any other field.
	UpdateStatus(ctx context.Context, id int64, status domain.VoucherStatus) error
	Remove(ctx context.Context, id int64) error

	Vouchers() []domain.Voucher
	Voucher() (domain.Voucher, bool)
	Loading() bool
	Error() string
}

type voucherUseCase struct {
	api   clients.APIClient
	log   *logrus.Logger
	state resourceState[domain.Voucher]
}

func NewVoucherUseCase(api clients.APIClient, logger *logrus.Logger) VoucherUseCase {
	return &voucherUseCase{
		api: api,
		log: logger,
	}
}

func (uc *voucherUseCase) GetAll(ctx context.Context) {
	_, _ = uc.FetchAll(ctx)
}

func (uc *voucherUseCase) FetchAll(ctx context.Context) ([]domain.Voucher, error) {
	defer uc.state.begin()()

	var vouchers []domain.Voucher
	if err := uc.api.Get(ctx, "/vouchers", &vouchers); err != nil {
		uc.log.Warnf("Use Case: Failed to list vouchers: %v", err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherList))
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	uc.state.setItems(vouchers)
	uc.log.Infof("Use Case: Retrieved %d vouchers", len(vouchers))
	return vouchers, nil
}

func (uc *voucherUseCase) GetByID(ctx context.Context, id int64) {
	_, _ = uc.FetchByID(ctx, id)
}

func (uc *voucherUseCase) FetchByID(ctx context.Context, id int64) (*domain.Voucher, error) {
	defer uc.state.begin()()

	if id <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgVoucherDetail))
		return nil, domain.ErrInvalidID
	}

	var voucher domain.Voucher
	if err := uc.api.Get(ctx, fmt.Sprintf("/vouchers/%d", id), &voucher); err != nil {
		uc.log.Warnf("Use Case: Failed to get voucher ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherDetail))
		return nil, fmt.Errorf("get voucher %d: %w", id, err)
	}
	uc.state.setCurrent(voucher)
	return &voucher, nil
}

func (uc *voucherUseCase) Create(ctx context.Context, in domain.VoucherInput) (*domain.Voucher, error) {
	defer uc.state.begin()()

	if err := in.Validate(); err != nil {
		uc.log.Warnf("Use Case: Rejected voucher payload: %v", err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherCreate))
		return nil, err
	}

	var created domain.Voucher
	if err := uc.api.Post(ctx, "/vouchers", in, &created); err != nil {
		uc.log.Errorf("Use Case: Failed to create voucher: %v", err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherCreate))
		return nil, fmt.Errorf("create voucher: %w", err)
	}
	uc.log.Infof("Use Case: Voucher '%s' created with ID %d", created.Code, created.ID)
	return &created, nil
}

func (uc *voucherUseCase) Update(ctx context.Context, id int64, in domain.VoucherInput) (*domain.Voucher, error) {
	defer uc.state.begin()()

	if id <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgVoucherUpdate))
		return nil, domain.ErrInvalidID
	}
	if err := in.Validate(); err != nil {
		uc.log.Warnf("Use Case: Rejected voucher payload for ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherUpdate))
		return nil, err
	}

	var updated domain.Voucher
	if err := uc.api.Put(ctx, fmt.Sprintf("/vouchers/%d", id), in, &updated); err != nil {
		uc.log.Errorf("Use Case: Failed to update voucher ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherUpdate))
		return nil, fmt.Errorf("update voucher %d: %w", id, err)
	}
	return &updated, nil
}

func (uc *voucherUseCase) UpdateStatus(ctx context.Context, id int64, status domain.VoucherStatus) error {
	defer uc.state.begin()()

	if id <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgVoucherStatus))
		return domain.ErrInvalidID
	}
	if !status.Valid() {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidVoucherStatus, msgVoucherStatus))
		return domain.ErrInvalidVoucherStatus
	}

	uc.log.Infof("Use Case: Setting voucher ID %d status to %s", id, status)
	body := domain.VoucherStatusRequest{Status: status}
	if err := uc.api.Patch(ctx, fmt.Sprintf("/vouchers/%d/status", id), body, nil); err != nil {
		uc.log.Errorf("Use Case: Failed to update status of voucher ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherStatus))
		return fmt.Errorf("update voucher %d status: %w", id, err)
	}
	return nil
}

func (uc *voucherUseCase) Remove(ctx context.Context, id int64) error {
	defer uc.state.begin()()

	if id <= 0 {
		uc.state.fail(clients.DisplayMessage(domain.ErrInvalidID, msgVoucherDelete))
		return domain.ErrInvalidID
	}

	uc.log.Infof("Use Case: Attempting to delete voucher ID %d", id)
	if err := uc.api.Delete(ctx, fmt.Sprintf("/vouchers/%d", id), nil); err != nil {
		uc.log.Errorf("Use Case: Failed to delete voucher ID %d: %v", id, err)
		uc.state.fail(clients.DisplayMessage(err, msgVoucherDelete))
		return fmt.Errorf("delete voucher %d: %w", id, err)
	}

	uc.state.removeWhere(func(v domain.Voucher) bool { return v.ID == id })
	return nil
}

func (uc *voucherUseCase) Vouchers() []domain.Voucher { return uc.state.list() }
func (uc *voucherUseCase) Voucher() (domain.Voucher, bool) { return uc.state.detail() }
func (uc *voucherUseCase) Loading() bool { return uc.state.loading() }
func (uc *voucherUseCase) Error() string { return uc.state.lastError() }
