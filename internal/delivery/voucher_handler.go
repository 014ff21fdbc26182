package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront_admin/internal/domain"
	"storefront_admin/internal/usecase"
)

type VoucherHandler struct {
	useCase usecase.VoucherUseCase
	log     *logrus.Logger
}

func NewVoucherHandler(uc usecase.VoucherUseCase, logger *logrus.Logger) *VoucherHandler {
	return &VoucherHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *VoucherHandler) RegisterRoutes(router gin.IRouter) {
	vouchers := router.Group("/vouchers")
	{
		vouchers.POST("", h.CreateVoucher)
		vouchers.GET("", h.ListVouchers)
		vouchers.GET("/:id", h.GetVoucherByID)
		vouchers.PUT("/:id", h.UpdateVoucher)
		vouchers.PATCH("/:id/status", h.UpdateVoucherStatus)
		vouchers.DELETE("/:id", h.DeleteVoucher)
	}
}

func (h *VoucherHandler) CreateVoucher(c *gin.Context) {
	var in domain.VoucherInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Errorf("Failed to bind JSON for create voucher: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.Create(c.Request.Context(), in)
	if err != nil {
		h.log.Errorf("Failed to create voucher: %v", err)
		useCaseError(c, err, "Failed to create voucher")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Voucher created successfully", created)
}

func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	vouchers, err := h.useCase.FetchAll(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list vouchers: %v", err)
		useCaseError(c, err, "Failed to retrieve vouchers")
		return
	}
	SuccessResponse(c, http.StatusOK, "Vouchers retrieved successfully", vouchers)
}

func (h *VoucherHandler) GetVoucherByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid voucher ID format")
		return
	}

	voucher, err := h.useCase.FetchByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get voucher by ID %d: %v", id, err)
		useCaseError(c, err, "Failed to retrieve voucher")
		return
	}
	SuccessResponse(c, http.StatusOK, "Voucher retrieved successfully", voucher)
}

func (h *VoucherHandler) UpdateVoucher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid voucher ID format")
		return
	}

	var in domain.VoucherInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Errorf("Failed to bind JSON for update voucher ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.useCase.Update(c.Request.Context(), id, in)
	if err != nil {
		h.log.Errorf("Failed to update voucher ID %d: %v", id, err)
		useCaseError(c, err, "Failed to update voucher")
		return
	}
	SuccessResponse(c, http.StatusOK, "Voucher updated successfully", updated)
}

func (h *VoucherHandler) UpdateVoucherStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid voucher ID format")
		return
	}

	var req domain.VoucherStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for voucher status ID %d: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.useCase.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		h.log.Errorf("Failed to update status of voucher ID %d: %v", id, err)
		useCaseError(c, err, "Failed to update voucher status")
		return
	}
	SuccessResponse(c, http.StatusOK, "Voucher status updated successfully", req)
}

func (h *VoucherHandler) DeleteVoucher(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid voucher ID format")
		return
	}

	if err := h.useCase.Remove(c.Request.Context(), id); err != nil {
		h.log.Warnf("Failed to delete voucher ID %d: %v", id, err)
		useCaseError(c, err, "Failed to delete voucher")
		return
	}
	SuccessResponse(c, http.StatusOK, "Voucher deleted successfully", nil)
}
