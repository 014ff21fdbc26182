package delivery

import (
	"github.com/gin-gonic/gin"

	"storefront_admin/internal/clients"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// useCaseError renders an error returned by a use case. A backend status is
// passed through, transport and decode failures become 502 and local
// validation errors 400.
func useCaseError(c *gin.Context, err error, fallback string) {
	ErrorResponse(c, clients.HTTPStatus(err), clients.DisplayMessage(err, fallback))
}
