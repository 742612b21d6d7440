package back

import (
	"net/http"

	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/xerr"

	"github.com/gin-gonic/gin"
)

// Response is the uniform JSON envelope returned by every handler.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Result maps a (data, err) pair onto the envelope.
func Result(c *gin.Context, data interface{}, err error) {
	if err == nil {
		Success(c, data)
		return
	}

	if e, ok := err.(*xerr.CodeError); ok {
		Error(c, e.Code, e.Message)
		return
	}

	Error(c, xerr.ErrServerError.Code, xerr.ErrServerError.Message)
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    xerr.OK,
		Message: "Success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}
