package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应包裹
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// WriteData 写入成功响应
func WriteData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// WriteMessage 写入带提示语的成功响应
func WriteMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// WritePage 写入带分页信息的成功响应
func WritePage(c *gin.Context, data, pagination interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// WriteError 写入失败响应，detail仅在非生产模式下透出
func WriteError(c *gin.Context, status int, message, detail string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
		Error:   detail,
	})
}
