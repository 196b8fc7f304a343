package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// NewPagination 根据总数计算分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Page: page, PageSize: pageSize, Total: total, TotalPage: totalPage}
}

// Success 成功响应，fields 平铺到响应体
func Success(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// SuccessWithData 成功响应，数据放在 data 字段
func SuccessWithData(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// SuccessWithMsg 成功响应（自定义消息）
func SuccessWithMsg(c *gin.Context, msg string, data interface{}) {
	body := gin.H{"success": true, "message": msg}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

// Error 错误响应
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（附加字段平铺到响应体）
func ErrorWithData(c *gin.Context, statusCode int, msg string, extra gin.H) {
	body := gin.H{"error": msg}
	for k, v := range extra {
		if k == "error" {
			continue
		}
		body[k] = v
	}
	attachRequestID(c, body)
	c.AbortWithStatusJSON(statusCode, body)
}

// NotFound 404响应
func NotFound(c *gin.Context, msg string) {
	Error(c, CodeNotFound, msg)
}

// Unauthorized 401响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, CodeUnauthorized, msg)
}

// Forbidden 403响应
func Forbidden(c *gin.Context, msg string) {
	Error(c, CodeForbidden, msg)
}

// BadRequest 400响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, CodeBadRequest, msg)
}

func attachRequestID(c *gin.Context, body gin.H) {
	if c == nil {
		return
	}
	value, ok := c.Get("request_id")
	if !ok {
		return
	}
	if id, ok := value.(string); ok && id != "" {
		if _, exists := body["request_id"]; !exists {
			body["request_id"] = id
		}
	}
}
