package handlers

import (
	"net/http"

	"dentalclinic/internal/dto"
	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===========================================================================
// Helper dùng chung cho các handler
// Handler chỉ parse request, mọi nghiệp vụ và phân quyền đi qua mediator
// ===========================================================================

// fail ghi lỗi ra response, lỗi được gắn vào gin context để middleware log lại
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	status, resp := dto.FromError(err)
	c.JSON(status, resp)
}

// dispatch gửi request qua mediator và trả về kết quả
func dispatch[Req any, Resp any](c *gin.Context, m *mediator.Mediator, req Req, status int) {
	resp, err := mediator.Send[Req, Resp](c.Request.Context(), m, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, dto.Success(resp))
}

// command dùng cho các command trả về MessageResult
func command[Req any](c *gin.Context, m *mediator.Mediator, req Req, status int) {
	dispatch[Req, *services.MessageResult](c, m, req, status)
}

// list gửi query danh sách và trả về items kèm meta phân trang
func list[Req any, T any](c *gin.Context, m *mediator.Mediator, req Req) {
	page, err := mediator.Send[Req, *services.PageResult[T]](c.Request.Context(), m, req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessWithMeta(page.Items, dto.NewMeta(page.Page, page.Limit, page.Total)))
}

// bindJSON parse body, body rỗng được coi như object rỗng
func bindJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, apperrors.Invalid(messages.InvalidInput))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		fail(c, apperrors.Invalid(messages.InvalidInput))
		return false
	}
	return true
}

// pathID đọc uuid từ path param
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, apperrors.Invalid(messages.InvalidInput))
		return uuid.Nil, false
	}
	return id, true
}

// queryID đọc uuid tùy chọn từ query string, trả về nil nếu không có
func queryID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, apperrors.Invalid(messages.InvalidInput))
		return nil, false
	}
	return &id, true
}
