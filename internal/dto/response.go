package dto

import (
	"math"
	"net/http"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/messages"
)

// ===========================================================================
// Envelope chung của mọi response
// {"success": true, "data": ..., "meta": ...} hoặc {"success": false, "error": ...}
// ===========================================================================

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"` // chỉ có ở API danh sách
}

// APIError Message là câu tiếng Việt hiển thị cho người dùng
// MessageCode là mã trong bảng thông báo để client tự dịch, 0 nếu không có
type APIError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	MessageCode int    `json:"message_code,omitempty"`
}

// Meta thông tin phân trang
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta tạo Meta từ thông tin phân trang
func NewMeta(page, limit int, total int64) *Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return &Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ===========================================================================
// Response Builders
// ===========================================================================

// Success tạo response thành công
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// SuccessWithMeta tạo response thành công với thông tin phân trang
func SuccessWithMeta(data interface{}, meta *Meta) Response {
	return Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	}
}

// Error tạo response lỗi
func Error(code, message string) Response {
	return Response{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	}
}

// ErrorWithMessage tạo response lỗi kèm mã thông báo
func ErrorWithMessage(code string, msg messages.Code) Response {
	return Response{
		Success: false,
		Error: &APIError{
			Code:        code,
			Message:     msg.Text(),
			MessageCode: msg.Int(),
		},
	}
}

// FromError chuyển error sang status code và response lỗi
// Lỗi không khớp sentinel nào là lỗi nội bộ, không lộ chi tiết ra ngoài
func FromError(err error) (int, Response) {
	appErr, ok := apperrors.As(err)
	if !ok {
		status := apperrors.StatusCode(err)
		if status == http.StatusInternalServerError {
			return status, ErrorWithMessage("INTERNAL_ERROR", messages.InternalError)
		}
		return status, Error(apperrors.ErrorCode(err), err.Error())
	}
	resp := Error(appErr.Code, appErr.Message)
	if appErr.MessageCode != 0 {
		resp.Error.MessageCode = appErr.MessageCode.Int()
	}
	return appErr.StatusCode, resp
}
