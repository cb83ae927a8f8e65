package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dentalclinic/internal/messages"
)

// ===========================================================================
// Lỗi ứng dụng
// Service trả AppError mang mã thông báo, handler map sang HTTP response
// ===========================================================================

// Sentinel errors, dùng với errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateEntry vi phạm unique constraint
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrConflict xung đột trạng thái nghiệp vụ (VD: lịch không còn ở trạng thái chờ duyệt)
	ErrConflict = errors.New("conflict")

	ErrTimeout = errors.New("timeout")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)

// AppError lỗi trả về cho client
// Err là sentinel gốc, Message là câu tiếng Việt lấy từ bảng messages
type AppError struct {
	Err         error
	Message     string
	MessageCode messages.Code
	Code        string // VD: "NOT_FOUND"
	StatusCode  int
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New tạo AppError mới từ sentinel error
func New(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: StatusCode(err),
		Code:       ErrorCode(err),
	}
}

// WithMessage tạo AppError từ sentinel error và mã thông báo
func WithMessage(err error, code messages.Code) *AppError {
	return &AppError{
		Err:         err,
		Message:     code.Text(),
		MessageCode: code,
		StatusCode:  StatusCode(err),
		Code:        ErrorCode(err),
	}
}

// Các constructor tắt cho 4 nhóm lỗi nghiệp vụ hay dùng

// NotFound lỗi không tìm thấy
func NotFound(code messages.Code) *AppError { return WithMessage(ErrNotFound, code) }

// Forbidden lỗi không có quyền
func Forbidden(code messages.Code) *AppError { return WithMessage(ErrForbidden, code) }

// Invalid lỗi dữ liệu đầu vào
func Invalid(code messages.Code) *AppError { return WithMessage(ErrInvalidInput, code) }

// Conflict lỗi xung đột nghiệp vụ
func Conflict(code messages.Code) *AppError { return WithMessage(ErrConflict, code) }

// Wrap thêm ngữ cảnh, giữ nguyên chain cho errors.Is
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// kinds bảng map sentinel sang HTTP status và mã lỗi, kiểm tra theo thứ tự
var kinds = []struct {
	err    error
	status int
	code   string
}{
	{ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{ErrDuplicateEntry, http.StatusConflict, "DUPLICATE_ENTRY"},
	{ErrConflict, http.StatusConflict, "CONFLICT"},
	{ErrTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
	{ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
}

// StatusCode HTTP status tương ứng với error, không khớp sentinel nào thì 500
func StatusCode(err error) int {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.status
		}
	}
	return http.StatusInternalServerError
}

// ErrorCode mã lỗi dạng chuỗi trả cho client
func ErrorCode(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return "INTERNAL_ERROR"
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As tìm AppError trong chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
