package mediator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ===========================================================================
// Mediator
// Điều phối request (command/query) tới đúng handler theo kiểu Go của request
// Mọi request đi qua chuỗi Behavior (log, phân quyền, validate) trước khi
// tới handler
// ===========================================================================

// ErrHandlerNotFound chưa có handler nào đăng ký cho kiểu request
var ErrHandlerNotFound = errors.New("mediator: handler not found")

// Handler xử lý một loại request
type Handler[Req any, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// HandlerFunc adapter để dùng function thường làm Handler
type HandlerFunc[Req any, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Handle implement Handler
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Next bước tiếp theo trong pipeline
type Next func(ctx context.Context) (any, error)

// Behavior bọc quanh mọi lần dispatch
// Behavior có thể chặn request bằng cách trả lỗi mà không gọi next
type Behavior func(ctx context.Context, req any, next Next) (any, error)

// handlerEntry handler đã xóa kiểu để lưu trong map
type handlerEntry func(ctx context.Context, req any) (any, error)

// Mediator chứa bảng handler và pipeline behaviors
type Mediator struct {
	mu        sync.RWMutex
	handlers  map[reflect.Type]handlerEntry
	behaviors []Behavior
}

// New tạo Mediator với các behaviors theo thứ tự
// Behavior đầu tiên nằm ngoài cùng
func New(behaviors ...Behavior) *Mediator {
	return &Mediator{
		handlers:  make(map[reflect.Type]handlerEntry),
		behaviors: behaviors,
	}
}

// Register đăng ký handler cho kiểu Req
// Nếu đã có handler cho Req, handler cũ bị ghi đè
func Register[Req any, Resp any](m *Mediator, h Handler[Req, Resp]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[reflect.TypeFor[Req]()] = func(ctx context.Context, req any) (any, error) {
		return h.Handle(ctx, req.(Req))
	}
}

// Count số handler đã đăng ký
func (m *Mediator) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers)
}

// Send dispatch request tới handler đã đăng ký, qua toàn bộ pipeline
func Send[Req any, Resp any](ctx context.Context, m *Mediator, req Req) (Resp, error) {
	var zero Resp

	m.mu.RLock()
	h, ok := m.handlers[reflect.TypeFor[Req]()]
	behaviors := m.behaviors
	m.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %T", ErrHandlerNotFound, req)
	}

	next := Next(func(ctx context.Context) (any, error) {
		return h(ctx, req)
	})
	for i := len(behaviors) - 1; i >= 0; i-- {
		b, inner := behaviors[i], next
		next = func(ctx context.Context) (any, error) {
			return b(ctx, req, inner)
		}
	}

	out, err := next(ctx)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}

	resp, ok := out.(Resp)
	if !ok {
		return zero, fmt.Errorf("mediator: %T returned %T, want %s", req, out, reflect.TypeFor[Resp]())
	}
	return resp, nil
}
