package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// ===========================================================================
// ConnectionRegistry
// Map user ID -> connection ID của kết nối realtime đang mở
// Mỗi user chỉ giữ một kết nối: kết nối đăng ký sau ghi đè kết nối trước
// ===========================================================================

// ConnectionRegistry bảng kết nối dùng chung trong process
type ConnectionRegistry struct {
	// mu bảo vệ conns khỏi concurrent access
	mu sync.RWMutex

	// conns map từ user ID -> connection ID
	conns map[uuid.UUID]string
}

// NewConnectionRegistry tạo registry rỗng
func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		conns: make(map[uuid.UUID]string),
	}
}

// Register gán connection cho user
// Trả về connection ID cũ (nếu có) vừa bị ghi đè
func (r *ConnectionRegistry) Register(userID uuid.UUID, connID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.conns[userID]
	r.conns[userID] = connID
	return previous
}

// Lookup lấy connection hiện tại của user
func (r *ConnectionRegistry) Lookup(userID uuid.UUID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.conns[userID]
	return connID, ok
}

// Unregister xóa connection của user khi ngắt kết nối
// Chỉ xóa nếu entry vẫn trỏ tới connID, kết nối cũ ngắt sau không làm mất kết nối mới
func (r *ConnectionRegistry) Unregister(userID uuid.UUID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[userID]; !ok || current != connID {
		return false
	}
	delete(r.conns, userID)
	return true
}

// Count số user đang có kết nối
func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
