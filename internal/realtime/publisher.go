package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Publisher đẩy sự kiện realtime tới user
type Publisher interface {
	// PublishNotification đẩy thông báo mới tới user
	// User không online thì không phải lỗi
	PublishNotification(ctx context.Context, userID uuid.UUID, event *NotificationEvent) error
}

// NotificationEvent payload gửi xuống client khi có thông báo mới
type NotificationEvent struct {
	Type            string     `json:"type"`
	NotificationID  uuid.UUID  `json:"notification_id"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	Kind            string     `json:"kind"`
	SentAt          time.Time  `json:"sent_at"`
	RelatedObjectID *uuid.UUID `json:"related_object_id,omitempty"`
	MappingURL      *string    `json:"mapping_url,omitempty"`
}

// EventNotification giá trị Type của NotificationEvent
const EventNotification = "notification"

// ===========================================================================
// Noop Publisher (khi tắt realtime)
// ===========================================================================

// NoopPublisher không làm gì
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (n *NoopPublisher) PublishNotification(ctx context.Context, userID uuid.UUID, event *NotificationEvent) error {
	return nil
}

// ===========================================================================
// MultiPublisher
// Gửi qua nhiều kênh (websocket nội bộ + Centrifugo), gom lỗi lại
// ===========================================================================

// MultiPublisher gửi tuần tự qua từng publisher
type MultiPublisher struct {
	publishers []Publisher
}

func NewMultiPublisher(publishers ...Publisher) *MultiPublisher {
	return &MultiPublisher{publishers: publishers}
}

func (m *MultiPublisher) PublishNotification(ctx context.Context, userID uuid.UUID, event *NotificationEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.PublishNotification(ctx, userID, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
