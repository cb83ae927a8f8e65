package services

import (
	"context"
	"time"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/realtime"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Notification Service
// Lưu thông báo vào DB rồi đẩy realtime nếu người nhận đang online
// ===========================================================================

// SendNotificationCommand gửi một thông báo tới một user
// Dùng nội bộ giữa các handler nên không giới hạn role
type SendNotificationCommand struct {
	UserID          uuid.UUID               `json:"user_id" validate:"required"`
	Title           string                  `json:"title" validate:"required,max=255"`
	Message         string                  `json:"message" validate:"required"`
	Type            models.NotificationType `json:"type"`
	RelatedObjectID *uuid.UUID              `json:"related_object_id,omitempty"`
	MappingURL      *string                 `json:"mapping_url,omitempty"`
}

// Validate bỏ trống Type thì mặc định là info
func (c SendNotificationCommand) Validate() error {
	if c.Type != "" && !c.Type.IsValid() {
		return apperrors.Invalid(messages.InvalidInput)
	}
	return nil
}

// ListNotificationsQuery thông báo của chính người gọi
type ListNotificationsQuery struct {
	ListParams
	UnreadOnly bool `form:"unread_only" json:"unread_only"`
}

func (ListNotificationsQuery) AllowedRoles() []models.UserRole { return allRoles }

// CountUnreadNotificationsQuery số thông báo chưa đọc của người gọi
type CountUnreadNotificationsQuery struct{}

func (CountUnreadNotificationsQuery) AllowedRoles() []models.UserRole { return allRoles }

// MarkNotificationReadCommand đánh dấu một thông báo đã đọc
type MarkNotificationReadCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (MarkNotificationReadCommand) AllowedRoles() []models.UserRole { return allRoles }

// MarkAllNotificationsReadCommand đánh dấu tất cả đã đọc
type MarkAllNotificationsReadCommand struct{}

func (MarkAllNotificationsReadCommand) AllowedRoles() []models.UserRole { return allRoles }

// DeleteNotificationCommand xóa mềm một thông báo của người gọi
type DeleteNotificationCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (DeleteNotificationCommand) AllowedRoles() []models.UserRole { return allRoles }

// UnreadCount kết quả đếm
type UnreadCount struct {
	Unread int64 `json:"unread"`
}

// NotificationService xử lý các command thông báo
type NotificationService struct {
	base
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	publisher     realtime.Publisher
}

// NewNotificationService tạo NotificationService
func NewNotificationService(
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
	publisher realtime.Publisher,
	logger *zap.Logger,
	loc *time.Location,
) *NotificationService {
	if publisher == nil {
		publisher = realtime.NewNoopPublisher()
	}
	return &NotificationService{
		base:          newBase(logger, loc),
		users:         users,
		notifications: notifications,
		publisher:     publisher,
	}
}

// Send lưu thông báo và đẩy realtime
// Lỗi khi đẩy realtime chỉ log, thông báo vẫn nằm trong hộp thư
func (s *NotificationService) Send(ctx context.Context, cmd SendNotificationCommand) (*MessageResult, error) {
	if _, err := s.users.FindByID(ctx, cmd.UserID); err != nil {
		return nil, notFound(err, messages.UserNotFound)
	}

	kind := cmd.Type
	if kind == "" {
		kind = models.NotificationInfo
	}

	now := s.now()
	n := &models.Notification{
		UserID:          cmd.UserID,
		Title:           cmd.Title,
		Message:         cmd.Message,
		Type:            kind,
		SentAt:          now,
		IsRead:          false,
		RelatedObjectID: cmd.RelatedObjectID,
		MappingURL:      cmd.MappingURL,
	}
	if p, err := actor(ctx); err == nil {
		n.MarkCreated(p.UserID, now)
	} else {
		n.CreatedAt, n.UpdatedAt = now, now
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	event := &realtime.NotificationEvent{
		NotificationID:  n.ID,
		Title:           n.Title,
		Message:         n.Message,
		Kind:            string(n.Type),
		SentAt:          n.SentAt,
		RelatedObjectID: n.RelatedObjectID,
		MappingURL:      n.MappingURL,
	}
	if err := s.publisher.PublishNotification(ctx, n.UserID, event); err != nil {
		s.logger.Debug("realtime push failed",
			zap.String("user_id", n.UserID.String()),
			zap.Error(err),
		)
	}

	return result(messages.CreateSuccess, &n.ID), nil
}

func (s *NotificationService) List(ctx context.Context, q ListNotificationsQuery) (*PageResult[models.Notification], error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	items, total, err := s.notifications.ListByUser(ctx, p.UserID, q.UnreadOnly, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

func (s *NotificationService) CountUnread(ctx context.Context, _ CountUnreadNotificationsQuery) (*UnreadCount, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.notifications.CountUnread(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	return &UnreadCount{Unread: n}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, cmd MarkNotificationReadCommand) (*MessageResult, error) {
	n, err := s.ownNotification(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	n.MarkRead(s.now())
	if err := s.notifications.Update(ctx, n); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &n.ID), nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, _ MarkAllNotificationsReadCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.notifications.MarkAllRead(ctx, p.UserID, s.now()); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, nil), nil
}

func (s *NotificationService) Delete(ctx context.Context, cmd DeleteNotificationCommand) (*MessageResult, error) {
	n, err := s.ownNotification(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	p, _ := actor(ctx)
	n.IsDeleted = true
	n.MarkUpdated(p.UserID, s.now())
	if err := s.notifications.Update(ctx, n); err != nil {
		return nil, err
	}
	return result(messages.DeleteSuccess, &n.ID), nil
}

// ownNotification thông báo của người khác coi như không tồn tại
func (s *NotificationService) ownNotification(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	n, err := findLive[models.Notification](ctx, s.notifications, id, messages.NotificationNotFound)
	if err != nil {
		return nil, err
	}
	if n.UserID != p.UserID {
		return nil, apperrors.NotFound(messages.NotificationNotFound)
	}
	return n, nil
}

// RegisterNotificationHandlers đăng ký handler lên mediator
func RegisterNotificationHandlers(m *mediator.Mediator, s *NotificationService) {
	mediator.Register[SendNotificationCommand, *MessageResult](m, mediator.HandlerFunc[SendNotificationCommand, *MessageResult](s.Send))
	mediator.Register[ListNotificationsQuery, *PageResult[models.Notification]](m, mediator.HandlerFunc[ListNotificationsQuery, *PageResult[models.Notification]](s.List))
	mediator.Register[CountUnreadNotificationsQuery, *UnreadCount](m, mediator.HandlerFunc[CountUnreadNotificationsQuery, *UnreadCount](s.CountUnread))
	mediator.Register[MarkNotificationReadCommand, *MessageResult](m, mediator.HandlerFunc[MarkNotificationReadCommand, *MessageResult](s.MarkRead))
	mediator.Register[MarkAllNotificationsReadCommand, *MessageResult](m, mediator.HandlerFunc[MarkAllNotificationsReadCommand, *MessageResult](s.MarkAllRead))
	mediator.Register[DeleteNotificationCommand, *MessageResult](m, mediator.HandlerFunc[DeleteNotificationCommand, *MessageResult](s.Delete))
}

// ===========================================================================
// Notifier
// Các handler nghiệp vụ gửi thông báo qua mediator, kiểu best effort
// ===========================================================================

// Notifier gửi thông báo mà không làm hỏng command đang chạy
type Notifier struct {
	m      *mediator.Mediator
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewNotifier tạo Notifier
func NewNotifier(m *mediator.Mediator, users repositories.UserRepository, logger *zap.Logger) *Notifier {
	return &Notifier{m: m, users: users, logger: logger}
}

// Notify gửi một thông báo, lỗi chỉ log debug
func (n *Notifier) Notify(ctx context.Context, cmd SendNotificationCommand) bool {
	if _, err := mediator.Send[SendNotificationCommand, *MessageResult](ctx, n.m, cmd); err != nil {
		n.logger.Debug("send notification failed",
			zap.String("user_id", cmd.UserID.String()),
			zap.String("title", cmd.Title),
			zap.Error(err),
		)
		return false
	}
	return true
}

// NotifyRoles gửi cùng nội dung tới mọi user đang hoạt động thuộc roles
// Mỗi người nhận một command, người lỗi bị bỏ qua
// Trả về số thông báo gửi thành công
func (n *Notifier) NotifyRoles(ctx context.Context, roles []models.UserRole, tmpl SendNotificationCommand) int {
	users, err := n.users.FindActiveByRoles(ctx, roles...)
	if err != nil {
		n.logger.Debug("load notification recipients failed", zap.Error(err))
		return 0
	}

	sent := 0
	for _, u := range users {
		cmd := tmpl
		cmd.UserID = u.ID
		if n.Notify(ctx, cmd) {
			sent++
		}
	}
	return sent
}
