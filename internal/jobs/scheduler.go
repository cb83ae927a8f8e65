package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// ===========================================================================
// Scheduler
// Job chạy định kỳ theo múi giờ phòng khám
// Hiện chỉ có một job: tắt các chương trình khuyến mãi đã hết hạn mỗi ngày
// ===========================================================================

// PromotionExpiryTag tag của job tắt khuyến mãi hết hạn
const PromotionExpiryTag = "promotion-expiry"

// jobTimeout thời gian tối đa cho một lần chạy job
const jobTimeout = 2 * time.Minute

// PromotionExpirer được PromotionService implement
type PromotionExpirer interface {
	DeactivateExpired(ctx context.Context) (int64, error)
}

// Scheduler bọc gocron.Scheduler
type Scheduler struct {
	cron       *gocron.Scheduler
	promotions PromotionExpirer
	logger     *zap.Logger
}

// NewScheduler tạo scheduler chạy theo múi giờ loc
func NewScheduler(promotions PromotionExpirer, loc *time.Location, logger *zap.Logger) *Scheduler {
	cron := gocron.NewScheduler(loc)
	cron.SingletonModeAll()
	return &Scheduler{
		cron:       cron,
		promotions: promotions,
		logger:     logger.Named("jobs"),
	}
}

// RegisterPromotionExpiry đăng ký job hằng ngày vào lúc at (HH:MM)
func (s *Scheduler) RegisterPromotionExpiry(at string) error {
	if _, err := time.Parse("15:04", at); err != nil {
		return fmt.Errorf("invalid job time %q: %w", at, err)
	}
	// đăng ký lại thì thay job cũ
	_ = s.cron.RemoveByTag(PromotionExpiryTag)

	_, err := s.cron.Every(1).Day().At(at).Tag(PromotionExpiryTag).Do(s.RunPromotionExpiry)
	if err != nil {
		return fmt.Errorf("schedule promotion expiry: %w", err)
	}
	s.logger.Info("promotion expiry job registered", zap.String("at", at))
	return nil
}

// RunPromotionExpiry chạy job một lần
// Lỗi chỉ được log, lần chạy sau sẽ xử lý tiếp
func (s *Scheduler) RunPromotionExpiry() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := s.promotions.DeactivateExpired(ctx)
	if err != nil {
		s.logger.Error("promotion expiry job failed", zap.Error(err))
		return
	}
	s.logger.Debug("promotion expiry job done",
		zap.Int64("deactivated", n),
		zap.Duration("took", time.Since(start)),
	)
}

// Len số job đang đăng ký
func (s *Scheduler) Len() int {
	return s.cron.Len()
}

// Start chạy scheduler ở goroutine riêng
func (s *Scheduler) Start() {
	s.cron.StartAsync()
	s.logger.Info("scheduler started", zap.Int("jobs", s.cron.Len()))
}

// Stop dừng scheduler, job đang chạy được chạy nốt
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}
