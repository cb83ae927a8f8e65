package repositories

import (
	"context"

	"dentalclinic/internal/models"

	"gorm.io/gorm"
)

type chatBotKnowledgeRepo struct {
	baseRepo[models.ChatBotKnowledge]
}

// NewChatBotKnowledgeRepository tạo chatbot knowledge repository mới
func NewChatBotKnowledgeRepository(db *gorm.DB) ChatBotKnowledgeRepository {
	return &chatBotKnowledgeRepo{baseRepo[models.ChatBotKnowledge]{db: db}}
}

func (r *chatBotKnowledgeRepo) List(ctx context.Context, opts FindOptions) ([]models.ChatBotKnowledge, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ChatBotKnowledge{})
	if opts.Search != "" {
		query = query.Where("question ILIKE ?", "%"+opts.Search+"%")
	}
	return paginate[models.ChatBotKnowledge](query, opts)
}

// FindActive lấy các mục đang bật, sắp xếp theo priority giảm dần
func (r *chatBotKnowledgeRepo) FindActive(ctx context.Context) ([]models.ChatBotKnowledge, error) {
	var items []models.ChatBotKnowledge
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order("priority DESC").
		Find(&items).Error
	return items, translateError(err)
}
