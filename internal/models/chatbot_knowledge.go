package models

import (
	"gorm.io/datatypes"
)

// ChatBotKnowledge một cặp câu hỏi/trả lời cho chatbot tư vấn
type ChatBotKnowledge struct {
	BaseModel

	Question string `gorm:"type:text;not null" json:"question"`
	Answer   string `gorm:"type:text;not null" json:"answer"`

	// Keywords từ khóa để match câu hỏi của khách
	Keywords datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"keywords"`

	Category *string `gorm:"size:100;index" json:"category,omitempty"`

	// Priority ưu tiên khi nhiều mục cùng match (cao hơn thắng)
	Priority int `gorm:"default:0" json:"priority"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
}

// TableName trả về tên bảng
func (ChatBotKnowledge) TableName() string {
	return "chatbot_knowledge"
}
