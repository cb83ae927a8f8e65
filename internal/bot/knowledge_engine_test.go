package bot

import (
	"context"
	"testing"

	"dentalclinic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func knowledge(question, answer string, keywords ...string) models.ChatBotKnowledge {
	return models.ChatBotKnowledge{
		Question: question,
		Answer:   answer,
		Keywords: keywords,
		IsActive: true,
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "nieng rang gia bao nhieu", Normalize("  Niềng   RĂNG giá bao nhiêu "))
	assert.Equal(t, "dieu tri tuy", Normalize("Điều trị tủy"))
}

func TestMatch_PicksMostKeywordHits(t *testing.T) {
	engine := NewKnowledgeEngine(zap.NewNop())
	items := []models.ChatBotKnowledge{
		knowledge("Giờ làm việc?", "8h - 20h", "giờ làm việc", "mở cửa"),
		knowledge("Giá niềng răng?", "Từ 30 triệu", "niềng", "giá"),
	}

	res := engine.Match(context.Background(), items, "Cho hỏi giá niềng răng bên mình?")
	require.True(t, res.Matched)
	assert.Equal(t, "Từ 30 triệu", res.Knowledge.Answer)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestMatch_SkipsInactiveAndEmpty(t *testing.T) {
	engine := NewKnowledgeEngine(zap.NewNop())
	inactive := knowledge("Giá niềng?", "x", "niềng")
	inactive.IsActive = false

	res := engine.Match(context.Background(), []models.ChatBotKnowledge{inactive}, "niềng răng")
	assert.False(t, res.Matched)

	res = engine.Match(context.Background(), []models.ChatBotKnowledge{knowledge("a", "b", "c")}, "   ")
	assert.False(t, res.Matched)
}

func TestMatch_TieKeepsPriorityOrder(t *testing.T) {
	engine := NewKnowledgeEngine(zap.NewNop())
	items := []models.ChatBotKnowledge{
		knowledge("Ưu tiên", "first", "răng"),
		knowledge("Thường", "second", "răng"),
	}

	res := engine.Match(context.Background(), items, "đau răng")
	require.True(t, res.Matched)
	assert.Equal(t, "first", res.Knowledge.Answer)
}
