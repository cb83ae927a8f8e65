package bot

import (
	"context"
	"strings"
	"unicode"

	"dentalclinic/internal/models"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ===========================================================================
// Knowledge Engine
// Match câu hỏi của khách với dữ liệu chatbot đã soạn sẵn
// So khớp theo từ khóa, không phân biệt hoa thường và dấu tiếng Việt
// ===========================================================================

// MatchResult kết quả match
type MatchResult struct {
	// Matched có match mục nào không
	Matched bool

	// Knowledge mục đã match (nếu có)
	Knowledge *models.ChatBotKnowledge

	// MatchedKeyword từ khóa đầu tiên đã match
	MatchedKeyword string

	// Confidence tỉ lệ từ khóa của mục xuất hiện trong câu hỏi (0-1)
	Confidence float64
}

// KnowledgeEngine interface cho việc tìm câu trả lời
type KnowledgeEngine interface {
	// Match tìm mục phù hợp nhất
	// items đã sắp xếp theo priority giảm dần, khi bằng điểm thì mục đứng trước thắng
	Match(ctx context.Context, items []models.ChatBotKnowledge, question string) MatchResult
}

type knowledgeEngine struct {
	logger *zap.Logger
}

// NewKnowledgeEngine tạo instance mới của KnowledgeEngine
func NewKnowledgeEngine(logger *zap.Logger) KnowledgeEngine {
	return &knowledgeEngine{logger: logger}
}

// Match chấm điểm từng mục theo số từ khóa xuất hiện trong câu hỏi
func (e *knowledgeEngine) Match(ctx context.Context, items []models.ChatBotKnowledge, question string) MatchResult {
	content := Normalize(question)
	if content == "" {
		return MatchResult{}
	}

	best := MatchResult{}
	bestHits := 0

	for i := range items {
		item := &items[i]
		if !item.IsActive || item.IsDeleted {
			continue
		}

		keywords := item.Keywords
		if len(keywords) == 0 {
			// không có từ khóa thì so với chính câu hỏi mẫu
			keywords = []string{item.Question}
		}

		hits, first := 0, ""
		for _, kw := range keywords {
			nkw := Normalize(kw)
			if nkw == "" || !strings.Contains(content, nkw) {
				continue
			}
			if hits == 0 {
				first = kw
			}
			hits++
		}

		if hits > bestHits {
			bestHits = hits
			best = MatchResult{
				Matched:        true,
				Knowledge:      item,
				MatchedKeyword: first,
				Confidence:     float64(hits) / float64(len(keywords)),
			}
		}
	}

	if best.Matched {
		e.logger.Debug("knowledge matched",
			zap.String("knowledge_id", best.Knowledge.ID.String()),
			zap.String("keyword", best.MatchedKeyword),
			zap.Float64("confidence", best.Confidence),
		)
	}
	return best
}

// Normalize chuyển về chữ thường, bỏ dấu và gộp khoảng trắng
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		out = strings.ToLower(s)
	}
	out = strings.ReplaceAll(out, "đ", "d")
	return strings.Join(strings.Fields(out), " ")
}
