package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Centrifugo Publisher
// Đẩy thông báo qua server API của Centrifugo (POST /api/publish)
// Mỗi user subscribe channel riêng: notifications:user_<id>
// ===========================================================================

// CentrifugoClient implements Publisher
type CentrifugoClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      *zap.Logger
}

// NewCentrifugoClient baseURL là địa chỉ Centrifugo, VD: http://centrifugo:8000
func NewCentrifugoClient(baseURL, apiKey string, log *zap.Logger) *CentrifugoClient {
	return &CentrifugoClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/publish",
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      log.Named("centrifugo"),
	}
}

type publishRequest struct {
	Channel string `json:"channel"`
	Data    any    `json:"data"`
}

// publishReply Centrifugo trả 200 kể cả khi lỗi, lỗi nằm trong body
type publishReply struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// UserChannel tên channel thông báo của user
func UserChannel(userID uuid.UUID) string {
	return "notifications:user_" + userID.String()
}

// PublishNotification đẩy thông báo vào channel riêng của user
func (c *CentrifugoClient) PublishNotification(ctx context.Context, userID uuid.UUID, event *NotificationEvent) error {
	event.Type = EventNotification
	channel := UserChannel(userID)

	if err := c.publish(ctx, channel, event); err != nil {
		c.log.Warn("publish failed", zap.String("channel", channel), zap.Error(err))
		return err
	}
	c.log.Debug("published", zap.String("channel", channel))
	return nil
}

func (c *CentrifugoClient) publish(ctx context.Context, channel string, data any) error {
	body, err := json.Marshal(publishRequest{Channel: channel, Data: data})
	if err != nil {
		return fmt.Errorf("centrifugo: marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("centrifugo: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("centrifugo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("centrifugo: unexpected status %d", resp.StatusCode)
	}

	var reply publishReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		// body rỗng vẫn coi là thành công
		return nil
	}
	if reply.Error != nil {
		return fmt.Errorf("centrifugo: api error %d: %s", reply.Error.Code, reply.Error.Message)
	}
	return nil
}
