// Package realtime は接続中のWebSocketクライアントへ、ユーザーID単位でサーバーイベントを配信します。
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Subscriber は配信先のクライアントを抽象化します。Sendはブロックしてはいけません。
type Subscriber interface {
	Send([]byte) error
	Close()
}

// Hub はユーザーIDごとのWebSocket接続を管理します。1ユーザーが複数の接続を持てます。
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Subscriber]struct{}
}

// NewHub は初期化済みのHubを生成します。
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[Subscriber]struct{})}
}

// Register はユーザーの配信先にクライアントを追加します。
func (h *Hub) Register(userID string, client Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Subscriber]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister はクライアントを配信先から外します。
func (h *Hub) Unregister(userID string, client Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(userID, client)
}

func (h *Hub) remove(userID string, client Subscriber) {
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Connected はユーザーが1本以上の接続を持っているかを返します。
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Send はuserIDのすべての接続にpayloadを送り、受け付けた接続数を返します。
// 受け付けなかったクライアントは閉じて登録から外します。
func (h *Hub) Send(userID string, payload []byte) int {
	h.mu.RLock()
	targets := make([]Subscriber, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range targets {
		if err := c.Send(payload); err != nil {
			c.Close()
			h.Unregister(userID, c)
			continue
		}
		delivered++
	}
	return delivered
}

// SendJSON はvをJSONにしてuserIDへ送ります。
func (h *Hub) SendJSON(userID string, v any) int {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("realtime: marshal failed", "error", err)
		return 0
	}
	return h.Send(userID, b)
}
