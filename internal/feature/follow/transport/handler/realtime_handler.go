package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	authentity "erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	"erasmus_backend/internal/platform/http/httperr"
	"erasmus_backend/internal/platform/realtime"
	"erasmus_backend/internal/shared/apperr"
)

const (
	maxMessageSize = 4096

	actionFollow = "follow"

	replyFollowed = "follow_ok"
	replyError    = "error"
)

// Registry はユーザー単位の接続登録を抽象化します（realtime.Hubが実装）。
type Registry interface {
	Register(userID string, client realtime.Subscriber)
	Unregister(userID string, client realtime.Subscriber)
}

// command はクライアントからサーバーへのメッセージです。
type command struct {
	Action       string `json:"action"`
	TargetUserID string `json:"target_user_id"`
}

// reply はcommandに対する応答です。
type reply struct {
	Type         string `json:"type"`
	TargetUserID string `json:"target_user_id,omitempty"`
	Error        string `json:"error,omitempty"`
}

// RealtimeHandler は/wsのWebSocket接続を処理します。
// 接続中のユーザーはフォロー通知を受け取り、フォロー操作を送信できます。
type RealtimeHandler struct {
	hub      Registry
	follows  FollowUsecase
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewRealtimeHandler はRealtimeHandlerの新しいインスタンスを生成します。
func NewRealtimeHandler(hub Registry, follows FollowUsecase, logger *slog.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		hub:     hub,
		follows: follows,
		logger:  logger,
		upgrader: websocket.Upgrader{
			// 認証はトークンで行うため、Originは制限しない
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS はGET /ws を処理します。AuthenticateWebSocketの後に配置してください。
// 接続が閉じるまでブロックします。
func (h *RealtimeHandler) ServeWS(c *gin.Context) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	client := realtime.NewClient(conn, h.logger)
	h.hub.Register(actor.ID, client)
	h.logger.Info("websocket connected", "user_id", actor.ID)
	defer func() {
		h.hub.Unregister(actor.ID, client)
		client.Close()
		h.logger.Info("websocket disconnected", "user_id", actor.ID)
	}()

	ctx := c.Request.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.send(client, reply{Type: replyError, Error: "malformed message"})
			continue
		}
		switch cmd.Action {
		case actionFollow:
			// /wsはRequireRoleを通らないため、書き込み系のコマンドはここでロールを確認する
			if !actor.HasRole(authentity.ActiveRoles...) {
				h.fail(client, cmd, apperr.ErrForbidden)
				continue
			}
			if _, err := h.follows.Follow(ctx, actor, cmd.TargetUserID); err != nil {
				h.fail(client, cmd, err)
				continue
			}
			h.send(client, reply{Type: replyFollowed, TargetUserID: cmd.TargetUserID})
		default:
			h.send(client, reply{Type: replyError, Error: "unknown action"})
		}
	}
}

// fail はerrをHTTPと同じ公開用メッセージに変換して返信します。
func (h *RealtimeHandler) fail(client *realtime.Client, cmd command, err error) {
	_, msg := httperr.Status(err)
	h.send(client, reply{Type: replyError, TargetUserID: cmd.TargetUserID, Error: msg})
}

func (h *RealtimeHandler) send(client *realtime.Client, r reply) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	_ = client.Send(b)
}
