package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	// sendBuffer は書き込み待ちにできるメッセージ数です。
	sendBuffer = 16
)

var (
	// ErrClientClosed はClose済みのクライアントへ送信した場合に返されます。
	ErrClientClosed = errors.New("realtime: client closed")
	// ErrSendBufferFull は相手の受信が追いつかず送信キューが溢れた場合に返されます。
	ErrSendBufferFull = errors.New("realtime: send buffer full")
)

// Client は1本のWebSocket接続を表します。
// 書き込みは専用のgoroutineが行い、Sendはキューに積むだけでブロックしません。
type Client struct {
	conn      *websocket.Conn
	log       *slog.Logger
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient は接続をラップし、書き込み用goroutineを起動します。
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	c := newClient(conn, logger, sendBuffer)
	go c.writeLoop()
	return c
}

func newClient(conn *websocket.Conn, logger *slog.Logger, buffer int) *Client {
	return &Client{
		conn: conn,
		log:  logger,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// Send はテキストメッセージを送信キューに積みます。
// キューが満杯ならErrSendBufferFullを返し、呼び出し側（Hub）が接続を切ります。
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	default:
		c.log.Warn("websocket send buffer full", "buffer", cap(c.send))
		return ErrSendBufferFull
	}
}

// writeLoop はキューのメッセージを順に書き込みます。書き込みに失敗したら接続を閉じます。
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("websocket send failed", "error", err)
				c.Close()
				return
			}
		}
	}
}

// Close は接続を閉じます。複数回呼んでも安全です。
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}
