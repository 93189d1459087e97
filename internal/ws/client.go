package ws

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

// 心跳配置
const (
	pongWait       = 60 * time.Second    // 等待 Pong 响应的最大时间
	pingPeriod     = (pongWait * 9) / 10 // Ping 发送间隔，必须小于 pongWait
	writeWait      = 10 * time.Second    // 写消息超时时间
	maxMessageSize = 4 * 1024            // 最大入站消息大小（事件流是单向的，入站只有心跳）
)

// Client 代表一个 WebSocket 客户端连接
type Client struct {
	Hub     *Hub
	Conn    *websocket.Conn
	Subject string      // Clerk user_id，事件按它路由
	send    chan []byte // 发送消息缓冲区
}

// NewClient 创建客户端实例
func NewClient(hub *Hub, conn *websocket.Conn, subject string) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		Subject: subject,
		send:    make(chan []byte, 256),
	}
}

// WritePump 负责写消息和发送心跳 Ping
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				// send channel 已关闭，发送关闭帧
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// 定时发送 Ping 保活
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump 负责处理心跳 Pong 和连接关闭
// 事件流是服务端单向推送，入站消息一律忽略
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))

	// 收到 Pong 时重置读超时
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Client] 连接异常关闭: %v", err)
			}
			break
		}

		// 收到消息也重置读超时
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
