package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub 维护已连接客户端的目录，按外部身份（Clerk user_id）分组
// 事件只推送给属主自己的连接：笔记是私有数据，广播范围就是授权范围
// Hub 不处理任何入站业务消息，只做注册/注销和事件扇出
type Hub struct {
	clients map[string]map[*Client]bool // externalSubject -> 该用户的所有连接
	mu      sync.RWMutex
}

// NewHub 创建 Hub 实例
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]bool),
	}
}

// Register 注册客户端连接
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.Subject]
	if !ok {
		conns = make(map[*Client]bool)
		h.clients[c.Subject] = conns
	}
	conns[c] = true

	log.Printf("[Hub] ✅ 用户 [%s] 已连接（当前 %d 条连接）", c.Subject, len(conns))
}

// Unregister 注销客户端连接并关闭其发送通道
// 重复注销是安全的（ReadPump 和 WritePump 都可能触发）
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[c.Subject]
	if !ok || !conns[c] {
		return
	}

	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.Subject)
	}

	log.Printf("[Hub] 👋 用户 [%s] 已断开", c.Subject)
}

// Publish 向某个外部身份的所有连接推送事件
// 非阻塞发送：慢客户端直接丢消息，事件只是提示，权威数据在数据库
func (h *Hub) Publish(subject string, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[Hub] ❌ 序列化事件失败: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[subject] {
		select {
		case c.send <- data:
		default:
			log.Printf("[Hub] ⚠️ 用户 [%s] 发送缓冲区已满，丢弃事件 %s", subject, msg.Type)
		}
	}
}

// ConnectionCount 某个外部身份当前的连接数（监控/测试用）
func (h *Hub) ConnectionCount(subject string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[subject])
}
