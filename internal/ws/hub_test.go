package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ========== Hub 单元测试 ==========
// 验证事件只推送给属主自己的连接，以及注册/注销的生命周期

// newTestClient 构造不带真实连接的客户端（只用 send 通道收消息）
func newTestClient(hub *Hub, subject string) *Client {
	return NewClient(hub, nil, subject)
}

func makeMessage(t *testing.T, msgType MessageType, noteID string) WSMessage {
	t.Helper()
	payload, err := json.Marshal(NotePayload{NoteID: noteID})
	assert.NoError(t, err)
	return WSMessage{Type: msgType, Payload: payload, Timestamp: time.Now().UnixMilli()}
}

// TestHub_PublishScopedToSubject 事件只到达属主的连接
func TestHub_PublishScopedToSubject(t *testing.T) {
	hub := NewHub()

	clientA := newTestClient(hub, "clerk-a")
	clientB := newTestClient(hub, "clerk-b")
	hub.Register(clientA)
	hub.Register(clientB)

	hub.Publish("clerk-a", makeMessage(t, TypeNoteCreated, "n1"))

	// A 收到事件
	select {
	case data := <-clientA.send:
		var msg WSMessage
		assert.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, TypeNoteCreated, msg.Type)
	default:
		t.Fatal("属主连接没有收到事件")
	}

	// B 收不到
	select {
	case <-clientB.send:
		t.Fatal("事件泄漏到了其他用户的连接")
	default:
	}
}

// TestHub_PublishFanOut 同一用户的多条连接都收到事件
func TestHub_PublishFanOut(t *testing.T) {
	hub := NewHub()

	c1 := newTestClient(hub, "clerk-a")
	c2 := newTestClient(hub, "clerk-a")
	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.ConnectionCount("clerk-a"))

	hub.Publish("clerk-a", makeMessage(t, TypeNoteUpdated, "n1"))

	for _, c := range []*Client{c1, c2} {
		select {
		case <-c.send:
		default:
			t.Fatal("某条连接没有收到事件")
		}
	}
}

// TestHub_PublishToOfflineSubject 没有连接时推送是空操作
func TestHub_PublishToOfflineSubject(t *testing.T) {
	hub := NewHub()

	// 不注册任何连接，不应 panic 也不应阻塞
	hub.Publish("clerk-a", makeMessage(t, TypeNoteDeleted, "n1"))

	assert.Equal(t, 0, hub.ConnectionCount("clerk-a"))
}

// TestHub_Unregister 注销后连接被移除，send 通道被关闭
func TestHub_Unregister(t *testing.T) {
	hub := NewHub()

	c := newTestClient(hub, "clerk-a")
	hub.Register(c)
	assert.Equal(t, 1, hub.ConnectionCount("clerk-a"))

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ConnectionCount("clerk-a"))

	// send 已关闭
	_, open := <-c.send
	assert.False(t, open)

	// 重复注销安全（ReadPump / WritePump 都可能触发）
	hub.Unregister(c)
}

// TestHub_SlowClientDropsMessage 发送缓冲区满时丢消息而不是阻塞
func TestHub_SlowClientDropsMessage(t *testing.T) {
	hub := NewHub()

	c := newTestClient(hub, "clerk-a")
	hub.Register(c)

	// 填满缓冲区（容量 256）
	for i := 0; i < 256+10; i++ {
		hub.Publish("clerk-a", makeMessage(t, TypeNoteCreated, "n1"))
	}

	// Publish 没有阻塞即为通过；缓冲区内恰好是容量上限条
	assert.Equal(t, 256, len(c.send))
}
