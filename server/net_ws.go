package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"

	"snowarena/game"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // 1MB
	sendBufSize    = 64
	// 每个连接在一个 Tick 内最多排队的攻击请求
	maxPendingAttacks = 16
)

type frame struct {
	typ  int
	data []byte
}

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ID    string
	ws    *websocket.Conn
	codec Codec

	mu     deadlock.Mutex
	send   chan frame
	closed bool

	// 尚未被 Tick 线程取走的输入与攻击，按连接隔离
	pendingInput game.InputUpdate
	hasInput     bool
	attacks      []attackReq
}

type attackReq struct {
	angle   float64
	ability string
}

// QueueInput 记录最新输入；同一 Tick 内的多条输入按字段合并，后写者胜
func (c *ClientConn) QueueInput(u game.InputUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingInput = c.pendingInput.Merge(u)
	c.hasInput = true
}

// QueueAttack 记录攻击请求；超出本连接的上限时丢弃并返回 false
func (c *ClientConn) QueueAttack(angle float64, ability string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.attacks) >= maxPendingAttacks {
		return false
	}
	c.attacks = append(c.attacks, attackReq{angle: angle, ability: ability})
	return true
}

// takePending 取走并清空待处理的输入与攻击
func (c *ClientConn) takePending() (game.InputUpdate, bool, []attackReq) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok, attacks := c.pendingInput, c.hasInput, c.attacks
	c.pendingInput, c.hasInput, c.attacks = game.InputUpdate{}, false, nil
	return u, ok, attacks
}

func NewClientConn(ws *websocket.Conn, codec Codec) *ClientConn {
	return &ClientConn{
		ID:    uuid.NewString(),
		ws:    ws,
		codec: codec,
		send:  make(chan frame, sendBufSize),
	}
}

// Enqueue 将要发送的帧压入队列（非阻塞，满则丢弃），返回是否入队
func (c *ClientConn) Enqueue(typ int, b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame{typ: typ, data: b}:
		return true
	default:
		// 为了实时性，丢弃（防止阻塞 Tick）
		return false
	}
}

// Send 按连接编码发送一条消息
func (c *ClientConn) Send(t string, d any) bool {
	b, err := c.codec.Marshal(Envelope{T: t, D: d})
	if err != nil {
		Log.Errorw("encode message", "conn", c.ID, "type", t, "err", err)
		return false
	}
	return c.Enqueue(c.codec.FrameType(), b)
}

// Close 关闭发送队列，写协程随之退出并关闭底层连接；可重复调用
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case f, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(f.typ, f.data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息，转换为房间事件
func (c *ClientConn) readPump(room *Room) {
	defer c.ws.Close()
	// 读泵退出时，通知房间在 Tick 线程中移除该玩家
	defer room.RequestLeave(c.ID)
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error { return c.ws.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		typ, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Log.Debugw("ws read error", "conn", c.ID, "err", err)
			}
			return
		}
		var env InEnvelope
		if err := codecForFrame(typ).Unmarshal(payload, &env); err != nil {
			room.metrics.IncMalformed()
			continue
		}
		c.dispatch(room, env)
	}
}

// dispatch 入站消息分派；技能 id 在入队前校验，不进入模拟步骤
func (c *ClientConn) dispatch(room *Room, env InEnvelope) {
	switch strings.ToLower(env.T) {
	case MsgInputs:
		if !env.D.InputUpdate().Complete() {
			room.metrics.IncMalformed()
		}
		room.OnInput(c, env.D.InputUpdate())
	case MsgAttack, MsgSnowball:
		if env.D.Angle == nil {
			room.metrics.IncMalformed()
			return
		}
		ability := env.D.Ability
		if strings.ToLower(env.T) == MsgSnowball && ability == "" {
			ability = game.AbilityDefault
		}
		if _, err := room.world.Registry().Lookup(ability); err != nil {
			room.metrics.IncInvalidAbility()
			Log.Debugw("attack rejected", "conn", c.ID, "err", err)
			return
		}
		room.OnAttack(c, *env.D.Angle, ability)
	default:
		room.metrics.IncMalformed()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：?room=room-1&codec=json|msgpack
func (m *RoomManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = DefaultRoom
	}
	codec, err := CodecByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("upgrade error", "remote", r.RemoteAddr, "err", err)
		return
	}

	room := m.GetOrCreateRoom(roomID)
	client := NewClientConn(ws, codec)

	// 地图不可变，可在 Tick 线程之外直接下发
	client.Send(MsgWelcome, WelcomeMsg{ID: client.ID, TickRate: TicksPerSecond, Abilities: abilityInfos(room.world.Registry())})
	client.Send(MsgMap, room.world.Map().Snapshot())
	if !room.RequestJoin(client) {
		// 房间已停止
		_ = ws.Close()
		return
	}

	Log.Infow("user connected", "room", roomID, "conn", client.ID, "codec", codec.Name(), "remote", r.RemoteAddr)

	go client.writePump()
	go client.readPump(room)
}
