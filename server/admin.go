package server

import (
	"encoding/json"
	"net/http"

	"snowarena/game"
)

func roomParam(r *http.Request) string {
	id := r.URL.Query().Get("room")
	if id == "" {
		id = DefaultRoom
	}
	return id
}

// HandleAdminConfig 提供房间参数的读取与更新（热更新，下一个 Tick 生效）
// GET /admin/config?room=room-1  返回当前配置
// POST /admin/config?room=room-1 以 JSON 载荷更新部分字段
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room, ok := m.Room(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	type cfg struct {
		Speed      *float64 `json:"speed,omitempty"`
		EdgesBlock *bool    `json:"edgesBlock,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		cur := room.Tunables()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg{Speed: &cur.Speed, EdgesBlock: &cur.EdgesBlock})
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Speed != nil && *body.Speed < 0 {
			http.Error(w, "speed must be >= 0", http.StatusBadRequest)
			return
		}
		next := room.UpdateTunables(func(c *game.Config) {
			if body.Speed != nil {
				c.Speed = *body.Speed
			}
			if body.EdgesBlock != nil {
				c.EdgesBlock = *body.EdgesBlock
			}
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infof("config updated: room=%s speed=%.2f edgesBlock=%v", roomID, next.Speed, next.EdgesBlock)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=room-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := roomParam(r)
	room, ok := m.Room(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	payload := map[string]any{
		"room":    roomID,
		"tick":    room.TickSeq(),
		"metrics": room.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

// Routes 注册全部 HTTP 路由
func (m *RoomManager) Routes(staticDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", m.HandleWS)
	// 前后端分离：将 / 映射到静态资源目录
	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	// 管理与监控接口
	mux.HandleFunc("/admin/config", m.HandleAdminConfig)
	mux.HandleFunc("/metrics", m.HandleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
