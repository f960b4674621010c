package server

import (
	"snowarena/game"
)

// Broadcast 将全量快照发给房间内所有连接；每种编码只序列化一次
func (r *Room) Broadcast(snap game.Snapshot, hits []game.Hit) {
	if len(r.clients) == 0 {
		return
	}
	r.fanout(Envelope{T: MsgState, D: snap})
	for _, h := range hits {
		if h.Announce {
			r.fanout(Envelope{T: MsgDebug, D: DebugMsg{Msg: h.String()}})
		}
	}
}

func (r *Room) fanout(env Envelope) {
	encoded := make(map[Codec][]byte, 2)
	for id, c := range r.clients {
		b, ok := encoded[c.codec]
		if !ok {
			var err error
			b, err = c.codec.Marshal(env)
			if err != nil {
				r.log.Errorw("encode broadcast", "type", env.T, "codec", c.codec.Name(), "err", err)
				continue
			}
			encoded[c.codec] = b
		}
		if !c.Enqueue(c.codec.FrameType(), b) {
			r.metrics.IncFramesDropped()
			r.log.Debugw("frame dropped", "player", id, "type", env.T)
		}
	}
}
