package server

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec 单个连接使用的帧编码：JSON 走文本帧，msgpack 走二进制帧
type Codec interface {
	Name() string
	FrameType() int
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type jsonCodec struct{}

func (jsonCodec) Name() string                       { return "json" }
func (jsonCodec) FrameType() int                     { return websocket.TextMessage }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type msgpackCodec struct{}

func (msgpackCodec) Name() string                       { return "msgpack" }
func (msgpackCodec) FrameType() int                     { return websocket.BinaryMessage }
func (msgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (msgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

var (
	JSONCodec    Codec = jsonCodec{}
	MsgpackCodec Codec = msgpackCodec{}
)

// CodecByName 按名称选择编码，空串为 JSON
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec, nil
	case "msgpack":
		return MsgpackCodec, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

// codecForFrame 入站帧按帧类型解码，与连接的出站编码无关
func codecForFrame(frameType int) Codec {
	if frameType == websocket.BinaryMessage {
		return MsgpackCodec
	}
	return JSONCodec
}
