package cache

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes and decodes cached values.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// MsgPack encodes values with MessagePack. It is the default codec.
type MsgPack struct{}

func (MsgPack) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MsgPack) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MsgPack) Name() string                       { return "msgpack" }

// JSON encodes values with encoding/json, which keeps Redis values readable
// with redis-cli at the cost of size.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }

// CodecByName returns the codec registered under name, defaulting to MsgPack.
func CodecByName(name string) Codec {
	if name == "json" {
		return JSON{}
	}
	return MsgPack{}
}
