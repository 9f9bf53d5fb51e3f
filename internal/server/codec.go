package server

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"CreeperAttack/internal/game"
)

const frameKindStatus = "status"

var ErrUnknownCodec = errors.New("unknown codec")

// Frame is one message on the event stream. Decoded bodies come back as
// generic maps.
type Frame struct {
	ID    string    `json:"id" msgpack:"id"`
	Kind  string    `json:"kind" msgpack:"kind"`
	Arena string    `json:"arena" msgpack:"arena"`
	At    time.Time `json:"at" msgpack:"at"`
	Body  any       `json:"body" msgpack:"body"`
}

type Codec interface {
	Name() string
	MessageType() int
	Encode(f Frame) ([]byte, error)
	Decode(data []byte) (Frame, error)
}

// CodecFor resolves a codec by name; empty means json.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return jsonCodec{}, nil
	case "msgpack":
		return msgpackCodec{}, nil
	case "proto", "protobuf":
		return protoCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string                   { return "json" }
func (jsonCodec) MessageType() int               { return websocket.TextMessage }
func (jsonCodec) Encode(f Frame) ([]byte, error) { return json.Marshal(f) }

func (jsonCodec) Decode(data []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(data, &f)
	return f, err
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string                   { return "msgpack" }
func (msgpackCodec) MessageType() int               { return websocket.BinaryMessage }
func (msgpackCodec) Encode(f Frame) ([]byte, error) { return msgpack.Marshal(f) }

func (msgpackCodec) Decode(data []byte) (Frame, error) {
	var f Frame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}

// protoCodec wraps the frame in a structpb.Struct envelope. The body goes
// through its json form first so struct tags decide the field names.
type protoCodec struct{}

func (protoCodec) Name() string     { return "proto" }
func (protoCodec) MessageType() int { return websocket.BinaryMessage }

func (protoCodec) Encode(f Frame) ([]byte, error) {
	body, err := structValue(f.Body)
	if err != nil {
		return nil, fmt.Errorf("proto body: %w", err)
	}
	ts := timestamppb.New(f.At)
	at := &structpb.Struct{Fields: map[string]*structpb.Value{
		"seconds": structpb.NewNumberValue(float64(ts.GetSeconds())),
		"nanos":   structpb.NewNumberValue(float64(ts.GetNanos())),
	}}
	env := &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":    structpb.NewStringValue(f.ID),
		"kind":  structpb.NewStringValue(f.Kind),
		"arena": structpb.NewStringValue(f.Arena),
		"at":    structpb.NewStructValue(at),
		"body":  body,
	}}
	return proto.Marshal(env)
}

func (protoCodec) Decode(data []byte) (Frame, error) {
	var env structpb.Struct
	if err := proto.Unmarshal(data, &env); err != nil {
		return Frame{}, err
	}
	fields := env.GetFields()
	f := Frame{
		ID:    fields["id"].GetStringValue(),
		Kind:  fields["kind"].GetStringValue(),
		Arena: fields["arena"].GetStringValue(),
	}
	at := fields["at"].GetStructValue().GetFields()
	ts := &timestamppb.Timestamp{
		Seconds: int64(at["seconds"].GetNumberValue()),
		Nanos:   int32(at["nanos"].GetNumberValue()),
	}
	if err := ts.CheckValid(); err != nil {
		return Frame{}, fmt.Errorf("proto frame time: %w", err)
	}
	f.At = ts.AsTime()
	if body, ok := fields["body"]; ok {
		f.Body = body.AsInterface()
	}
	return f, nil
}

func structValue(v any) (*structpb.Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return structpb.NewValue(generic)
}

// frameIDs issues sortable frame ids. ulid's monotonic entropy is not safe
// for concurrent use.
type frameIDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newFrameIDs() *frameIDs {
	return &frameIDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *frameIDs) next(at time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(at), g.entropy)
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

func (g *frameIDs) noticeFrame(n game.Notice) Frame {
	return Frame{ID: g.next(n.At), Kind: string(n.Kind), Arena: n.Arena, At: n.At, Body: n}
}

func (g *frameIDs) statusFrame(st game.ArenaStatus) Frame {
	return Frame{ID: g.next(st.At), Kind: frameKindStatus, Arena: st.Arena, At: st.At, Body: st}
}
