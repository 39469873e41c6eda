package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtobufEncoder renders a Report as a binary google.protobuf.Struct
// with the same fields as the JSON form.
type ProtobufEncoder struct{}

func (c *ProtobufEncoder) Encode(rep Report) ([]byte, error) {
	msg, err := c.Struct(rep)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
}

// Struct builds the message without marshalling it.
func (c *ProtobufEncoder) Struct(rep Report) (*structpb.Struct, error) {
	data, err := (&JSONEncoder{}).Encode(rep)
	if err != nil {
		return nil, err
	}

	msg := &structpb.Struct{}
	if err := msg.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return msg, nil
}

func (c *ProtobufEncoder) Name() string {
	return "protobuf"
}
