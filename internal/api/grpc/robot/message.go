package robot

import (
	"encoding/base64"
	"errors"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/robot-alarm/internal/publish"
)

// Field names of a publish document.
const (
	fieldTopic    = "topic"
	fieldPayload  = "payload"
	fieldQoS      = "qos"
	fieldRetained = "retained"
	fieldDup      = "dup"
)

// errTopicRequired is returned for publish documents without a topic.
var errTopicRequired = errors.New("topic is required")

// MessageToStruct encodes a publish message. The payload is base64 so any
// bytes survive the JSON-shaped Struct.
func MessageToStruct(msg publish.Message) (*structpb.Struct, error) {
	doc, err := structpb.NewStruct(map[string]any{
		fieldTopic:    msg.Topic,
		fieldPayload:  base64.StdEncoding.EncodeToString(msg.Payload),
		fieldQoS:      int(msg.QoS),
		fieldRetained: msg.Retained,
		fieldDup:      msg.Dup,
	})
	if err != nil {
		return nil, fmt.Errorf("encode publish: %w", err)
	}

	return doc, nil
}

// MessageFromStruct decodes a publish message.
func MessageFromStruct(doc *structpb.Struct) (publish.Message, error) {
	fields := doc.GetFields()

	topic := fields[fieldTopic].GetStringValue()
	if topic == "" {
		return publish.Message{}, errTopicRequired
	}

	payload, err := base64.StdEncoding.DecodeString(fields[fieldPayload].GetStringValue())
	if err != nil {
		return publish.Message{}, fmt.Errorf("decode payload: %w", err)
	}

	return publish.Message{
		Topic:    topic,
		Payload:  payload,
		QoS:      publish.QoS(fields[fieldQoS].GetNumberValue()),
		Retained: fields[fieldRetained].GetBoolValue(),
		Dup:      fields[fieldDup].GetBoolValue(),
	}, nil
}
