package http

import (
	"encoding/json"

	"github.com/moamoa-kids/moamoa-web/internal/core"
	"github.com/moamoa-kids/moamoa-web/internal/proto"
)

// inbound is a decoded browser message.
type inbound struct {
	hello *proto.HelloData
	reply *proto.ReplyData
}

func decodeInbound(msg proto.Inbound) (inbound, *proto.Error, error) {
	switch msg.Type {
	case proto.InboundTypeHello:
		var hello proto.HelloData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &hello); err != nil {
				return inbound{}, nil, err
			}
		}
		if hello.Protocol != 0 && hello.Protocol != proto.ProtocolVersion {
			return inbound{}, &proto.Error{Code: "unsupported_version", Msg: "unsupported protocol version"}, nil
		}
		return inbound{hello: &hello}, nil, nil
	case proto.InboundTypeReply:
		var reply proto.ReplyData
		if err := json.Unmarshal(msg.Data, &reply); err != nil {
			return inbound{}, nil, err
		}
		return inbound{reply: &reply}, nil, nil
	default:
		return inbound{}, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data:  eventMessage(event.Message),
		}
	case core.EventTyping:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameTyping,
			Data:  proto.EventTyping{Typing: event.Typing},
		}
	case core.EventRender:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRender,
			Data:  proto.EventRender{HTML: string(event.HTML), Typing: event.Typing},
		}
	case core.EventClosed:
		return proto.Outbound{Type: proto.OutboundTypeEvent, Event: proto.EventNameClosed}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func eventMessage(msg core.Message) proto.EventMessage {
	return proto.EventMessage{
		ID:     msg.ID,
		Sender: string(msg.Sender),
		Text:   msg.Text,
		TS:     msg.CreatedAt.Unix(),
	}
}

func protoError(err error) *proto.Error {
	return &proto.Error{Code: core.ErrorCode(err), Msg: err.Error()}
}
