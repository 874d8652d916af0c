package http

import (
	"encoding/json"

	"github.com/mkazancev/relaychat-server/internal/core"
	"github.com/mkazancev/relaychat-server/internal/proto"
)

func inboundToCommand(in proto.Inbound) (*core.Command, *proto.Error, error) {
	switch in.Type {
	case proto.InboundTypeIdentify:
		var data proto.IdentifyData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.User == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "user is required"}, nil
		}
		return &core.Command{Kind: core.CommandIdentify, Identity: data.User}, nil, nil

	case proto.InboundTypeChatSend:
		var data proto.ChatSendData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.To == "" || data.Body == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "to and body are required"}, nil
		}
		return &core.Command{Kind: core.CommandSendMessage, To: data.To, Body: data.Body}, nil, nil

	case proto.InboundTypeMarkSeen:
		var data proto.MarkSeenData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.From == "" || data.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "from and to are required"}, nil
		}
		return &core.Command{Kind: core.CommandMarkSeen, From: data.From, To: data.To}, nil, nil

	case proto.InboundTypeCallOffer:
		var data proto.CallOfferData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "to is required"}, nil
		}
		// The bound identity wins over the frame's from_user; the frame
		// field only matters for sessions that offered before identifying.
		return &core.Command{Kind: core.CommandCallOffer, To: data.To, From: data.FromUser, Payload: data.Offer}, nil, nil

	case proto.InboundTypeCallAnswer:
		var data proto.CallAnswerData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "to is required"}, nil
		}
		return &core.Command{Kind: core.CommandCallAnswer, To: data.To, Payload: data.Answer}, nil, nil

	case proto.InboundTypeCallICE:
		var data proto.CallICEData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "to is required"}, nil
		}
		return &core.Command{Kind: core.CommandCallICE, To: data.To, Payload: data.Candidate}, nil, nil

	case proto.InboundTypeCallHangup:
		var data proto.CallHangupData
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return nil, nil, err
		}
		if data.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeValidation, Msg: "to is required"}, nil
		}
		return &core.Command{Kind: core.CommandCallHangup, To: data.To}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventChatReceive:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatReceive,
			Data: proto.EventMessage{
				ID:   event.Message.ID,
				From: event.Message.Sender,
				To:   event.Message.Recipient,
				Body: event.Message.Body,
				Seen: event.Message.Seen,
				TS:   event.Message.CreatedAt.Unix(),
			},
		}
	case core.EventChatSeenAck:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventChatSeenAck,
			Data:  proto.EventSeenAck{From: event.SeenBy},
		}
	case core.EventPresence:
		users := make([]proto.PresenceEntry, 0, len(event.Presence))
		for _, entry := range event.Presence {
			users = append(users, proto.PresenceEntry{
				User:   entry.Identity,
				Online: entry.Online,
				Unseen: entry.Unseen,
			})
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventPresenceUpdate,
			Data:  proto.EventPresence{Users: users},
		}
	case core.EventCallIncoming:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallIncoming,
			Data:  proto.EventCallFrame{From: event.From, Offer: event.Payload},
		}
	case core.EventCallAnswer:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallAnswer,
			Data:  proto.EventCallFrame{From: event.From, Answer: event.Payload},
		}
	case core.EventCallICE:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallICE,
			Data:  proto.EventCallFrame{From: event.From, Candidate: event.Payload},
		}
	case core.EventCallHungup:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventCallHungup,
			Data:  proto.EventCallFrame{From: event.From},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}
