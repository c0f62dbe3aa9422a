package whatsapp

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ohcnetwork/care-whatsapp/internal/messaging"
)

// Classify parses a verified webhook body into normalized inbound messages.
// A payload with no message entries (delivery-status callbacks and the
// like) yields an empty slice, not an error, so the caller can acknowledge
// receipt without dispatching. Unrecognized message types classify as
// KindUnknown and still flow through so the fallback handler can respond.
func Classify(body []byte) ([]messaging.Inbound, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("whatsapp: decode webhook body: %w", messaging.ErrMalformedRequest)
	}

	var msgs []messaging.Inbound
	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				msgs = append(msgs, classifyMessage(m))
			}
		}
	}
	return msgs, nil
}

func classifyMessage(m Message) messaging.Inbound {
	in := messaging.Inbound{
		ProviderMessageID: m.ID,
		SenderID:          m.From,
		Kind:              messaging.KindUnknown,
		ReceivedAt:        parseTimestamp(m.Timestamp),
		Raw:               rawMessage(m),
	}

	switch m.Type {
	case "text":
		in.Kind = messaging.KindText
		if m.Text != nil {
			in.Body = m.Text.Body
		}
	case "interactive":
		in.Kind = messaging.KindInteractive
		if m.Interactive != nil {
			var item *WebhookItem
			switch m.Interactive.Type {
			case "button_reply":
				item = m.Interactive.ButtonReply
			case "list_reply":
				item = m.Interactive.ListReply
			}
			if item != nil {
				in.Body = item.Title
				in.ReplyID = item.ID
			}
		}
	case "image", "audio", "video", "document", "sticker":
		in.Kind = messaging.KindMedia
		if ref := mediaRef(m); ref != nil {
			in.Body = ref.Caption
		}
	}
	return in
}

func mediaRef(m Message) *MediaRef {
	switch {
	case m.Image != nil:
		return m.Image
	case m.Audio != nil:
		return m.Audio
	case m.Video != nil:
		return m.Video
	case m.Document != nil:
		return m.Document
	}
	return nil
}

func parseTimestamp(ts string) time.Time {
	sec, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func rawMessage(m Message) map[string]any {
	data, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}
