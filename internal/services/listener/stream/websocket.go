package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"golang.org/x/net/websocket"

	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/platform/timeouts"
	"github.com/khaliljdfgs/Dera-Web-APP-React-Native-JS-sub001/internal/services/listener/domain"
)

// ErrRemote wraps failures reported by the remote store over the stream.
var ErrRemote = errors.New("remote store error")

const (
	frameSubscribe = "subscribe"
	frameSnapshot  = "snapshot"
	frameError     = "error"
)

// subscribeFrame is the single frame a client sends after the handshake.
type subscribeFrame struct {
	Type       string `json:"type"`
	Collection string `json:"collection"`
	Filter     Filter `json:"filter"`
}

// serverFrame is any frame pushed by the remote store. Records stay raw so
// one malformed record cannot fail the whole snapshot.
type serverFrame struct {
	Type    string            `json:"type"`
	Records []json.RawMessage `json:"records,omitempty"`
	Code    string            `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
}

// WebsocketTransport opens live queries over a websocket connection
// authenticated with a viewer bearer token.
type WebsocketTransport struct {
	url      string
	origin   string
	viewerID string
	signer   *TokenSigner
}

// NewWebsocketTransport builds a transport dialing url for viewerID.
func NewWebsocketTransport(url string, origin string, viewerID string, signer *TokenSigner) (*WebsocketTransport, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("stream url is required")
	}
	if signer == nil {
		return nil, ErrSigningKey
	}
	origin = strings.TrimSpace(origin)
	if origin == "" {
		origin = "http://localhost/"
	}
	return &WebsocketTransport{
		url:      url,
		origin:   origin,
		viewerID: strings.TrimSpace(viewerID),
		signer:   signer,
	}, nil
}

// Open dials the remote store and subscribes to collection.
func (t *WebsocketTransport) Open(ctx context.Context, collection string, filter Filter) (Stream, error) {
	token, err := t.signer.Sign(t.viewerID)
	if err != nil {
		return nil, err
	}
	cfg, err := websocket.NewConfig(t.url, t.origin)
	if err != nil {
		return nil, fmt.Errorf("websocket config: %w", err)
	}
	cfg.Header = make(http.Header)
	cfg.Header.Set("Authorization", "Bearer "+token)

	dialCtx, cancel := context.WithTimeout(ctx, timeouts.StreamDial)
	defer cancel()
	conn, err := cfg.DialContext(dialCtx)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", t.url, err)
	}
	if err := websocket.JSON.Send(conn, subscribeFrame{Type: frameSubscribe, Collection: collection, Filter: filter}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send subscribe frame: %w", err)
	}
	return &websocketStream{conn: conn}, nil
}

type websocketStream struct {
	conn *websocket.Conn
}

// Recv blocks until the next snapshot. Close unblocks a pending Recv.
func (s *websocketStream) Recv(ctx context.Context) ([]domain.ChangeRecord, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var frame serverFrame
		if err := websocket.JSON.Receive(s.conn, &frame); err != nil {
			return nil, fmt.Errorf("receive frame: %w", err)
		}
		switch frame.Type {
		case frameSnapshot:
			return decodeRecords(frame.Records), nil
		case frameError:
			return nil, fmt.Errorf("%w: %s %s", ErrRemote, frame.Code, frame.Message)
		default:
			// Unknown frame types are ignored.
		}
	}
}

func (s *websocketStream) Close() error {
	return s.conn.Close()
}

func decodeRecords(raw []json.RawMessage) []domain.ChangeRecord {
	records := make([]domain.ChangeRecord, 0, len(raw))
	for _, item := range raw {
		record, err := decodeRecord(item)
		if err != nil {
			log.Printf("stream: drop record: %v", err)
			continue
		}
		records = append(records, record)
	}
	return records
}

// decodeRecord decodes one snapshot record. A timestamp that does not decode
// is treated as missing; any other malformed record is an error.
func decodeRecord(raw json.RawMessage) (domain.ChangeRecord, error) {
	var record domain.ChangeRecord
	if err := json.Unmarshal(raw, &record); err == nil {
		return record, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.ChangeRecord{}, fmt.Errorf("decode record: %w", err)
	}
	delete(fields, "timestamp")
	stripped, err := json.Marshal(fields)
	if err != nil {
		return domain.ChangeRecord{}, fmt.Errorf("encode record: %w", err)
	}
	record = domain.ChangeRecord{}
	if err := json.Unmarshal(stripped, &record); err != nil {
		return domain.ChangeRecord{}, fmt.Errorf("decode record: %w", err)
	}
	return record, nil
}
