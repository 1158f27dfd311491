// Package bridge is the message protocol between the sandboxed profile
// frame and its host page. The frame can only ask; the host decides,
// performs the clipboard write, acknowledges, and reports the click.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// TypeCopyToClipboard is the only message type the host acts on.
const TypeCopyToClipboard = "COPY_TO_CLIPBOARD"

const maxMessageBytes = 16 << 10

var (
	ErrOriginDenied   = errors.New("bridge: origin not allowed")
	ErrInvalidMessage = errors.New("bridge: invalid message")
)

type Payload struct {
	Text   string `json:"text"`
	LinkID string `json:"linkId,omitempty"`
}

type Message struct {
	Type    string  `json:"type"`
	Payload Payload `json:"payload"`
}

// CopyMessage builds the message a copy binding posts.
func CopyMessage(text, linkID string) Message {
	return Message{Type: TypeCopyToClipboard, Payload: Payload{Text: text, LinkID: linkID}}
}

// Decode reads one message, bounded in size.
func Decode(r io.Reader) (Message, error) {
	var m Message
	if err := json.NewDecoder(io.LimitReader(r, maxMessageBytes)).Decode(&m); err != nil {
		return m, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	return m, nil
}

// Envelope is a received message plus where it came from. UserID is the
// profile owner the frame was rendered for.
type Envelope struct {
	Origin  string
	UserID  string
	Message Message
}

// Clipboard writes text on the host side.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Tracker records a click. Implementations must not block the caller.
type Tracker interface {
	TrackClick(ctx context.Context, userID, linkID string)
}

type AckStatus string

const (
	AckSuccess AckStatus = "success"
	AckFailure AckStatus = "failure"
	AckIgnored AckStatus = "ignored"
)

type Ack struct {
	Status  AckStatus `json:"status"`
	Message string    `json:"message,omitempty"`
	Text    string    `json:"text,omitempty"`
}

const (
	copiedMessage     = "Copied to clipboard!"
	copyFailedMessage = "Failed to copy to clipboard"
)

type Host struct {
	policy    OriginPolicy
	clipboard Clipboard
	tracker   Tracker
}

// NewHost returns a host enforcing policy. A nil policy denies everything.
// A nil clipboard means the write happens client side and the ack carries
// the text to write.
func NewHost(policy OriginPolicy, clipboard Clipboard, tracker Tracker) *Host {
	if policy == nil {
		policy = DenyAll{}
	}
	return &Host{policy: policy, clipboard: clipboard, tracker: tracker}
}

// Handle processes one message. Every message is handled on its own, so
// duplicates each produce their own acknowledgment and click.
func (h *Host) Handle(ctx context.Context, env Envelope) (Ack, error) {
	if !h.policy.Allow(env.Origin) {
		slog.Warn("Rejected bridge message", "origin", env.Origin, "type", env.Message.Type)
		return Ack{}, ErrOriginDenied
	}
	if env.Message.Type != TypeCopyToClipboard {
		return Ack{Status: AckIgnored}, nil
	}

	p := env.Message.Payload
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return Ack{Status: AckFailure, Message: copyFailedMessage}, nil
	}

	ack := Ack{Status: AckSuccess, Message: copiedMessage}
	if h.clipboard == nil {
		ack.Text = text
	} else if err := h.clipboard.WriteText(ctx, text); err != nil {
		slog.Error("Clipboard write failed", "error", err)
		ack = Ack{Status: AckFailure, Message: copyFailedMessage}
	}

	if p.LinkID != "" && h.tracker != nil {
		h.tracker.TrackClick(ctx, env.UserID, p.LinkID)
	}
	return ack, nil
}
