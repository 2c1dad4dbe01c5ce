package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	kind       string
	to         string
	name       string
	trackingID string
	label      string
	url        string
}

type fakeSender struct {
	sent []sentEmail
	err  error
}

func (s *fakeSender) SendTrackingEmail(to, customerName, trackingID, trackingURL string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{kind: "tracking", to: to, name: customerName, trackingID: trackingID, url: trackingURL})
	return nil
}

func (s *fakeSender) SendStatusUpdate(to, customerName, trackingID string, info order.StatusInfo, trackingURL string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{kind: "status", to: to, name: customerName, trackingID: trackingID, label: info.Label, url: trackingURL})
	return nil
}

type published struct {
	key     string
	msgType string
	value   any
}

type fakePublisher struct {
	published []published
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, key, msgType string, value any) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, published{key: key, msgType: msgType, value: value})
	return nil
}

// ============================================
// Message Tests
// ============================================

func TestMessage_JSON(t *testing.T) {
	data, err := json.Marshal(Message{
		Type:         MessageStatusChanged,
		Email:        "john@example.com",
		TrackingID:   "JOH-4KQ9Z2MA",
		CustomerName: "John",
		Status:       order.StatusOnTheWay,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"status_changed","email":"john@example.com","tracking_id":"JOH-4KQ9Z2MA","customer_name":"John","status":"on-the-way"}`, string(data))

	data, err = json.Marshal(Message{Type: MessageOrderPlaced, Email: "e", TrackingID: "t"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "status")
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"order placed", Message{Type: MessageOrderPlaced, Email: "e", TrackingID: "t"}, false},
		{"status changed", Message{Type: MessageStatusChanged, Email: "e", TrackingID: "t", Status: order.StatusPacking}, false},
		{"status changed without status", Message{Type: MessageStatusChanged, Email: "e", TrackingID: "t"}, true},
		{"missing email", Message{Type: MessageOrderPlaced, TrackingID: "t"}, true},
		{"missing tracking id", Message{Type: MessageOrderPlaced, Email: "e"}, true},
		{"unknown type", Message{Type: "refund", Email: "e", TrackingID: "t"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// ============================================
// Dispatcher Tests
// ============================================

func TestLogDispatcher(t *testing.T) {
	d := NewLogDispatcher("https://shop.example.com")
	assert.NoError(t, d.NotifyOrderPlaced(context.Background(), "john@example.com", "JOH-4KQ9Z2MA", "John"))
	assert.NoError(t, d.NotifyStatusChanged(context.Background(), "john@example.com", "JOH-4KQ9Z2MA", "John", order.StatusDelivered))
}

func TestKafkaDispatcher_PublishesKeyedByTrackingID(t *testing.T) {
	p := &fakePublisher{}
	d := NewKafkaDispatcher(p)

	require.NoError(t, d.NotifyOrderPlaced(context.Background(), "john@example.com", "JOH-4KQ9Z2MA", "John"))
	require.NoError(t, d.NotifyStatusChanged(context.Background(), "john@example.com", "JOH-4KQ9Z2MA", "John", order.StatusPacking))

	require.Len(t, p.published, 2)
	assert.Equal(t, "JOH-4KQ9Z2MA", p.published[0].key)
	assert.Equal(t, "order_placed", p.published[0].msgType)
	assert.Equal(t, Message{Type: MessageOrderPlaced, Email: "john@example.com", TrackingID: "JOH-4KQ9Z2MA", CustomerName: "John"}, p.published[0].value)
	assert.Equal(t, "status_changed", p.published[1].msgType)
	assert.Equal(t, order.StatusPacking, p.published[1].value.(Message).Status)
}

func TestKafkaDispatcher_PublishFailure(t *testing.T) {
	boom := errors.New("broker unavailable")
	d := NewKafkaDispatcher(&fakePublisher{err: boom})

	err := d.NotifyOrderPlaced(context.Background(), "john@example.com", "JOH-4KQ9Z2MA", "John")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, boom)
}

func TestKafkaDispatcher_RejectsEmptyEmail(t *testing.T) {
	p := &fakePublisher{}
	d := NewKafkaDispatcher(p)

	err := d.NotifyOrderPlaced(context.Background(), "", "JOH-4KQ9Z2MA", "John")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, ErrInvalidMessage)
	assert.Empty(t, p.published)
}

// ============================================
// Handler Tests
// ============================================

func TestHandler_OrderPlaced(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, "https://shop.example.com")

	value, _ := json.Marshal(Message{Type: MessageOrderPlaced, Email: "john@example.com", TrackingID: "JOH-4KQ9Z2MA", CustomerName: "John"})
	require.NoError(t, h.HandleEvent(context.Background(), []byte("JOH-4KQ9Z2MA"), value))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, sentEmail{
		kind:       "tracking",
		to:         "john@example.com",
		name:       "John",
		trackingID: "JOH-4KQ9Z2MA",
		url:        "https://shop.example.com/track/JOH-4KQ9Z2MA",
	}, sender.sent[0])
}

func TestHandler_StatusChanged(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, "https://shop.example.com")

	err := h.HandleMessage(context.Background(), Message{
		Type: MessageStatusChanged, Email: "john@example.com", TrackingID: "JOH-4KQ9Z2MA", CustomerName: "John", Status: order.StatusOnTheWay,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "status", sender.sent[0].kind)
	assert.Equal(t, "On the Way", sender.sent[0].label)
}

func TestHandler_DropsUndecodableAndInvalidMessages(t *testing.T) {
	sender := &fakeSender{}
	h := NewHandler(sender, "https://shop.example.com")

	assert.NoError(t, h.HandleEvent(context.Background(), []byte("k"), []byte("{not json")))

	value, _ := json.Marshal(Message{Type: "refund", Email: "e", TrackingID: "t"})
	assert.NoError(t, h.HandleEvent(context.Background(), []byte("k"), value))
	assert.Empty(t, sender.sent)
}

func TestHandler_SendFailure(t *testing.T) {
	boom := errors.New("smtp down")
	h := NewHandler(&fakeSender{err: boom}, "https://shop.example.com")

	value, _ := json.Marshal(Message{Type: MessageOrderPlaced, Email: "john@example.com", TrackingID: "JOH-4KQ9Z2MA"})
	err := h.HandleEvent(context.Background(), []byte("JOH-4KQ9Z2MA"), value)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, boom)
}
