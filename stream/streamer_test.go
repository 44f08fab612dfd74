package stream

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/twallpaper/wallpaper"
)

type fakeToken struct {
	mqtt.Token
	err error
}

func (t *fakeToken) Wait() bool   { return true }
func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakeClient struct {
	mqtt.Client
	published []published
	handlers  map[string]mqtt.MessageHandler
}

func (c *fakeClient) IsConnected() bool { return true }

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.published = append(c.published, published{topic, qos, retained, payload.([]byte)})
	return &fakeToken{}
}

func (c *fakeClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if c.handlers == nil {
		c.handlers = make(map[string]mqtt.MessageHandler)
	}
	c.handlers[topic] = callback
	return &fakeToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	for _, t := range topics {
		delete(c.handlers, t)
	}
	return &fakeToken{}
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 1 }
func (m *fakeMessage) Payload() []byte   { return m.payload }

type recordingSubmitter struct {
	messages []ControlMessage
}

func (r *recordingSubmitter) Submit(ctx context.Context, msg ControlMessage) error {
	r.messages = append(r.messages, msg)
	return nil
}

func TestStreamerPresent(t *testing.T) {
	client := &fakeClient{}
	cfg := DefaultConfig()
	cfg.Mqtt.QoS = 1
	s := NewStreamer(context.Background(), cfg, client)

	f := wallpaper.NewFrame(4, 3)
	if err := s.Present(f); err != nil {
		t.Fatal(err)
	}
	if len(client.published) != 1 {
		t.Fatalf("published %d messages", len(client.published))
	}
	p := client.published[0]
	if p.topic != cfg.Mqtt.Topics.Stream || p.qos != 1 || p.retained {
		t.Errorf("publish = %s qos %d retained %v", p.topic, p.qos, p.retained)
	}
	if len(p.payload) != 4+4*3*3 {
		t.Errorf("payload length = %d", len(p.payload))
	}
}

func TestStreamerStateChanged(t *testing.T) {
	client := &fakeClient{}
	s := NewStreamer(context.Background(), DefaultConfig(), client)

	s.StateChanged(State{Cycle: 3, Palette: []string{"#ffffff"}})
	if len(client.published) != 1 || !client.published[0].retained {
		t.Fatalf("state not published retained: %+v", client.published)
	}
	var st State
	if err := json.Unmarshal(client.published[0].payload, &st); err != nil {
		t.Fatal(err)
	}
	if st.Cycle != 3 || st.Palette[0] != "#ffffff" {
		t.Errorf("decoded state = %+v", st)
	}
}

func TestStreamerControlMessages(t *testing.T) {
	client := &fakeClient{}
	cfg := DefaultConfig()
	s := NewStreamer(context.Background(), cfg, client)
	target := &recordingSubmitter{}

	if err := s.Subscribe(target); err != nil {
		t.Fatal(err)
	}
	handler := client.handlers[cfg.Mqtt.Topics.Control]
	if handler == nil {
		t.Fatal("no handler on the control topic")
	}

	handler(client, &fakeMessage{topic: cfg.Mqtt.Topics.Control, payload: []byte(`{"type":"palette","colors":["#fff"]}`)})
	handler(client, &fakeMessage{topic: cfg.Mqtt.Topics.Control, payload: []byte(`not json`)})
	handler(client, &fakeMessage{topic: cfg.Mqtt.Topics.Control, payload: []byte(`{"type":"mask","enabled":true}`)})

	if len(target.messages) != 2 {
		t.Fatalf("submitted %d messages, want 2", len(target.messages))
	}
	if target.messages[0].Type != MessagePalette || target.messages[0].Colors[0] != "#fff" {
		t.Errorf("first message = %+v", target.messages[0])
	}
	if target.messages[1].Enabled == nil || !*target.messages[1].Enabled {
		t.Errorf("second message = %+v", target.messages[1])
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := client.handlers[cfg.Mqtt.Topics.Control]; ok {
		t.Error("Close did not unsubscribe")
	}
}
