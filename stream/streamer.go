package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/twallpaper/logger"
	"github.com/matt-g-everett/twallpaper/wallpaper"
	"go.uber.org/zap"
)

// Submitter accepts control messages.
type Submitter interface {
	Submit(ctx context.Context, msg ControlMessage) error
}

// Streamer publishes frames and state over MQTT and feeds control messages
// from the broker to a Submitter.
type Streamer struct {
	config Config
	client mqtt.Client
	ctx    context.Context
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(ctx context.Context, config Config, client mqtt.Client) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.ctx = ctx
	return s
}

// Present sends a frame as binary on the stream topic.
func (s *Streamer) Present(f *wallpaper.Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := s.client.Publish(s.config.Mqtt.Topics.Stream, s.config.Mqtt.QoS, false, b)
	token.Wait()
	return token.Error()
}

// StateChanged publishes the state, retained, on the state topic.
func (s *Streamer) StateChanged(st State) {
	if s.config.Mqtt.Topics.State == "" {
		return
	}
	b, err := json.Marshal(st)
	if err != nil {
		logger.L(s.ctx).Error("encode state", zap.Error(err))
		return
	}
	token := s.client.Publish(s.config.Mqtt.Topics.State, s.config.Mqtt.QoS, true, b)
	if token.Wait() && token.Error() != nil {
		logger.L(s.ctx).Warn("publish state", zap.Error(token.Error()))
	}
}

// Subscribe listens on the control topic. Call it from the connect handler so
// the subscription survives reconnects.
func (s *Streamer) Subscribe(target Submitter) error {
	handler := func(client mqtt.Client, msg mqtt.Message) {
		s.handleControl(target, msg)
	}
	if token := s.client.Subscribe(s.config.Mqtt.Topics.Control, s.config.Mqtt.QoS, handler); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", s.config.Mqtt.Topics.Control, token.Error())
	}
	logger.L(s.ctx).Info("subscribed", zap.String("topic", s.config.Mqtt.Topics.Control))
	return nil
}

func (s *Streamer) handleControl(target Submitter, msg mqtt.Message) {
	log := logger.L(s.ctx).With(zap.String("topic", msg.Topic()), zap.Uint16("id", msg.MessageID()))

	var message ControlMessage
	if err := json.Unmarshal(msg.Payload(), &message); err != nil {
		log.Warn("bad control message", zap.ByteString("payload", msg.Payload()), zap.Error(err))
		return
	}

	if err := target.Submit(s.ctx, message); err != nil {
		log.Warn("control message rejected", zap.String("type", message.Type), zap.Error(err))
		return
	}
	log.Debug("control message applied", zap.String("type", message.Type))
}

// Close drops the control subscription. The client itself belongs to the caller.
func (s *Streamer) Close() error {
	if !s.client.IsConnected() {
		return nil
	}
	token := s.client.Unsubscribe(s.config.Mqtt.Topics.Control)
	token.Wait()
	return token.Error()
}
