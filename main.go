package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/matt-g-everett/twallpaper/api"
	"github.com/matt-g-everett/twallpaper/display"
	"github.com/matt-g-everett/twallpaper/logger"
	"github.com/matt-g-everett/twallpaper/stream"
	"github.com/matt-g-everett/twallpaper/wallpaper"
	"go.uber.org/zap"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Streamer   *stream.Streamer
	Controller *stream.Controller
	Api        *api.Api
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(ctx context.Context) mqtt.OnConnectHandler {
	return func(client mqtt.Client) {
		logger.L(ctx).Info("connected", zap.String("broker", a.Config.Mqtt.URL))
		if err := a.Streamer.Subscribe(a.Controller); err != nil {
			logger.L(ctx).Error("subscribe", zap.Error(err))
		}
	}
}

func (a *app) connect(ctx context.Context) {
	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID + "-" + uuid.New().String()[:8]).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetOnConnectHandler(a.handleOnConnect(ctx))
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(ctx, a.Config, a.Client)
}

func (a *app) surfaces(ctx context.Context, terminal bool) ([]display.Surface, *display.Terminal) {
	l := logger.L(ctx)
	var surfaces []display.Surface
	if a.Streamer != nil {
		surfaces = append(surfaces, a.Streamer)
	}

	if dev := a.Config.Display.Framebuffer; dev != "" {
		fbs, err := display.OpenFramebuffer(dev)
		if err != nil {
			l.Error("framebuffer disabled", zap.Error(err))
		} else {
			surfaces = append(surfaces, fbs)
		}
	}

	var term *display.Terminal
	if terminal || a.Config.Display.Terminal {
		t, err := display.NewTerminal()
		if err != nil {
			l.Error("terminal preview disabled", zap.Error(err))
		} else {
			term = t
			surfaces = append(surfaces, t)
		}
	}
	return surfaces, term
}

func (a *app) run(ctx context.Context, terminal bool) error {
	l := logger.L(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	animator, err := wallpaper.NewAnimator(a.Config.Wallpaper)
	if err != nil {
		return err
	}

	if a.Config.Mqtt.URL != "" {
		a.connect(ctx)
	}
	surfaces, term := a.surfaces(ctx, terminal)

	store := stream.NewStore()
	a.Controller = stream.NewController(animator, store, a.Config.Animation, surfaces...)
	l = l.With(zap.String("run", a.Controller.RunID()))
	ctx = logger.NewContext(ctx, l)

	if a.Client != nil {
		if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
			return token.Error()
		}
		defer a.Client.Disconnect(250)
	}

	if a.Config.Api.Listen != "" {
		a.Api = api.NewApi(store, a.Controller, a.Config.Api.PatternsDir)
		go func() {
			if err := a.Api.Serve(ctx, a.Config.Api.Listen); err != nil {
				l.Error("api stopped", zap.Error(err))
				cancel()
			}
		}()
	}

	if term != nil {
		go term.Watch(ctx, cancel, func() {
			if err := a.Controller.Submit(ctx, stream.ControlMessage{Type: stream.MessageRetarget}); err != nil {
				l.Debug("retarget from terminal", zap.Error(err))
			}
		})
	}

	return a.Controller.Run(ctx)
}

func main() {
	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	verbose := flag.Bool("v", false, "verbose logging")
	terminal := flag.Bool("terminal", false, "preview the wallpaper in this terminal")
	flag.Parse()

	l, err := logger.New(*verbose)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	mqtt.ERROR = zap.NewStdLog(l.Named("mqtt"))

	// Read the config
	a := newApp()
	a.Config, err = stream.LoadConfig(*configPath)
	if err != nil {
		l.Fatal("read config", zap.String("path", *configPath), zap.Error(err))
	}
	l.Info("loaded config",
		zap.String("broker", a.Config.Mqtt.URL),
		zap.Strings("colors", a.Config.Wallpaper.Colors),
		zap.Float64("frameRate", a.Config.Animation.FrameRate))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, l)

	if err := a.run(ctx, *terminal); err != nil {
		l.Fatal("run", zap.Error(err))
	}
}
