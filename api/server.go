package api

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/matt-g-everett/twallpaper/display"
	"github.com/matt-g-everett/twallpaper/logger"
	"github.com/matt-g-everett/twallpaper/stream"
	"github.com/matt-g-everett/twallpaper/wallpaper"
	"go.uber.org/zap"
)

// Largest frame.png the API will scale to.
const maxScaledSize = 4096

type Api struct {
	store       *stream.Store
	commands    stream.Submitter
	patternsDir string
	router      *mux.Router
}

// NewApi creates the HTTP API over a store and a command target.
func NewApi(store *stream.Store, commands stream.Submitter, patternsDir string) *Api {
	a := new(Api)
	a.store = store
	a.commands = commands
	a.patternsDir = patternsDir

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/state", a.getState).Methods(http.MethodGet)
	v1.HandleFunc("/frame", a.getFrame).Methods(http.MethodGet)
	v1.HandleFunc("/frame.png", a.getFramePNG).Methods(http.MethodGet)
	v1.HandleFunc("/retarget", a.postRetarget).Methods(http.MethodPost)
	v1.HandleFunc("/palette", a.putPalette).Methods(http.MethodPut)
	v1.HandleFunc("/mask", a.putMask).Methods(http.MethodPut)
	v1.HandleFunc("/theme", a.putTheme).Methods(http.MethodPut)
	r.HandleFunc("/patterns/{name:[A-Za-z0-9_-]+}.svg", a.getPattern).Methods(http.MethodGet)
	a.router = r

	return a
}

func (a *Api) Handler() http.Handler { return a.router }

// Serve listens on addr until ctx is cancelled.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.L(ctx).Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Api) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.Snapshot())
}

func (a *Api) getFrame(w http.ResponseWriter, r *http.Request) {
	f := a.store.Frame()
	if f == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	b, err := f.MarshalBinary()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(b)
}

func (a *Api) getFramePNG(w http.ResponseWriter, r *http.Request) {
	f := a.store.Frame()
	if f == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}

	width, err := sizeParam(r, "width", f.Width())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := sizeParam(r, "height", f.Height())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	img := f.Image()
	if width != f.Width() || height != f.Height() {
		img = display.Scale(f, width, height)
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := png.Encode(w, img); err != nil {
		logger.L(r.Context()).Warn("encode png", zap.Error(err))
	}
}

func (a *Api) postRetarget(w http.ResponseWriter, r *http.Request) {
	a.submit(w, r, stream.ControlMessage{Type: stream.MessageRetarget})
}

func (a *Api) putPalette(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Colors []string `json:"colors"`
	}
	if !decode(w, r, &body) {
		return
	}
	a.submit(w, r, stream.ControlMessage{Type: stream.MessagePalette, Colors: body.Colors})
}

func (a *Api) putMask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if !decode(w, r, &body) {
		return
	}
	if body.Enabled == nil {
		http.Error(w, "enabled is required", http.StatusBadRequest)
		return
	}
	a.submit(w, r, stream.ControlMessage{Type: stream.MessageMask, Enabled: body.Enabled})
}

func (a *Api) putTheme(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Theme string `json:"theme"`
	}
	if !decode(w, r, &body) {
		return
	}
	a.submit(w, r, stream.ControlMessage{Type: stream.MessageTheme, Theme: body.Theme})
}

func (a *Api) getPattern(w http.ResponseWriter, r *http.Request) {
	if a.patternsDir == "" {
		http.NotFound(w, r)
		return
	}
	name := mux.Vars(r)["name"]
	w.Header().Set("Content-Type", "image/svg+xml")
	http.ServeFile(w, r, filepath.Join(a.patternsDir, name+".svg"))
}

func (a *Api) submit(w http.ResponseWriter, r *http.Request, msg stream.ControlMessage) {
	err := a.commands.Submit(r.Context(), msg)
	var perr *wallpaper.InvalidPaletteError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, a.store.Snapshot())
	case errors.As(err, &perr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func sizeParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 || v > maxScaledSize {
		return 0, errors.New(name + " must be between 1 and " + strconv.Itoa(maxScaledSize))
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
