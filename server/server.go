// Package server exposes a Texture's configuration surface over HTTP.
//
// All texture access runs on a schedule.Loop, the texture's owner. Requests
// that change parameters return after the loop's next idle point, so the
// response already reflects the coalesced regeneration.
//
// Routes:
//
//	GET  /health
//	GET  /properties               property list with values
//	GET  /properties/{name}        one property
//	PUT  /properties/{name}        body {"value": ...}
//	GET  /texture                  metadata of the published buffer
//	GET  /texture.png?scale=N      published buffer as PNG
package server

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/blake2b"

	"github.com/gogpu/qrtexture"
	"github.com/gogpu/qrtexture/schedule"
)

// MaxScale bounds the scale query parameter of /texture.png.
const MaxScale = 32

// DefaultMaxBorder is the border cap cmd/qrserve applies with
// qrtexture.WithMaxBorder.
const DefaultMaxBorder = 64

// Server serves one texture.
type Server struct {
	loop   *schedule.Loop
	tex    *qrtexture.Texture
	router *mux.Router
}

// New returns a Server for tex. tex must be owned by loop, that is created
// with qrtexture.WithScheduler(loop) and only touched from loop tasks once
// the loop runs.
func New(loop *schedule.Loop, tex *qrtexture.Texture) *Server {
	s := &Server{loop: loop, tex: tex}
	r := mux.NewRouter()
	r.Use(logRequests)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)
	r.HandleFunc("/properties", s.listProperties).Methods(http.MethodGet)
	r.HandleFunc("/properties/{name}", s.getProperty).Methods(http.MethodGet)
	r.HandleFunc("/properties/{name}", s.putProperty).Methods(http.MethodPut)
	r.HandleFunc("/texture", s.getTexture).Methods(http.MethodGet)
	r.HandleFunc("/texture.png", s.getPNG).Methods(http.MethodGet)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Property is the JSON form of a property and its value.
type Property struct {
	qrtexture.PropertyInfo
	Editable bool `json:"editable"`
	Value    any  `json:"value"`
}

// TextureInfo is the JSON form of the published buffer's metadata.
type TextureInfo struct {
	RID      string `json:"rid"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Modules  int    `json:"modules"`
	Format   string `json:"format"`
	HasAlpha bool   `json:"has_alpha"`
	Version  uint64 `json:"version"`
	Flags    uint32 `json:"flags"`
	ETag     string `json:"etag,omitempty"`
	Error    string `json:"error,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) listProperties(w http.ResponseWriter, r *http.Request) {
	var props []Property
	err := s.loop.Do(r.Context(), func() {
		for _, info := range s.tex.Properties() {
			v, _ := s.tex.Get(info.Name)
			props = append(props, property(info, v))
		}
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (s *Server) getProperty(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var (
		prop Property
		perr error
	)
	err := s.loop.Do(r.Context(), func() {
		prop, perr = s.lookup(name)
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if perr != nil {
		writeError(w, statusFor(perr), perr)
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (s *Server) putProperty(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var body struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
		return
	}

	var (
		prop   Property
		setErr error
		regErr error
	)
	err := s.loop.Do(r.Context(), func() {
		if setErr = s.tex.Set(name, body.Value); setErr != nil {
			return
		}
		prop, setErr = s.lookup(name)
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if setErr != nil {
		writeError(w, statusFor(setErr), setErr)
		return
	}

	// The regeneration ran at the idle point before Do returned.
	err = s.loop.Do(r.Context(), func() { regErr = s.tex.Err() })
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if regErr != nil {
		qrtexture.Logger().Warn("server: parameter stored but regeneration failed",
			"property", name, "err", regErr)
		writeJSON(w, http.StatusUnprocessableEntity, struct {
			Property
			Error string `json:"error"`
		}{prop, regErr.Error()})
		return
	}
	writeJSON(w, http.StatusOK, prop)
}

func (s *Server) getTexture(w http.ResponseWriter, r *http.Request) {
	var info TextureInfo
	err := s.loop.Do(r.Context(), func() {
		info = TextureInfo{
			RID:      s.tex.RID().String(),
			Width:    s.tex.Width(),
			Height:   s.tex.Height(),
			Modules:  s.tex.Modules(),
			Format:   s.tex.Format().String(),
			HasAlpha: s.tex.HasAlpha(),
			Version:  s.tex.Version(),
			Flags:    uint32(s.tex.Flags()),
		}
		if s.tex.Data() != nil {
			info.ETag = etag(s.tex)
		}
		if e := s.tex.Err(); e != nil {
			info.Error = e.Error()
		}
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) getPNG(w http.ResponseWriter, r *http.Request) {
	scale := 1
	if q := r.URL.Query().Get("scale"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > MaxScale {
			writeError(w, http.StatusBadRequest, fmt.Errorf("scale must be 1..%d", MaxScale))
			return
		}
		scale = n
	}

	var (
		buf    bytes.Buffer
		tag    string
		encErr error
	)
	err := s.loop.Do(r.Context(), func() {
		if s.tex.Data() == nil {
			encErr = errors.New("no published buffer")
			return
		}
		tag = etag(s.tex) + "-" + strconv.Itoa(scale)
		if r.Header.Get("If-None-Match") == strconv.Quote(tag) {
			return
		}
		encErr = s.tex.WritePNG(&buf, scale)
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	if encErr != nil {
		writeError(w, http.StatusConflict, encErr)
		return
	}

	w.Header().Set("ETag", strconv.Quote(tag))
	w.Header().Set("Cache-Control", "no-cache")
	if buf.Len() == 0 {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) lookup(name string) (Property, error) {
	info, err := s.tex.Property(name)
	if err != nil {
		return Property{}, err
	}
	v, err := s.tex.Get(name)
	if err != nil {
		return Property{}, err
	}
	return property(info, v), nil
}

func property(info qrtexture.PropertyInfo, v any) Property {
	return Property{PropertyInfo: info, Editable: info.Usage.Editable(), Value: v}
}

// etag hashes the published buffer with its geometry and format.
func etag(tex *qrtexture.Texture) string {
	h, _ := blake2b.New256(nil)
	var hdr [9]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(tex.Width()))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(tex.Height()))
	hdr[8] = byte(tex.Format())
	h.Write(hdr[:])
	h.Write(tex.Data())
	return hex.EncodeToString(h.Sum(nil))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, qrtexture.ErrUnknownProperty):
		return http.StatusNotFound
	case errors.Is(err, qrtexture.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		qrtexture.Logger().Warn("server: write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		qrtexture.Logger().Debug("server: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
