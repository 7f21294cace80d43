// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ui

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ManuGH/streamplayer/internal/control/http/problem"
	"github.com/ManuGH/streamplayer/internal/log"
	"github.com/ManuGH/streamplayer/internal/metrics"
	"github.com/ManuGH/streamplayer/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// Player actions.
const (
	ActionMute    = "mute"
	ActionLoop    = "loop"
	ActionTheater = "theater"
)

// Query keys carrying PlayerState.
const (
	queryMuted   = "muted"
	queryLoop    = "loop"
	queryTheater = "theater"
)

// PlayerState is the per-request view state. It lives in the query string
// and is never stored on the server.
type PlayerState struct {
	Muted   bool
	Loop    bool
	Theater bool
}

// ParseState reads the state flags from q. Unknown or malformed values are false.
func ParseState(q url.Values) PlayerState {
	flag := func(key string) bool {
		v, err := strconv.ParseBool(q.Get(key))
		return err == nil && v
	}
	return PlayerState{
		Muted:   flag(queryMuted),
		Loop:    flag(queryLoop),
		Theater: flag(queryTheater),
	}
}

// Encode returns the query string for s, omitting false flags.
func (s PlayerState) Encode() string {
	q := url.Values{}
	if s.Muted {
		q.Set(queryMuted, "1")
	}
	if s.Loop {
		q.Set(queryLoop, "1")
	}
	if s.Theater {
		q.Set(queryTheater, "1")
	}
	return q.Encode()
}

// Buttons builds the toggle buttons for s. Each OnClick flips its flag in s.
func (s *PlayerState) Buttons(actionPrefix string) []Button {
	query := s.Encode()
	formAction := func(action string) string {
		u := actionPrefix + url.PathEscape(action)
		if query != "" {
			u += "?" + query
		}
		return u
	}

	muteIcon := MustIcon(IconVolume)
	muteLabel := "Mute"
	if s.Muted {
		muteIcon = MustIcon(IconMute)
		muteLabel = "Unmute"
	}

	return []Button{
		{
			Action:     ActionMute,
			Label:      muteLabel,
			Icon:       muteIcon,
			IsActive:   s.Muted,
			OnClick:    func() { s.Muted = !s.Muted },
			FormAction: formAction(ActionMute),
		},
		{
			Action:     ActionLoop,
			Icon:       MustIcon(IconLoop),
			IsActive:   s.Loop,
			OnClick:    func() { s.Loop = !s.Loop },
			FormAction: formAction(ActionLoop),
		},
		{
			Action:     ActionTheater,
			Label:      "Theater mode",
			Icon:       MustIcon(IconTheater),
			IsActive:   s.Theater,
			OnClick:    func() { s.Theater = !s.Theater },
			FormAction: formAction(ActionTheater),
		},
	}
}

// Player serves the player page and dispatches its button clicks.
type Player struct {
	title        string
	videoURL     string
	pageURL      string
	actionPrefix string
}

// PlayerOption customises a Player.
type PlayerOption func(*Player)

// WithTitle sets the page title.
func WithTitle(title string) PlayerOption {
	return func(p *Player) { p.title = title }
}

// NewPlayer returns a Player whose <video> element points at videoURL.
func NewPlayer(videoURL string, opts ...PlayerOption) *Player {
	p := &Player{
		title:        "Stream Player",
		videoURL:     videoURL,
		pageURL:      "/",
		actionPrefix: "/player/actions/",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type playerView struct {
	Title    string
	VideoURL string
	State    PlayerState
	Buttons  []template.HTML
}

// RenderPage writes the full HTML page for state.
func (p *Player) RenderPage(w io.Writer, state PlayerState) error {
	buttons := state.Buttons(p.actionPrefix)
	rendered := make([]template.HTML, 0, len(buttons))
	for _, b := range buttons {
		h, err := b.HTML()
		if err != nil {
			return fmt.Errorf("render %s button: %w", b.Action, err)
		}
		rendered = append(rendered, h)
	}
	return templates.ExecuteTemplate(w, "player", playerView{
		Title:    p.title,
		VideoURL: p.videoURL,
		State:    state,
		Buttons:  rendered,
	})
}

// ServePage handles GET /.
func (p *Player) ServePage(w http.ResponseWriter, r *http.Request) {
	state := ParseState(r.URL.Query())

	var buf bytes.Buffer
	if err := p.RenderPage(&buf, state); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "ui")
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "player.render_failed").
			Msg("failed to render player page")
		problem.Write(w, r, http.StatusInternalServerError, "player/render", "Internal Server Error", "INTERNAL", "The player page could not be rendered", nil)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// ServeAction handles POST /player/actions/{action}: it clicks the matching
// button against the request's state and redirects to the page with the result.
func (p *Player) ServeAction(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	logger := log.WithComponentFromContext(r.Context(), "ui")

	state := ParseState(r.URL.Query())
	clicked, err := Dispatch(state.Buttons(p.actionPrefix), action)
	if err != nil {
		metrics.RecordPlayerAction(action, false)
		if errors.Is(err, ErrUnknownAction) {
			logger.Info().Str(log.FieldEvent, "player.unknown_action").Str(log.FieldAction, action).Msg("unknown player action")
			problem.Write(w, r, http.StatusNotFound, "player/unknown_action", "Not Found", "UNKNOWN_ACTION",
				fmt.Sprintf("No player action named %q", action), nil)
			return
		}
		logger.Error().Err(err).Str(log.FieldAction, action).Msg("invalid player button")
		problem.Write(w, r, http.StatusInternalServerError, "player/invalid_button", "Internal Server Error", "INTERNAL", "", nil)
		return
	}

	metrics.RecordPlayerAction(action, true)
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.PlayerAttributes(action, !clicked.IsActive)...)
	logger.Debug().
		Str(log.FieldEvent, "player.action").
		Str(log.FieldAction, action).
		Bool("active", !clicked.IsActive).
		Msg("player action dispatched")

	target := p.pageURL
	if q := state.Encode(); q != "" {
		target += "?" + q
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
