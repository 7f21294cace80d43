// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ui

import (
	"embed"
	"fmt"
	"html/template"
	"path"
	"strings"
)

//go:embed icons/*.svg
var iconFS embed.FS

// Icon is anything that can render itself as trusted HTML markup.
type Icon interface {
	Render() template.HTML
}

// IconFunc adapts a plain function to the Icon interface.
type IconFunc func() template.HTML

// Render calls f.
func (f IconFunc) Render() template.HTML {
	return f()
}

// Built-in icon names.
const (
	IconPlay    = "play"
	IconVolume  = "volume"
	IconMute    = "mute"
	IconLoop    = "loop"
	IconTheater = "theater"
)

type svgIcon struct {
	markup template.HTML
}

func (i svgIcon) Render() template.HTML { return i.markup }

// BuiltinIcon returns one of the embedded SVG icons.
func BuiltinIcon(name string) (Icon, error) {
	data, err := iconFS.ReadFile(path.Join("icons", name+".svg"))
	if err != nil {
		return nil, fmt.Errorf("unknown icon %q: %w", name, err)
	}
	// #nosec G203 -- embedded at build time, not user input
	return svgIcon{markup: template.HTML(strings.TrimSpace(string(data)))}, nil
}

// MustIcon is BuiltinIcon for names known at compile time.
func MustIcon(name string) Icon {
	icon, err := BuiltinIcon(name)
	if err != nil {
		panic(err)
	}
	return icon
}
