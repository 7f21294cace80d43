// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package ui renders the player page and its stateless toggle buttons.
package ui

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrMissingIcon is returned when a button has no icon.
	ErrMissingIcon = errors.New("button: icon is required")
	// ErrMissingOnClick is returned when a button has no click callback.
	ErrMissingOnClick = errors.New("button: onClick is required")
	// ErrUnknownAction is returned when no button matches a dispatched action.
	ErrUnknownAction = errors.New("button: unknown action")
)

// ActiveClass is the class present on the root element iff the button is active.
const ActiveClass = "bg-neutral-800"

var baseClasses = []string{
	"inline-flex",
	"items-center",
	"justify-center",
	"rounded-full",
	"p-2",
	"text-neutral-100",
	"transition-colors",
	"hover:bg-neutral-700",
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Button is a stateless toggle. It holds no state of its own: IsActive is
// supplied by the caller and OnClick is whatever the caller wants to happen.
type Button struct {
	Icon     Icon
	IsActive bool
	OnClick  func()

	// Action is the stable identifier used for form dispatch.
	Action string
	// Label is the accessible name. Derived from Action when empty.
	Label string
	// FormAction, when set, renders a submit button posting to this URL.
	FormAction string
}

// Classes returns the class list of the root element.
func (b Button) Classes() []string {
	classes := make([]string, 0, len(baseClasses)+1)
	classes = append(classes, baseClasses...)
	if b.IsActive {
		classes = append(classes, ActiveClass)
	}
	return classes
}

// AccessibleLabel returns Label, or a title-cased form of Action.
func (b Button) AccessibleLabel() string {
	if b.Label != "" {
		return b.Label
	}
	words := strings.NewReplacer("_", " ", "-", " ").Replace(b.Action)
	return cases.Title(language.English).String(words)
}

// Validate reports a missing icon or callback.
func (b Button) Validate() error {
	var errs []error
	if b.Icon == nil {
		errs = append(errs, ErrMissingIcon)
	}
	if b.OnClick == nil {
		errs = append(errs, ErrMissingOnClick)
	}
	return errors.Join(errs...)
}

// Click invokes OnClick exactly once. A nil OnClick is a no-op; Validate reports it.
func (b Button) Click() {
	if b.OnClick != nil {
		b.OnClick()
	}
}

type buttonView struct {
	Class      string
	Label      string
	Active     bool
	Action     string
	FormAction string
	Icon       template.HTML
}

// Render writes the button as a single <button> element containing the icon.
func (b Button) Render(w io.Writer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return templates.ExecuteTemplate(w, "button", buttonView{
		Class:      strings.Join(b.Classes(), " "),
		Label:      b.AccessibleLabel(),
		Active:     b.IsActive,
		Action:     b.Action,
		FormAction: b.FormAction,
		Icon:       b.Icon.Render(),
	})
}

// HTML renders the button for embedding in another template.
func (b Button) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		return "", err
	}
	// #nosec G203 -- produced by html/template above
	return template.HTML(buf.String()), nil
}

// Dispatch clicks the button whose Action matches action.
func Dispatch(buttons []Button, action string) (Button, error) {
	for _, b := range buttons {
		if b.Action != "" && b.Action == action {
			if err := b.Validate(); err != nil {
				return b, err
			}
			b.Click()
			return b, nil
		}
	}
	return Button{}, ErrUnknownAction
}
