// Package widget renders the HTML embed snippet for the hosted booking
// widget. The snippet is a placeholder div plus the loader script; all
// settings travel as data attributes the loader reads at boot.
package widget

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"tebuto/pkg/errors"
)

const (
	// ContainerID is the id of the div the widget mounts into.
	ContainerID = "tebuto-booking-widget"
	// ScriptURL is the hosted loader script.
	ScriptURL = "https://app.tebuto.de/widget/widget.js"
	// DefaultNoScriptText is shown when JavaScript is disabled.
	DefaultNoScriptText = "Bitte aktivieren Sie JavaScript, um Termine zu buchen."
)

// Theme overrides the widget's visual defaults. Empty fields are left to the
// widget's own styling.
type Theme struct {
	PrimaryColor    string
	BackgroundColor string
	TextColor       string
	FontFamily      string
}

// Configuration describes one widget embed.
type Configuration struct {
	TherapistUUID string
	// Categories restricts the offered appointment categories.
	Categories []int
	// Border is tri-state: nil leaves the widget default, otherwise the
	// attribute is emitted explicitly.
	Border           *bool
	IncludeSubusers  bool
	ShowQuickFilters bool
	// InheritFont makes the widget use the embedding page's font.
	InheritFont  bool
	Theme        Theme
	NoScriptText string
}

// Markup renders the embed snippet. The therapist UUID is the only required
// field; everything else falls back to widget defaults.
func Markup(cfg Configuration) (string, error) {
	if strings.TrimSpace(cfg.TherapistUUID) == "" {
		return "", errors.Validation("a therapist UUID is required for the widget")
	}

	attrs := []attribute{
		{"data-therapist-uuid", cfg.TherapistUUID},
	}
	if len(cfg.Categories) > 0 {
		attrs = append(attrs, attribute{"data-categories", joinInts(cfg.Categories)})
	}
	if cfg.Border != nil {
		attrs = append(attrs, attribute{"data-border", strconv.FormatBool(*cfg.Border)})
	}
	if cfg.IncludeSubusers {
		attrs = append(attrs, attribute{"data-include-subusers", "true"})
	}
	if cfg.ShowQuickFilters {
		attrs = append(attrs, attribute{"data-show-quick-filters", "true"})
	}
	if cfg.InheritFont {
		attrs = append(attrs, attribute{"data-inherit-font", "true"})
	}
	if cfg.Theme.PrimaryColor != "" {
		attrs = append(attrs, attribute{"data-primary-color", cfg.Theme.PrimaryColor})
	}
	if cfg.Theme.BackgroundColor != "" {
		attrs = append(attrs, attribute{"data-background-color", cfg.Theme.BackgroundColor})
	}
	if cfg.Theme.TextColor != "" {
		attrs = append(attrs, attribute{"data-text-color", cfg.Theme.TextColor})
	}
	if cfg.Theme.FontFamily != "" {
		attrs = append(attrs, attribute{"data-font-family", cfg.Theme.FontFamily})
	}

	noscript := cfg.NoScriptText
	if noscript == "" {
		noscript = DefaultNoScriptText
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<div id=%q", ContainerID)
	for _, attr := range attrs {
		fmt.Fprintf(&b, " %s=\"%s\"", attr.name, html.EscapeString(attr.value))
	}
	b.WriteString(">")
	fmt.Fprintf(&b, "<noscript>%s</noscript>", html.EscapeString(noscript))
	b.WriteString("</div>\n")
	fmt.Fprintf(&b, "<script src=%q async></script>", ScriptURL)

	return b.String(), nil
}

type attribute struct {
	name  string
	value string
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
