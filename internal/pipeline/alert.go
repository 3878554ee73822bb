package pipeline

import (
	"regexp"
	"strings"
)

// AlertType is one of the four recognized callout kinds.
type AlertType int

// Alert types. AlertNote is the fallback for unrecognized type tokens.
const (
	AlertInfo AlertType = iota
	AlertTip
	AlertNote
	AlertWarning
)

// alertStartPattern matches ">>> TYPE: text". TYPE is letters only, so
// sentinel tokens such as QUIZ_JSON never open an alert.
var alertStartPattern = regexp.MustCompile(`^>>>\s*([A-Za-z]+):\s*(.*)$`)

// String returns the canonical uppercase name of the alert type.
func (t AlertType) String() string {
	switch t {
	case AlertInfo:
		return "INFO"
	case AlertTip:
		return "TIP"
	case AlertWarning:
		return "WARNING"
	default:
		return "NOTE"
	}
}

// ParseAlertType maps a type token (case-insensitive) to an AlertType.
// Reports false for unrecognized tokens.
func ParseAlertType(s string) (AlertType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return AlertInfo, true
	case "TIP":
		return AlertTip, true
	case "NOTE":
		return AlertNote, true
	case "WARNING":
		return AlertWarning, true
	}
	return AlertNote, false
}

// NormalizeAlertType maps a type token to an AlertType, falling back to
// AlertNote for anything unrecognized.
func NormalizeAlertType(s string) AlertType {
	t, _ := ParseAlertType(s)
	return t
}

// AlertBlock is a parsed ">>> TYPE: ..." callout.
type AlertBlock struct {
	Type      AlertType
	BodyLines []string
}

// matchAlertStart returns the raw type token and first-line text when line
// opens an alert block.
func matchAlertStart(line string) (token, text string, ok bool) {
	m := alertStartPattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// alertStyle holds the presentation of one alert type.
type alertStyle struct {
	class string
	label string
	icon  string
}

var alertStyles = map[AlertType]alertStyle{
	AlertInfo: {
		class: "alert-info",
		label: "מידע",
		icon:  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><circle cx="12" cy="12" r="10"/><line x1="12" y1="16" x2="12" y2="12"/><line x1="12" y1="8" x2="12.01" y2="8"/></svg>`,
	},
	AlertTip: {
		class: "alert-tip",
		label: "טיפ",
		icon:  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><path d="M9 18h6"/><path d="M10 22h4"/><path d="M12 2a7 7 0 0 0-4 12.7V17h8v-2.3A7 7 0 0 0 12 2z"/></svg>`,
	},
	AlertNote: {
		class: "alert-note",
		label: "הערה",
		icon:  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><path d="M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8z"/><polyline points="14 2 14 8 20 8"/><line x1="8" y1="13" x2="16" y2="13"/><line x1="8" y1="17" x2="13" y2="17"/></svg>`,
	},
	AlertWarning: {
		class: "alert-warning",
		label: "אזהרה",
		icon:  `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" aria-hidden="true"><path d="M10.29 3.86 1.82 18a2 2 0 0 0 1.71 3h16.94a2 2 0 0 0 1.71-3L13.71 3.86a2 2 0 0 0-3.42 0z"/><line x1="12" y1="9" x2="12" y2="13"/><line x1="12" y1="17" x2="12.01" y2="17"/></svg>`,
	},
}

// renderAlert renders an alert block as an iconized callout. Body lines are
// inline-styled and joined with hard breaks inside one paragraph.
func renderAlert(a AlertBlock, rules InlineRules) string {
	style := alertStyles[a.Type]

	styled := make([]string, 0, len(a.BodyLines))
	for _, line := range a.BodyLines {
		if line == "" {
			continue
		}
		styled = append(styled, StyleInline(line, rules))
	}

	var b strings.Builder
	b.WriteString(`<div class="alert-block `)
	b.WriteString(style.class)
	b.WriteString(`" data-alert-type="`)
	b.WriteString(a.Type.String())
	b.WriteString(`" role="note" aria-label="`)
	b.WriteString(style.label)
	b.WriteString(`"><span class="alert-block__icon">`)
	b.WriteString(style.icon)
	b.WriteString(`</span><div class="alert-block__body"><p>`)
	b.WriteString(strings.Join(styled, "<br />"))
	b.WriteString(`</p></div></div>`)
	return b.String()
}
