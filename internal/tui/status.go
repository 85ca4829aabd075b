package tui

import "strings"

// RenderStatus formats a daemon status line for the terminal. Empty fields
// are omitted.
func RenderStatus(state, lang, confidence, errMsg string) string {
	var b strings.Builder

	switch state {
	case "listening":
		b.WriteString(StyleSuccess.Render("● listening"))
	case "acquiring-permission":
		b.WriteString(StyleWarning.Render("● acquiring permission"))
	case "failed":
		b.WriteString(StyleError.Render("● failed"))
	default:
		b.WriteString(StyleMuted.Render("● " + state))
	}

	if lang != "" {
		b.WriteString("  ")
		b.WriteString(StyleHighlight.Render(lang))
	}
	if confidence != "" {
		b.WriteString("  ")
		b.WriteString(StyleSubtle.Render("confidence " + confidence))
	}
	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(StyleError.Render(errMsg))
	}

	return b.String()
}
