package ui

import (
	"fmt"

	"github.com/jrsteele09/securecrop-client/soil"
)

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray
	Orange  = "\033[38;5;208m"

	RedInverse   = "\033[7;31m"
	GreenInverse = "\033[7;32m"

	ResetColor = "\033[0m"
)

var MethodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

var soilColors = map[soil.Colour]string{
	soil.Orange: Orange,
	soil.Green:  Green,
	soil.Yellow: Yellow,
	soil.Red:    Red,
	soil.Gray:   Gray,
}

// Painter wraps text in ANSI colours, or leaves it alone when disabled.
type Painter struct {
	Enabled bool
}

func (p Painter) Paint(color, text string) string {
	if !p.Enabled || color == "" {
		return text
	}
	return color + text + ResetColor
}

// Status renders a soil status in its display colour.
func (p Painter) Status(status soil.Status) string {
	return p.Paint(soilColors[status.Colour()], string(status))
}

// Method renders an HTTP method padded to a fixed width.
func (p Painter) Method(method string) string {
	padded := fmt.Sprintf("%-7s", method)
	if color, ok := MethodColors[method]; ok {
		return p.Paint(color, padded)
	}
	return p.Paint(Gray, padded)
}

// Flag renders a boolean as a coloured yes/no, red when set.
func (p Painter) Flag(set bool) string {
	if set {
		return p.Paint(RedInverse, " yes ")
	}
	return p.Paint(Green, "no")
}
