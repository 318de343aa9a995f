package domain

import (
	"fmt"
	"strings"
)

// Format is an output document format
type Format string

const (
	FormatSRT  Format = "srt"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSRT:
		return FormatSRT, nil
	case FormatText, "txt":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q (use srt, text or json)", ErrUnknownFormat, s)
}

// Ext returns the file extension for the format, without the dot
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}
