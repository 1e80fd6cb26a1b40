package models

import (
	"fmt"
	"strings"
)

// Format selects which kind of document a run produces.
type Format string

const (
	// FormatDraft is the internal approval draft, one document per case.
	FormatDraft Format = "draft"
	// FormatFormal is the dispatched copy, one document per recipient and per team.
	FormatFormal Format = "formal"
)

// ParseFormat accepts "draft" or "formal" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatDraft:
		return FormatDraft, nil
	case FormatFormal:
		return FormatFormal, nil
	}
	return "", fmt.Errorf("unknown output format %q (want draft or formal)", s)
}
