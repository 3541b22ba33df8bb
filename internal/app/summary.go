package app

import (
	"fmt"
	"strings"
)

type StartupSummary struct {
	Env           string
	HTTPAddr      string
	DataDir       string
	Watch         bool
	Locations     []string
	SearchEntries int
	Settings      string
	SettingsPath  string
}

func (s *StartupSummary) Print() {
	fmt.Println(s.String())
}

func (s *StartupSummary) String() string {
	var b strings.Builder
	title := "STARTUP SUMMARY"
	b.WriteString(strings.Repeat("=", 80) + "\n")
	fmt.Fprintf(&b, "%*s\n", 40+len(title)/2, title)
	b.WriteString(strings.Repeat("=", 80) + "\n")

	b.WriteString("[SERVICE]\n")
	fmt.Fprintf(&b, "  env:    %s\n", orDash(s.Env))
	fmt.Fprintf(&b, "  listen: %s\n", orDash(s.HTTPAddr))
	b.WriteString("\n")

	b.WriteString("[DATA]\n")
	fmt.Fprintf(&b, "  dir:            %s (watch=%t)\n", orDash(s.DataDir), s.Watch)
	fmt.Fprintf(&b, "  locations:      %d\n", len(s.Locations))
	fmt.Fprintf(&b, "  search entries: %d\n", s.SearchEntries)
	b.WriteString("\n")

	b.WriteString("[SETTINGS]\n")
	fmt.Fprintf(&b, "  backend: %s\n", orDash(s.Settings))
	if s.Settings == "sqlite" {
		fmt.Fprintf(&b, "  path:    %s\n", s.SettingsPath)
	}
	b.WriteString(strings.Repeat("=", 80))
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
