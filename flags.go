package main

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ntx-trading/ntxlocale/langmeta"
	"github.com/ntx-trading/ntxlocale/localetag"
)

var (
	_ pflag.Value = (*langListFlag)(nil)
	_ pflag.Value = (*modeFlag)(nil)
)

// langListFlag is a comma-separated language list. Repeating the flag
// appends; duplicates are dropped.
type langListFlag []string

func (l *langListFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *langListFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		if !langmeta.Valid(code) {
			return fmt.Errorf("invalid language code %q (letters, digits and _ only)", code)
		}
		if !l.contains(code) {
			*l = append(*l, code)
		}
	}
	return nil
}

func (l *langListFlag) Type() string {
	return "langs"
}

func (l *langListFlag) contains(code string) bool {
	for _, c := range *l {
		if c == code {
			return true
		}
	}
	return false
}

// modeFlag selects the locale-tag scanner and remembers whether it was set.
type modeFlag struct {
	mode localetag.Mode
	set  bool
}

func (m *modeFlag) String() string {
	if !m.set {
		return ""
	}
	return m.mode.String()
}

func (m *modeFlag) Set(value string) error {
	mode, ok := localetag.ParseMode(value)
	if !ok {
		return fmt.Errorf("unknown scan mode %q (valid: unified, legacy)", value)
	}
	m.mode, m.set = mode, true
	return nil
}

func (m *modeFlag) Type() string {
	return "mode"
}
