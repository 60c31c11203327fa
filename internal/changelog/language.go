package changelog

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var (
	namesOnce sync.Once
	byName    map[string]string // lowercased English name -> English name
)

func englishName(base language.Base) string {
	return display.English.Languages().Name(base)
}

// loadNames indexes every two and three letter base language that has an
// English display name.
func loadNames() {
	byName = make(map[string]string)
	add := func(code string) {
		base, err := language.ParseBase(code)
		if err != nil {
			return
		}
		if name := englishName(base); name != "" {
			if _, seen := byName[strings.ToLower(name)]; !seen {
				byName[strings.ToLower(name)] = name
			}
		}
	}

	letters := "abcdefghijklmnopqrstuvwxyz"
	for _, a := range letters {
		for _, b := range letters {
			add(string([]rune{a, b}))
		}
	}
	for _, a := range letters {
		for _, b := range letters {
			for _, c := range letters {
				add(string([]rune{a, b, c}))
			}
		}
	}
}

// ResolveLanguage maps an English language name, an ISO 639-1 code or an
// ISO 639-3 code to the language's English name.
func ResolveLanguage(input string) (string, error) {
	trimmed := strings.TrimSpace(input)

	namesOnce.Do(loadNames)
	if name, ok := byName[strings.ToLower(trimmed)]; ok {
		return name, nil
	}

	lower := strings.ToLower(trimmed)
	if n := len(lower); n == 2 || n == 3 {
		if base, err := language.ParseBase(lower); err == nil {
			if name := englishName(base); name != "" {
				return name, nil
			}
		}
	}

	return "", fmt.Errorf("unknown language '%s'. Use an English name (e.g. Chinese), ISO 639-1 code (e.g. zh), or ISO 639-3 code (e.g. zho)", input)
}
