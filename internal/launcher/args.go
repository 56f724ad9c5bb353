package launcher

import (
	"strings"

	"github.com/kula-app/m3u-proxy-entrypoint/internal/config"
)

// HasArg reports whether args already carries a flag, in its short form,
// its long form, or as "long=value".
func HasArg(longFlag, shortFlag string, args []string) bool {
	for _, arg := range args {
		if arg == shortFlag || arg == longFlag || strings.HasPrefix(arg, longFlag+"=") {
			return true
		}
	}
	return false
}

// BuildArgs returns flag/value pairs for every configured setting the caller
// did not pass explicitly. Caller arguments always win.
func BuildArgs(cfg *config.Config, args []string) []string {
	settings := cfg.Settings()
	synthesized := make([]string, 0, 2*len(settings))
	for _, s := range settings {
		if HasArg(s.LongFlag, s.ShortFlag, args) {
			continue
		}
		synthesized = append(synthesized, s.LongFlag, s.Value)
	}
	return synthesized
}
