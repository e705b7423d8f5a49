// Package flagx extracts individual flags from raw command-line arguments
// before the command tree parses them. The config loader needs the config
// file path early, while the command flags are only known after the
// subcommand is resolved.
package flagx

import (
	"strings"
)

// FilterArgs returns the arguments that belong to the named flags, together
// with their values. Names are given without dashes; both "-name" and
// "--name" spellings match, in either of these forms:
//
//	-c conf.json
//	--config=conf.json
//
// Scanning stops at the "--" terminator.
func FilterArgs(args []string, names ...string) []string {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		name, _, hasValue := splitFlag(arg)
		if name == "" {
			continue
		}
		if _, ok := allowed[name]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath returns the value of the last -c/--config flag in args, or ""
// when none is given.
func ConfigPath(args []string) string {
	var path string

	filtered := FilterArgs(args, "c", "config")
	for i := 0; i < len(filtered); i++ {
		_, value, hasValue := splitFlag(filtered[i])
		if hasValue {
			path = value
			continue
		}
		if i+1 < len(filtered) && !strings.HasPrefix(filtered[i+1], "-") {
			path = filtered[i+1]
			i++
		}
	}

	return path
}

// splitFlag returns the flag name without dashes and its inline value.
// name is empty when arg is not a flag.
func splitFlag(arg string) (name, value string, hasValue bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", "", false
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	if trimmed == "" || strings.HasPrefix(trimmed, "-") {
		return "", "", false
	}
	name, value, hasValue = strings.Cut(trimmed, "=")
	return name, value, hasValue
}
