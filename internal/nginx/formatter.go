package nginx

import "strings"

const indentUnit = "    "

// Format converts raw rendered text into canonically indented nginx config:
// blank lines dropped, 4 spaces per brace level, one blank separator before
// each top-level upstream/server block and after each top-level closing brace.
// The result always ends with exactly one newline. Format is idempotent.
func Format(raw string) string {
	lines := strings.Split(raw, "\n")
	formatted := make([]string, 0, len(lines))
	indent := 0

	for _, l := range lines {
		line := strings.TrimSpace(l)
		if line == "" {
			continue
		}

		// Closing braces dedent before being emitted.
		if line == "}" && indent > 0 {
			indent--
		}

		if (strings.HasPrefix(line, "upstream ") || line == "server {") &&
			len(formatted) > 0 && formatted[len(formatted)-1] != "" {
			formatted = append(formatted, "")
		}

		formatted = append(formatted, strings.Repeat(indentUnit, indent)+line)

		if strings.HasSuffix(line, "{") {
			indent++
		}

		// Separate top-level blocks for readable diffs.
		if line == "}" && indent == 0 {
			formatted = append(formatted, "")
		}
	}

	for len(formatted) > 0 && formatted[len(formatted)-1] == "" {
		formatted = formatted[:len(formatted)-1]
	}

	return strings.Join(formatted, "\n") + "\n"
}
