// Package syscfg maintains host-level configuration files: the resolver
// defaults, the forwarding sysctl and the box identity file. Mutations
// are key-based upserts so re-running the pipeline never accumulates
// duplicate lines.
package syscfg

import "strings"

// UpsertKey sets key=value in a key=value style configuration file,
// replacing an existing assignment or the commented-out default
// ("#key=") in place. When the key is absent the assignment is appended.
// Returns the updated contents.
func UpsertKey(content, key, value string) string {
	target := key + "=" + value
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, key+"=") || strings.HasPrefix(trimmed, "#"+key+"=") {
			lines[i] = target
			return strings.Join(lines, "\n")
		}
	}

	// Append, keeping a single trailing newline.
	joined := strings.Join(lines, "\n")
	if joined != "" && !strings.HasSuffix(joined, "\n") {
		joined += "\n"
	}
	return joined + target + "\n"
}
