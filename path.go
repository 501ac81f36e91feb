package tdms

import (
	"fmt"
	"strings"

	"github.com/acqlab/tdms/errs"
)

// RootPath is the object path of the file-level object that carries
// file-wide properties.
const RootPath = "/"

// BuildPath returns the TDMS object path for a group or channel.
//
// Path components are wrapped in single quotes with embedded quotes doubled,
// following the format's escaping rule:
//
//	BuildPath("Measured Data", "")        → /'Measured Data'
//	BuildPath("Measured Data", "Phase 1") → /'Measured Data'/'Phase 1'
//	BuildPath("G'day", "ch")              → /'G''day'/'ch'
//
// An empty group returns RootPath.
func BuildPath(group, channel string) string {
	if group == "" {
		return RootPath
	}

	var sb strings.Builder
	sb.WriteString("/'")
	sb.WriteString(strings.ReplaceAll(group, "'", "''"))
	sb.WriteByte('\'')
	if channel != "" {
		sb.WriteString("/'")
		sb.WriteString(strings.ReplaceAll(channel, "'", "''"))
		sb.WriteByte('\'')
	}

	return sb.String()
}

// parsePath splits an object path into its unescaped components: nil for the
// root object, [group] for a group, [group, channel] for a channel.
func parsePath(path string) ([]string, error) {
	if path == RootPath {
		return nil, nil
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty object path", errs.ErrInvalidFormat)
	}

	var parts []string
	i := 0
	for i < len(path) {
		if path[i] != '/' {
			return nil, fmt.Errorf("%w: object path %q: expected '/' at byte %d", errs.ErrInvalidFormat, path, i)
		}
		i++

		if i >= len(path) || path[i] != '\'' {
			return nil, fmt.Errorf("%w: object path %q: component at byte %d is not quoted", errs.ErrInvalidFormat, path, i)
		}
		i++

		// Scan to the closing quote. A doubled quote is an escaped literal
		// quote inside the name, not a terminator.
		var name strings.Builder
		closed := false
		for i < len(path) {
			j := strings.IndexByte(path[i:], '\'')
			if j < 0 {
				break
			}
			name.WriteString(path[i : i+j])
			i += j + 1
			if i < len(path) && path[i] == '\'' {
				name.WriteByte('\'')
				i++

				continue
			}
			closed = true

			break
		}
		if !closed {
			return nil, fmt.Errorf("%w: object path %q: unterminated quote", errs.ErrInvalidFormat, path)
		}

		parts = append(parts, name.String())
	}

	if len(parts) > 2 {
		return nil, fmt.Errorf("%w: object path %q has %d components, at most 2 allowed", errs.ErrInvalidFormat, path, len(parts))
	}

	return parts, nil
}
