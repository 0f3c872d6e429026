package timeline

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// lineRe matches one script line: "[start-end] KIND: text". Timestamps are
// decimal seconds; the kind token is matched case-insensitively.
var lineRe = regexp.MustCompile(`^\[(\d+\.?\d*)-(\d+\.?\d*)\]\s*(\w+):\s*(.+)$`)

// Parse reads a timestamped quiz script into a Timeline. Blank lines and
// lines carrying an unrecognised kind token are skipped with a debug log so
// upstream script generators can carry extra annotations without breaking
// the engine.
//
// Parse does not validate the result; callers run [Timeline.Validate] before
// rendering.
func Parse(script string) (*Timeline, error) {
	var segments []Segment
	for lineNo, raw := range strings.Split(script, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("timeline: line %d: malformed script line %q", lineNo+1, line)
		}

		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("timeline: line %d: bad start time %q: %w", lineNo+1, m[1], err)
		}
		end, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("timeline: line %d: bad end time %q: %w", lineNo+1, m[2], err)
		}

		kind := Kind(strings.ToLower(m[3]))
		if !kind.IsValid() {
			slog.Debug("skipping script line with unknown component kind",
				"line", lineNo+1, "kind", m[3])
			continue
		}

		segments = append(segments, Segment{
			Kind:       kind,
			Start:      secondsToDuration(start),
			End:        secondsToDuration(end),
			VisualText: m[4],
		})
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("timeline: script contains no recognised segments")
	}
	return New(segments), nil
}

// secondsToDuration converts fractional seconds to a time.Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
