package ffmpegengine

import (
	"strconv"
	"strings"
	"time"

	"github.com/user/slideshow/pkg/ports"
)

// progressParser reads the key=value blocks written by "-progress pipe:1".
// Each block ends with a progress=continue or progress=end line.
type progressParser struct {
	elapsed time.Duration
}

// feed consumes one line and returns an event when a block is complete.
func (p *progressParser) feed(line string) (ports.ProgressEvent, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return ports.ProgressEvent{}, false
	}

	switch key {
	case "out_time_us", "out_time_ms":
		// Both keys carry microseconds.
		if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
			p.elapsed = time.Duration(us) * time.Microsecond
		}
	case "out_time":
		if d, ok := parseClock(value); ok {
			p.elapsed = d
		}
	case "progress":
		ev := ports.ProgressEvent{Ratio: ports.RatioUnknown, Elapsed: p.elapsed}
		if value == "end" {
			ev.Ratio = 1
		}
		return ev, true
	}
	return ports.ProgressEvent{}, false
}

// parseClock parses HH:MM:SS.micro as written in out_time.
func parseClock(s string) (time.Duration, bool) {
	if strings.HasPrefix(s, "-") {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || h < 0 || m < 0 || sec < 0 {
		return 0, false
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second)), true
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}
