// Package format renders feed values for the dashboard.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	man = 10_000
	eok = 100_000_000

	countUnknown = "조회수 정보 없음"
)

var printer = message.NewPrinter(language.Korean)

// Count renders a decimal count with Korean myriad units, e.g. "1,234회", "12만회", "1억2,345만회".
func Count(s string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return countUnknown
	}
	switch {
	case n >= eok:
		// The 억 part is never grouped.
		head := strconv.FormatInt(n/eok, 10) + "억"
		rest := (n % eok) / man
		if rest == 0 {
			return head + "회"
		}
		return head + printer.Sprintf("%d만회", rest)
	case n >= man:
		return printer.Sprintf("%d만회", n/man)
	default:
		return printer.Sprintf("%d회", n)
	}
}

// Sum adds decimal counts, skipping values that are not plain non-negative integers.
func Sum(values ...string) string {
	var total uint64
	for _, v := range values {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		total += n
	}
	return strconv.FormatUint(total, 10)
}

var durationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration reads the PT#H#M#S form used by the video API.
func ParseDuration(iso string) (time.Duration, bool) {
	m := durationRe.FindStringSubmatch(iso)
	if m == nil || iso == "PT" {
		return 0, false
	}
	var d time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || n > int64(math.MaxInt64/unit) {
			return 0, false
		}
		part := time.Duration(n) * unit
		if d > math.MaxInt64-part {
			return 0, false
		}
		d += part
	}
	return d, true
}

// Duration renders an ISO-8601 duration as H:MM:SS or M:SS. Unknown input renders as "".
func Duration(iso string) string {
	d, ok := ParseDuration(iso)
	if !ok {
		return ""
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// RelativeTime renders how long ago publishedAt (RFC 3339) was, relative to now.
func RelativeTime(publishedAt string, now time.Time) string {
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return ""
	}
	diff := now.Sub(published)
	days := int(diff / (24 * time.Hour))
	rem := diff % (24 * time.Hour)
	switch {
	case days > 0:
		return fmt.Sprintf("%d일 전", days)
	case rem > time.Hour:
		return fmt.Sprintf("%d시간 전", int(rem/time.Hour))
	case rem > time.Minute:
		return fmt.Sprintf("%d분 전", int(rem/time.Minute))
	default:
		return "방금 전"
	}
}

// Truncate shortens s to at most limit runes, the last three being "...".
func Truncate(s string, limit int) string {
	if limit <= 3 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}
