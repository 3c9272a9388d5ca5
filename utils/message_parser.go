package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var mentionRe = regexp.MustCompile(`^<@!?(\d+)>$`)

// ParseUserID accepts a raw snowflake or a user mention (<@id> / <@!id>) and
// returns the numeric user ID.
func ParseUserID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if match := mentionRe.FindStringSubmatch(raw); len(match) == 2 {
		raw = match[1]
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user reference %q", raw)
	}
	return id, nil
}

// FormatID renders a numeric snowflake the way discordgo expects it.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
