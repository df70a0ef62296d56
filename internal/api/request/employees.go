package request

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/mcoot/staffapi/internal/services/directory"
)

// ParseEmployeeQuery reads the list filters for GET /api/employees.
// Only the first value of each parameter is considered.
func ParseEmployeeQuery(q url.Values) directory.Filter {
	return directory.Filter{
		UsersOnly: q.Get("user") == "true",
		Badge:     q.Get("badges"),
		Page:      ParseLeadingInt(q.Get("page")),
	}
}

// ParseLeadingInt parses the integer at the start of s, ignoring leading
// whitespace and anything after the digits: "2abc" is 2, "1.9" is 1.
// Input with no leading digits is 0. Values beyond the int32 range are
// clamped to it.
func ParseLeadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.ParseInt(sign+s[:end], 10, 32)
	if err != nil {
		// only a range error is possible here
		if sign == "-" {
			return math.MinInt32
		}
		return math.MaxInt32
	}
	return int(n)
}
