package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// unescape decodes every %XX triplet in s.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.1
func unescape(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}

	b := new(strings.Builder)
	b.Grow(len(s))

	for rest := s; ; {
		before, after, found := strings.Cut(rest, "%")
		b.WriteString(before)
		if !found {
			break
		}

		if !isPercentEncoded("%" + after[:min(len(after), 2)]) {
			return "", errors.Errorf("percent encoding not properly applied: %q", "%"+after[:min(len(after), 2)])
		}

		octet, err := strconv.ParseUint(after[:2], 16, 8)
		if err != nil {
			return "", errors.Wrap(err, "decoding octet")
		}
		b.WriteByte(byte(octet))

		rest = after[2:]
	}

	return b.String(), nil
}
