package uri

import (
	"net/netip"
	"strings"
	"unicode/utf8"

	"httpc/application/util/rule"

	"github.com/pkg/errors"
)

// maxHostLen is the longest host a DNS name can be written as.
const maxHostLen = 255

// charClass tells whether a byte may appear unescaped in a component.
// Percent-encoded triplets are accepted by every class.
type charClass func(c byte) bool

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.3
func unreserved(c byte) bool {
	return rule.IsAlpha(rune(c)) || rule.IsDigit(rune(c)) || strings.IndexByte("-._~", c) >= 0
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.2
func subDelim(c byte) bool { return strings.IndexByte("!$&'()*+,;=", c) >= 0 }

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.2.1
func userInfoChar(c byte) bool { return unreserved(c) || subDelim(c) || c == ':' }

// Non-ASCII bytes are let through, the host is converted to A-labels afterwards.
// Reference: https://datatracker.ietf.org/doc/html/rfc3987#section-2.2
func regNameChar(c byte) bool { return unreserved(c) || subDelim(c) || c >= utf8.RuneSelf }

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.3
func pchar(c byte) bool { return userInfoChar(c) || c == '@' }

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.4
func queryChar(c byte) bool { return pchar(c) || c == '/' || c == '?' }

func (class charClass) matches(s string) bool {
	for idx := 0; idx < len(s); idx++ {
		switch {
		case class(s[idx]):
		case isPercentEncoded(s[idx:min(len(s), idx+3)]):
			idx += 2
		default:
			return false
		}
	}
	return true
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-2.1
func isPercentEncoded(s string) bool {
	return len(s) == 3 && s[0] == '%' && rule.IsHex(rune(s[1])) && rule.IsHex(rune(s[2]))
}

func containsCTL(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r < ' ' || r == 0x7f })
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.1
func assertValidScheme(scheme string) error {
	if scheme == "" {
		return errors.New("scheme is empty")
	}
	if !rule.IsAlpha(rune(scheme[0])) {
		return errors.New("scheme doesn't start with ALPHA")
	}

	rest := charClass(func(c byte) bool {
		return rule.IsAlpha(rune(c)) || rule.IsDigit(rune(c)) || strings.IndexByte("+-.", c) >= 0
	})
	if strings.Contains(scheme, "%") || !rest.matches(scheme[1:]) {
		return errors.New("scheme contains invalid byte")
	}

	return nil
}

// assertValidHost accepts an IPv4 address, a reg-name, or an IPv6 address
// in brackets. Other IP literal versions (IPvFuture) are rejected as nothing
// could dial them.
func assertValidHost(host string) error {
	if len(host) > maxHostLen {
		return errors.Errorf("host length exceeds limit(%d): %d", maxHostLen, len(host))
	}

	if literal, ok := strings.CutPrefix(host, "["); ok {
		literal, ok = strings.CutSuffix(literal, "]")
		if !ok {
			return errors.New("IP literal is not closed with ']'")
		}
		if addr, err := netip.ParseAddr(literal); err != nil || !addr.Is6() {
			return errors.Errorf("IP literal %q is not an IPv6 address", literal)
		}
		return nil
	}

	if addr, err := netip.ParseAddr(host); err == nil && addr.Is4() {
		return nil
	}

	// An empty reg-name is valid syntax; Resolve reports the missing host.
	// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.2.2
	if !charClass(regNameChar).matches(host) || !utf8.ValidString(host) {
		return errors.New("host is neither ipv4 addr nor valid reg-name")
	}

	return nil
}

// Non-ASCII bytes are not allowed anywhere in the path; they have to be
// percent-encoded by the caller.
func assertValidPath(path string, hasAuthority bool, isRelative bool) error {
	switch {
	case hasAuthority && path != "" && path[0] != '/':
		return errors.New("URI with authority must either be empty or start with '/'")
	case !hasAuthority && strings.HasPrefix(path, "//"):
		return errors.New("URI without authority should not start with '//'")
	}

	first, _, _ := strings.Cut(path, "/")
	if isRelative && strings.Contains(first, ":") {
		return errors.New("relative URI reference's first segment should not contain ':'")
	}

	for segment := range strings.SplitSeq(path, "/") {
		if !charClass(pchar).matches(segment) {
			return errors.Errorf("path segment %q contains invalid byte", segment)
		}
	}

	return nil
}
