package uri

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/net/idna"
)

// URI holds the components of a parsed URI.
// Path, Query and Fragment are kept exactly as written (still escaped),
// since they are sent on the wire as-is. Host and UserInfo are unescaped.
type URI struct {
	Scheme    string
	Authority *Authority
	Path      string
	Query     *string
	Fragment  *string
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.2
func (u *URI) IsRelativeRef() bool {
	return u.Scheme == ""
}

type Authority struct {
	UserInfo string
	Host     string

	// NOTE: Port can be digits of any length. But practically it is in range of 0 ~ 65535.
	// Reference: datatracker.ietf.org/doc/html/rfc3986#section-3.2.3
	Port *uint16
}

func Parse(rawURL string) (URI, error) {
	if containsCTL(rawURL) {
		return URI{}, errors.New("URI should not contain CTL bytes")
	}

	var uri URI

	scheme, rest, err := cutScheme(rawURL)
	if err != nil {
		return URI{}, errors.Wrap(err, "getting scheme")
	}
	// Scheme is recommended to be lowercase.
	uri.Scheme = strings.ToLower(scheme)

	if strings.HasPrefix(rest, "//") {
		var authorityRaw string
		authorityRaw, rest = rest[2:], ""
		if i := strings.IndexAny(authorityRaw, "/?#"); i >= 0 {
			authorityRaw, rest = authorityRaw[:i], authorityRaw[i:]
		}

		authority, err := parseAuthority(authorityRaw)
		if err != nil {
			return URI{}, errors.Wrap(err, "parsing authority")
		}

		uri.Authority = &authority
	}

	path, query, frag := splitPathQueryFrag(rest)

	hasAuthority := uri.Authority != nil
	if err := assertValidPath(path, hasAuthority, uri.IsRelativeRef()); err != nil {
		return URI{}, errors.Wrap(err, "path is not valid")
	}
	uri.Path = path

	if len(query) > 0 {
		// Strip '?' from query.
		query = query[1:]
		if !charClass(queryChar).matches(query) {
			return URI{}, errors.New("query is not valid")
		}
		uri.Query = &query
	}

	if len(frag) > 0 {
		frag = frag[1:]
		if !charClass(queryChar).matches(frag) {
			return URI{}, errors.New("frag is not valid")
		}
		uri.Fragment = &frag
	}

	return uri, nil
}

// cutScheme cuts scheme from rawURL. If scheme is not valid, it returns an error.
func cutScheme(rawURL string) (scheme, rest string, err error) {
	before, after, found := strings.Cut(rawURL, ":")
	if !found {
		// If seperator is not found, scheme doesn't exist.
		return "", before, nil
	}

	if strings.ContainsAny(before, "/?#") {
		// The colon belongs to a later component, e.g. "//host:80/".
		return "", rawURL, nil
	}

	scheme, rest = before, after
	if err := assertValidScheme(scheme); err != nil {
		return "", "", err
	}

	return scheme, rest, nil
}

func parseAuthority(raw string) (authority Authority, err error) {
	var userInfo, host string
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		userInfo, host = raw[:i], raw[i+1:]
	} else {
		host = raw
	}

	if userInfo != "" {
		if !charClass(userInfoChar).matches(userInfo) {
			return Authority{}, errors.New("user information is not valid")
		}
		authority.UserInfo, err = unescape(userInfo)
		if err != nil {
			return Authority{}, errors.Wrap(err, "unescaping user information")
		}
	}

	host, portPart, err := getHostPort(host)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing host")
	}

	port, hasPort, err := parsePort(portPart)
	if err != nil {
		return Authority{}, errors.Wrap(err, "parsing port")
	}

	if hasPort {
		authority.Port = &port
	}

	if authority.Host, err = unescape(host); err != nil {
		return Authority{}, errors.Wrap(err, "unescaping host")
	}
	authority.Host = strings.ToLower(authority.Host)

	if authority.Host, err = toASCIIHost(authority.Host); err != nil {
		return Authority{}, errors.Wrap(err, "converting host to ascii")
	}

	return authority, nil
}

// toASCIIHost converts an internationalized host name into its A-label form.
// ASCII hosts are returned untouched.
func toASCIIHost(host string) (string, error) {
	for idx := 0; idx < len(host); idx++ {
		if host[idx] >= utf8.RuneSelf {
			return idna.Lookup.ToASCII(host)
		}
	}
	return host, nil
}

func getHostPort(raw string) (host string, portPart string, err error) {
	if strings.HasPrefix(raw, "[") {
		// This is IP Literal.
		idx := strings.LastIndex(raw, "]")
		if idx < 0 {
			return "", "", errors.New("missing ']' in IP Literal")
		}

		host = raw[:idx+1]
		portPart = raw[idx+1:]
	} else {
		// ipv4 or reg-name.
		host = raw
		if idx := strings.LastIndex(raw, ":"); idx >= 0 {
			host = raw[:idx]
			portPart = raw[idx:]
		}
	}

	if err := assertValidHost(host); err != nil {
		return "", "", errors.Wrap(err, "host is not valid")
	}

	return host, portPart, nil
}

// This is not the same rule as RFC. See [Authority].
func parsePort(s string) (port uint16, hasPort bool, err error) {
	if s == "" {
		return 0, false, nil
	}

	if s[0] != ':' {
		return 0, false, errors.New("colon delimiter not found on port")
	}

	s = s[1:]
	if s == "" {
		// Empty port is allowed and means the default one.
		// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-3.2.3
		return 0, false, nil
	}

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to parse uint")
	}

	if s[0] == '0' && !(n == 0 && len(s) == 1) {
		return 0, false, errors.New("port has leading zero")
	}

	return uint16(n), true, nil
}

func splitPathQueryFrag(raw string) (path, query, frag string) {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		frag = raw[idx:]
		raw = raw[:idx]
	}

	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query = raw[idx:]
		raw = raw[:idx]
	}

	path = raw
	return
}
