package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultPort is used when the authority carries no port.
const DefaultPort uint16 = 80

var (
	ErrMissingHost = errors.New("host is missing")
	ErrInvalidPort = errors.New("port must be positive")
)

// Target is what a request needs to know about a URL:
// where to connect and what to ask for.
type Target struct {
	Host  string // IP literals are kept without brackets.
	Port  uint16
	Path  string
	Query *string
}

// Resolve parses rawURL and fills in the defaults for port and path.
// The fragment, if any, is dropped as it is never sent to the server.
func Resolve(rawURL string) (Target, error) {
	u, err := Parse(rawURL)
	if err != nil {
		return Target{}, errors.Wrap(err, "parsing url")
	}

	if u.Authority == nil || u.Authority.Host == "" {
		return Target{}, ErrMissingHost
	}

	target := Target{
		Host:  strings.TrimSuffix(strings.TrimPrefix(u.Authority.Host, "["), "]"),
		Port:  DefaultPort,
		Path:  u.Path,
		Query: u.Query,
	}

	if u.Authority.Port != nil {
		if *u.Authority.Port == 0 {
			return Target{}, ErrInvalidPort
		}
		target.Port = *u.Authority.Port
	}

	if target.Path == "" {
		target.Path = "/"
	}

	return target, nil
}

// RequestTarget returns the origin-form of the target.
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3.2.1
func (t Target) RequestTarget() string {
	if t.Query == nil {
		return t.Path
	}
	return t.Path + "?" + *t.Query
}

// HostHeader returns the host as it should appear in the Host header.
// The port is never included, and neither is the zone of an IPv6 address,
// which only means something to the sending host.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-4.2.3
func (t Target) HostHeader() string {
	if !strings.Contains(t.Host, ":") {
		return t.Host
	}
	addr, _, _ := strings.Cut(t.Host, "%")
	return "[" + addr + "]"
}

// Addr returns "host:port" suitable for logging. The zone is kept.
func (t Target) Addr() string {
	host := t.Host
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return host + ":" + strconv.FormatUint(uint64(t.Port), 10)
}
