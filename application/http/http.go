package http

import (
	"bytes"
	"strconv"
	"strings"

	"httpc/application/util/rule"

	"github.com/pkg/errors"
)

// [Major, Minor]
type Version [2]uint

// Version10 is the only version this client speaks.
var Version10 = Version{1, 0}

func (ver Version) Text() []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write([]byte("HTTP/"))
	buf.Write([]byte(strconv.FormatUint(uint64(ver[0]), 10)))
	buf.Write([]byte{'.'})
	buf.Write([]byte(strconv.FormatUint(uint64(ver[1]), 10)))
	return buf.Bytes()
}

type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

var ErrUnsupportedMethod = errors.New("unsupported method")

// ParseMethod accepts method names case-insensitively.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToUpper(s)); m {
	case MethodGet, MethodPost:
		return m, nil
	}
	return "", errors.Wrapf(ErrUnsupportedMethod, "%q", s)
}

type Field struct{ Name, Value string }

func ParseField(fieldLine string) (Field, error) {
	name, value, found := strings.Cut(fieldLine, ":")
	if !found {
		return Field{}, errors.Errorf("colon seperator not found on header: %q", fieldLine)
	}

	if name == "" {
		return Field{}, errors.New("field name is empty")
	}

	// No whitespace is allowed between field name and colon.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-2
	if strings.TrimRight(name, string(rule.OWS)) != name {
		return Field{}, errors.New("field name has trailing whitespace")
	}

	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-3
	value = strings.Trim(value, string(rule.OWS))

	return Field{Name: name, Value: value}, nil
}
