package http

import (
	"strconv"
	"strings"

	"httpc/application/util/rule"

	"github.com/pkg/errors"
)

type Response struct {
	StatusCode int
	Headers    []Field
	Body       string
}

// Header returns the value of the first header named name, ignoring case.
func (r *Response) Header(name string) (string, bool) {
	for _, field := range r.Headers {
		if strings.EqualFold(field.Name, name) {
			return field.Value, true
		}
	}
	return "", false
}

// ParseResponse extracts the status code and body from a complete raw response.
//
// The text is split on CRLF: every entry but the last two belongs to the
// header section and the last entry is the body. Framing headers such as
// Content-Length are not consulted, so a body that itself contains CRLF
// keeps only its last line.
func ParseResponse(raw string) (*Response, error) {
	lines := strings.Split(raw, string(rule.CRLF))
	if len(lines) < 3 {
		return nil, NewError(ErrMalformedResponse, "parsing response", errors.New("header section not found"))
	}

	headers := lines[:len(lines)-2]

	statusCode, err := parseStatusCode(headers[0])
	if err != nil {
		return nil, NewError(ErrMalformedResponse, "parsing status line", err)
	}

	fields := make([]Field, 0, len(headers)-1)
	for _, line := range headers[1:] {
		if line == "" {
			continue
		}
		field, err := ParseField(line)
		if err != nil {
			continue
		}
		fields = append(fields, field)
	}

	return &Response{
		StatusCode: statusCode,
		Headers:    fields,
		Body:       lines[len(lines)-1],
	}, nil
}

// The status code is the second token of the status line split on single spaces.
func parseStatusCode(statusLine string) (int, error) {
	tokens := strings.Split(statusLine, string(rule.SP))
	if len(tokens) < 2 {
		return 0, errors.Errorf("status code not found in %q", statusLine)
	}

	token := tokens[1]
	if !rule.IsDigits(token) {
		return 0, errors.Errorf("invalid status code %q", token)
	}

	code, err := strconv.Atoi(token)
	if err != nil {
		return 0, errors.Wrap(err, "converting status code")
	}

	return code, nil
}
