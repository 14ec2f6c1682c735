package http

import (
	"bytes"
	"strconv"

	"httpc/application/util/rule"
	"httpc/application/util/uri"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

const ContentTypeForm = "application/x-www-form-urlencoded"

type Request struct {
	Method  Method
	Target  string
	Version Version
	Headers []Field
	Body    []byte
}

// BuildRequest renders the complete bytes of an HTTP/1.0 request.
// The form is only sent for POST; GET ignores it.
func BuildRequest(method Method, target uri.Target, form Form) ([]byte, error) {
	host := target.HostHeader()
	if !httpguts.ValidHostHeader(host) {
		return nil, NewError(ErrInvalidURL, "building request", errors.Errorf("invalid host %q", host))
	}

	request := Request{
		Method:  method,
		Target:  target.RequestTarget(),
		Version: Version10,
		Headers: []Field{{Name: "Host", Value: host}},
	}

	switch method {
	case MethodGet:
	case MethodPost:
		body := form.Encode()
		request.Headers = append(request.Headers,
			Field{Name: "Content-Type", Value: ContentTypeForm},
			Field{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		)
		// The body line is terminated too, but the terminator is not counted.
		request.Body = append([]byte(body), rule.CRLF...)
	default:
		return nil, errors.Wrapf(ErrUnsupportedMethod, "%q", method)
	}

	buf := bytes.NewBuffer(nil)
	if err := newRequestEncoder(buf).encode(request); err != nil {
		return nil, errors.Wrap(err, "encoding request")
	}

	return buf.Bytes(), nil
}
