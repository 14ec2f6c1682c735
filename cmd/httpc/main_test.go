package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"testing"

	"httpc/application/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	testcases := []struct {
		desc     string
		args     []string
		expected invocation
		wantErr  error
	}{
		{
			desc:    "no arguments",
			wantErr: errUsage,
		},
		{
			desc:    "method without url",
			args:    []string{"POST"},
			wantErr: errUsage,
		},
		{
			desc:     "url only",
			args:     []string{"http://x.com/"},
			expected: invocation{method: http.MethodGet, url: "http://x.com/"},
		},
		{
			desc:     "lowercase method",
			args:     []string{"get", "http://x.com/"},
			expected: invocation{method: http.MethodGet, url: "http://x.com/"},
		},
		{
			desc: "post with params",
			args: []string{"POST", "http://x.com/p", "name=John", "occupation=deer hunter", "empty="},
			expected: invocation{
				method: http.MethodPost,
				url:    "http://x.com/p",
				form:   http.Form{{Name: "name", Value: "John"}, {Name: "occupation", Value: "deer hunter"}, {Name: "empty", Value: ""}},
			},
		},
		{
			desc: "value with equal sign",
			args: []string{"POST", "http://x.com/", "q=a=b"},
			expected: invocation{
				method: http.MethodPost,
				url:    "http://x.com/",
				form:   http.Form{{Name: "q", Value: "a=b"}},
			},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			inv, err := parseArgs(tc.args)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, inv)
		})
	}
}

func TestParseArgsInvalidParam(t *testing.T) {
	_, err := parseArgs([]string{"POST", "http://x.com/", "novalue"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errUsage)
}

func TestParseArgsUnsupportedMethod(t *testing.T) {
	testcases := []struct {
		desc string
		args []string
	}{
		{desc: "followed by url", args: []string{"PUT", "http://x.com"}},
		{desc: "followed by url and params", args: []string{"delete", "http://x.com", "a=b"}},
		{desc: "alone", args: []string{"PATCH"}},
	}

	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := parseArgs(tc.args)
			assert.ErrorIs(t, err, http.ErrUnsupportedMethod)
		})
	}
}

func TestRunUnsupportedMethod(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"PUT", "http://x.com"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "unsupported method")
	assert.NotContains(t, stderr.String(), "invalid parameter")
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Equal(t, usage+"\n", stderr.String())
}

func TestRunInvalidURL(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"http:///nohost"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.True(t, strings.HasPrefix(stderr.String(), "error: "))
	assert.Contains(t, stderr.String(), "invalid url")
}

func TestRunPost(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	bodies := make(chan string, 1)
	go func() {
		defer close(bodies)

		conn, err := ln.Accept()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if !assert.NoError(t, err) {
				return
			}
			if line == "\r\n" {
				break
			}
		}

		body, err := r.ReadString('\n')
		assert.NoError(t, err)
		bodies <- body

		_, err = io.WriteString(conn, "HTTP/1.0 200 OK\r\n\r\nHello")
		assert.NoError(t, err)
	}()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"post", "http://" + ln.Addr().String() + "/p", "name=John", "occupation=deer hunter"},
		&stdout, &stderr,
	)

	assert.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "200\nHello\n", stdout.String())
	assert.Equal(t, "name=John&occupation=deer+hunter\r\n", <-bodies)
}
