// Package http implements the HTTP/1.0 subset a one-shot client needs:
// building GET and form POST requests, and reading a status code and body
// out of a raw response.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc1945
//
// - https://datatracker.ietf.org/doc/html/rfc9112
//
// - https://url.spec.whatwg.org/#application/x-www-form-urlencoded
package http
