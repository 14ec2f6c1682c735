// Package uri implements Uniform Resource Identifier (URI) parsing
// and its resolution into a request target.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
//
// - https://datatracker.ietf.org/doc/html/rfc5891 (hosts are put on the wire in A-label form)
package uri
