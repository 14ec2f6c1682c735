package http

import (
	"strings"
)

type FormField struct{ Name, Value string }

// Form holds form parameters in the order they are sent.
type Form []FormField

// Set replaces the value of the first field named name, or appends a new field.
func (f *Form) Set(name, value string) {
	for i := range *f {
		if (*f)[i].Name == name {
			(*f)[i].Value = value
			return
		}
	}
	f.Add(name, value)
}

// Add appends a field even if the name is already present.
func (f *Form) Add(name, value string) {
	*f = append(*f, FormField{Name: name, Value: value})
}

// Only CR, LF and SP are escaped in values. Names and every other byte are sent as-is.
var formValueEscaper = strings.NewReplacer(
	"\r", "%0D",
	"\n", "%0A",
	" ", "+",
)

// Encode returns the body of an application/x-www-form-urlencoded request,
// e.g. "name=John&occupation=deer+hunter".
func (f Form) Encode() string {
	b := new(strings.Builder)
	for i, field := range f {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(field.Name)
		b.WriteByte('=')
		b.WriteString(formValueEscaper.Replace(field.Value))
	}
	return b.String()
}
