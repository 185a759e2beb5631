// pkg/convention/method.go
package convention

import "strings"

// Method is one of the HTTP verbs a route file may bind.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"

	// MethodAll binds a handler regardless of the request verb. It is never
	// parsed from a file name; the registrar uses it for default-only modules.
	MethodAll Method = "ALL"
)

// Methods lists the recognised verbs in binding order.
var Methods = []Method{
	MethodGet,
	MethodPost,
	MethodPut,
	MethodDelete,
	MethodPatch,
	MethodOptions,
	MethodHead,
}

// ParseMethod resolves a verb token case-insensitively.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

func (m Method) String() string { return string(m) }
