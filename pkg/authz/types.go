package authz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	ModeDisabled = "disabled"
	ModeEnforce  = "enforce"
)

// Request is a single authorization question: may subject perform action on
// object within domain.
type Request struct {
	Subject    string
	Domain     string
	Object     string
	Action     string
	Attributes map[string]interface{}
}

type RequestOption func(*Request)

func WithAttribute(key string, value interface{}) RequestOption {
	return func(r *Request) {
		if r.Attributes == nil {
			r.Attributes = map[string]interface{}{}
		}
		r.Attributes[key] = value
	}
}

func NewRequest(subject, domain, object, action string, opts ...RequestOption) Request {
	req := Request{
		Subject:    subject,
		Domain:     domain,
		Object:     object,
		Action:     action,
		Attributes: map[string]interface{}{},
	}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// ObjectName builds the canonical "<module>.<resource>" object identifier.
func ObjectName(module, resource string) string {
	return fmt.Sprintf("%s.%s", module, resource)
}

func DomainFromTenant(tenantID uuid.UUID) string {
	return "tenant:" + tenantID.String()
}

func SubjectForUser(userID uuid.UUID) string {
	return "user:" + userID.String()
}

func NormalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
