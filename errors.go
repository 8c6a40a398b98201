package resource

import (
	"fmt"
	"net/http"

	"github.com/beatlabs/resource/request"
)

// ConfigurationError is returned when an action cannot be invoked with the setup of the resource
// or the arguments of the call.
type ConfigurationError struct {
	Resource string
	Action   string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("resource %s: %s", e.Resource, e.Reason)
	}
	return fmt.Sprintf("resource %s: action %s: %s", e.Resource, e.Action, e.Reason)
}

// MalformedRequestError is returned when the url template and the call data do not resolve
// into a valid request.
type MalformedRequestError struct {
	URL string
	Err error
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed request %q: %v", e.URL, e.Err)
}

func (e *MalformedRequestError) Unwrap() error {
	return e.Err
}

// UnexpectedResponseError is emitted when the response shape contradicts the action, a list
// where an object was expected or the other way round.
type UnexpectedResponseError struct {
	Action   string
	Expected string
	Got      string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("action %s expected %s in response but got %s", e.Action, e.Expected, e.Got)
}

// ResponseError is emitted for responses without a 2xx status code.
type ResponseError struct {
	StatusCode int
	Body       []byte
	Response   *request.Response
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// RegistryError is returned when a resource name is registered twice or not registered at all.
type RegistryError struct {
	Name   string
	Reason string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry: resource %s: %s", e.Name, e.Reason)
}
