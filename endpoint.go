package bridge

import (
	"maps"
	"net/http"
	"strings"

	"github.com/kbukum/bridge/codec"
)

// definition is the static, type-independent part of an endpoint.
type definition struct {
	client     *Client
	method     string
	route      string
	name       string
	codec      codec.Codec
	before     RequestInterceptor
	after      ResponseInterceptor
	properties map[string]any
}

// Endpoint is a reusable, immutable description of one API call that
// yields a T. It is safe for concurrent use.
type Endpoint[T any] struct {
	def   *definition
	parse ParseFunc[T]
}

// EndpointOption configures an endpoint at construction.
type EndpointOption func(*definition)

// Before attaches a request interceptor that runs after the client's.
func Before(ic RequestInterceptor) EndpointOption {
	return func(d *definition) { d.before = ic }
}

// After attaches a response interceptor that runs after the client's.
func After(ic ResponseInterceptor) EndpointOption {
	return func(d *definition) { d.after = ic }
}

// Named sets the endpoint name used in logs and call records.
func Named(name string) EndpointOption {
	return func(d *definition) { d.name = name }
}

// WithEndpointCodec overrides the client codec for this endpoint.
func WithEndpointCodec(c codec.Codec) EndpointOption {
	return func(d *definition) { d.codec = c }
}

// Property attaches a user-defined property visible to interceptors.
func Property(key string, value any) EndpointOption {
	return func(d *definition) {
		if d.properties == nil {
			d.properties = make(map[string]any)
		}
		d.properties[key] = value
	}
}

// NewEndpoint defines an endpoint. A nil client means Default().
func NewEndpoint[T any](client *Client, method, route string, parse ParseFunc[T], opts ...EndpointOption) *Endpoint[T] {
	def := &definition{
		client: client,
		method: strings.ToUpper(method),
		route:  route,
	}
	for _, opt := range opts {
		opt(def)
	}
	return &Endpoint[T]{def: def, parse: parse}
}

// Get defines a GET endpoint for a type implementing the parse contract.
func Get[T any, PT Parseable[T]](client *Client, route string, opts ...EndpointOption) *Endpoint[T] {
	return NewEndpoint[T](client, http.MethodGet, route, ParseModel[T, PT], opts...)
}

// Post defines a POST endpoint for a type implementing the parse contract.
func Post[T any, PT Parseable[T]](client *Client, route string, opts ...EndpointOption) *Endpoint[T] {
	return NewEndpoint[T](client, http.MethodPost, route, ParseModel[T, PT], opts...)
}

// Put defines a PUT endpoint for a type implementing the parse contract.
func Put[T any, PT Parseable[T]](client *Client, route string, opts ...EndpointOption) *Endpoint[T] {
	return NewEndpoint[T](client, http.MethodPut, route, ParseModel[T, PT], opts...)
}

// Delete defines a DELETE endpoint for a type implementing the parse contract.
func Delete[T any, PT Parseable[T]](client *Client, route string, opts ...EndpointOption) *Endpoint[T] {
	return NewEndpoint[T](client, http.MethodDelete, route, ParseModel[T, PT], opts...)
}

// WithProperty returns a copy of the endpoint carrying one more property.
// The receiver is left unchanged.
func (e *Endpoint[T]) WithProperty(key string, value any) *Endpoint[T] {
	def := *e.def
	def.properties = maps.Clone(e.def.properties)
	Property(key, value)(&def)
	return &Endpoint[T]{def: &def, parse: e.parse}
}

// Property returns a user-defined property.
func (e *Endpoint[T]) Property(key string) (any, bool) {
	v, ok := e.def.properties[key]
	return v, ok
}

// Method returns the HTTP verb.
func (e *Endpoint[T]) Method() string { return e.def.method }

// Route returns the route template.
func (e *Endpoint[T]) Route() string { return e.def.route }

// Name returns the endpoint name.
func (e *Endpoint[T]) Name() string { return e.def.name }

// Client returns the client the endpoint executes on.
func (e *Endpoint[T]) Client() *Client {
	if e.def.client == nil {
		return Default()
	}
	return e.def.client
}
