package bridge

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/bridge/codec"
)

// Call is the immutable record of one execution of an endpoint.
type Call struct {
	id         string
	tag        string
	method     string
	route      string
	path       string
	url        string
	endpoint   string
	args       []string
	params     codec.Params
	properties map[string]any
	ctx        context.Context
	createdAt  time.Time
}

func newCall(ctx context.Context, def *definition, s *callSettings, path, url string) *Call {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Call{
		id:         uuid.NewString(),
		tag:        s.tag,
		method:     def.method,
		route:      def.route,
		path:       path,
		url:        url,
		endpoint:   def.name,
		args:       slices.Clone(s.args),
		params:     maps.Clone(s.params),
		properties: maps.Clone(def.properties),
		ctx:        ctx,
		createdAt:  time.Now(),
	}
}

// ID returns the unique identifier of the call.
func (c *Call) ID() string { return c.id }

// Tag returns the caller-supplied tag, possibly empty.
func (c *Call) Tag() string { return c.tag }

// Method returns the HTTP verb.
func (c *Call) Method() string { return c.method }

// Route returns the route template the call was built from.
func (c *Call) Route() string { return c.route }

// Path returns the route with placeholders substituted.
func (c *Call) Path() string { return c.path }

// URL returns the absolute request URL, empty if it could not be built.
func (c *Call) URL() string { return c.url }

// Endpoint returns the endpoint name, possibly empty.
func (c *Call) Endpoint() string { return c.endpoint }

// Args returns a copy of the route arguments.
func (c *Call) Args() []string { return slices.Clone(c.args) }

// Params returns a copy of the call parameters.
func (c *Call) Params() codec.Params { return maps.Clone(c.params) }

// Param returns one call parameter.
func (c *Call) Param(key string) (any, bool) {
	v, ok := c.params[key]
	return v, ok
}

// Properties returns a copy of the endpoint's user-defined properties.
func (c *Call) Properties() map[string]any { return maps.Clone(c.properties) }

// Property returns one user-defined property.
func (c *Call) Property(key string) (any, bool) {
	v, ok := c.properties[key]
	return v, ok
}

// Context returns the context the call was executed with.
func (c *Call) Context() context.Context { return c.ctx }

// CreatedAt returns when the call was created.
func (c *Call) CreatedAt() time.Time { return c.createdAt }

// String describes the call on one line per aspect.
func (c *Call) String() string {
	var b strings.Builder
	target := c.url
	if target == "" {
		target = c.path
	}
	b.WriteString(c.method + " " + target)
	if len(c.params) > 0 {
		fmt.Fprintf(&b, "\nparams: %v", c.params)
	}
	if len(c.properties) > 0 {
		fmt.Fprintf(&b, "\nproperties: %v", c.properties)
	}
	if c.tag != "" {
		b.WriteString("\ntag: " + c.tag)
	}
	return b.String()
}
