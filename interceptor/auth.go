package interceptor

import (
	"net/http"

	"github.com/kbukum/bridge"
	"github.com/kbukum/bridge/codec"
)

// SkipAuth is the endpoint property that disables authentication when set
// to true.
const SkipAuth = "skip_auth"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses Bearer token authentication.
	AuthBearer
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthAPIKey uses API key authentication (header or query parameter).
	AuthAPIKey
	// AuthCustom uses a custom authentication function.
	AuthCustom
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer). TokenFunc takes precedence.
	Token string
	// TokenFunc returns the current bearer token (AuthBearer).
	TokenFunc func() string
	// Username is the basic auth username (AuthBasic).
	Username string
	// Password is the basic auth password (AuthBasic).
	Password string
	// Key is the API key value (AuthAPIKey).
	Key string
	// In specifies where to place the API key: "header" (default) or "query" (AuthAPIKey).
	In string
	// Name is the header or query parameter name (AuthAPIKey). Defaults to "X-API-Key".
	Name string
	// Apply is a custom function to modify the request (AuthCustom).
	Apply func(call *bridge.Call, req *http.Request)
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BearerTokenFunc creates a bearer auth config that reads the token per call.
func BearerTokenFunc(fn func() string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, TokenFunc: fn}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent via header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "header", Name: "X-API-Key"}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: "query", Name: paramName}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(call *bridge.Call, req *http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// Auth returns a request interceptor applying cfg to every call whose
// endpoint does not set SkipAuth.
func Auth(cfg *AuthConfig) bridge.RequestInterceptor {
	return bridge.RequestInterceptorFunc(func(call *bridge.Call, req *http.Request) {
		if skipped(call) {
			return
		}
		cfg.apply(call, req)
	})
}

func skipped(call *bridge.Call) bool {
	v, ok := call.Property(SkipAuth)
	if !ok {
		return false
	}
	skip, _ := v.(bool)
	return skip
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(call *bridge.Call, req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		token := a.Token
		if a.TokenFunc != nil {
			token = a.TokenFunc()
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		if a.In == "query" {
			// Appended as-is so the codec's escaping of the rest survives.
			pair := codec.Escape(name) + "=" + codec.Escape(a.Key)
			if req.URL.RawQuery == "" {
				req.URL.RawQuery = pair
			} else {
				req.URL.RawQuery += "&" + pair
			}
		} else {
			req.Header.Set(name, a.Key)
		}
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(call, req)
		}
	}
}
