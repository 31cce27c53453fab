package interceptor

import (
	"errors"
	"net/http"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/bridge"
	"github.com/kbukum/bridge/logger"
)

// JWTConfig configures per-call signed tokens.
type JWTConfig struct {
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`
	// Method is HS256, HS384 or HS512. Defaults to HS256.
	Method string `yaml:"method" mapstructure:"method"`
	// Issuer is the "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`
	// Subject is the "sub" claim (optional).
	Subject string `yaml:"subject" mapstructure:"subject"`
	// Audience is the "aud" claim (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`
	// TTL is the token lifetime. Defaults to one minute.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

func (c *JWTConfig) applyDefaults() {
	if c.Method == "" {
		c.Method = "HS256"
	}
	if c.TTL <= 0 {
		c.TTL = time.Minute
	}
}

func (c *JWTConfig) signingMethod() (gojwt.SigningMethod, error) {
	switch c.Method {
	case "HS256":
		return gojwt.SigningMethodHS256, nil
	case "HS384":
		return gojwt.SigningMethodHS384, nil
	case "HS512":
		return gojwt.SigningMethodHS512, nil
	default:
		return nil, errors.New("interceptor/jwt: unsupported signing method: " + c.Method)
	}
}

// JWT returns a request interceptor that signs a short-lived token for
// every call. The token ID is the call ID. Calls whose endpoint sets
// SkipAuth are left alone.
func JWT(cfg JWTConfig, log *logger.Logger) (bridge.RequestInterceptor, error) {
	cfg.applyDefaults()
	if cfg.Secret == "" {
		return nil, errors.New("interceptor/jwt: secret is required")
	}
	method, err := cfg.signingMethod()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	key := []byte(cfg.Secret)

	return bridge.RequestInterceptorFunc(func(call *bridge.Call, req *http.Request) {
		if skipped(call) {
			return
		}
		now := time.Now()
		claims := gojwt.RegisteredClaims{
			ID:        call.ID(),
			Issuer:    cfg.Issuer,
			Subject:   cfg.Subject,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(cfg.TTL)),
		}
		if len(cfg.Audience) > 0 {
			claims.Audience = gojwt.ClaimStrings(cfg.Audience)
		}
		signed, err := gojwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			log.Error("sign token", logger.ErrorFields("jwt", err))
			return
		}
		req.Header.Set("Authorization", "Bearer "+signed)
	}), nil
}
