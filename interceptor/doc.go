// Package interceptor provides ready-made request and response interceptors
// for bridge clients: authentication, signed JWTs, default headers,
// envelope unwrapping, error envelope translation and call logging.
//
//	client.AddRequestInterceptor(interceptor.Auth(interceptor.BearerAuth(token)))
//	client.AddResponseInterceptor(interceptor.ErrorEnvelope("error", "message"))
//	client.AddResponseInterceptor(interceptor.Unwrap("data"))
//
// Endpoints opt out of authentication with the SkipAuth property.
package interceptor
