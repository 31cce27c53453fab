// Package bridge executes typed HTTP endpoints through ordered interceptor
// chains.
//
// An Endpoint is an immutable definition: a verb, a route template with
// '#' placeholders and a parse function for the result type. Executing it
// creates a fresh Call record, encodes the parameters, runs the request
// interceptors, hands the request to the transport and, once the response
// arrives, decodes it, runs the response interceptors, validates the status
// and parses the result.
//
//	client, err := bridge.New(bridge.Config{BaseURL: "https://api.example.com/"})
//	posts := bridge.Get[Post](client, "posts/#")
//	posts.Execute(ctx, func(p Post) { ... },
//	    bridge.Args(1),
//	    bridge.Tag("Home:Post"),
//	    bridge.OnFailure(func(err error, body []byte, req *http.Request, resp *http.Response) { ... }),
//	)
//	client.Cancel("Home:")
//
// Exactly one of the success and failure callbacks runs per call, always on
// the client's dispatch executor. A response interceptor that halts the
// chain without an error ends the call silently.
package bridge
