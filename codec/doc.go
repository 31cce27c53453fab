// Package codec turns call parameters into request bytes and response
// bytes into a shape-tagged Value.
//
// A Codec is pluggable; JSON is the only encoding provided. For GET and
// DELETE requests parameters travel in the query string, for POST and PUT
// they are serialized into the body. Decoding accepts a top-level JSON
// array or object only.
//
//	var c codec.Codec = codec.JSON{}
//	if err := c.Encode(req, codec.Params{"page": 2}); err != nil {
//	    // errors.IsEncoding(err)
//	}
//	v, err := c.Decode(body)
package codec
