package codec

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	gojson "github.com/goccy/go-json"

	"github.com/kbukum/bridge/errors"
)

// ContentTypeJSON is the content type set on encoded bodies.
const ContentTypeJSON = "application/json"

// JSON is the JSON codec. The zero value is ready to use.
type JSON struct{}

var _ Codec = JSON{}

// Name returns "json".
func (JSON) Name() string { return "json" }

// Encode writes params into the query string for GET and DELETE and into
// the body for POST and PUT.
func (JSON) Encode(req *http.Request, params Params) error {
	if len(params) == 0 {
		return nil
	}
	switch req.Method {
	case "", http.MethodGet, http.MethodDelete:
		encodeQuery(req, params)
		return nil
	case http.MethodPost, http.MethodPut:
		return encodeBody(req, params)
	default:
		return errors.Encoding(fmt.Sprintf("method %q cannot carry parameters", req.Method))
	}
}

// Decode parses data as JSON. Only a top-level array or object is accepted.
func (JSON) Decode(data []byte) (Value, error) {
	var raw any
	if err := gojson.Unmarshal(data, &raw); err != nil {
		return Value{}, errors.Serializing(err)
	}
	if v, ok := ValueOf(raw); ok {
		return v, nil
	}
	return Value{}, errors.Serializing(fmt.Errorf("top-level JSON value is %s", describeRaw(raw)))
}

// DecodeToText returns data as a string when it is valid UTF-8.
func (JSON) DecodeToText(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

func encodeQuery(req *http.Request, params Params) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Escape(k)+"="+Escape(FormatQueryValue(params[k])))
	}
	query := strings.Join(pairs, "&")

	if req.URL.RawQuery != "" {
		req.URL.RawQuery += "&" + query
	} else {
		req.URL.RawQuery = query
	}
}

func encodeBody(req *http.Request, params Params) error {
	if err := ValidJSONObject(params); err != nil {
		return errors.Encoding("parameters are not a valid JSON object").WithCause(err)
	}
	data, err := gojson.Marshal(params)
	if err != nil {
		return errors.Encoding("parameters could not be serialized").WithCause(err)
	}

	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set("Content-Type", ContentTypeJSON)
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.ContentLength = int64(len(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil
}

func describeRaw(raw any) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
