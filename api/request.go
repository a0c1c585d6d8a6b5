package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/rpupo63/portfolio-backend/errs"
)

const maxJSONBodySize = 1 << 20

// decodeJSON reads a JSON body into v. Fields absent from the body keep the
// values already in v, which is how partial updates merge.
func decodeJSON(w http.ResponseWriter, r *http.Request, payload string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewBadRequestError("Request body too large")
		}
		return errs.NewMalformedPayloadError(payload, err)
	}
	return nil
}

// queryInt returns the positive integer query parameter key, or def.
func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// queryBool parses "true" and "false"; anything else is nil.
func queryBool(r *http.Request, key string) *bool {
	var b bool
	switch r.URL.Query().Get(key) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		return nil
	}
	return &b
}

// clientIP is the remote address without its port. realIP has already
// applied forwarding headers from trusted proxies.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
