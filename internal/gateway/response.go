package gateway

import (
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// TimingInfo breaks one request into its transport phases. Durations
// stay zero for phases that did not occur (cached DNS, plain HTTP).
type TimingInfo struct {
	StartTime time.Time

	DNSLookupTime       time.Duration
	TCPConnectTime      time.Duration
	TLSHandshakeTime    time.Duration
	TimeToFirstByte     time.Duration
	ContentTransferTime time.Duration
	TotalTime           time.Duration
}

// Response is a gateway response with the body already drained.
type Response struct {
	StatusCode int
	Status     string
	Headers    http.Header
	Body       []byte
	Timing     TimingInfo
}

// BodyString returns the raw response body as a string.
func (r *Response) BodyString() string {
	return string(r.Body)
}

// Field extracts a single value from a JSON body using a gjson path.
// The second return is false when the path does not exist.
func (r *Response) Field(path string) (string, bool) {
	result := gjson.GetBytes(r.Body, path)
	if !result.Exists() {
		return "", false
	}
	return result.String(), true
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsClientError reports whether the status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError reports whether the status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// IsError reports whether the status code indicates an error (4xx or 5xx).
func (r *Response) IsError() bool {
	return r.IsClientError() || r.IsServerError()
}
