package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransportError reports a failure before any HTTP status was available:
// connection refused, timeout, TLS negotiation.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError reports an HTTP status >= 400 from the catalog API, carrying
// the parsed server error detail when the body was structured JSON.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	msg := fmt.Sprintf("catalog API error: status %d", e.Status)
	if e.Code != "" {
		msg += " code " + e.Code
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// ParseError reports an undecodable JSON body on an otherwise successful
// response.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse catalog response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// errorBody matches the two error shapes the API returns:
// {"error": "..."} or {"errors": [{"code": "...", "additionalInfo": "..."}]}.
type errorBody struct {
	Error  string `json:"error"`
	Errors []struct {
		Code           string `json:"code"`
		AdditionalInfo string `json:"additionalInfo"`
	} `json:"errors"`
}

// newRemoteError builds a RemoteError from a failed response, extracting
// structured detail when the body parses as JSON.
func newRemoteError(resp *Response) *RemoteError {
	remote := &RemoteError{Status: resp.StatusCode}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return remote
	}

	if body.Error != "" {
		remote.Message = body.Error
		return remote
	}

	if len(body.Errors) > 0 {
		codes := make([]string, 0, len(body.Errors))
		infos := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			if e.Code != "" {
				codes = append(codes, e.Code)
			}
			if e.AdditionalInfo != "" {
				infos = append(infos, e.AdditionalInfo)
			}
		}
		remote.Code = strings.Join(codes, ",")
		remote.Message = strings.Join(infos, "; ")
	}

	return remote
}
