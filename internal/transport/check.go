package transport

import (
	"fmt"
	"net/http"

	"github.com/desertthunder/spotkit/internal/shared"
)

// ResponseError reports a response whose status was not 200.
//
// errors.Is(err, shared.ErrInvalidResponse) matches it.
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%v: status %d", shared.ErrInvalidResponse, e.StatusCode)
	}
	return fmt.Sprintf("%v: status %d, body: %s", shared.ErrInvalidResponse, e.StatusCode, e.Body)
}

func (e *ResponseError) Is(target error) bool {
	return target == shared.ErrInvalidResponse
}

// Check validates the outcome of an [HTTPClient] call and returns the body to decode.
//
// Checks run in order and the first failure wins: the transport error itself (unwrapped),
// a nil response, a status other than 200, then a nil body.
func Check(resp *Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, shared.ErrNilResponse
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Body: resp.Body}
	}
	if resp.Body == nil {
		return nil, shared.ErrNilBody
	}
	return resp.Body, nil
}
