package github

import (
	"errors"
	"net/http"

	"github.com/google/go-github/v57/github"
)

func statusCode(err error) int {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}
	return 0
}

// IsValidationError reports whether GitHub rejected the request shape (HTTP 422)
func IsValidationError(err error) bool {
	return statusCode(err) == http.StatusUnprocessableEntity
}

// IsNotFound reports whether GitHub answered HTTP 404
func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// IsRateLimited reports whether the request failed on a primary or secondary rate limit
func IsRateLimited(err error) bool {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	return errors.As(err, &rateErr) || errors.As(err, &abuseErr)
}
