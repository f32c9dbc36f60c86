package git

import (
	"fmt"
	"net/url"
	"strings"
)

// Typed push errors enabling structured classification without string
// parsing upstream.

type AuthError struct {
	Op  string
	URL string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s auth error for %s: %v", e.Op, e.URL, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Op  string
	URL string
	Err error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found %s: %v", e.Op, e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }

type NetworkTimeoutError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkTimeoutError) Error() string {
	return fmt.Sprintf("%s timed out for %s: %v", e.Op, e.URL, e.Err)
}
func (e *NetworkTimeoutError) Unwrap() error { return e.Err }

// classifyPushError wraps push failures into typed variants when possible.
func classifyPushError(url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "authorization") || strings.Contains(l, "invalid username or password"):
		return &AuthError{Op: "push", URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return &NotFoundError{Op: "push", URL: url, Err: err}
	case strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout"):
		return &NetworkTimeoutError{Op: "push", URL: url, Err: err}
	default:
		return fmt.Errorf("push to %s failed: %w", url, err)
	}
}

// RedactURL strips the password component from a remote URL so tokens
// embedded for push authentication never reach logs or error messages.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); has {
		u.User = url.User(u.User.Username())
	}
	return u.String()
}
