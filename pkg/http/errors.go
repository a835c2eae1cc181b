package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
)

var (
	ErrTimeout         = errors.New("operation timed out")
	ErrNetworkProblem  = errors.New("network-related error")
	ErrRequestCreation = errors.New("failed to create request")

	ErrServerProblem   = errors.New("server error (5xx)")
	ErrTooManyRequests = errors.New("too many requests (429)")
	ErrEndpointMissing = errors.New("endpoint not found (404)")
	ErrAccessDenied    = errors.New("access denied (403)")
	ErrAuthentication  = errors.New("authentication required (401)")
	ErrPayloadTooLarge = errors.New("payload too large (413)")
	ErrServerRejection = errors.New("request rejected by server (4xx)")

	ErrUnknown       = errors.New("unknown error")
	ErrUnexpectedEOF = errors.New("unexpected EOF")
)

// ClassifyHTTPError converts an HTTP status code into an appropriate error.
func ClassifyHTTPError(statusCode int) error {
	switch statusCode {
	case http.StatusNotFound:
		return ErrEndpointMissing
	case http.StatusForbidden:
		return ErrAccessDenied
	case http.StatusUnauthorized:
		return ErrAuthentication
	case http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case http.StatusTooManyRequests:
		return ErrTooManyRequests
	default:
		switch {
		case statusCode >= http.StatusInternalServerError:
			return ErrServerProblem
		case statusCode >= http.StatusBadRequest:
			return ErrServerRejection
		default:
			return nil
		}
	}
}

// ClassifyError categorizes a general error into a sentinel error.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEOF
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrNetworkProblem
	}

	return ErrUnknown
}

// IsRejection reports whether the server refused the payload outright, as
// opposed to the transfer breaking mid-flight.
func IsRejection(err error) bool {
	return errors.Is(err, ErrServerRejection) ||
		errors.Is(err, ErrEndpointMissing) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrAuthentication) ||
		errors.Is(err, ErrPayloadTooLarge)
}
