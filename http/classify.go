package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"
)

// Classified probe failures, as error and status text.
const (
	errTimeout          = "Timeout"
	statusTimeout       = "Request Timeout"
	errConnection       = "Connection Error: "
	statusConnection    = "Connection Failed"
	errRedirects        = "Too Many Redirects"
	statusRedirects     = "Redirect Loop"
	errTLS              = "SSL Error: "
	statusTLS           = "SSL Failed"
	errRequest          = "Request Error: "
	statusRequestFailed = "Request Failed"
)

// classifyError maps a request error to the recorded error message and
// status text.
func classifyError(err error) (message, statusText string) {
	switch {
	case errors.Is(err, ErrTooManyRedirects):
		return errRedirects, statusRedirects
	case isTimeout(err):
		return errTimeout, statusTimeout
	case isTLSError(err):
		return errTLS + cause(err), statusTLS
	case isConnectionError(err):
		return errConnection + cause(err), statusConnection
	default:
		return errRequest + cause(err), statusRequestFailed
	}
}

// isTransient reports whether a request error may succeed on retry.
func isTransient(err error) bool {
	if errors.Is(err, ErrTooManyRedirects) || errors.Is(err, context.Canceled) || isTLSError(err) {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return false
	}
	return isTimeout(err) || isConnectionError(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isTLSError(err error) bool {
	var (
		verifyErr  *tls.CertificateVerificationError
		recordErr  tls.RecordHeaderError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		alertErr   tls.AlertError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &authErr) ||
		errors.As(err, &hostErr) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &alertErr)
}

func isConnectionError(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// cause returns the innermost message of a *url.Error, which otherwise
// repeats the method and URL already present on the result.
func cause(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
