// Package credentials turns a service-account JSON key into an authorized
// HTTP client for the publishing API.
package credentials

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/specialistvlad/playpublisher/internal/ctxlog"
	"github.com/specialistvlad/playpublisher/internal/release"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/androidpublisher/v3"
)

const (
	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout = 3 * time.Minute
	// ReadTimeout bounds every single read from the connection, including
	// the wait for response headers. It is refreshed on each read and write,
	// so a slow transfer that keeps making progress is never cut off.
	ReadTimeout = 3 * time.Minute
)

// Scope is the OAuth2 scope the credentials are requested for.
const Scope = androidpublisher.AndroidpublisherScope

// NewHTTPClient returns the base client used both for the token exchange and
// for API calls. There is no overall client timeout, so large uploads are
// not cut off while they are still making progress.
func NewHTTPClient() *http.Client {
	return newHTTPClient(ConnectTimeout, ReadTimeout)
}

func newHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				conn, err := dialer.DialContext(ctx, network, addr)
				if err != nil {
					return nil, err
				}
				return &deadlineConn{Conn: conn, timeout: readTimeout}, nil
			},
			TLSHandshakeTimeout:   connectTimeout,
			ResponseHeaderTimeout: readTimeout,
			ExpectContinueTimeout: time.Second,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// deadlineConn pushes the read deadline forward before every read and write.
// A response that stalls for longer than timeout fails, while a request body
// that is still being written keeps the pending read alive.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(b []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(b)
}

func (c *deadlineConn) Write(b []byte) (int, error) {
	if err := c.Conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(b)
}

// Load reads the service-account key at path and returns an HTTP client that
// authorizes every request with a token for Scope. Any failure is a
// CredentialError.
func Load(ctx context.Context, path string) (*http.Client, error) {
	logger := ctxlog.FromContext(ctx)
	logger.DebugContext(ctx, "Reading service account key.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &release.Error{Kind: release.CredentialError, Err: fmt.Errorf("failed to read key file: %w", err)}
	}

	cfg, err := google.JWTConfigFromJSON(data, Scope)
	if err != nil {
		return nil, &release.Error{Kind: release.CredentialError, Err: fmt.Errorf("invalid service account key %s: %w", path, err)}
	}
	logger.DebugContext(ctx, "Service account key parsed.", "client_email", cfg.Email, "scope", Scope)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, NewHTTPClient())
	return cfg.Client(ctx), nil
}
