package reporter

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

// newHTTPClient creates an HTTP client, routed through a SOCKS5 proxy when
// proxyAddress is set, that adds the given headers to every request.
func newHTTPClient(proxyAddress string, timeout time.Duration, headers map[string]string) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	if proxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	var rt http.RoundTripper = transport
	if len(headers) > 0 {
		rt = &headerInjectingTransport{base: transport, headers: headers}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext. Dialers
// without context support are raced against ctx.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)
		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			// Close a connection that completes after cancellation.
			go func() {
				if result := <-resultCh; result.conn != nil {
					_ = result.conn.Close() //nolint:errcheck // abandoned connection
				}
			}()
			return nil, ctx.Err()
		}
	}
}

// headerInjectingTransport adds fixed headers to every request, including
// redirects.
type headerInjectingTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}
