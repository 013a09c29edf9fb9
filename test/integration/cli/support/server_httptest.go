package support

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/MeKo-Tech/barcodegen/internal/server"
)

// HTTPTestServerWrapper wraps an in-process barcode server.
type HTTPTestServerWrapper struct {
	Server *httptest.Server
	URL    string
}

// startTestHTTPServer starts the barcode HTTP handlers on a random port.
func (testCtx *TestContext) startTestHTTPServer(rateLimit server.RateLimitConfig) error {
	if testCtx.HTTPTestServer != nil {
		testCtx.stopTestHTTPServer()
	}

	srv, err := server.NewServer(server.Config{
		MaxDimension: 2000,
		Defaults: server.RenderDefaults{
			Font:      "Courier New",
			Width:     200,
			Height:    100,
			Symbology: "code128",
			Format:    "png",
			Spacing:   true,
		},
		RateLimit: rateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)
	ts := httptest.NewServer(mux)

	testCtx.HTTPTestServer = &HTTPTestServerWrapper{Server: ts, URL: ts.URL}
	return nil
}

func (testCtx *TestContext) stopTestHTTPServer() {
	if testCtx.HTTPTestServer != nil {
		testCtx.HTTPTestServer.Server.Close()
		testCtx.HTTPTestServer = nil
	}
}
