package support

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MeKo-Tech/barcodegen/internal/server"
	"github.com/cucumber/godog"
	"github.com/disintegration/imaging"
)

const requestTimeout = 30 * time.Second

func (testCtx *TestContext) theBarcodeServerIsRunning() error {
	return testCtx.startTestHTTPServer(server.RateLimitConfig{})
}

func (testCtx *TestContext) theBarcodeServerIsRunningWithALimitOf(perMinute int) error {
	return testCtx.startTestHTTPServer(server.RateLimitConfig{Enabled: true, RequestsPerMinute: perMinute})
}

func (testCtx *TestContext) doRequest(method, path string, body io.Reader, contentType string) error {
	if testCtx.HTTPTestServer == nil {
		return errors.New("server is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, testCtx.HTTPTestServer.URL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	testCtx.LastHTTPStatusCode = resp.StatusCode
	testCtx.LastHTTPResponse = data
	testCtx.LastHTTPHeaders = make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		testCtx.LastHTTPHeaders[k] = resp.Header.Get(k)
	}
	return nil
}

func (testCtx *TestContext) iSendARequestTo(method, path string) error {
	return testCtx.doRequest(method, path, nil, "")
}

func (testCtx *TestContext) iPostJSONTo(path string, body *godog.DocString) error {
	return testCtx.doRequest(http.MethodPost, path, strings.NewReader(body.Content), "application/json")
}

func (testCtx *TestContext) iSendRequestsTo(n int, path string) error {
	for range n {
		if err := testCtx.doRequest(http.MethodGet, path, nil, ""); err != nil {
			return err
		}
	}
	return nil
}

func (testCtx *TestContext) theResponseStatusShouldBe(code int) error {
	if testCtx.LastHTTPStatusCode != code {
		return fmt.Errorf("status is %d, want %d\nBody: %s", testCtx.LastHTTPStatusCode, code, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseHeaderShouldBe(name, value string) error {
	if got := testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)]; got != value {
		return fmt.Errorf("header %s is %q, want %q", name, got, value)
	}
	return nil
}

func (testCtx *TestContext) theResponseHeaderShouldBeSet(name string) error {
	if testCtx.LastHTTPHeaders[http.CanonicalHeaderKey(name)] == "" {
		return fmt.Errorf("header %s is not set", name)
	}
	return nil
}

func (testCtx *TestContext) theResponseShouldContain(text string) error {
	if !bytes.Contains(testCtx.LastHTTPResponse, []byte(text)) {
		return fmt.Errorf("response does not contain %q\nBody: %s", text, testCtx.LastHTTPResponse)
	}
	return nil
}

func (testCtx *TestContext) theResponseImageShouldBe(width, height int) error {
	img, err := imaging.Decode(bytes.NewReader(testCtx.LastHTTPResponse))
	if err != nil {
		return fmt.Errorf("response is not an image: %w", err)
	}
	return checkSize(img, width, height)
}

// theResponseDataShouldBe decodes the base64 payload of a JSON response.
func (testCtx *TestContext) theResponseDataShouldBe(width, height int) error {
	var resp server.BarcodeResponse
	if err := json.Unmarshal(testCtx.LastHTTPResponse, &resp); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("response reports failure: %s", resp.Error)
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data)
	if err != nil {
		return fmt.Errorf("data is not base64: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("data is not an image: %w", err)
	}
	return checkSize(img, width, height)
}

// RegisterServerSteps registers HTTP server steps.
func (testCtx *TestContext) RegisterServerSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the barcode server is running$`, testCtx.theBarcodeServerIsRunning)
	sc.Step(`^the barcode server is running with a limit of (\d+) requests per minute$`,
		testCtx.theBarcodeServerIsRunningWithALimitOf)

	sc.Step(`^I send a (GET|POST|PUT|DELETE|OPTIONS) request to "([^"]*)"$`, testCtx.iSendARequestTo)
	sc.Step(`^I POST JSON to "([^"]*)":$`, testCtx.iPostJSONTo)
	sc.Step(`^I send (\d+) requests to "([^"]*)"$`, testCtx.iSendRequestsTo)

	sc.Step(`^the response status should be (\d+)$`, testCtx.theResponseStatusShouldBe)
	sc.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, testCtx.theResponseHeaderShouldBe)
	sc.Step(`^the response header "([^"]*)" should be set$`, testCtx.theResponseHeaderShouldBeSet)
	sc.Step(`^the response should contain "([^"]*)"$`, testCtx.theResponseShouldContain)
	sc.Step(`^the response image should be (\d+)x(\d+)$`, testCtx.theResponseImageShouldBe)
	sc.Step(`^the response data should be an image of (\d+)x(\d+)$`, testCtx.theResponseDataShouldBe)
}
