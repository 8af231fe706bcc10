// Package source resolves a source locator, which is a stage path, an
// HTTP(S) URL, or a local file path, to raw document text.
package source

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"nbconv/internal/snowflake"
)

// AccessError reports a source that could not be fetched.
type AccessError struct {
	Locator string
	Err     error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot access source %q: %v", e.Locator, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// Fetcher resolves source locators. A nil Stage makes stage reads fail with
// an AccessError; a nil Client falls back to http.DefaultClient.
type Fetcher struct {
	Stage  snowflake.StageClient
	Client *http.Client
}

// FetchText returns the raw text behind locator.
func (f *Fetcher) FetchText(locator string) (string, error) {
	switch {
	case snowflake.IsStagePath(locator):
		stage := f.Stage
		if stage == nil {
			stage = snowflake.Unavailable{}
		}
		text, err := stage.ReadFile(strings.TrimSpace(locator))
		if err != nil {
			return "", &AccessError{Locator: locator, Err: err}
		}
		return text, nil
	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return f.fetchURL(locator)
	default:
		data, err := os.ReadFile(locator)
		if err != nil {
			return "", &AccessError{Locator: locator, Err: err}
		}
		return string(data), nil
	}
}

func (f *Fetcher) fetchURL(url string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return "", &AccessError{Locator: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &AccessError{Locator: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AccessError{Locator: url, Err: err}
	}
	return string(data), nil
}
