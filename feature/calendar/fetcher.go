package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Error kinds surfaced by the fetcher. The orchestrator records them on the
// configuration; the fetcher itself never retries.
var (
	// ErrFetchTimeout indicates the feed did not respond within the bound.
	ErrFetchTimeout = errors.New("calendar feed fetch timed out")
	// ErrFetchHTTP indicates the feed returned a non-success status.
	ErrFetchHTTP = errors.New("calendar feed returned non-success status")
	// ErrFormat indicates the response body is not an iCalendar document.
	ErrFormat = errors.New("response is not an iCalendar document")
)

const defaultFetchTimeout = 30 * time.Second

// Fetcher downloads raw iCal feed bodies over HTTP(S).
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a feed fetcher with the given timeout and client
// signature. Zero values fall back to sane defaults.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	if userAgent == "" {
		userAgent = "cleansync/1.0 (+calendar-sync)"
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch retrieves the raw calendar text from url.
// It validates only that the body carries the VCALENDAR marker; parsing is
// the caller's concern.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrFetchTimeout, err)
		}
		return "", fmt.Errorf("fetching calendar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %d", ErrFetchHTTP, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrFetchTimeout, err)
		}
		return "", fmt.Errorf("reading calendar feed: %w", err)
	}

	text := string(body)
	if !strings.Contains(text, "BEGIN:VCALENDAR") {
		return "", ErrFormat
	}

	return text, nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// RedactURL hides the path and query of a feed URL for logging. Rental
// platforms embed per-property secrets in the path.
func RedactURL(u string) string {
	i := strings.Index(u, "://")
	if i == -1 {
		return "feed://...(redacted)"
	}

	j := i + 3
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + "/...(redacted)"
}
