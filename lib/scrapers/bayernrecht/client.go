package bayernrecht

import (
	"bayrecht-backend/lib/telemetry"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/bayernrecht")

const requestTimeout = time.Second * 15

type ClientOptions struct {
	BaseUrl string
	// attempts per url before giving up, defaults to 3
	MaxRetries int
	// fixed wait between attempts, defaults to 2s. the upstream is a
	// single slow server, exponential backoff buys nothing here.
	RetryWait time.Duration
}

type Client struct {
	BaseUrl string
	Http    *resty.Client

	maxRetries int
	retryWait  time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryWait <= 0 {
		opts.RetryWait = time.Second * 2
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetTimeout(requestTimeout)
	client.SetHeader("user-agent", "bayrecht-backend/1.0 (+legal text mirror)")

	telemetry.InstrumentResty(client, "scrapers/bayernrecht/http")

	return &Client{
		BaseUrl:    opts.BaseUrl,
		Http:       client,
		maxRetries: opts.MaxRetries,
		retryWait:  opts.RetryWait,
	}
}

type FetchStatus int

const (
	// 200, body is valid
	FetchOk FetchStatus = iota
	// definitive 404, the signal for numbering gaps and range ends
	FetchNotFound
	// transient failures exhausted every retry
	FetchGivenUp
)

type FetchResult struct {
	Status FetchStatus
	Body   []byte
}

// Fetch retrieves one page with bounded retries. Timeouts, connection
// errors and unexpected statuses are retried after a fixed wait, a 404
// returns immediately. A non-nil error means the url is fatally broken
// (or the context was cancelled) and retrying would be pointless.
func (c *Client) Fetch(ctx context.Context, url string) (FetchResult, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	tries := 0
	for tries < c.maxRetries {
		res, err := c.Http.R().
			SetContext(ctx).
			Get(url)
		if err != nil {
			if ctx.Err() != nil {
				return FetchResult{}, ctx.Err()
			}
			if !isTransient(err) {
				span.RecordError(err)
				span.SetStatus(codes.Error, "request failed")
				return FetchResult{}, err
			}
			tries++
			slog.Warn(
				"transient error, will retry",
				"url", url,
				"err", err,
				"attempt", tries,
				"max", c.maxRetries,
			)
			if err := waitRetry(ctx, c.retryWait); err != nil {
				return FetchResult{}, err
			}
			continue
		}

		switch res.StatusCode() {
		case http.StatusOK:
			return FetchResult{Status: FetchOk, Body: res.Body()}, nil
		case http.StatusNotFound:
			slog.Debug("not found", "url", url)
			return FetchResult{Status: FetchNotFound}, nil
		default:
			tries++
			slog.Warn(
				"unexpected status, will retry",
				"url", url,
				"status", res.StatusCode(),
				"attempt", tries,
				"max", c.maxRetries,
			)
			if err := waitRetry(ctx, c.retryWait); err != nil {
				return FetchResult{}, err
			}
		}
	}

	slog.Error("max retries reached", "url", url)
	span.SetStatus(codes.Error, "max retries reached")
	return FetchResult{Status: FetchGivenUp}, nil
}

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func waitRetry(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
