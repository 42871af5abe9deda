package hubsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func options(method string, body any) (RequestOptions, error) {
	opts := RequestOptions{Method: method}
	if body == nil {
		return opts, nil
	}

	b, err := JSONBody(body)
	if err != nil {
		return opts, err
	}
	opts.Body = b
	return opts, nil
}

// call is the shorthand the endpoint methods use: optional JSON body, typed
// decode of the reply.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	opts, err := options(method, body)
	if err != nil {
		var zero T
		return zero, err
	}
	return Request[T](ctx, c, path, opts)
}

// callNoContent is call for endpoints whose success body is ignored.
func callNoContent(ctx context.Context, c *Client, method, path string, body any) error {
	opts, err := options(method, body)
	if err != nil {
		return err
	}
	_, err = c.Do(ctx, path, opts)
	return err
}

func get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return call[T](ctx, c, http.MethodGet, path, nil)
}

// withQuery appends key=value to path when value is set.
func withQuery(path, key, value string) string {
	if value == "" {
		return path
	}
	return path + "?" + url.Values{key: {value}}.Encode()
}
