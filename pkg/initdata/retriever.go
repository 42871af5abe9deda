package initdata

import (
	"context"
	"os"
	"strings"
)

// Retriever yields the raw init-data payload for the current launch. A
// Retriever never fails: anything that goes wrong while reading the payload
// is reported as absent (ok == false). Implementations do not cache unless
// documented otherwise, so each call observes the host's current value.
type Retriever interface {
	Retrieve(ctx context.Context) (payload string, ok bool)
}

// RetrieverFunc adapts a plain function to a Retriever.
type RetrieverFunc func(ctx context.Context) (string, bool)

func (f RetrieverFunc) Retrieve(ctx context.Context) (string, bool) { return f(ctx) }

// None never has a payload. It is what a client launched outside the
// messenger sees.
var None Retriever = RetrieverFunc(func(context.Context) (string, bool) { return "", false })

// Static always returns raw. An empty raw means absent.
func Static(raw string) Retriever {
	raw = strings.TrimSpace(raw)
	return RetrieverFunc(func(context.Context) (string, bool) {
		return raw, raw != ""
	})
}

// Env reads the named environment variable on every call.
func Env(name string) Retriever {
	return RetrieverFunc(func(context.Context) (string, bool) {
		v := strings.TrimSpace(os.Getenv(name))
		return v, v != ""
	})
}

// File reads the payload from path on every call. A missing, unreadable or
// empty file is absent.
func File(path string) Retriever {
	return RetrieverFunc(func(context.Context) (string, bool) {
		return readPayload(path)
	})
}

// Func wraps a host accessor that may fail or panic. Both are swallowed and
// reported as absent.
func Func(f func() (string, error)) Retriever {
	return RetrieverFunc(func(context.Context) (payload string, ok bool) {
		defer func() {
			if recover() != nil {
				payload, ok = "", false
			}
		}()

		v, err := f()
		if err != nil {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	})
}

// Chain returns the first payload any of rs yields, consulting them in order.
func Chain(rs ...Retriever) Retriever {
	return RetrieverFunc(func(ctx context.Context) (string, bool) {
		for _, r := range rs {
			if r == nil {
				continue
			}
			if v, ok := r.Retrieve(ctx); ok {
				return v, true
			}
		}
		return "", false
	})
}

func readPayload(path string) (string, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(b))
	return v, v != ""
}
