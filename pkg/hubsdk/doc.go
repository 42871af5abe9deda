/*
Package hubsdk is the client for the campus mini-app API.

# Overview

Every call to the API goes through one chokepoint, Client.Do. It decides the
headers, attaches the launch credential, sends the pre-serialised body and
turns the response into either decoded JSON or an *Error. The typed endpoint
methods (Me, ListNews, BuyShopItem, ...) are thin wrappers around it.

	client := hubsdk.New("https://campus.example.com",
		hubsdk.WithCredentials(initdata.Env("CAMPUS_INIT_DATA")),
	)

	news, err := client.ListNews(ctx, "events")

Arbitrary endpoints can be reached with the generic Request helper:

	type leaderboardRow struct {
		UserID int64 `json:"user_id"`
		Coins  int   `json:"coins"`
	}
	rows, err := hubsdk.Request[[]leaderboardRow](ctx, client, "/api/leaderboard", hubsdk.RequestOptions{})

# Credentials

The launch payload handed to the mini-app by the messenger is read from the
client's initdata.Retriever on every call and sent as

	Authorization: tma <payload>

When the retriever has nothing the header is omitted and the call is still
made. Public endpoints such as news work either way; protected ones answer 401.

# Errors

Failures are always *Error values:

	_, err := client.BuyShopItem(ctx, 7)
	if e, ok := hubsdk.AsError(err); ok {
		switch e.Kind {
		case hubsdk.KindStatus:
			// e.StatusCode and e.Message ("insufficient coins" or "HTTP 502")
		case hubsdk.KindTransport:
			// network failure or cancelled context, errors.Is works on e.Err
		case hubsdk.KindDecode:
			// 2xx with a body that is not the expected JSON
		}
	}

The message of a status error is the server's "error" field. When the body
has no such field, or is not JSON at all, the message is "HTTP <status>".

# What the client does not do

No retries, no backoff and no timeouts of its own. Bound calls with the
context or an http.Client timeout (WithHTTPClient). WithRateLimiter only
spaces calls out.

# Observability

Each call gets an X-Request-ID (a ULID), a debug log line, an OpenTelemetry
client span and, with WithMetrics, Prometheus counters and a latency
histogram.
*/
package hubsdk
