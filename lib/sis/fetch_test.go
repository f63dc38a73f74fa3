package sis

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"sisquery/lib/telemetry"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var testCreds = Credentials{AppID: "test-id", AppKey: "test-key"}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	cleanup := telemetry.SetupForTesting(t, "test:sis")
	t.Cleanup(cleanup)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientOptions{}), server
}

func envelope(items string) string {
	return fmt.Sprintf(`{"apiResponse":{"response":{"things":[%s]}}}`, items)
}

func TestPaginationTermination(t *testing.T) {
	const pages = 3
	const perPage = 2

	var requests atomic.Int64
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		require.Equal(t, "test-id", r.Header.Get("app_id"))
		require.Equal(t, "test-key", r.Header.Get("app_key"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))

		page := r.URL.Query().Get("page-number")
		switch page {
		case "1", "2", "3":
			fmt.Fprint(w, envelope(fmt.Sprintf(`{"id":"%s-a"},{"id":"%s-b"}`, page, page)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	params := url.Values{}
	params.Set("page-number", "1")

	items, err := client.FetchItems(context.Background(), server.URL, params, testCreds, "things")
	require.NoError(t, err)
	require.Len(t, items, pages*perPage)
	// one request per page plus the terminating 404
	require.EqualValues(t, pages+1, requests.Load())
	require.Equal(t, "1-a", gjson.GetBytes(items[0], "id").String())
	require.Equal(t, "3-b", gjson.GetBytes(items[5], "id").String())
}

func TestPaginationStopsOnEmptyPage(t *testing.T) {
	var requests atomic.Int64
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Query().Get("page-number") == "1" {
			fmt.Fprint(w, envelope(`{"id":"only"}`))
			return
		}
		fmt.Fprint(w, envelope(``))
	})

	params := url.Values{}
	params.Set("page-number", "1")

	items, err := client.FetchItems(context.Background(), server.URL, params, testCreds, "things")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.EqualValues(t, 2, requests.Load())
}

func TestNonPaginatedSingleRequest(t *testing.T) {
	var requests atomic.Int64
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, envelope(`{"id":"a"},{"id":"b"},{"id":"c"}`))
	})

	items, err := client.FetchItems(context.Background(), server.URL, url.Values{}, testCreds, "things")
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.EqualValues(t, 1, requests.Load())
}

func Test404IsEmptyNotError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	params := url.Values{}
	params.Set("page-number", "1")

	items, err := client.FetchItems(context.Background(), server.URL, params, testCreds, "things")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestUnauthorizedIsFatal(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchItems(context.Background(), server.URL, url.Values{}, testCreds, "things")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, server.URL, authErr.Endpoint)
}

func TestNonJSONBodyIsProtocolError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>service unavailable</html>")
	})

	_, err := client.FetchItems(context.Background(), server.URL, url.Values{}, testCreds, "things")
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	require.Contains(t, protoErr.Body, "<html>")
}

func TestServerErrorIsTransportError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchItems(context.Background(), server.URL, url.Values{}, testCreds, "things")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusInternalServerError, transportErr.Status)
}

func TestEnvelopeIsOptional(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"things":[{"id":"bare"}]}}`)
	})

	items, err := client.FetchItems(context.Background(), server.URL, url.Values{}, testCreds, "things")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestMissingResponseIsEmpty(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"unrelated":true}`)
	})

	items, err := client.FetchItems(context.Background(), server.URL, url.Values{}, testCreds, "things")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestMissingItemPathIsEmpty(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"apiResponse":{"response":{"somethingElse":[]}}}`)
	})

	items, err := client.FetchItems(context.Background(), server.URL, url.Values{}, testCreds, "things")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCallerParamsNotMutated(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	params := url.Values{}
	params.Set("page-number", "7")
	params.Set("page-size", "100")

	_, err := client.FetchItems(context.Background(), server.URL, params, testCreds, "things")
	require.NoError(t, err)
	require.Equal(t, "7", params.Get("page-number"))
	require.Equal(t, "100", params.Get("page-size"))
}
