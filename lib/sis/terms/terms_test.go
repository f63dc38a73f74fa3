package terms

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"sisquery/lib/sis"

	"github.com/stretchr/testify/require"
)

var testCreds = sis.Credentials{AppID: "id", AppKey: "key"}

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *atomic.Int64) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	core := sis.NewClient(sis.ClientOptions{
		Endpoints: sis.Endpoints{Terms: server.URL},
	})
	return NewClient(core, testCreds), &requests
}

func TestGetTermID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Current", r.URL.Query().Get("temporal-position"))
		fmt.Fprint(w, `{"apiResponse":{"response":{"terms":[{"id":"2192","name":"2019 Spring"}]}}}`)
	})

	termID, err := client.GetTermID(context.Background(), Current)
	require.NoError(t, err)
	require.Equal(t, "2192", termID)
}

func TestGetTermIDBetweenSemesters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	termID, err := client.GetTermID(context.Background(), Current)
	require.NoError(t, err)
	require.Empty(t, termID)
}

func TestYearSemesterAnchors(t *testing.T) {
	testCases := []struct {
		year     string
		semester string
		asOf     string
	}{
		{"2019", "spring", "2019-02-01"},
		{"2019", "summer", "2019-07-01"},
		{"2019", "fall", "2019-10-01"},
	}

	for _, test := range testCases {
		t.Run(test.semester, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, test.asOf, r.URL.Query().Get("as-of-date"))
				fmt.Fprint(w, `{"apiResponse":{"response":{"terms":[{"id":"2198"}]}}}`)
			})

			termID, err := client.GetTermIDForYearSemester(context.Background(), test.year, test.semester)
			require.NoError(t, err)
			require.Equal(t, "2198", termID)
		})
	}
}

func TestUnknownSemesterFailsBeforeRequest(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued")
	})

	_, err := client.GetTermIDForYearSemester(context.Background(), "2019", "winter")
	var configErr *sis.ConfigError
	require.ErrorAs(t, err, &configErr)
	require.EqualValues(t, 0, requests.Load())
}

func TestGetTermName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2192", r.URL.Path)
		fmt.Fprint(w, `{"apiResponse":{"response":{"terms":[{"id":"2192","name":"2019 Spring"}]}}}`)
	})

	name, err := client.GetTermName(context.Background(), "2192")
	require.NoError(t, err)
	require.Equal(t, "2019 Spring", name)
}

func TestNormalize(t *testing.T) {
	client, requests := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"apiResponse":{"response":{"terms":[{"id":"2195"}]}}}`)
	})

	// numeric ids pass through without a request
	termID, err := client.Normalize(context.Background(), "2192")
	require.NoError(t, err)
	require.Equal(t, "2192", termID)
	require.EqualValues(t, 0, requests.Load())

	termID, err = client.Normalize(context.Background(), "Next")
	require.NoError(t, err)
	require.Equal(t, "2195", termID)
	require.EqualValues(t, 1, requests.Load())
}
