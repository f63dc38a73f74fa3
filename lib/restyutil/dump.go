// Package restyutil contains debugging helpers for resty clients.
package restyutil

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// DumpToDirectory writes every request/response exchange the client
// performs to a numbered file under dir. Existing contents of dir are
// discarded. Credentials travel in headers, so dump directories should
// be treated as sensitive.
func DumpToDirectory(client *resty.Client, dir string) error {
	err := os.RemoveAll(dir)
	if err != nil {
		return err
	}
	err = os.MkdirAll(dir, 0700)
	if err != nil {
		return err
	}

	var counter atomic.Uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := strconv.FormatUint(counter.Add(1), 10)
		path := filepath.Join(dir, id+".txt")
		err := os.WriteFile(path, []byte(formatExchange(res)), 0600)
		if err != nil {
			slog.Warn("failed to write http dump", "path", path, "err", err)
		}
		return nil
	})
	return nil
}

func writeHeaders(out *strings.Builder, headers http.Header) {
	for key, values := range headers {
		for _, value := range values {
			fmt.Fprintf(out, "%s: %s\n", key, value)
		}
	}
}

func formatExchange(res *resty.Response) string {
	var out strings.Builder

	fmt.Fprintf(&out, "---- REQUEST ----\n\n%s %s\n\n", res.Request.Method, res.Request.URL)
	if res.Request.RawRequest != nil {
		writeHeaders(&out, res.Request.RawRequest.Header)
	}

	fmt.Fprintf(&out, "\n---- RESPONSE ----\n\n%d %s\n\n", res.StatusCode(), res.Status())
	writeHeaders(&out, res.Header())
	out.WriteString("\n")
	out.WriteString(res.String())

	return out.String()
}
