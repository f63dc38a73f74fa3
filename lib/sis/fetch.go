package sis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sis")

const pageNumberParam = "page-number"

// FetchItems walks a SIS resource and returns the collection found at
// `itemPath` inside the (optionally enveloped) response body.
//
// If `params` carries a page-number key, pages are fetched with strictly
// increasing page numbers and concatenated until the API signals
// exhaustion with a 404 or an empty page. Without a page-number key the
// first response is final. The caller's params are never mutated.
func (c *Client) FetchItems(
	ctx context.Context,
	endpoint string,
	params url.Values,
	creds Credentials,
	itemPath string,
) ([]json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("fetch:%s", itemPath))
	defer span.End()
	span.SetAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("item_path", itemPath),
	)

	paged := params.Has(pageNumberParam)
	page := 0
	if paged {
		var err error
		page, err = strconv.Atoi(params.Get(pageNumberParam))
		if err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf(
				"page-number %q is not an integer", params.Get(pageNumberParam),
			)}
		}
	}

	var items []json.RawMessage
	for {
		query := url.Values{}
		for key, values := range params {
			query[key] = append([]string(nil), values...)
		}
		if paged {
			query.Set(pageNumberParam, strconv.Itoa(page))
		}

		pageItems, exhausted, err := c.fetchPage(ctx, endpoint, query, creds, itemPath)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		items = append(items, pageItems...)

		if exhausted || !paged {
			break
		}
		page++
	}

	slog.DebugContext(ctx, "fetched items", "item_path", itemPath, "count", len(items))
	return items, nil
}

// fetchPage issues a single GET. `exhausted` is true when the response
// carried no further items (404, absent envelope, absent or empty
// collection at the item path).
func (c *Client) fetchPage(
	ctx context.Context,
	endpoint string,
	query url.Values,
	creds Credentials,
	itemPath string,
) (items []json.RawMessage, exhausted bool, err error) {
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("app_id", creds.AppID).
		SetHeader("app_key", creds.AppKey).
		SetQueryParamsFromValues(query).
		Get(endpoint)
	if err != nil {
		return nil, false, &TransportError{Endpoint: endpoint, Err: err}
	}

	switch status := res.StatusCode(); {
	case status == http.StatusNotFound:
		// normal end-of-pagination signal
		return nil, true, nil
	case status == http.StatusUnauthorized:
		return nil, false, &AuthError{Endpoint: endpoint, Params: query}
	case status < 200 || status >= 300:
		return nil, false, &TransportError{Endpoint: endpoint, Status: status}
	}

	body := res.Body()
	if !gjson.ValidBytes(body) {
		slog.ErrorContext(
			ctx, "sis returned a non-json body",
			"endpoint", endpoint,
			"status", res.StatusCode(),
			"body", string(body),
		)
		return nil, false, &ProtocolError{
			Endpoint: endpoint,
			Status:   res.StatusCode(),
			Body:     string(body),
		}
	}

	response, ok := unwrapResponse(gjson.ParseBytes(body))
	if !ok {
		// some endpoints legitimately drop the envelope on empty results
		return nil, true, nil
	}

	collection := response.Get(itemPath)
	if !collection.IsArray() {
		return nil, true, nil
	}
	elements := collection.Array()
	if len(elements) == 0 {
		return nil, true, nil
	}

	items = make([]json.RawMessage, 0, len(elements))
	for _, element := range elements {
		items = append(items, json.RawMessage(element.Raw))
	}
	return items, false, nil
}

// unwrapResponse peels the optional apiResponse envelope and locates the
// response object inside it, or at the top level when the envelope is
// absent. A body with neither is an empty result.
func unwrapResponse(root gjson.Result) (gjson.Result, bool) {
	envelope := root
	if wrapped := root.Get("apiResponse"); wrapped.Exists() {
		envelope = wrapped
	}
	response := envelope.Get("response")
	if !response.Exists() {
		return gjson.Result{}, false
	}
	return response, true
}
