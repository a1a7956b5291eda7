package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"salesdashboard/internal/domain"
)

const (
	defaultTotalKey    = "total_count"
	defaultCountersKey = "counters"
	errorKey           = "error"
	maxErrorBody       = 512
)

type listHTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns a ListFetcher that POSTs multipart forms to the
// widget endpoints.
func NewHTTPFetcher(client *http.Client) domain.ListFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &listHTTPFetcher{client: client}
}

func (f *listHTTPFetcher) FetchPage(ctx context.Context, widget domain.WidgetConfig, q domain.QueryState) (domain.ResultPage, error) {
	body, contentType, err := EncodeQuery(widget, q)
	if err != nil {
		return domain.ResultPage{}, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, widget.Endpoint, body)
	if err != nil {
		return domain.ResultPage{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.ResultPage{}, fmt.Errorf("%w: %s: %v", domain.ErrTransport, widget.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.ResultPage{}, fmt.Errorf("%w: %s returned status %d: %s", domain.ErrUpstreamStatus, widget.Name, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ResultPage{}, fmt.Errorf("%w: %s: read body: %v", domain.ErrTransport, widget.Name, err)
	}
	return DecodeResultPage(widget, raw)
}

// EncodeQuery builds the multipart body for q using the widget's field names.
// The status field is only sent by widgets that have a status filter.
func EncodeQuery(widget domain.WidgetConfig, q domain.QueryState) (io.Reader, string, error) {
	fields := widget.Fields
	if fields == (domain.FieldMapping{}) {
		fields = domain.DefaultFieldMapping()
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	values := [][2]string{
		{fields.DateRange, q.DateRange.String()},
		{fields.StoreID, q.StoreID},
		{fields.Page, strconv.Itoa(q.Page)},
		{fields.PerPage, strconv.Itoa(q.PageSize)},
		{fields.SearchTerm, q.SearchTerm},
	}
	if widget.HasStatusFilter() {
		values = append(values, [2]string{fields.StatusFilter, q.StatusFilter})
	}
	for _, kv := range values {
		if kv[0] == "" {
			continue
		}
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// DecodeResultPage maps a widget response body onto a ResultPage. A top-level
// error key is a failure even though the transport succeeded.
func DecodeResultPage(widget domain.WidgetConfig, raw []byte) (domain.ResultPage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.ResultPage{}, fmt.Errorf("%w: %s: %v", domain.ErrDecode, widget.Name, err)
	}
	if msg, ok := envelope[errorKey]; ok && !isJSONFalsy(msg) {
		return domain.ResultPage{}, fmt.Errorf("%w: %s: %s", domain.ErrUpstreamApplication, widget.Name, bytes.TrimSpace(msg))
	}

	page := domain.ResultPage{Items: []domain.Record{}}
	if itemsRaw, ok := envelope[widget.ItemsKey]; ok && !isJSONNull(itemsRaw) {
		if err := json.Unmarshal(itemsRaw, &page.Items); err != nil {
			return domain.ResultPage{}, fmt.Errorf("%w: %s: items: %v", domain.ErrDecode, widget.Name, err)
		}
	}

	totalKey := widget.TotalKey
	if totalKey == "" {
		totalKey = defaultTotalKey
	}
	if totalRaw, ok := envelope[totalKey]; ok && !isJSONNull(totalRaw) {
		total, err := decodeCount(totalRaw)
		if err != nil {
			return domain.ResultPage{}, fmt.Errorf("%w: %s: %s: %v", domain.ErrDecode, widget.Name, totalKey, err)
		}
		page.TotalCount = total
	} else {
		page.TotalCount = len(page.Items)
	}

	countersKey := widget.CountersKey
	if countersKey == "" {
		countersKey = defaultCountersKey
	}
	if countersRaw, ok := envelope[countersKey]; ok && !isJSONNull(countersRaw) {
		var loose map[string]json.RawMessage
		if err := json.Unmarshal(countersRaw, &loose); err != nil {
			return domain.ResultPage{}, fmt.Errorf("%w: %s: %s: %v", domain.ErrDecode, widget.Name, countersKey, err)
		}
		page.Counters = make(domain.Counters, len(loose))
		for k, v := range loose {
			n, err := decodeCount(v)
			if err != nil {
				return domain.ResultPage{}, fmt.Errorf("%w: %s: counter %q: %v", domain.ErrDecode, widget.Name, k, err)
			}
			page.Counters[k] = n
		}
	}
	return page, nil
}

// decodeCount accepts a non-negative integer sent as a JSON number or a
// numeric string; PHP endpoints send both. Integral floats such as 12.0 are
// accepted.
func decodeCount(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return parseCount(n.String())
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("not a count: %s", raw)
	}
	return parseCount(strings.TrimSpace(s))
}

func parseCount(s string) (int, error) {
	if i, err := strconv.ParseInt(s, 10, 0); err == nil {
		if i < 0 {
			return 0, fmt.Errorf("negative count %d", i)
		}
		return int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a count: %q", s)
	}
	switch {
	case f < 0:
		return 0, fmt.Errorf("negative count %s", s)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("fractional count %s", s)
	case f >= math.MaxInt:
		return 0, fmt.Errorf("count %s out of range", s)
	}
	return int(f), nil
}

// isJSONFalsy reports null, false, "" and 0.
func isJSONFalsy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "null", "false", `""`, "0":
		return true
	}
	return false
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}
