package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"onboard/internal/debug"
	"onboard/internal/domain"
	appErrors "onboard/internal/errors"
)

const (
	// DefaultBasicInfoURL is where the first service listens by default.
	DefaultBasicInfoURL = "http://localhost:4001"
	// DefaultDetailsURL is where the second service listens by default.
	DefaultDetailsURL = "http://localhost:4002"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	totalCountHeader = "X-Total-Count"
)

var logger = debug.Scope("api")

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	basicInfoURL string
	detailsURL   string
	http         *http.Client
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithBasicInfoURL sets the first service's base URL.
func WithBasicInfoURL(u string) Option {
	return func(c *HTTPClient) {
		if u = strings.TrimSpace(u); u != "" {
			c.basicInfoURL = strings.TrimRight(u, "/")
		}
	}
}

// WithDetailsURL sets the second service's base URL.
func WithDetailsURL(u string) Option {
	return func(c *HTTPClient) {
		if u = strings.TrimSpace(u); u != "" {
			c.detailsURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout bounds every request. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client for both services.
func New(opts ...Option) *HTTPClient {
	c := &HTTPClient{
		basicInfoURL: DefaultBasicInfoURL,
		detailsURL:   DefaultDetailsURL,
		http:         &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request sends body (if any) as JSON and decodes the response into out
// (if non-nil). It returns the response headers for paging metadata.
func (c *HTTPClient) request(ctx context.Context, method, base, endpoint string, body, out any) (http.Header, error) {
	target := base + endpoint
	var reader io.Reader
	if body != nil && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.CodeParseFailed, "encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.CodeAPIFailed, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Log("request failed", "method", method, "url", target, "elapsed", time.Since(start), "error", err)
		return nil, appErrors.Wrap(appErrors.CodeAPIFailed, method+" "+endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	logger.Log("request", "method", method, "url", target, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, appErrors.New(appErrors.FromStatus(resp.StatusCode), "API error: "+statusLine(resp), &StatusError{StatusCode: resp.StatusCode})
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.Header, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.Header, appErrors.Wrap(appErrors.CodeParseFailed, "decode "+endpoint, err)
	}
	return resp.Header, nil
}

// StatusError is the cause attached to non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.StatusCode)
}

func statusLine(resp *http.Response) string {
	text := http.StatusText(resp.StatusCode)
	if parts := strings.SplitN(resp.Status, " ", 2); len(parts) == 2 && parts[1] != "" {
		text = parts[1]
	}
	return strings.TrimSpace(fmt.Sprintf("%d %s", resp.StatusCode, text))
}

func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}

func itemPath(collection string, id int) string {
	return "/" + collection + "/" + strconv.Itoa(id)
}

// Departments lists every department.
func (c *HTTPClient) Departments(ctx context.Context) ([]domain.Department, error) {
	var out []domain.Department
	_, err := c.request(ctx, http.MethodGet, c.basicInfoURL, "/departments", nil, &out)
	return out, err
}

// DepartmentsByName lists departments whose name contains name.
func (c *HTTPClient) DepartmentsByName(ctx context.Context, name string) ([]domain.Department, error) {
	var out []domain.Department
	_, err := c.request(ctx, http.MethodGet, c.basicInfoURL, withQuery("/departments", url.Values{"name_like": {name}}), nil, &out)
	return out, err
}

// BasicInfo lists every employee with DepartmentName filled in. Both
// collections are fetched concurrently.
func (c *HTTPClient) BasicInfo(ctx context.Context) ([]domain.BasicInfo, error) {
	var (
		infos       []domain.BasicInfo
		departments []domain.Department
	)
	err := fanOut(ctx,
		func(ctx context.Context) (err error) {
			_, err = c.request(ctx, http.MethodGet, c.basicInfoURL, "/basicInfo", nil, &infos)
			return err
		},
		func(ctx context.Context) (err error) {
			departments, err = c.Departments(ctx)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}
	for i := range infos {
		infos[i].DepartmentName = names[infos[i].DepartmentID]
	}
	return infos, nil
}

// BasicInfoPage returns one page of employees and the total count.
func (c *HTTPClient) BasicInfoPage(ctx context.Context, page, limit int) ([]domain.BasicInfo, int, error) {
	q := url.Values{
		"_page":  {strconv.Itoa(page)},
		"_limit": {strconv.Itoa(limit)},
	}
	var out []domain.BasicInfo
	header, err := c.request(ctx, http.MethodGet, c.basicInfoURL, withQuery("/basicInfo", q), nil, &out)
	if err != nil {
		return nil, 0, err
	}
	total := len(out)
	if raw := header.Get(totalCountHeader); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, 0, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("invalid %s %q", totalCountHeader, raw), err)
		}
		total = n
	}
	return out, total, nil
}

// BasicInfoByID loads one employee.
func (c *HTTPClient) BasicInfoByID(ctx context.Context, id int) (domain.BasicInfo, error) {
	var out domain.BasicInfo
	_, err := c.request(ctx, http.MethodGet, c.basicInfoURL, itemPath("basicInfo", id), nil, &out)
	return out, err
}

// CreateBasicInfo posts a new employee and returns it with its ID.
func (c *HTTPClient) CreateBasicInfo(ctx context.Context, info domain.BasicInfo) (domain.BasicInfo, error) {
	info.ID = 0
	var out domain.BasicInfo
	_, err := c.request(ctx, http.MethodPost, c.basicInfoURL, "/basicInfo", info, &out)
	return out, err
}

// UpdateBasicInfo replaces an employee.
func (c *HTTPClient) UpdateBasicInfo(ctx context.Context, id int, info domain.BasicInfo) (domain.BasicInfo, error) {
	var out domain.BasicInfo
	_, err := c.request(ctx, http.MethodPut, c.basicInfoURL, itemPath("basicInfo", id), info, &out)
	return out, err
}

// PatchBasicInfo updates the given fields of an employee.
func (c *HTTPClient) PatchBasicInfo(ctx context.Context, id int, fields map[string]any) (domain.BasicInfo, error) {
	var out domain.BasicInfo
	_, err := c.request(ctx, http.MethodPatch, c.basicInfoURL, itemPath("basicInfo", id), fields, &out)
	return out, err
}

// DeleteBasicInfo removes an employee.
func (c *HTTPClient) DeleteBasicInfo(ctx context.Context, id int) error {
	_, err := c.request(ctx, http.MethodDelete, c.basicInfoURL, itemPath("basicInfo", id), nil, nil)
	return err
}

// Locations lists every office.
func (c *HTTPClient) Locations(ctx context.Context) ([]domain.Location, error) {
	var out []domain.Location
	_, err := c.request(ctx, http.MethodGet, c.detailsURL, "/locations", nil, &out)
	return out, err
}

// LocationsByName lists offices whose name contains name.
func (c *HTTPClient) LocationsByName(ctx context.Context, name string) ([]domain.Location, error) {
	var out []domain.Location
	_, err := c.request(ctx, http.MethodGet, c.detailsURL, withQuery("/locations", url.Values{"name_like": {name}}), nil, &out)
	return out, err
}

// Details lists every employment record.
func (c *HTTPClient) Details(ctx context.Context) ([]domain.Detail, error) {
	var out []domain.Detail
	_, err := c.request(ctx, http.MethodGet, c.detailsURL, "/details", nil, &out)
	return out, err
}

// DetailsFor lists the records belonging to the given employees.
func (c *HTTPClient) DetailsFor(ctx context.Context, basicInfoIDs []int) ([]domain.Detail, error) {
	if len(basicInfoIDs) == 0 {
		return []domain.Detail{}, nil
	}
	q := url.Values{}
	for _, id := range basicInfoIDs {
		q.Add("basicInfoId", strconv.Itoa(id))
	}
	var out []domain.Detail
	_, err := c.request(ctx, http.MethodGet, c.detailsURL, withQuery("/details", q), nil, &out)
	return out, err
}

// DetailsByID loads one record.
func (c *HTTPClient) DetailsByID(ctx context.Context, id int) (domain.Detail, error) {
	var out domain.Detail
	_, err := c.request(ctx, http.MethodGet, c.detailsURL, itemPath("details", id), nil, &out)
	return out, err
}

// CreateDetails posts a new record and returns it with its ID.
func (c *HTTPClient) CreateDetails(ctx context.Context, d domain.Detail) (domain.Detail, error) {
	d.ID = 0
	var out domain.Detail
	_, err := c.request(ctx, http.MethodPost, c.detailsURL, "/details", d, &out)
	return out, err
}

// UpdateDetails replaces a record.
func (c *HTTPClient) UpdateDetails(ctx context.Context, id int, d domain.Detail) (domain.Detail, error) {
	var out domain.Detail
	_, err := c.request(ctx, http.MethodPut, c.detailsURL, itemPath("details", id), d, &out)
	return out, err
}

// PatchDetails updates the given fields of a record.
func (c *HTTPClient) PatchDetails(ctx context.Context, id int, fields map[string]any) (domain.Detail, error) {
	var out domain.Detail
	_, err := c.request(ctx, http.MethodPatch, c.detailsURL, itemPath("details", id), fields, &out)
	return out, err
}

// DeleteDetails removes a record.
func (c *HTTPClient) DeleteDetails(ctx context.Context, id int) error {
	_, err := c.request(ctx, http.MethodDelete, c.detailsURL, itemPath("details", id), nil, nil)
	return err
}
