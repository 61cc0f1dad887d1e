// Package restcountries is a thin client for the REST Countries lookup API
// (https://restcountries.com/v3.1), the upstream source of country metadata.
package restcountries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

var ErrNoData = errors.New("no country data in response")

type Country struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA2      string   `json:"cca2"`
	CCA3      string   `json:"cca3"`
	Capital   []string `json:"capital"`
	Region    string   `json:"region"`
	Subregion string   `json:"subregion"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ByCode fetches metadata for a single alpha-2 or alpha-3 country code.
// The upstream returns either a single-element array or a bare object
// depending on the endpoint version; both are accepted.
func (c *Client) ByCode(ctx context.Context, code string) (*Country, error) {
	body, err := c.get(ctx, c.baseURL+"/alpha/"+url.PathEscape(code))
	if err != nil {
		return nil, err
	}

	var list []Country
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return nil, ErrNoData
		}
		return &list[0], nil
	}

	var single Country
	if err := json.Unmarshal(body, &single); err != nil {
		return nil, fmt.Errorf("decoding country response: %w", err)
	}
	if single.Name.Common == "" && single.CCA2 == "" {
		return nil, ErrNoData
	}
	return &single, nil
}

// All lists every country, restricted to the fields the seeder needs.
func (c *Client) All(ctx context.Context) ([]Country, error) {
	body, err := c.get(ctx, c.baseURL+"/all?fields=cca2,cca3,name")
	if err != nil {
		return nil, err
	}

	var list []Country
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decoding country list: %w", err)
	}
	return list, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	return io.ReadAll(resp.Body)
}
