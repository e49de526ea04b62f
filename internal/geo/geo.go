// Package geo wraps the reverse-geocoding service used to prefill the
// listing-location field from browser coordinates. Lookup failure is never
// fatal; the seller just types the location by hand.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.bigdatacloud.net/data/reverse-geocode-client"

type Location struct {
	City   string `json:"city"`
	Region string `json:"region"`
}

type Client struct {
	HTTPClient *http.Client
	Endpoint   string
}

func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Endpoint:   defaultEndpoint,
	}
}

type reverseResponse struct {
	City                    string `json:"city"`
	Locality                string `json:"locality"`
	PrincipalSubdivision    string `json:"principalSubdivision"`
	PrincipalSubdivisionISO string `json:"principalSubdivisionCode"`
}

// Reverse resolves coordinates into a city/region pair.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Location, error) {
	url := fmt.Sprintf("%s?latitude=%f&longitude=%f&localityLanguage=en", c.Endpoint, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocode returned status %d", resp.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	city := body.City
	if city == "" {
		city = body.Locality
	}
	return &Location{City: city, Region: body.PrincipalSubdivision}, nil
}
