// ============================================================================
// LTA DATAMALL CLIENT - LIVE BUS ARRIVALS
// ============================================================================
// Thin client over the LTA DataMall v3 BusArrival endpoint. Responses are
// cached for 30 seconds (cache.ArrivalsCache) so refresh taps stay inside
// the DataMall rate limit.
// ============================================================================

package lta

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/yourorg/sgbusbot/internal/cache"
	"github.com/yourorg/sgbusbot/internal/models"
)

const defaultBaseURL = "https://datamall2.mytransport.sg/ltaodataservice/v3/BusArrival"

var httpClient = &http.Client{
	Timeout: 10 * time.Second,
}

// nextBus mirrors one NextBus block in the DataMall response.
type nextBus struct {
	EstimatedArrival string `json:"EstimatedArrival"`
	Load             string `json:"Load"`
	Type             string `json:"Type"`
}

// busArrivalResponse mirrors the DataMall v3 BusArrival payload.
type busArrivalResponse struct {
	BusStopCode string `json:"BusStopCode"`
	Services    []struct {
		ServiceNo string  `json:"ServiceNo"`
		NextBus   nextBus `json:"NextBus"`
		NextBus2  nextBus `json:"NextBus2"`
		NextBus3  nextBus `json:"NextBus3"`
	} `json:"Services"`
}

// Client queries live arrivals from LTA DataMall.
type Client struct {
	accountKey string
	baseURL    string
}

// NewClient creates a DataMall client using the given AccountKey.
func NewClient(accountKey string) *Client {
	return &Client{
		accountKey: accountKey,
		baseURL:    defaultBaseURL,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a fake server.
func NewClientWithBaseURL(accountKey, baseURL string) *Client {
	return &Client{
		accountKey: accountKey,
		baseURL:    baseURL,
	}
}

func (c *Client) fetch(query url.Values) (*busArrivalResponse, error) {
	fullURL := fmt.Sprintf("%s?%s", c.baseURL, query.Encode())

	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build datamall request: %w", err)
	}
	req.Header.Set("AccountKey", c.accountKey)
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datamall request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ [DATAMALL] status %d for %s", resp.StatusCode, query.Encode())
		return nil, &models.UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read datamall response: %w", err)
	}

	var parsed busArrivalResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse datamall response: %w", err)
	}
	return &parsed, nil
}

// ServicesAtStop returns every service calling at the stop, each with its next
// estimated arrival. An empty list is a valid answer (the caller decides
// whether that is an error condition).
func (c *Client) ServicesAtStop(code string) ([]models.ServiceArrival, error) {
	cacheKey := "arrivals:" + code
	if cached, found := cache.ArrivalsCache.Get(cacheKey); found {
		return cached.([]models.ServiceArrival), nil
	}

	query := url.Values{}
	query.Set("BusStopCode", code)

	parsed, err := c.fetch(query)
	if err != nil {
		return nil, err
	}

	services := make([]models.ServiceArrival, 0, len(parsed.Services))
	for _, svc := range parsed.Services {
		services = append(services, models.ServiceArrival{
			ServiceNo:   svc.ServiceNo,
			NextArrival: svc.NextBus.EstimatedArrival,
		})
	}

	cache.ArrivalsCache.Set(cacheKey, services)
	return services, nil
}

// Arrivals returns up to 3 upcoming arrivals for one service at one stop.
// Fails with ErrNoMoreBuses when nothing is scheduled.
func (c *Client) Arrivals(code, serviceNo string) ([]models.ArrivalEstimate, error) {
	cacheKey := "arrivals:" + code + ":" + serviceNo
	if cached, found := cache.ArrivalsCache.Get(cacheKey); found {
		return cached.([]models.ArrivalEstimate), nil
	}

	query := url.Values{}
	query.Set("BusStopCode", code)
	query.Set("ServiceNo", serviceNo)

	parsed, err := c.fetch(query)
	if err != nil {
		return nil, err
	}
	if len(parsed.Services) == 0 {
		return nil, models.ErrNoMoreBuses
	}

	svc := parsed.Services[0]
	arrivals := make([]models.ArrivalEstimate, 0, 3)
	for _, nb := range []nextBus{svc.NextBus, svc.NextBus2, svc.NextBus3} {
		arrivals = append(arrivals, models.ArrivalEstimate{
			EstimatedArrival: nb.EstimatedArrival,
			Load:             nb.Load,
			Type:             nb.Type,
		})
	}

	cache.ArrivalsCache.Set(cacheKey, arrivals)
	return arrivals, nil
}
