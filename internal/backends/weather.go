package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/handlers"
)

const (
	geocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	forecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// weatherCodes maps Open-Meteo WMO weather codes to short descriptions.
var weatherCodes = map[int]string{
	0: "晴", 1: "大部晴朗", 2: "多云", 3: "阴",
	45: "雾", 48: "冻雾",
	51: "小毛毛雨", 53: "毛毛雨", 55: "大毛毛雨",
	61: "小雨", 63: "中雨", 65: "大雨",
	71: "小雪", 73: "中雪", 75: "大雪",
	80: "阵雨", 81: "强阵雨", 82: "暴雨",
	95: "雷雨", 96: "雷雨夹冰雹", 99: "强雷雨夹冰雹",
}

// OpenMeteo queries the Open-Meteo public API. No API key is required.
type OpenMeteo struct {
	client       *http.Client
	logger       zerolog.Logger
	geocodingURL string
	forecastURL  string
}

// NewOpenMeteo creates an Open-Meteo weather source.
func NewOpenMeteo(logger zerolog.Logger) *OpenMeteo {
	return &OpenMeteo{
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
	}
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Daily struct {
		WeatherCode []int     `json:"weathercode"`
		TempMax     []float64 `json:"temperature_2m_max"`
	} `json:"daily"`
}

// Query returns the weather for a city, daysAhead days from today.
func (o *OpenMeteo) Query(ctx context.Context, city string, daysAhead int) (handlers.Report, error) {
	reports, err := o.fetch(ctx, city, daysAhead+1)
	if err != nil {
		return handlers.Report{}, err
	}
	if daysAhead >= len(reports) {
		return handlers.Report{}, fmt.Errorf("no forecast %d days ahead", daysAhead)
	}
	return reports[daysAhead], nil
}

// Forecast returns daily reports for the coming days.
func (o *OpenMeteo) Forecast(ctx context.Context, city string, days int) ([]handlers.Report, error) {
	return o.fetch(ctx, city, days)
}

func (o *OpenMeteo) fetch(ctx context.Context, city string, days int) ([]handlers.Report, error) {
	lat, lon, name, err := o.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", lat))
	q.Set("longitude", fmt.Sprintf("%f", lon))
	q.Set("daily", "weathercode,temperature_2m_max")
	q.Set("forecast_days", fmt.Sprintf("%d", days))
	q.Set("timezone", "auto")

	var resp forecastResponse
	if err := o.getJSON(ctx, o.forecastURL+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}

	n := len(resp.Daily.WeatherCode)
	if len(resp.Daily.TempMax) < n {
		n = len(resp.Daily.TempMax)
	}
	reports := make([]handlers.Report, 0, n)
	for i := 0; i < n; i++ {
		condition := weatherCodes[resp.Daily.WeatherCode[i]]
		if condition == "" {
			condition = fmt.Sprintf("天气代码 %d", resp.Daily.WeatherCode[i])
		}
		reports = append(reports, handlers.Report{
			City:        name,
			Condition:   condition,
			TempCelsius: int(resp.Daily.TempMax[i]),
		})
	}
	return reports, nil
}

func (o *OpenMeteo) geocode(ctx context.Context, city string) (lat, lon float64, name string, err error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "1")

	var resp geocodingResponse
	if err := o.getJSON(ctx, o.geocodingURL+"?"+q.Encode(), &resp); err != nil {
		return 0, 0, "", fmt.Errorf("geocoding request failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return 0, 0, "", fmt.Errorf("unknown city: %s", city)
	}
	r := resp.Results[0]
	return r.Latitude, r.Longitude, r.Name, nil
}

func (o *OpenMeteo) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
