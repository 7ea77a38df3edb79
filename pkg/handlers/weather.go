package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// Report is one weather observation or forecast entry.
type Report struct {
	City        string
	Condition   string
	TempCelsius int
}

// WeatherSource abstracts the weather data backend.
type WeatherSource interface {
	Query(ctx context.Context, city string, daysAhead int) (Report, error)
	Forecast(ctx context.Context, city string, days int) ([]Report, error)
}

// WeatherHandler handles weather queries. A query without a city yields a
// cannot-handle outcome declaring the gap, so the dispatcher can try to fill
// it from conversation context before asking the user.
type WeatherHandler struct {
	source WeatherSource
	logger zerolog.Logger
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(source WeatherSource, logger zerolog.Logger) *WeatherHandler {
	return &WeatherHandler{
		source: source,
		logger: logger,
	}
}

// Descriptor returns the handler's routing contract.
func (h *WeatherHandler) Descriptor() dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:         "weather",
		Version:      "1.0.0",
		Priority:     4,
		Capabilities: []string{"get_weather"},
		TaskTypes:    []string{"query", "forecast"},
		Keywords: map[string]dispatch.Binding{
			"天气":      {TaskType: "query"},
			"今天天气":    {TaskType: "query"},
			"天气怎么样":   {TaskType: "query"},
			"今天天气怎么样": {TaskType: "query"},
			"明天天气":    {TaskType: "query", Params: map[string]interface{}{"days": "1"}},
			"后天天气":    {TaskType: "query", Params: map[string]interface{}{"days": "2"}},
			"天气预报":    {TaskType: "forecast"},
		},
	}
}

// Execute runs one weather task.
func (h *WeatherHandler) Execute(ctx context.Context, task dispatch.Task) dispatch.Outcome {
	city := task.Param("city")
	if city == "" {
		return dispatch.CannotHandle(
			"need to know which city to query",
			"",
			map[string]string{"city": "要查询天气的城市"},
		)
	}

	switch task.Type {
	case "query":
		days := 0
		if d := task.Param("days"); d != "" {
			parsed, err := strconv.Atoi(d)
			if err == nil {
				days = parsed
			}
		}
		report, err := h.source.Query(ctx, city, days)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("weather lookup failed: %v", err), "", nil)
		}
		return dispatch.Success(
			fmt.Sprintf("%s：%s，%d°C", report.City, report.Condition, report.TempCelsius),
			map[string]interface{}{"city": report.City, "condition": report.Condition, "temp_c": report.TempCelsius},
		)
	case "forecast":
		reports, err := h.source.Forecast(ctx, city, 3)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("forecast lookup failed: %v", err), "", nil)
		}
		msg := fmt.Sprintf("%s未来%d天预报：", city, len(reports))
		payload := make([]interface{}, 0, len(reports))
		for i, r := range reports {
			if i > 0 {
				msg += "；"
			}
			msg += fmt.Sprintf("%s %d°C", r.Condition, r.TempCelsius)
			payload = append(payload, map[string]interface{}{"condition": r.Condition, "temp_c": r.TempCelsius})
		}
		return dispatch.Success(msg, map[string]interface{}{"city": city, "days": payload})
	default:
		return dispatch.CannotHandle(fmt.Sprintf("unknown task type: %s", task.Type), "", nil)
	}
}
