package dto

// HexagonStatsRequest - параметры запроса статистики гексагона
type HexagonStatsRequest struct {
	HexagonID string `json:"hexagon_id" validate:"required"`
}

// EndpointsInfo - список публичных эндпоинтов
type EndpointsInfo struct {
	DamageSummary string `json:"damage_summary"`
	HexagonStats  string `json:"hexagon_stats"`
	Health        string `json:"health"`
	Test          string `json:"test"`
}

// InfoResponse - ответ корневого эндпоинта
type InfoResponse struct {
	Message   string        `json:"message"`
	Endpoints EndpointsInfo `json:"endpoints"`
}

// HealthResponse - ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// TestData - полезная нагрузка тестового эндпоинта
type TestData struct {
	Test int `json:"test"`
}

// TestResponse - ответ тестового эндпоинта
type TestResponse struct {
	Message string   `json:"message"`
	Status  string   `json:"status"`
	Data    TestData `json:"data"`
}
