package loki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Loki represents an interface for retrieving manifest statistics from logs.
type Loki interface {
	// GetManifests24 retrieves the total number of manifests built in the last 24 hours.
	GetManifests24(ctx context.Context) (int, error)
	// GetSkippedCatalogs24 retrieves the total number of catalogs left out of manifests in the last 24 hours.
	GetSkippedCatalogs24(ctx context.Context) (int, error)
}

type stremioTMDBLoki struct {
	httpClient  *http.Client
	lokiHost    string
	serviceName string
}

// NewLoki creates a Loki client querying the logs of serviceName.
func NewLoki(lokiHost, serviceName string) Loki {
	return &stremioTMDBLoki{
		httpClient: &http.Client{
			Timeout: time.Second * 30,
		},
		lokiHost:    lokiHost,
		serviceName: serviceName,
	}
}

// GetManifests24 retrieves the total number of manifests built in the last 24 hours.
func (s *stremioTMDBLoki) GetManifests24(ctx context.Context) (int, error) {
	return s.countLokiLogs(ctx, "Built manifest")
}

// GetSkippedCatalogs24 retrieves the total number of catalogs left out of manifests in the last 24 hours.
func (s *stremioTMDBLoki) GetSkippedCatalogs24(ctx context.Context) (int, error) {
	return s.countLokiLogs(ctx, "Skipped catalog")
}

func (s *stremioTMDBLoki) countLokiLogs(ctx context.Context, search string) (int, error) {
	url := s.lokiHost + "/loki/api/v1/query"
	query := fmt.Sprintf("sum(count_over_time({service_name=%q} |= `%s` [24h]))", s.serviceName, search)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to http.NewRequestWithContext: %w", err)
	}

	q := req.URL.Query()
	q.Add("query", query)
	req.URL.RawQuery = q.Encode()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to http.Client.Do: %w", err)
	}
	defer resp.Body.Close()

	var lokiResp Response
	if err := json.NewDecoder(resp.Body).Decode(&lokiResp); err != nil {
		return 0, fmt.Errorf("failed to json.Decoder.Decode: %w", err)
	}

	if lokiResp.Status != "success" {
		return 0, fmt.Errorf("loki response status: %s", lokiResp.Status)
	}

	if lokiResp.Data.ResultType != "vector" {
		return 0, fmt.Errorf("loki response data result type: %s", lokiResp.Data.ResultType)
	}

	// No matching logs yields an empty vector.
	if len(lokiResp.Data.Result) == 0 {
		return 0, nil
	}

	if len(lokiResp.Data.Result) != 1 {
		return 0, fmt.Errorf("loki response data result length: %d", len(lokiResp.Data.Result))
	}

	if len(lokiResp.Data.Result[0].Value) != 2 {
		return 0, fmt.Errorf("loki response data result value length: %d", len(lokiResp.Data.Result[0].Value))
	}

	value, ok := (lokiResp.Data.Result[0].Value[1]).(string)
	if !ok {
		return 0, fmt.Errorf("failed to assert value to string: %v", lokiResp.Data.Result[0].Value[1])
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("failed to strconv.Atoi: %w", err)
	}

	return i, nil
}

// Response is the body of a Loki instant query.
type Response struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string `json:"resultType"`
		Result     []struct {
			Metric struct {
			} `json:"metric"`
			Value []interface{} `json:"value"`
		} `json:"result"`
	} `json:"data"`
}
