package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"seek_immo_v1_202610/internal/api/dto"
)

// MinGeocodeQuery 少于该长度不发起请求
const MinGeocodeQuery = 3

// GeocodeService 地址解析（Nominatim 兼容接口），结果仅供参考
type GeocodeService struct {
	client  *resty.Client
	country string
	limit   int
}

// NewGeocodeService 创建地址解析服务
func NewGeocodeService(baseURL, country string) *GeocodeService {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(8*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "Seek-Immo/1.0")
	return &GeocodeService{client: client, country: country, limit: 5}
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search 查询地址候选
func (s *GeocodeService) Search(ctx context.Context, query string) ([]dto.GeoCandidate, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinGeocodeQuery {
		return []dto.GeoCandidate{}, nil
	}

	params := map[string]string{
		"format": "json",
		"q":      query,
		"limit":  strconv.Itoa(s.limit),
	}
	if s.country != "" {
		params["countrycodes"] = s.country
	}

	var places []nominatimPlace
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&places).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("地址解析请求失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("地址解析服务错误 (Status %d)", resp.StatusCode())
	}

	candidates := make([]dto.GeoCandidate, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lon, errLon := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		candidates = append(candidates, dto.GeoCandidate{
			DisplayName: p.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
		})
	}
	return candidates, nil
}
