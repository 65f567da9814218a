package dto

// Option 参考数据项（类型、状态、国家、城市……）
type Option struct {
	ID      int64  `json:"id"`
	Code    string `json:"code,omitempty"`
	Libelle string `json:"libelle"`
}

// OptionGroup 按分类分组的参考数据（设施、家具）
type OptionGroup struct {
	ID      int64    `json:"id"`
	Libelle string   `json:"libelle"`
	Options []Option `json:"options"`
}

// GeoCandidate 地理编码候选结果，仅供参考
type GeoCandidate struct {
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}
