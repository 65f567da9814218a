package dto

import "time"

// ==================== 房源向导 ====================

// WizardOpenRequest 打开向导，EditID 为 0 表示新建
type WizardOpenRequest struct {
	EditID int64 `json:"edit_id"`
}

// WizardPatch 字段修改，只处理出现的字段
// Counters 的 key 为 nbChambres / nbCuisines / nbSalons / nbSdb / nbWc
// Meubles 数量为 0 表示取消勾选
// Clear 中列出的可选字段被置空：latitude, longitude, surface, etage, caution, disponible_le
type WizardPatch struct {
	TypeLogementID *int64   `json:"type_logement_id"`
	Titre          *string  `json:"titre"`
	Description    *string  `json:"description"`
	PaysID         *int64   `json:"pays_id"`
	VilleID        *int64   `json:"ville_id"`
	Quartier       *string  `json:"quartier"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`

	Surface  *float64       `json:"surface"`
	Etage    *int           `json:"etage"`
	Counters map[string]int `json:"counters"`

	TypeTransactionID *int64     `json:"type_transaction_id"`
	StatutBienID      *int64     `json:"statut_bien_id"`
	Prix              *string    `json:"prix"`
	Frequence         *string    `json:"frequence"`
	ChargesIncluses   *bool      `json:"charges_incluses"`
	Caution           *float64   `json:"caution"`
	DisponibleLe      *time.Time `json:"disponible_le"`

	Meuble        *bool           `json:"meuble"`
	Fumeurs       *bool           `json:"fumeurs"`
	Animaux       *bool           `json:"animaux"`
	Parking       *bool           `json:"parking"`
	Ascenseur     *bool           `json:"ascenseur"`
	EquipementIDs []int64         `json:"equipement_ids"`
	Meubles       map[int64]int   `json:"meubles"`
	Clear         []string        `json:"clear"`
}

// WizardTabRequest 跳转标签页
type WizardTabRequest struct {
	Tab string `json:"tab" binding:"required"`
}

// MainPhotoRequest 主图选择：Existing 为 true 时取已有图片第一张，否则取新图片 Index
type MainPhotoRequest struct {
	Existing bool `json:"existing"`
	Index    *int `json:"index"`
}

// WizardSubmitRequest 提交
type WizardSubmitRequest struct {
	Brouillon bool `json:"brouillon"`
}

// ==================== 租约流程 ====================

// LeaseTransitionRequest 租约操作参数
type LeaseTransitionRequest struct {
	Motif       string     `json:"motif"`
	DateFinBail *time.Time `json:"date_fin_bail"`
}
