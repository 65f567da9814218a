package dto

import "time"

// ==================== 请求 DTO ====================

// PhotoUpload 新上传的图片（JSON 中 Data 为 base64）
type PhotoUpload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// MeubleQuantite 家具及数量
type MeubleQuantite struct {
	MeubleID int64 `json:"meuble_id"`
	Quantite int   `json:"quantite"`
}

// BienPayload 创建 / 修改 / 修订共用的房源载荷
// ExistingPhotos 为已持久化的图片 URL，只传 URL 不重复上传
type BienPayload struct {
	Brouillon bool `json:"brouillon"`

	TypeLogementID    int64 `json:"type_logement_id"`
	TypeTransactionID int64 `json:"type_transaction_id"`
	StatutBienID      int64 `json:"statut_bien_id"`

	Titre       string `json:"titre"`
	Description string `json:"description"`

	PaysID    int64    `json:"pays_id"`
	VilleID   int64    `json:"ville_id"`
	Quartier  string   `json:"quartier"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Surface    *float64 `json:"surface,omitempty"`
	Etage      *int     `json:"etage,omitempty"`
	NbChambres int      `json:"nb_chambres"`
	NbCuisines int      `json:"nb_cuisines"`
	NbSalons   int      `json:"nb_salons"`
	NbSdb      int      `json:"nb_sdb"`
	NbWc       int      `json:"nb_wc"`

	Prix            float64    `json:"prix"`
	Frequence       string     `json:"frequence"`
	ChargesIncluses bool       `json:"charges_incluses"`
	Caution         *float64   `json:"caution,omitempty"`
	DisponibleLe    *time.Time `json:"disponible_le,omitempty"`

	Meuble        bool             `json:"meuble"`
	Fumeurs       bool             `json:"fumeurs"`
	Animaux       bool             `json:"animaux"`
	Parking       bool             `json:"parking"`
	Ascenseur     bool             `json:"ascenseur"`
	EquipementIDs []int64          `json:"equipement_ids"`
	Meubles       []MeubleQuantite `json:"meubles"`

	Photos         []PhotoUpload `json:"photos"`
	ExistingPhotos []string      `json:"existing_photos"`
	// 为 true 时主图是 ExistingPhotos[0]，否则是 Photos[0]
	MainPhotoExisting bool `json:"main_photo_existing"`
}

// PhotoCount 图片总数
func (p *BienPayload) PhotoCount() int {
	return len(p.Photos) + len(p.ExistingPhotos)
}

// ListBiensRequest 房源列表请求
type ListBiensRequest struct {
	Statut     string `form:"statut"`
	Occupation string `form:"occupation"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// MotifRequest 驳回 / 解约原因
type MotifRequest struct {
	Motif string `json:"motif" binding:"required"`
}

// ==================== 响应 DTO ====================

// BienVO 房源详情
type BienVO struct {
	ID             int64 `json:"id"`
	ProprietaireID int64 `json:"proprietaire_id"`

	TypeLogementID      int64  `json:"type_logement_id"`
	TypeLogement        string `json:"type_logement,omitempty"`
	TypeTransactionID   int64  `json:"type_transaction_id"`
	TypeTransactionCode string `json:"type_transaction_code,omitempty"`
	StatutBienID        int64  `json:"statut_bien_id"`
	StatutBienCode      string `json:"statut_bien_code,omitempty"`

	Titre       string `json:"titre"`
	Description string `json:"description"`

	PaysID    int64    `json:"pays_id"`
	PaysNom   string   `json:"pays_nom,omitempty"`
	VilleID   int64    `json:"ville_id"`
	VilleNom  string   `json:"ville_nom,omitempty"`
	Quartier  string   `json:"quartier"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Surface    *float64 `json:"surface,omitempty"`
	Etage      *int     `json:"etage,omitempty"`
	NbChambres int      `json:"nb_chambres"`
	NbCuisines int      `json:"nb_cuisines"`
	NbSalons   int      `json:"nb_salons"`
	NbSdb      int      `json:"nb_sdb"`
	NbWc       int      `json:"nb_wc"`

	Prix            float64    `json:"prix"`
	Frequence       string     `json:"frequence"`
	ChargesIncluses bool       `json:"charges_incluses"`
	Caution         *float64   `json:"caution,omitempty"`
	DisponibleLe    *time.Time `json:"disponible_le,omitempty"`

	Meuble        bool             `json:"meuble"`
	Fumeurs       bool             `json:"fumeurs"`
	Animaux       bool             `json:"animaux"`
	Parking       bool             `json:"parking"`
	Ascenseur     bool             `json:"ascenseur"`
	EquipementIDs []int64          `json:"equipement_ids"`
	Meubles       []MeubleQuantite `json:"meubles"`
	Photos        []string         `json:"photos"`

	StatutAnnonce      string `json:"statut_annonce"`
	HasPendingRevision bool   `json:"has_pending_revision"`
	Occupation         string `json:"occupation"`
	MotifRejet         string `json:"motif_rejet,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLocation 是否出租房源
func (b *BienVO) IsLocation() bool {
	return b.TypeTransactionCode == "location"
}

// RevisionVO 修订申请
type RevisionVO struct {
	ID        int64     `json:"id"`
	BienID    int64     `json:"bien_id"`
	Statut    string    `json:"statut"`
	Motif     string    `json:"motif,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PageResult 分页结果
type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}
