package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// ==================== 状态常量 ====================

const (
	// 房源发布状态（由后台审核流转）
	AnnonceBrouillon = "BROUILLON"
	AnnonceEnAttente = "EN_ATTENTE"
	AnnoncePublie    = "PUBLIE"
	AnnonceRejete    = "REJETE"
	AnnonceAnnule    = "ANNULE"

	// 占用状态
	OccupationLibre = "libre"
	OccupationLoue  = "loue"

	// 修订状态
	RevisionEnAttente = "EN_ATTENTE"
	RevisionApprouvee = "APPROUVEE"
	RevisionRejetee   = "REJETEE"
)

// 付款周期
const (
	FrequenceJournaliere   = "journaliere"
	FrequenceHebdomadaire  = "hebdomadaire"
	FrequenceMensuelle     = "mensuelle"
	FrequenceTrimestrielle = "trimestrielle"
	FrequenceSemestrielle  = "semestrielle"
	FrequenceAnnuelle      = "annuelle"
)

// 业务限制
const (
	MinPhotos = 3
	MaxPhotos = 10
	MaxPieces = 20
)

// Frequences 合法的付款周期
var Frequences = []string{
	FrequenceJournaliere, FrequenceHebdomadaire, FrequenceMensuelle,
	FrequenceTrimestrielle, FrequenceSemestrielle, FrequenceAnnuelle,
}

// IsValidFrequence 检查付款周期
func IsValidFrequence(f string) bool {
	for _, v := range Frequences {
		if v == f {
			return true
		}
	}
	return false
}

var (
	ErrStatutNonModifiable = errors.New("le bien ne peut pas être modifié dans son statut actuel")
	ErrRevisionEnCours     = errors.New("une révision est déjà en attente de validation")
)

// ==================== 数据库模型 ====================

// Bien 房源
type Bien struct {
	BaseModel
	AuditMixin
	ProprietaireID int64 `gorm:"index;comment:所有者/中介用户ID" json:"proprietaire_id"`

	// 分类
	TypeLogementID    int64 `gorm:"index;not null" json:"type_logement_id"`
	TypeTransactionID int64 `gorm:"index;not null" json:"type_transaction_id"`
	StatutBienID      int64 `gorm:"index;not null" json:"statut_bien_id"`

	// 描述
	Titre       string `gorm:"size:255;not null" json:"titre"`
	Description string `gorm:"type:text" json:"description"`

	// 位置
	PaysID    int64    `gorm:"index" json:"pays_id"`
	VilleID   int64    `gorm:"index" json:"ville_id"`
	Quartier  string   `gorm:"size:255" json:"quartier"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// 物理特征
	Surface    *float64 `json:"surface,omitempty"`
	Etage      *int     `json:"etage,omitempty"`
	NbChambres int      `gorm:"default:0" json:"nb_chambres"`
	NbCuisines int      `gorm:"default:0" json:"nb_cuisines"`
	NbSalons   int      `gorm:"default:0" json:"nb_salons"`
	NbSdb      int      `gorm:"default:0" json:"nb_sdb"`
	NbWc       int      `gorm:"default:0" json:"nb_wc"`

	// 交易条款
	Prix            float64    `gorm:"type:decimal(14,2);not null" json:"prix"`
	Frequence       string     `gorm:"size:32" json:"frequence"`
	ChargesIncluses bool       `gorm:"default:false" json:"charges_incluses"`
	Caution         *float64   `gorm:"type:decimal(14,2)" json:"caution,omitempty"`
	DisponibleLe    *time.Time `json:"disponible_le,omitempty"`

	// 选项
	Meuble        bool                       `gorm:"default:false" json:"meuble"`
	Fumeurs       bool                       `gorm:"default:false" json:"fumeurs"`
	Animaux       bool                       `gorm:"default:false" json:"animaux"`
	Parking       bool                       `gorm:"default:false" json:"parking"`
	Ascenseur     bool                       `gorm:"default:false" json:"ascenseur"`
	EquipementIDs datatypes.JSONSlice[int64] `gorm:"type:json" json:"equipement_ids"`

	// 发布 & 占用
	StatutAnnonce      string `gorm:"size:32;index;default:BROUILLON" json:"statut_annonce"`
	HasPendingRevision bool   `gorm:"default:false" json:"has_pending_revision"`
	Occupation         string `gorm:"size:16;index;default:libre" json:"occupation"`
	MotifRejet         string `gorm:"size:1024" json:"motif_rejet,omitempty"`

	// 关联
	Photos          []BienPhoto      `gorm:"foreignKey:BienID" json:"photos"`
	Meubles         []BienMeuble     `gorm:"foreignKey:BienID" json:"meubles"`
	TypeLogement    *TypeLogement    `gorm:"foreignKey:TypeLogementID" json:"type_logement,omitempty"`
	TypeTransaction *TypeTransaction `gorm:"foreignKey:TypeTransactionID" json:"type_transaction,omitempty"`
	StatutBien      *StatutBien      `gorm:"foreignKey:StatutBienID" json:"statut_bien,omitempty"`
	Pays            *Pays            `gorm:"foreignKey:PaysID" json:"pays,omitempty"`
	Ville           *Ville           `gorm:"foreignKey:VilleID" json:"ville,omitempty"`
}

func (*Bien) TableName() string {
	return "biens"
}

// BienPhoto 房源图片，Position 0 为主图
type BienPhoto struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	BienID     int64  `gorm:"index;not null" json:"bien_id"`
	URL        string `gorm:"size:2048;not null" json:"url"`
	Position   int    `gorm:"default:0" json:"position"`
	Principale bool   `gorm:"default:false" json:"principale"`
}

func (*BienPhoto) TableName() string {
	return "bien_photos"
}

// BienMeuble 房源家具及数量
type BienMeuble struct {
	ID       int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	BienID   int64 `gorm:"index;not null" json:"bien_id"`
	MeubleID int64 `gorm:"index;not null" json:"meuble_id"`
	Quantite int   `gorm:"default:1" json:"quantite"`
}

func (*BienMeuble) TableName() string {
	return "bien_meubles"
}

// BienRevision 已发布房源的修改申请，审核通过前不影响线上内容
type BienRevision struct {
	BaseModel
	AuditMixin
	BienID  int64          `gorm:"index;not null" json:"bien_id"`
	Payload datatypes.JSON `gorm:"type:json" json:"payload"`
	Statut  string         `gorm:"size:32;index;default:EN_ATTENTE" json:"statut"`
	Motif   string         `gorm:"size:1024" json:"motif,omitempty"`
}

func (*BienRevision) TableName() string {
	return "bien_revisions"
}

// ==================== 辅助方法 ====================

// PhotoURLs 按位置返回图片 URL
func (b *Bien) PhotoURLs() []string {
	urls := make([]string, len(b.Photos))
	for i, p := range b.Photos {
		urls[i] = p.URL
	}
	return urls
}

// CanUpdate 草稿或被拒绝的房源可直接修改
func (b *Bien) CanUpdate() error {
	if b.StatutAnnonce != AnnonceBrouillon && b.StatutAnnonce != AnnonceRejete {
		return ErrStatutNonModifiable
	}
	return nil
}

// CanSubmitRevision 已发布房源只能通过修订流程修改
func (b *Bien) CanSubmitRevision() error {
	if b.StatutAnnonce != AnnoncePublie {
		return ErrStatutNonModifiable
	}
	if b.HasPendingRevision {
		return ErrRevisionEnCours
	}
	return nil
}

// IsLocation 是否出租房源（需预加载 TypeTransaction）
func (b *Bien) IsLocation() bool {
	return b.TypeTransaction != nil && b.TypeTransaction.Code == TransactionLocation
}

// IsOccupied 是否已出租
func (b *Bien) IsOccupied() bool {
	return b.Occupation == OccupationLoue
}
