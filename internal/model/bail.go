package model

import "time"

// ==================== 状态常量 ====================

const (
	// 租约状态
	BailActif   = "ACTIF"
	BailTermine = "TERMINE"
	BailResilie = "RESILIE"
	BailAnnule  = "ANNULE"

	// 租约类型
	TypeBailHabitation = "Habitation"
	TypeBailCommercial = "Commercial"
	TypeBailMixte      = "Mixte"

	// 合同状态
	ContratBrouillon = "BROUILLON"
	ContratActif     = "ACTIF"
	ContratArchive   = "ARCHIVE"
)

// IsValidTypeBail 检查租约类型
func IsValidTypeBail(t string) bool {
	switch t {
	case TypeBailHabitation, TypeBailCommercial, TypeBailMixte:
		return true
	}
	return false
}

// ==================== 数据库模型 ====================

// Locataire 租客
type Locataire struct {
	BaseModel
	AuditMixin
	Nom           string `gorm:"size:100;not null" json:"nom"`
	Prenom        string `gorm:"size:100" json:"prenom"`
	Email         string `gorm:"size:255;index" json:"email"`
	Telephone     string `gorm:"size:32" json:"telephone"`
	PieceIdentite string `gorm:"size:64" json:"piece_identite"`
}

func (*Locataire) TableName() string {
	return "locataires"
}

// NomComplet 全名
func (l *Locataire) NomComplet() string {
	if l.Prenom == "" {
		return l.Nom
	}
	return l.Prenom + " " + l.Nom
}

// Bail 租约。金额字段在创建时从房源复制，之后不随房源变化
type Bail struct {
	BaseModel
	AuditMixin
	BienID      int64 `gorm:"index;not null" json:"bien_id"`
	LocataireID int64 `gorm:"index;not null" json:"locataire_id"`

	TypeBail      string     `gorm:"size:32;not null" json:"type_bail"`
	DateDebutBail time.Time  `gorm:"not null" json:"date_debut_bail"`
	DateFinBail   *time.Time `json:"date_fin_bail,omitempty"`

	MontantLoyer      float64 `gorm:"type:decimal(14,2);not null" json:"montant_loyer"`
	MontantCaution    float64 `gorm:"type:decimal(14,2);default:0" json:"montant_caution"`
	FrequencePaiement string  `gorm:"size:32" json:"frequence_paiement"`

	Renouvellement     bool `gorm:"default:false" json:"renouvellement"`
	CautionVersee      bool `gorm:"default:false" json:"caution_versee"`
	JourLimitePaiement *int `json:"jour_limite_paiement,omitempty"`

	Statut           string     `gorm:"size:16;index;default:ACTIF" json:"statut"`
	MotifResiliation string     `gorm:"size:1024" json:"motif_resiliation,omitempty"`
	DateCloture      *time.Time `json:"date_cloture,omitempty"`

	Bien      *Bien      `gorm:"foreignKey:BienID" json:"bien,omitempty"`
	Locataire *Locataire `gorm:"foreignKey:LocataireID" json:"locataire,omitempty"`
}

func (*Bail) TableName() string {
	return "baux"
}

// IsActif 是否生效中
func (b *Bail) IsActif() bool {
	return b.Statut == BailActif
}

// HasEndDate 是否约定了结束日期
func (b *Bail) HasEndDate() bool {
	return b.DateFinBail != nil
}

// ContratTemplate 合同模板，按租约类型匹配
type ContratTemplate struct {
	BaseModel
	TypeBail string `gorm:"size:32;uniqueIndex;not null" json:"type_bail"`
	Titre    string `gorm:"size:255" json:"titre"`
	Corps    string `gorm:"type:text" json:"corps"`
}

func (*ContratTemplate) TableName() string {
	return "contrat_templates"
}

// Contrat 由租约和模板生成的合同
type Contrat struct {
	BaseModel
	AuditMixin
	BailID     int64      `gorm:"index;not null" json:"bail_id"`
	TemplateID int64      `gorm:"index" json:"template_id"`
	Titre      string     `gorm:"size:255" json:"titre"`
	Contenu    string     `gorm:"type:text" json:"contenu"`
	Statut     string     `gorm:"size:16;index;default:BROUILLON" json:"statut"`
	EnvoyeLe   *time.Time `json:"envoye_le,omitempty"`
	NbEnvois   int        `gorm:"default:0" json:"nb_envois"`
}

func (*Contrat) TableName() string {
	return "contrats"
}
