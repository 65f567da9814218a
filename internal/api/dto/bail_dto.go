package dto

import "time"

// ==================== 请求 DTO ====================

// CreateBailRequest 创建租约请求。金额从房源复制，不接受客户端传入
type CreateBailRequest struct {
	BienID             int64      `json:"bien_id" binding:"required"`
	LocataireID        int64      `json:"locataire_id"`
	TypeBail           string     `json:"type_bail" binding:"required"`
	DateDebutBail      time.Time  `json:"date_debut_bail" binding:"required"`
	DateFinBail        *time.Time `json:"date_fin_bail,omitempty"`
	Renouvellement     bool       `json:"renouvellement"`
	CautionVersee      bool       `json:"caution_versee"`
	JourLimitePaiement *int       `json:"jour_limite_paiement,omitempty"`
}

// ProlongerRequest 延长租约请求
type ProlongerRequest struct {
	DateFinBail time.Time `json:"date_fin_bail" binding:"required"`
}

// ResilierRequest 解约请求，原因可为空
type ResilierRequest struct {
	Motif string `json:"motif"`
}

// ListBauxRequest 租约列表请求
type ListBauxRequest struct {
	BienID      int64  `form:"bien_id"`
	LocataireID int64  `form:"locataire_id"`
	Statut      string `form:"statut"`
	Page        int    `form:"page,default=1"`
	PageSize    int    `form:"page_size,default=20"`
}

// LocataireRequest 创建租客请求
type LocataireRequest struct {
	Nom           string `json:"nom" binding:"required"`
	Prenom        string `json:"prenom"`
	Email         string `json:"email" binding:"omitempty,email"`
	Telephone     string `json:"telephone"`
	PieceIdentite string `json:"piece_identite"`
}

// ParametresRappelRequest 提醒配置
type ParametresRappelRequest struct {
	Actif      bool   `json:"actif"`
	JoursAvant int    `json:"jours_avant" binding:"min=0,max=28"`
	Canal      string `json:"canal" binding:"required,oneof=email sms"`
}

// ==================== 响应 DTO ====================

// BailVO 租约
type BailVO struct {
	ID                 int64      `json:"id"`
	BienID             int64      `json:"bien_id"`
	LocataireID        int64      `json:"locataire_id"`
	LocataireNom       string     `json:"locataire_nom,omitempty"`
	TypeBail           string     `json:"type_bail"`
	DateDebutBail      time.Time  `json:"date_debut_bail"`
	DateFinBail        *time.Time `json:"date_fin_bail,omitempty"`
	MontantLoyer       float64    `json:"montant_loyer"`
	MontantCaution     float64    `json:"montant_caution"`
	FrequencePaiement  string     `json:"frequence_paiement"`
	Renouvellement     bool       `json:"renouvellement"`
	CautionVersee      bool       `json:"caution_versee"`
	JourLimitePaiement *int       `json:"jour_limite_paiement,omitempty"`
	Statut             string     `json:"statut"`
	MotifResiliation   string     `json:"motif_resiliation,omitempty"`
	DateCloture        *time.Time `json:"date_cloture,omitempty"`
}

// LocataireVO 租客
type LocataireVO struct {
	ID            int64  `json:"id"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	Email         string `json:"email"`
	Telephone     string `json:"telephone"`
	PieceIdentite string `json:"piece_identite"`
}

// ContratVO 合同
type ContratVO struct {
	ID       int64      `json:"id"`
	BailID   int64      `json:"bail_id"`
	Titre    string     `json:"titre"`
	Contenu  string     `json:"contenu"`
	Statut   string     `json:"statut"`
	EnvoyeLe *time.Time `json:"envoye_le,omitempty"`
	NbEnvois int        `json:"nb_envois"`
}

// ParametresRappelVO 提醒配置
type ParametresRappelVO struct {
	Actif      bool   `json:"actif"`
	JoursAvant int    `json:"jours_avant"`
	Canal      string `json:"canal"`
}
