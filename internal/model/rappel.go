package model

import "time"

// 提醒渠道
const (
	CanalEmail = "email"
	CanalSMS   = "sms"
)

// ParametresRappel 租金提醒配置（单行）。未保存时的默认值由仓储提供，列上不设默认值，false / 0 须原样落库
type ParametresRappel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Actif      bool   `gorm:"not null" json:"actif"`
	JoursAvant int    `gorm:"not null" json:"jours_avant"`
	Canal      string `gorm:"size:16;not null" json:"canal"`
	UpdatedAt  time.Time
}

func (*ParametresRappel) TableName() string {
	return "parametres_rappel"
}

// RappelLoyer 已发送的租金提醒，(BailID, Echeance) 唯一
type RappelLoyer struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BailID   int64     `gorm:"uniqueIndex:idx_rappel_bail_echeance;not null" json:"bail_id"`
	Echeance time.Time `gorm:"uniqueIndex:idx_rappel_bail_echeance;not null" json:"echeance"`
	EnvoyeLe time.Time `json:"envoye_le"`
	Canal    string    `gorm:"size:16" json:"canal"`
}

func (*RappelLoyer) TableName() string {
	return "rappels_loyer"
}
