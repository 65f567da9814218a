package model

// ==================== 参考数据 ====================

// 交易类型编码
const (
	TransactionLocation = "location"
	TransactionVente    = "vente"
)

// 房源状态编码
const (
	StatutLibre        = "libre"
	StatutOccupe       = "occupe"
	StatutBientotLibre = "bientot_libre"
)

// TypeLogement 房源类型（公寓、别墅、办公室……）
type TypeLogement struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Libelle string `gorm:"size:100;not null" json:"libelle"`
}

// TypeTransaction 交易类型
type TypeTransaction struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code    string `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Libelle string `gorm:"size:100;not null" json:"libelle"`
}

// StatutBien 房源占用状态
type StatutBien struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code    string `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Libelle string `gorm:"size:100;not null" json:"libelle"`
}

// CategorieEquipement 设施分类
type CategorieEquipement struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Libelle     string       `gorm:"size:100;not null" json:"libelle"`
	Equipements []Equipement `gorm:"foreignKey:CategorieID" json:"equipements"`
}

// Equipement 设施（空调、发电机……）
type Equipement struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategorieID int64  `gorm:"index" json:"categorie_id"`
	Libelle     string `gorm:"size:100;not null" json:"libelle"`
}

// CategorieMeuble 家具分类
type CategorieMeuble struct {
	ID      int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Libelle string   `gorm:"size:100;not null" json:"libelle"`
	Meubles []Meuble `gorm:"foreignKey:CategorieID" json:"meubles"`
}

// Meuble 家具
type Meuble struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CategorieID int64  `gorm:"index" json:"categorie_id"`
	Libelle     string `gorm:"size:100;not null" json:"libelle"`
}

// Pays 国家
type Pays struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"size:2;uniqueIndex" json:"code"`
	Nom  string `gorm:"size:100;not null" json:"nom"`
}

// Ville 地区 / 城市，依赖国家
type Ville struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	PaysID int64  `gorm:"index;not null" json:"pays_id"`
	Nom    string `gorm:"size:100;not null" json:"nom"`
}
