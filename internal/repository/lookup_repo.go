package repository

import (
	"context"

	"gorm.io/gorm"

	"seek_immo_v1_202610/internal/model"
)

// LookupRepository 参考数据仓储接口
type LookupRepository interface {
	ListTypesLogement(ctx context.Context) ([]model.TypeLogement, error)
	ListTypesTransaction(ctx context.Context) ([]model.TypeTransaction, error)
	ListStatuts(ctx context.Context) ([]model.StatutBien, error)
	ListEquipements(ctx context.Context) ([]model.CategorieEquipement, error)
	ListMeubles(ctx context.Context) ([]model.CategorieMeuble, error)
	ListPays(ctx context.Context) ([]model.Pays, error)
	ListVilles(ctx context.Context, paysID int64) ([]model.Ville, error)

	GetTypeTransaction(ctx context.Context, id int64) (*model.TypeTransaction, error)
	GetStatut(ctx context.Context, id int64) (*model.StatutBien, error)

	// 初始化
	IsEmpty(ctx context.Context) (bool, error)
	Seed(ctx context.Context, data *LookupSeed) error
}

// LookupSeed 初始参考数据
type LookupSeed struct {
	TypesLogement    []model.TypeLogement
	TypesTransaction []model.TypeTransaction
	Statuts          []model.StatutBien
	Equipements      []model.CategorieEquipement
	Meubles          []model.CategorieMeuble
	Pays             []model.Pays
	Villes           map[string][]string // 国家代码 -> 城市名
}

type lookupRepo struct {
	db *gorm.DB
}

// NewLookupRepository 创建参考数据仓储
func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) ListTypesLogement(ctx context.Context) ([]model.TypeLogement, error) {
	var items []model.TypeLogement
	err := r.db.WithContext(ctx).Order("libelle ASC").Find(&items).Error
	return items, err
}

func (r *lookupRepo) ListTypesTransaction(ctx context.Context) ([]model.TypeTransaction, error) {
	var items []model.TypeTransaction
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *lookupRepo) ListStatuts(ctx context.Context) ([]model.StatutBien, error) {
	var items []model.StatutBien
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

func (r *lookupRepo) ListEquipements(ctx context.Context) ([]model.CategorieEquipement, error) {
	var items []model.CategorieEquipement
	err := r.db.WithContext(ctx).
		Preload("Equipements", func(tx *gorm.DB) *gorm.DB { return tx.Order("libelle ASC") }).
		Order("libelle ASC").
		Find(&items).Error
	return items, err
}

func (r *lookupRepo) ListMeubles(ctx context.Context) ([]model.CategorieMeuble, error) {
	var items []model.CategorieMeuble
	err := r.db.WithContext(ctx).
		Preload("Meubles", func(tx *gorm.DB) *gorm.DB { return tx.Order("libelle ASC") }).
		Order("libelle ASC").
		Find(&items).Error
	return items, err
}

func (r *lookupRepo) ListPays(ctx context.Context) ([]model.Pays, error) {
	var items []model.Pays
	err := r.db.WithContext(ctx).Order("nom ASC").Find(&items).Error
	return items, err
}

func (r *lookupRepo) ListVilles(ctx context.Context, paysID int64) ([]model.Ville, error) {
	var items []model.Ville
	err := r.db.WithContext(ctx).Where("pays_id = ?", paysID).Order("nom ASC").Find(&items).Error
	return items, err
}

func (r *lookupRepo) GetTypeTransaction(ctx context.Context, id int64) (*model.TypeTransaction, error) {
	var item model.TypeTransaction
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *lookupRepo) GetStatut(ctx context.Context, id int64) (*model.StatutBien, error) {
	var item model.StatutBien
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// IsEmpty 以交易类型表为准判断是否已初始化
func (r *lookupRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.TypeTransaction{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// Seed 在一个事务中写入全部参考数据
func (r *lookupRepo) Seed(ctx context.Context, data *LookupSeed) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(data.TypesLogement) > 0 {
			if err := tx.Create(&data.TypesLogement).Error; err != nil {
				return err
			}
		}
		if len(data.TypesTransaction) > 0 {
			if err := tx.Create(&data.TypesTransaction).Error; err != nil {
				return err
			}
		}
		if len(data.Statuts) > 0 {
			if err := tx.Create(&data.Statuts).Error; err != nil {
				return err
			}
		}
		// 分类连同子项一起创建
		if len(data.Equipements) > 0 {
			if err := tx.Create(&data.Equipements).Error; err != nil {
				return err
			}
		}
		if len(data.Meubles) > 0 {
			if err := tx.Create(&data.Meubles).Error; err != nil {
				return err
			}
		}
		if len(data.Pays) > 0 {
			if err := tx.Create(&data.Pays).Error; err != nil {
				return err
			}
		}

		for _, p := range data.Pays {
			noms := data.Villes[p.Code]
			if len(noms) == 0 {
				continue
			}
			villes := make([]model.Ville, 0, len(noms))
			for _, nom := range noms {
				villes = append(villes, model.Ville{PaysID: p.ID, Nom: nom})
			}
			if err := tx.Create(&villes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
