package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"seek_immo_v1_202610/internal/model"
)

// ==================== 仓储接口 ====================

// BienRepository 房源仓储接口
type BienRepository interface {
	Create(ctx context.Context, bien *model.Bien) error
	GetByID(ctx context.Context, id int64) (*model.Bien, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Bien, error)
	Update(ctx context.Context, bien *model.Bien) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter BienFilter) ([]model.Bien, int64, error)
	ListAvailable(ctx context.Context) ([]model.Bien, error)

	// 关联数据整体替换
	ReplacePhotos(ctx context.Context, bienID int64, photos []model.BienPhoto) error
	ReplaceMeubles(ctx context.Context, bienID int64, meubles []model.BienMeuble) error
}

// RevisionRepository 修订仓储接口
type RevisionRepository interface {
	Create(ctx context.Context, rev *model.BienRevision) error
	GetByID(ctx context.Context, id int64) (*model.BienRevision, error)
	FindPendingByBien(ctx context.Context, bienID int64) (*model.BienRevision, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	ListPending(ctx context.Context) ([]model.BienRevision, error)
}

// ==================== 过滤条件 ====================

// BienFilter 房源过滤条件
type BienFilter struct {
	ProprietaireID int64
	StatutAnnonce  string
	Occupation     string
	Page           int
	PageSize       int
}

// ==================== Bien 仓储实现 ====================

type bienRepo struct {
	db *gorm.DB
}

// NewBienRepository 创建房源仓储
func NewBienRepository(db *gorm.DB) BienRepository {
	return &bienRepo{db: db}
}

func (r *bienRepo) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Photos", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Meubles").
		Preload("TypeLogement").
		Preload("TypeTransaction").
		Preload("StatutBien").
		Preload("Pays").
		Preload("Ville")
}

func (r *bienRepo) Create(ctx context.Context, bien *model.Bien) error {
	return r.db.WithContext(ctx).Create(bien).Error
}

func (r *bienRepo) GetByID(ctx context.Context, id int64) (*model.Bien, error) {
	var bien model.Bien
	if err := r.preload(r.db.WithContext(ctx)).First(&bien, id).Error; err != nil {
		return nil, err
	}
	return &bien, nil
}

// GetForUpdate 加行锁读取（需在事务内调用；sqlite 下锁语句被忽略）
func (r *bienRepo) GetForUpdate(ctx context.Context, id int64) (*model.Bien, error) {
	var bien model.Bien
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("TypeTransaction").
		First(&bien, id).Error
	if err != nil {
		return nil, err
	}
	return &bien, nil
}

func (r *bienRepo) Update(ctx context.Context, bien *model.Bien) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(bien).Error
}

func (r *bienRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Bien{}).Where("id = ?", id).Updates(fields).Error
}

func (r *bienRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Bien{}, id).Error
}

func (r *bienRepo) List(ctx context.Context, filter BienFilter) ([]model.Bien, int64, error) {
	var biens []model.Bien
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Bien{})

	if filter.ProprietaireID > 0 {
		query = query.Where("proprietaire_id = ?", filter.ProprietaireID)
	}
	if filter.StatutAnnonce != "" {
		query = query.Where("statut_annonce = ?", filter.StatutAnnonce)
	}
	if filter.Occupation != "" {
		query = query.Where("occupation = ?", filter.Occupation)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := r.preload(query).Order("created_at DESC").Limit(filter.PageSize).Offset(offset).Find(&biens).Error
	if err != nil {
		return nil, 0, err
	}

	return biens, total, nil
}

// ListAvailable 可出租房源：出租类 + 已发布 + 空置
func (r *bienRepo) ListAvailable(ctx context.Context) ([]model.Bien, error) {
	var biens []model.Bien
	err := r.preload(r.db.WithContext(ctx)).
		Joins("JOIN type_transactions ON type_transactions.id = biens.type_transaction_id").
		Where("type_transactions.code = ?", model.TransactionLocation).
		Where("biens.statut_annonce = ? AND biens.occupation = ?", model.AnnoncePublie, model.OccupationLibre).
		Order("biens.created_at DESC").
		Find(&biens).Error
	return biens, err
}

func (r *bienRepo) ReplacePhotos(ctx context.Context, bienID int64, photos []model.BienPhoto) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("bien_id = ?", bienID).Delete(&model.BienPhoto{}).Error; err != nil {
		return err
	}
	if len(photos) == 0 {
		return nil
	}
	for i := range photos {
		photos[i].ID = 0
		photos[i].BienID = bienID
	}
	return db.Create(&photos).Error
}

func (r *bienRepo) ReplaceMeubles(ctx context.Context, bienID int64, meubles []model.BienMeuble) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("bien_id = ?", bienID).Delete(&model.BienMeuble{}).Error; err != nil {
		return err
	}
	if len(meubles) == 0 {
		return nil
	}
	for i := range meubles {
		meubles[i].ID = 0
		meubles[i].BienID = bienID
	}
	return db.Create(&meubles).Error
}

// ==================== Revision 仓储实现 ====================

type revisionRepo struct {
	db *gorm.DB
}

// NewRevisionRepository 创建修订仓储
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepo{db: db}
}

func (r *revisionRepo) Create(ctx context.Context, rev *model.BienRevision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

func (r *revisionRepo) GetByID(ctx context.Context, id int64) (*model.BienRevision, error) {
	var rev model.BienRevision
	if err := r.db.WithContext(ctx).First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *revisionRepo) FindPendingByBien(ctx context.Context, bienID int64) (*model.BienRevision, error) {
	var rev model.BienRevision
	err := r.db.WithContext(ctx).
		Where("bien_id = ? AND statut = ?", bienID, model.RevisionEnAttente).
		Order("id DESC").
		First(&rev).Error
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *revisionRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.BienRevision{}).Where("id = ?", id).Updates(fields).Error
}

func (r *revisionRepo) ListPending(ctx context.Context) ([]model.BienRevision, error) {
	var revs []model.BienRevision
	err := r.db.WithContext(ctx).
		Where("statut = ?", model.RevisionEnAttente).
		Order("created_at ASC").
		Find(&revs).Error
	return revs, err
}
