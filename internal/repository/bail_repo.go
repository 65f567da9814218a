package repository

import (
	"context"

	"gorm.io/gorm"

	"seek_immo_v1_202610/internal/model"
)

// ==================== 仓储接口 ====================

// BailRepository 租约仓储接口
type BailRepository interface {
	Create(ctx context.Context, bail *model.Bail) error
	GetByID(ctx context.Context, id int64) (*model.Bail, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter BailFilter) ([]model.Bail, int64, error)
	CountActiveByBien(ctx context.Context, bienID int64) (int64, error)
	GetActiveByBien(ctx context.Context, bienID int64) (*model.Bail, error)
	CountActiveByLocataire(ctx context.Context, locataireID int64) (int64, error)

	// 提醒任务相关
	FindActiveWithPaymentDay(ctx context.Context) ([]model.Bail, error)
}

// LocataireRepository 租客仓储接口
type LocataireRepository interface {
	Create(ctx context.Context, loc *model.Locataire) error
	GetByID(ctx context.Context, id int64) (*model.Locataire, error)
	List(ctx context.Context, page, pageSize int) ([]model.Locataire, int64, error)
	Delete(ctx context.Context, id int64) error
}

// BailFilter 租约过滤条件
type BailFilter struct {
	BienID      int64
	LocataireID int64
	Statut      string
	Page        int
	PageSize    int
}

// ==================== Bail 仓储实现 ====================

type bailRepo struct {
	db *gorm.DB
}

// NewBailRepository 创建租约仓储
func NewBailRepository(db *gorm.DB) BailRepository {
	return &bailRepo{db: db}
}

func (r *bailRepo) Create(ctx context.Context, bail *model.Bail) error {
	return r.db.WithContext(ctx).Omit("Bien", "Locataire").Create(bail).Error
}

func (r *bailRepo) GetByID(ctx context.Context, id int64) (*model.Bail, error) {
	var bail model.Bail
	err := r.db.WithContext(ctx).
		Preload("Bien").
		Preload("Bien.TypeTransaction").
		Preload("Locataire").
		First(&bail, id).Error
	if err != nil {
		return nil, err
	}
	return &bail, nil
}

func (r *bailRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Bail{}).Where("id = ?", id).Updates(fields).Error
}

func (r *bailRepo) List(ctx context.Context, filter BailFilter) ([]model.Bail, int64, error) {
	var baux []model.Bail
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Bail{})
	if filter.BienID > 0 {
		query = query.Where("bien_id = ?", filter.BienID)
	}
	if filter.LocataireID > 0 {
		query = query.Where("locataire_id = ?", filter.LocataireID)
	}
	if filter.Statut != "" {
		query = query.Where("statut = ?", filter.Statut)
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
	err := query.Preload("Locataire").
		Order("created_at DESC").
		Limit(filter.PageSize).Offset(offset).
		Find(&baux).Error
	if err != nil {
		return nil, 0, err
	}
	return baux, total, nil
}

func (r *bailRepo) CountActiveByBien(ctx context.Context, bienID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bail{}).
		Where("bien_id = ? AND statut = ?", bienID, model.BailActif).
		Count(&count).Error
	return count, err
}

func (r *bailRepo) GetActiveByBien(ctx context.Context, bienID int64) (*model.Bail, error) {
	var bail model.Bail
	err := r.db.WithContext(ctx).
		Preload("Locataire").
		Where("bien_id = ? AND statut = ?", bienID, model.BailActif).
		First(&bail).Error
	if err != nil {
		return nil, err
	}
	return &bail, nil
}

func (r *bailRepo) CountActiveByLocataire(ctx context.Context, locataireID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bail{}).
		Where("locataire_id = ? AND statut = ?", locataireID, model.BailActif).
		Count(&count).Error
	return count, err
}

// FindActiveWithPaymentDay 查找设置了付款截止日的生效租约
func (r *bailRepo) FindActiveWithPaymentDay(ctx context.Context) ([]model.Bail, error) {
	var baux []model.Bail
	err := r.db.WithContext(ctx).
		Preload("Locataire").
		Where("statut = ? AND jour_limite_paiement IS NOT NULL", model.BailActif).
		Find(&baux).Error
	return baux, err
}

// ==================== Locataire 仓储实现 ====================

type locataireRepo struct {
	db *gorm.DB
}

// NewLocataireRepository 创建租客仓储
func NewLocataireRepository(db *gorm.DB) LocataireRepository {
	return &locataireRepo{db: db}
}

func (r *locataireRepo) Create(ctx context.Context, loc *model.Locataire) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *locataireRepo) GetByID(ctx context.Context, id int64) (*model.Locataire, error) {
	var loc model.Locataire
	if err := r.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locataireRepo) List(ctx context.Context, page, pageSize int) ([]model.Locataire, int64, error) {
	var locs []model.Locataire
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Locataire{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	err := query.Order("nom ASC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&locs).Error
	return locs, total, err
}

func (r *locataireRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Locataire{}, id).Error
}
