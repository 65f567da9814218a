package repository

import (
	"context"

	"gorm.io/gorm"

	"seek_immo_v1_202610/internal/model"
)

// ContratRepository 合同仓储接口
type ContratRepository interface {
	Create(ctx context.Context, contrat *model.Contrat) error
	GetByID(ctx context.Context, id int64) (*model.Contrat, error)
	GetLatestByBail(ctx context.Context, bailID int64) (*model.Contrat, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	ArchiveByBail(ctx context.Context, bailID int64) error
}

// TemplateRepository 合同模板仓储接口
type TemplateRepository interface {
	GetByTypeBail(ctx context.Context, typeBail string) (*model.ContratTemplate, error)
	Save(ctx context.Context, tpl *model.ContratTemplate) error
	List(ctx context.Context) ([]model.ContratTemplate, error)
}

// ==================== Contrat 仓储实现 ====================

type contratRepo struct {
	db *gorm.DB
}

// NewContratRepository 创建合同仓储
func NewContratRepository(db *gorm.DB) ContratRepository {
	return &contratRepo{db: db}
}

func (r *contratRepo) Create(ctx context.Context, contrat *model.Contrat) error {
	return r.db.WithContext(ctx).Create(contrat).Error
}

func (r *contratRepo) GetByID(ctx context.Context, id int64) (*model.Contrat, error) {
	var contrat model.Contrat
	if err := r.db.WithContext(ctx).First(&contrat, id).Error; err != nil {
		return nil, err
	}
	return &contrat, nil
}

// GetLatestByBail 获取租约最新的非归档合同
func (r *contratRepo) GetLatestByBail(ctx context.Context, bailID int64) (*model.Contrat, error) {
	var contrat model.Contrat
	err := r.db.WithContext(ctx).
		Where("bail_id = ? AND statut <> ?", bailID, model.ContratArchive).
		Order("id DESC").
		First(&contrat).Error
	if err != nil {
		return nil, err
	}
	return &contrat, nil
}

func (r *contratRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Contrat{}).Where("id = ?", id).Updates(fields).Error
}

// ArchiveByBail 归档租约下所有合同
func (r *contratRepo) ArchiveByBail(ctx context.Context, bailID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Contrat{}).
		Where("bail_id = ? AND statut <> ?", bailID, model.ContratArchive).
		Update("statut", model.ContratArchive).Error
}

// ==================== Template 仓储实现 ====================

type templateRepo struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓储
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) GetByTypeBail(ctx context.Context, typeBail string) (*model.ContratTemplate, error) {
	var tpl model.ContratTemplate
	if err := r.db.WithContext(ctx).Where("type_bail = ?", typeBail).First(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) Save(ctx context.Context, tpl *model.ContratTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *templateRepo) List(ctx context.Context) ([]model.ContratTemplate, error) {
	var tpls []model.ContratTemplate
	err := r.db.WithContext(ctx).Order("type_bail ASC").Find(&tpls).Error
	return tpls, err
}
