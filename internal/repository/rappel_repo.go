package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"seek_immo_v1_202610/internal/model"
)

// RappelRepository 租金提醒仓储接口
type RappelRepository interface {
	GetParametres(ctx context.Context) (*model.ParametresRappel, error)
	SaveParametres(ctx context.Context, p *model.ParametresRappel) error
	Exists(ctx context.Context, bailID int64, echeance time.Time) (bool, error)
	Create(ctx context.Context, r *model.RappelLoyer) error
}

type rappelRepo struct {
	db *gorm.DB
}

// NewRappelRepository 创建提醒仓储
func NewRappelRepository(db *gorm.DB) RappelRepository {
	return &rappelRepo{db: db}
}

// GetParametres 读取配置，不存在时返回默认值（未落库）
func (r *rappelRepo) GetParametres(ctx context.Context) (*model.ParametresRappel, error) {
	var p model.ParametresRappel
	err := r.db.WithContext(ctx).Order("id ASC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.ParametresRappel{Actif: true, JoursAvant: 3, Canal: model.CanalEmail}, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveParametres 单行配置：已存在则覆盖
func (r *rappelRepo) SaveParametres(ctx context.Context, p *model.ParametresRappel) error {
	db := r.db.WithContext(ctx)
	if p.ID == 0 {
		var existing model.ParametresRappel
		err := db.Order("id ASC").First(&existing).Error
		if err == nil {
			p.ID = existing.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	// Select("*") 保证 false / 0 也被写入
	if p.ID == 0 {
		return db.Select("*").Omit("ID").Create(p).Error
	}
	return db.Model(p).Select("*").Updates(p).Error
}

func (r *rappelRepo) Exists(ctx context.Context, bailID int64, echeance time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RappelLoyer{}).
		Where("bail_id = ? AND echeance = ?", bailID, echeance).
		Count(&count).Error
	return count > 0, err
}

func (r *rappelRepo) Create(ctx context.Context, rappel *model.RappelLoyer) error {
	return r.db.WithContext(ctx).Create(rappel).Error
}
