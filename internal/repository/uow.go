package repository

import (
	"context"

	"gorm.io/gorm"
)

// SeekUnitOfWork 房源 / 租约工作单元（事务）
type SeekUnitOfWork struct {
	db         *gorm.DB
	Biens      BienRepository
	Revisions  RevisionRepository
	Baux       BailRepository
	Locataires LocataireRepository
	Contrats   ContratRepository
	Templates  TemplateRepository
}

// NewSeekUnitOfWork 创建工作单元
func NewSeekUnitOfWork(db *gorm.DB) *SeekUnitOfWork {
	return &SeekUnitOfWork{
		db:         db,
		Biens:      NewBienRepository(db),
		Revisions:  NewRevisionRepository(db),
		Baux:       NewBailRepository(db),
		Locataires: NewLocataireRepository(db),
		Contrats:   NewContratRepository(db),
		Templates:  NewTemplateRepository(db),
	}
}

// Transaction 执行事务
func (u *SeekUnitOfWork) Transaction(ctx context.Context, fn func(uow *SeekUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSeekUnitOfWork(tx))
	})
}
