package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"mission-hub/internal/model"
	pkgerrors "mission-hub/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("uid-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	m.users["email:"+user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	m.users["email:"+user.Email] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for key, u := range m.users {
		if len(key) > 6 && key[:6] == "email:" {
			continue
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListRosterByCohort(_ context.Context, cohortID string) ([]model.User, error) {
	var result []model.User
	for key, u := range m.users {
		if len(key) > 6 && key[:6] == "email:" {
			continue
		}
		if u.Role != model.RoleStudent || !u.IsApproved {
			continue
		}
		if u.CohortID == nil || *u.CohortID != cohortID {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) CountRosterByCohort(ctx context.Context, cohortID string) (int64, error) {
	roster, _ := m.ListRosterByCohort(ctx, cohortID)
	return int64(len(roster)), nil
}

// ── Mock CohortRepository ──

type mockCohortRepo struct {
	cohorts map[string]*model.Cohort
}

func newMockCohortRepo() *mockCohortRepo {
	return &mockCohortRepo{cohorts: make(map[string]*model.Cohort)}
}

func (m *mockCohortRepo) Create(_ context.Context, cohort *model.Cohort) error {
	if cohort.CohortID == "" {
		cohort.CohortID = "cohort-" + cohort.Name
	}
	m.cohorts[cohort.CohortID] = cohort
	return nil
}

func (m *mockCohortRepo) GetByID(_ context.Context, id string) (*model.Cohort, error) {
	if c, ok := m.cohorts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCohortRepo) List(_ context.Context) ([]model.Cohort, error) {
	var result []model.Cohort
	for _, c := range m.cohorts {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCohortRepo) Update(_ context.Context, cohort *model.Cohort) error {
	m.cohorts[cohort.CohortID] = cohort
	return nil
}

func (m *mockCohortRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.cohorts, id)
	return nil
}

// ── Mock MissionRepository ──

type mockMissionRepo struct {
	missions map[string]*model.Mission
}

func newMockMissionRepo() *mockMissionRepo {
	return &mockMissionRepo{missions: make(map[string]*model.Mission)}
}

func (m *mockMissionRepo) Create(_ context.Context, mission *model.Mission) error {
	if mission.MissionID == "" {
		mission.MissionID = fmt.Sprintf("mission-%d", len(m.missions)+1)
	}
	if mission.Version == 0 {
		mission.Version = 1
	}
	m.missions[mission.MissionID] = mission
	return nil
}

func (m *mockMissionRepo) GetByID(_ context.Context, id string) (*model.Mission, error) {
	if ms, ok := m.missions[id]; ok {
		return ms, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMissionRepo) ListByCohort(_ context.Context, cohortID string) ([]model.Mission, error) {
	var result []model.Mission
	for _, ms := range m.missions {
		if ms.AppliesTo(cohortID) {
			result = append(result, *ms)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Week != result[j].Week {
			return result[i].Week < result[j].Week
		}
		return result[i].MissionID < result[j].MissionID
	})
	return result, nil
}

func (m *mockMissionRepo) ExtendDue(_ context.Context, id string, version int, dueAt time.Time, updatedBy string) error {
	ms, ok := m.missions[id]
	if !ok || ms.Version != version {
		return pkgerrors.ErrOptimisticLock
	}
	ms.DueAt = dueAt
	ms.UpdatedBy = &updatedBy
	ms.Version++
	return nil
}

func (m *mockMissionRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.missions, id)
	return nil
}

// ── Mock SubmissionRepository ──
//
// subs 保存全部原始行（含测试直接播种的历史重复行）；
// Upsert 按唯一键语义工作，模拟迁移 0002 之后的表状态

type mockSubmissionRepo struct {
	subs   []*model.Submission
	nextID int64
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{nextID: 1}
}

// seed 直接插入一条原始行（绕过 Upsert 语义，用于模拟历史重复数据）
func (m *mockSubmissionRepo) seed(sub model.Submission) {
	if sub.ID == 0 {
		sub.ID = m.nextID
	}
	if sub.ID >= m.nextID {
		m.nextID = sub.ID + 1
	}
	m.subs = append(m.subs, &sub)
}

func (m *mockSubmissionRepo) Upsert(_ context.Context, sub *model.Submission) (bool, error) {
	for _, existing := range m.subs {
		if existing.MissionID == sub.MissionID && existing.StudentID == sub.StudentID {
			if sub.SubmittedAt.Before(existing.SubmittedAt) {
				return false, nil
			}
			existing.Content = sub.Content
			existing.SubmittedAt = sub.SubmittedAt
			existing.Status = sub.Status
			sub.ID = existing.ID
			return true, nil
		}
	}
	sub.ID = m.nextID
	m.nextID++
	cp := *sub
	m.subs = append(m.subs, &cp)
	return true, nil
}

func (m *mockSubmissionRepo) GetAuthoritative(_ context.Context, missionID, studentID string) (*model.Submission, error) {
	var best *model.Submission
	for _, s := range m.subs {
		if s.MissionID != missionID || s.StudentID != studentID {
			continue
		}
		if best == nil ||
			s.SubmittedAt.After(best.SubmittedAt) ||
			(s.SubmittedAt.Equal(best.SubmittedAt) && s.ID > best.ID) {
			best = s
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *best
	return &cp, nil
}

func (m *mockSubmissionRepo) ListByMissionIDs(_ context.Context, missionIDs []string) ([]model.Submission, error) {
	inSet := make(map[string]bool, len(missionIDs))
	for _, id := range missionIDs {
		inSet[id] = true
	}
	result := []model.Submission{}
	for _, s := range m.subs {
		if inSet[s.MissionID] {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockSubmissionRepo) CountByMission(_ context.Context, missionID string) (int64, error) {
	var total int64
	for _, s := range m.subs {
		if s.MissionID == missionID {
			total++
		}
	}
	return total, nil
}

// ── Mock InviteCodeRepository ──

type mockInviteCodeRepo struct {
	codes map[string]*model.InviteCode
}

func newMockInviteCodeRepo() *mockInviteCodeRepo {
	return &mockInviteCodeRepo{codes: make(map[string]*model.InviteCode)}
}

func (m *mockInviteCodeRepo) Create(_ context.Context, code *model.InviteCode) error {
	if code.InviteCodeID == "" {
		code.InviteCodeID = "ic-" + code.Code
	}
	m.codes[code.Code] = code
	return nil
}

func (m *mockInviteCodeRepo) GetByCode(_ context.Context, code string) (*model.InviteCode, error) {
	if c, ok := m.codes[code]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInviteCodeRepo) Use(_ context.Context, code string, userID string) (*model.InviteCode, error) {
	c, ok := m.codes[code]
	if !ok || c.UsedAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	now := time.Now()
	c.UsedAt = &now
	c.UsedBy = &userID
	return c, nil
}

// ── Mock StatsCache ──

type mockStatsCache struct {
	store       map[string][]byte
	invalidated []string
}

func newMockStatsCache() *mockStatsCache {
	return &mockStatsCache{store: make(map[string][]byte)}
}

func (m *mockStatsCache) key(cohortID, view string) string {
	return cohortID + ":" + view
}

func (m *mockStatsCache) GetStats(_ context.Context, cohortID, view string, dest interface{}) (bool, error) {
	data, ok := m.store[m.key(cohortID, view)]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *mockStatsCache) SetStats(_ context.Context, cohortID, view string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[m.key(cohortID, view)] = data
	return nil
}

func (m *mockStatsCache) InvalidateStats(_ context.Context, cohortID string) error {
	for key := range m.store {
		if len(key) > len(cohortID) && key[:len(cohortID)+1] == cohortID+":" {
			delete(m.store, key)
		}
	}
	m.invalidated = append(m.invalidated, cohortID)
	return nil
}

// ── Mock BlobStore ──

type mockBlobStore struct {
	deleted []string
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{}
}

func (m *mockBlobStore) Delete(_ context.Context, ref string) error {
	m.deleted = append(m.deleted, ref)
	return nil
}

// [自证通过] internal/service/mock_repos_test.go
