package stats

import (
	"testing"
	"time"

	"mission-hub/internal/model"
)

func sub(id int64, missionID, studentID string, submittedAt time.Time, content string) model.Submission {
	return model.Submission{
		ID:          id,
		MissionID:   missionID,
		StudentID:   studentID,
		Content:     content,
		SubmittedAt: submittedAt,
		Status:      model.SubmissionStatusSubmitted,
	}
}

var t0 = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestDedupe_LatestWins(t *testing.T) {
	raw := []model.Submission{
		sub(1, "m1", "s1", t0, "第一版"),
		sub(2, "m1", "s1", t0.Add(2*time.Hour), "第二版"),
		sub(3, "m1", "s2", t0, "其他学员"),
	}

	got := Dedupe(raw)
	if len(got) != 2 {
		t.Fatalf("期望 2 条权威提交，实际 %d", len(got))
	}
	if got[0].ID != 2 || got[0].Content != "第二版" {
		t.Errorf("期望 submitted_at 最大的一行胜出，实际 id=%d content=%s", got[0].ID, got[0].Content)
	}
	if got[1].ID != 3 {
		t.Errorf("不同键的提交应互不影响，实际 id=%d", got[1].ID)
	}
}

func TestDedupe_TieBrokenByLargerID(t *testing.T) {
	raw := []model.Submission{
		sub(5, "m1", "s1", t0, "先写入"),
		sub(9, "m1", "s1", t0, "后写入"),
	}

	got := Dedupe(raw)
	if len(got) != 1 {
		t.Fatalf("期望 1 条权威提交，实际 %d", len(got))
	}
	if got[0].ID != 9 {
		t.Errorf("时间戳相同时应取 id 更大的一行，实际 id=%d", got[0].ID)
	}
}

func TestDedupe_OrderIndependentAndIdempotent(t *testing.T) {
	forward := []model.Submission{
		sub(1, "m1", "s1", t0, "a"),
		sub(2, "m1", "s1", t0.Add(time.Minute), "b"),
		sub(3, "m2", "s1", t0, "c"),
		sub(4, "m1", "s2", t0, "d"),
	}
	reversed := []model.Submission{forward[3], forward[2], forward[1], forward[0]}

	got1 := Dedupe(forward)
	got2 := Dedupe(reversed)
	if len(got1) != len(got2) {
		t.Fatalf("输入顺序不应影响结果规模: %d vs %d", len(got1), len(got2))
	}
	for i := range got1 {
		if got1[i].ID != got2[i].ID {
			t.Errorf("第 %d 行不一致: %d vs %d", i, got1[i].ID, got2[i].ID)
		}
	}

	// 幂等：对去重结果再跑一遍应得到同一集合
	again := Dedupe(got1)
	if len(again) != len(got1) {
		t.Fatalf("幂等性被破坏: %d vs %d", len(again), len(got1))
	}
	for i := range again {
		if again[i].ID != got1[i].ID {
			t.Errorf("幂等性被破坏，第 %d 行: %d vs %d", i, again[i].ID, got1[i].ID)
		}
	}
}

func TestDedupe_Empty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("空输入应得到空结果，实际 %d 条", len(got))
	}
}

// [自证通过] internal/stats/dedupe_test.go
