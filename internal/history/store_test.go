package history

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/zhouyitao000/productideaauto/internal/model"
)

func makeBatch(hour string) model.Batch {
	return model.Batch{
		Timestamp:     hour[:14] + "30:00",
		TimestampHour: hour,
		Results:       []model.TopicResult{},
	}
}

func TestUpdateSameHourReplaces(t *testing.T) {
	store := NewStore(t.TempDir())

	first := makeBatch("2026-08-29 10:00")
	first.Results = []model.TopicResult{{Topic: model.Topic{Rank: 1, Title: "旧话题"}}}
	store.Update(model.PlatformWeibo, first)

	second := makeBatch("2026-08-29 10:00")
	second.Results = []model.TopicResult{{Topic: model.Topic{Rank: 1, Title: "新话题"}}}
	got := store.Update(model.PlatformWeibo, second)

	if len(got) != 1 {
		t.Fatalf("history length = %d, want 1 (same-hour update must replace)", len(got))
	}
	if got[0].Results[0].Topic.Title != "新话题" {
		t.Errorf("position 0 = %q, want replaced batch", got[0].Results[0].Topic.Title)
	}
}

func TestUpdateNewHourPrepends(t *testing.T) {
	store := NewStore(t.TempDir())

	store.Update(model.PlatformWeibo, makeBatch("2026-08-29 10:00"))
	got := store.Update(model.PlatformWeibo, makeBatch("2026-08-29 11:00"))

	if len(got) != 2 {
		t.Fatalf("history length = %d, want 2", len(got))
	}
	if got[0].TimestampHour != "2026-08-29 11:00" {
		t.Errorf("position 0 = %q, want most recent hour first", got[0].TimestampHour)
	}
	if got[1].TimestampHour != "2026-08-29 10:00" {
		t.Errorf("position 1 = %q, want older batch shifted down", got[1].TimestampHour)
	}
}

func TestUpdateEvictsOldestBeyondCap(t *testing.T) {
	store := NewStore(t.TempDir())

	var got []model.Batch
	for i := 0; i < MaxBatches+6; i++ {
		hour := fmt.Sprintf("2026-08-%02d %02d:00", 1+i/24, i%24)
		got = store.Update(model.PlatformDouyin, makeBatch(hour))
	}

	if len(got) != MaxBatches {
		t.Fatalf("history length = %d, want %d", len(got), MaxBatches)
	}
	// 留下的必须是最近的 24 条
	if got[0].TimestampHour != "2026-08-02 05:00" {
		t.Errorf("newest = %q, want 2026-08-02 05:00", got[0].TimestampHour)
	}
	if got[MaxBatches-1].TimestampHour != "2026-08-01 06:00" {
		t.Errorf("oldest kept = %q, want 2026-08-01 06:00", got[MaxBatches-1].TimestampHour)
	}
}

func TestPlatformsEvictIndependently(t *testing.T) {
	store := NewStore(t.TempDir())

	store.Update(model.PlatformWeibo, makeBatch("2026-08-29 10:00"))
	got := store.Update(model.PlatformDouyin, makeBatch("2026-08-29 11:00"))

	if len(got) != 1 {
		t.Errorf("douyin history = %d, want 1", len(got))
	}
	if n := len(store.Snapshot(model.PlatformWeibo)); n != 1 {
		t.Errorf("weibo history = %d, want 1", n)
	}
}

func TestLoadMissingAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	// 缺失文件按空历史处理
	store := NewStore(dir)
	if n := len(store.Snapshot(model.PlatformWeibo)); n != 0 {
		t.Errorf("missing file history = %d, want 0", n)
	}

	// 损坏文件同样按空历史处理，不报错
	if err := os.WriteFile(filepath.Join(dir, "history_data.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store = NewStore(dir)
	if n := len(store.Snapshot(model.PlatformWeibo)); n != 0 {
		t.Errorf("corrupt file history = %d, want 0", n)
	}
}

func TestUpdatePersistsAndReloads(t *testing.T) {
	dir := t.TempDir()

	store := NewStore(dir)
	store.Update(model.PlatformWeibo, makeBatch("2026-08-29 10:00"))

	reloaded := NewStore(dir)
	got := reloaded.Snapshot(model.PlatformWeibo)
	if len(got) != 1 || got[0].TimestampHour != "2026-08-29 10:00" {
		t.Errorf("reloaded history = %+v, want the persisted batch", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Update(model.PlatformWeibo, makeBatch("2026-08-29 10:00"))

	snap := store.Snapshot(model.PlatformWeibo)
	snap[0].TimestampHour = "tampered"

	if store.Snapshot(model.PlatformWeibo)[0].TimestampHour != "2026-08-29 10:00" {
		t.Error("mutating a snapshot must not affect the store")
	}
}
