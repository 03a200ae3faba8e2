package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCollectorRecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpAIClassify, 100*time.Millisecond)
	c.RecordTiming(OpAIClassify, 300*time.Millisecond)

	snap := c.Snapshot()
	if snap.AIClassify == nil {
		t.Fatal("expected ai_classify snapshot")
	}
	if snap.AIClassify.Count != 2 {
		t.Errorf("count = %d, want 2", snap.AIClassify.Count)
	}
	if snap.AIClassify.MinTimeMs != 100 {
		t.Errorf("min = %d, want 100", snap.AIClassify.MinTimeMs)
	}
	if snap.AIClassify.MaxTimeMs != 300 {
		t.Errorf("max = %d, want 300", snap.AIClassify.MaxTimeMs)
	}
	if snap.AIClassify.AvgTimeMs != 200 {
		t.Errorf("avg = %v, want 200", snap.AIClassify.AvgTimeMs)
	}
}

func TestCollectorEmptyOpsOmitted(t *testing.T) {
	c := NewCollector()
	c.RecordTiming(OpRowProcess, time.Millisecond)

	snap := c.Snapshot()
	if snap.RowProcess == nil {
		t.Error("recorded op missing from snapshot")
	}
	if snap.AIDescribe != nil || snap.DBQuery != nil {
		t.Error("unrecorded ops should be nil in snapshot")
	}
}

func TestCollectorTime(t *testing.T) {
	c := NewCollector()
	c.Time(OpDBQuery, func() { time.Sleep(10 * time.Millisecond) })

	snap := c.Snapshot()
	if snap.DBQuery == nil || snap.DBQuery.Count != 1 {
		t.Fatalf("expected one db_query sample: %+v", snap.DBQuery)
	}
	if snap.DBQuery.TotalTimeMs < 5 {
		t.Errorf("timing too small: %d", snap.DBQuery.TotalTimeMs)
	}
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpRowProcess, time.Millisecond)
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	if snap.RowProcess.Count != 1000 {
		t.Errorf("count = %d, want 1000", snap.RowProcess.Count)
	}
}
