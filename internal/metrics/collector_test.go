package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestCollector_Record(t *testing.T) {
	c := NewCollector()

	c.Record(10*time.Millisecond, true)
	c.Record(20*time.Millisecond, true)
	c.Record(30*time.Millisecond, false)

	s := c.Snapshot()

	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	if s.Failed != 1 {
		t.Errorf("Failed = %d, want 1", s.Failed)
	}
	want := 1.0 / 3.0
	if s.ErrorRate < want-0.001 || s.ErrorRate > want+0.001 {
		t.Errorf("ErrorRate = %f, want ~%f", s.ErrorRate, want)
	}
	if s.Latency.Count != 3 {
		t.Errorf("Latency.Count = %d, want 3", s.Latency.Count)
	}

	// HDR histograms are accurate to 3 significant figures
	if s.Latency.Min < 9*time.Millisecond || s.Latency.Min > 11*time.Millisecond {
		t.Errorf("Latency.Min = %v, want ~10ms", s.Latency.Min)
	}
	if s.Latency.Max < 29*time.Millisecond || s.Latency.Max > 31*time.Millisecond {
		t.Errorf("Latency.Max = %v, want ~30ms", s.Latency.Max)
	}
	if s.Latency.P50 < 19*time.Millisecond || s.Latency.P50 > 21*time.Millisecond {
		t.Errorf("Latency.P50 = %v, want ~20ms", s.Latency.P50)
	}
}

func TestCollector_EmptySnapshot(t *testing.T) {
	s := NewCollector().Snapshot()

	if s.Total != 0 {
		t.Errorf("Total = %d, want 0", s.Total)
	}
	if s.ErrorRate != 0 {
		t.Errorf("ErrorRate = %f, want 0", s.ErrorRate)
	}
	if s.Latency.Count != 0 {
		t.Errorf("Latency.Count = %d, want 0", s.Latency.Count)
	}
}

func TestCollector_ClampsOutOfRangeValues(t *testing.T) {
	c := NewCollector()

	c.Record(0, true)           // below the histogram floor
	c.Record(2*time.Hour, true) // above the ceiling

	s := c.Snapshot()
	if s.Latency.Count != 2 {
		t.Fatalf("Latency.Count = %d, want 2", s.Latency.Count)
	}
	if s.Latency.Max > time.Hour+time.Minute {
		t.Errorf("Latency.Max = %v, want clamped to ~1h", s.Latency.Max)
	}
}

func TestCollector_ConcurrentRecord(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(5*time.Millisecond, true)
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Total; got != 1000 {
		t.Errorf("Total = %d, want 1000", got)
	}
}

func TestCollector_Reset(t *testing.T) {
	c := NewCollector()
	c.Record(10*time.Millisecond, false)
	c.Reset()

	s := c.Snapshot()
	if s.Total != 0 || s.Failed != 0 || s.Latency.Count != 0 {
		t.Errorf("after Reset: Total=%d Failed=%d Count=%d, want all zero",
			s.Total, s.Failed, s.Latency.Count)
	}
}
