package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestJobMetricsRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewJobMetrics(reg)

	m.ObserveDuration("settlement", 250*time.Millisecond)
	m.IncSuccess("settlement")
	m.IncFailure("settlement")
	m.AddSettled(3)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	success, ok := byName["job_success"]
	if !ok {
		t.Fatal("job_success not registered")
	}
	if got := success.GetMetric()[0].GetCounter().GetValue(); got != 1 {
		t.Fatalf("expected 1 success, got %v", got)
	}

	settled, ok := byName["orders_settled_total"]
	if !ok {
		t.Fatal("orders_settled_total not registered")
	}
	if got := settled.GetMetric()[0].GetCounter().GetValue(); got != 3 {
		t.Fatalf("expected 3 settled, got %v", got)
	}

	if _, ok := byName["job_duration_seconds"]; !ok {
		t.Fatal("job_duration_seconds not registered")
	}
}

func TestJobMetricsNilSafe(t *testing.T) {
	var m *JobMetrics
	m.ObserveDuration("settlement", time.Second)
	m.IncSuccess("settlement")
	m.IncFailure("settlement")
	m.AddSettled(1)

	empty := NewJobMetrics(nil)
	empty.IncSuccess("settlement")
	empty.AddSettled(1)
}
