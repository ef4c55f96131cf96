package domain

import (
	"errors"
	"testing"
)

func TestParseMetric_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want Metric
	}{
		{"L2", MetricL2},
		{"l2", MetricL2},
		{"IP", MetricIP},
		{"ip", MetricIP},
		{"COSINE", MetricCosine},
		{"cosine", MetricCosine},
		{"Cosine", MetricCosine},
	}
	for _, tc := range tests {
		got, err := ParseMetric(tc.in)
		if err != nil {
			t.Errorf("ParseMetric(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseMetric(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseMetric_Unknown(t *testing.T) {
	for _, in := range []string{"COSINEX", "euclidean", "", "L3"} {
		_, err := ParseMetric(in)
		if err == nil {
			t.Errorf("ParseMetric(%q): expected error", in)
			continue
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseMetric(%q): expected ErrInvalidArgument, got %v", in, err)
		}
	}
}

func TestMetricEqual_CaseInsensitive(t *testing.T) {
	if !MetricCosine.Equal(Metric("cosine")) {
		t.Error("expected COSINE == cosine")
	}
	if MetricL2.Equal(MetricIP) {
		t.Error("expected L2 != IP")
	}
}

func TestParseIndexType_FallsBackToIVFFlat(t *testing.T) {
	got, ok := ParseIndexType("ANNOY")
	if ok {
		t.Error("expected ok=false for unknown index type")
	}
	if got != IndexIVFFlat {
		t.Errorf("expected IVF_FLAT fallback, got %q", got)
	}
}

func TestParseIndexType_Known(t *testing.T) {
	for _, in := range []string{"IVF_FLAT", "hnsw", "ivf_sq8", "FLAT"} {
		if _, ok := ParseIndexType(in); !ok {
			t.Errorf("ParseIndexType(%q): expected ok", in)
		}
	}
}

func TestDefaultIndexParams(t *testing.T) {
	if got := DefaultIndexParams(IndexIVFFlat)["nlist"]; got != 1024 {
		t.Errorf("IVF_FLAT nlist = %v, want 1024", got)
	}
	if got := DefaultIndexParams(IndexIVFSQ8)["nlist"]; got != 1024 {
		t.Errorf("IVF_SQ8 nlist = %v, want 1024", got)
	}
	hnsw := DefaultIndexParams(IndexHNSW)
	if hnsw["M"] != 16 || hnsw["efConstruction"] != 500 {
		t.Errorf("HNSW params = %v, want M=16 efConstruction=500", hnsw)
	}
	if got := DefaultIndexParams(IndexFlat); len(got) != 0 {
		t.Errorf("FLAT params = %v, want empty", got)
	}
}
