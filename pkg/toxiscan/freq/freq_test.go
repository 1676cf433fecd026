package freq

import (
	"math"
	"reflect"
	"testing"
)

func TestBuildPairs(t *testing.T) {
	res := BuildPairs([]string{"b", "a", "b", "c", "a", "b"}, 0)

	want := []Pair{{"b", 3}, {"a", 2}, {"c", 1}}
	if !reflect.DeepEqual(res.Pairs, want) {
		t.Errorf("Pairs = %v, want %v", res.Pairs, want)
	}
	if res.Truncated {
		t.Error("unexpected truncation")
	}
}

func TestBuildPairsEmpty(t *testing.T) {
	res := BuildPairs(nil, 10)
	if len(res.Pairs) != 0 {
		t.Errorf("expected no pairs, got %v", res.Pairs)
	}
}

func TestBuildPairsCapStopsScan(t *testing.T) {
	// "c" is new once the table is full, so the trailing "a" is never counted.
	res := BuildPairs([]string{"a", "b", "a", "c", "a"}, 2)

	want := []Pair{{"a", 2}, {"b", 1}}
	if !reflect.DeepEqual(res.Pairs, want) {
		t.Errorf("Pairs = %v, want %v", res.Pairs, want)
	}
	if !res.Truncated {
		t.Error("expected Truncated")
	}
}

func TestBuildPairsCountsSumToInput(t *testing.T) {
	tokens := []string{"x", "y", "x", "z", "z", "z"}
	res := BuildPairs(tokens, 0)

	total := 0
	for _, p := range res.Pairs {
		total += p.Count
	}
	if total != len(tokens) {
		t.Errorf("sum of counts = %d, want %d", total, len(tokens))
	}
}

func TestFilter(t *testing.T) {
	pairs := []Pair{{"a", 1}, {"b", 5}, {"c", 2}}
	got := Filter(pairs, func(p Pair) bool { return p.Count > 1 })

	want := []Pair{{"b", 5}, {"c", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Filter = %v, want %v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	pairs := []Pair{{"idiot", 3}, {"dog", 1}, {"stupid", 1}, {"cat", 5}}
	toxic := map[string]bool{"idiot": true, "stupid": true}

	s := Summarize(pairs, func(w string) bool { return toxic[w] })

	if s.ToxicTokens != 4 || s.NonToxicTokens != 6 {
		t.Errorf("tokens = %d/%d, want 4/6", s.ToxicTokens, s.NonToxicTokens)
	}
	if s.ToxicTypes != 2 || s.NonToxicTypes != 2 {
		t.Errorf("types = %d/%d, want 2/2", s.ToxicTypes, s.NonToxicTypes)
	}
	if math.Abs(s.ToxicRatio-40) > 1e-9 {
		t.Errorf("ToxicRatio = %v, want 40", s.ToxicRatio)
	}
}
