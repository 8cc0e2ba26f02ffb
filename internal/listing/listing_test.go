package listing

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSearchTextLowercasesTitleAndDescription(t *testing.T) {
	t.Parallel()

	l := &Listing{Title: "Go Developer", Description: "Docker AND Kubernetes"}
	want := "go developer docker and kubernetes"
	if got := l.SearchText(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSortByScoreIsStable(t *testing.T) {
	t.Parallel()

	a := &Listing{ID: "a"}
	b := &Listing{ID: "b"}
	c := &Listing{ID: "c"}
	a.SetMatchScore(0.6)
	b.SetMatchScore(0.8)
	c.SetMatchScore(0.6)

	ls := &Listings{Items: []*Listing{a, b, c}}
	ls.SortByScore()

	got := []string{ls.Items[0].ID, ls.Items[1].ID, ls.Items[2].ID}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	ls := &Listings{Items: []*Listing{{ID: "1"}, {ID: "2"}}}
	if ls.FindByID("2") == nil {
		t.Fatalf("expected to find listing 2")
	}
	if ls.FindByID("3") != nil {
		t.Fatalf("did not expect to find listing 3")
	}
}

func TestSummarizeBuckets(t *testing.T) {
	t.Parallel()

	scores := []float64{0.9, 0.8, 0.7, 0.5, 0.2}
	ls := &Listings{}
	for i, score := range scores {
		l := &Listing{ID: string(rune('a' + i))}
		l.SetMatchScore(score)
		ls.Items = append(ls.Items, l)
	}

	summary := ls.Summarize()
	if summary.Total != 5 {
		t.Fatalf("expected total 5, got %d", summary.Total)
	}
	if summary.Excellent != 2 || summary.Good != 1 || summary.Average != 1 || summary.Weak != 1 {
		t.Fatalf("unexpected distribution: %+v", summary)
	}
	if math.Abs(summary.AverageScore-0.62) > 1e-9 {
		t.Fatalf("expected average 0.62, got %v", summary.AverageScore)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	summary := (&Listings{}).Summarize()
	if summary.Total != 0 || summary.AverageScore != 0 {
		t.Fatalf("unexpected summary for empty set: %+v", summary)
	}
}

func TestMatchScoreSerialization(t *testing.T) {
	t.Parallel()

	l := &Listing{ID: "1", Title: "Go Developer"}

	plain, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(plain) != `{"id":"1","titre":"Go Developer"}` {
		t.Fatalf("unscored listing must not carry match_score: %s", plain)
	}

	l.SetMatchScore(0.75)
	scored, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(scored) != `{"id":"1","titre":"Go Developer","match_score":0.75}` {
		t.Fatalf("unexpected scored payload: %s", scored)
	}
}

func TestToFileAndFromFileRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "matches.json")

	l := &Listing{ID: "1", Title: "Go Developer", Source: "indeed"}
	l.SetMatchScore(0.8)
	ls := &Listings{Items: []*Listing{l}}

	if err := ls.ToFile(path); err != nil {
		t.Fatalf("to file: %v", err)
	}

	loaded, err := FromFile(path)
	if err != nil {
		t.Fatalf("from file: %v", err)
	}
	if loaded.Len() != 1 {
		t.Fatalf("expected 1 listing, got %d", loaded.Len())
	}
	got := loaded.Items[0]
	if got.ID != "1" || got.Source != "indeed" || got.MatchScore == nil || *got.MatchScore != 0.8 {
		t.Fatalf("unexpected listing after round trip: %+v", got)
	}
}

func TestReportBySource(t *testing.T) {
	t.Parallel()

	scored := &Listing{ID: "1", Title: "Go Developer", Company: "Acme", Source: "indeed"}
	scored.SetMatchScore(0.91)

	ls := &Listings{Items: []*Listing{
		scored,
		{ID: "2", Title: "Data Engineer", Company: "Globex"},
	}}

	report := ls.ReportBySource()
	entries, ok := report["indeed"]
	if !ok || len(entries) != 1 {
		t.Fatalf("expected one indeed entry, got %+v", report)
	}
	if entries[0]["match_score"] != "0.910" {
		t.Fatalf("expected match_score 0.910, got %q", entries[0]["match_score"])
	}

	unknown := report["unknown"]
	if len(unknown) != 1 {
		t.Fatalf("expected listings without source under unknown, got %+v", report)
	}
	if _, ok := unknown[0]["match_score"]; ok {
		t.Fatalf("did not expect match_score for an unscored listing")
	}
}

func TestRawFromFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "raw.json")
	payload := `[{"title": "Go Developer", "company": "Acme", "id": 42}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := RawFromFile(path)
	if err != nil {
		t.Fatalf("raw from file: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raw))
	}
	if raw[0]["title"] != "Go Developer" {
		t.Fatalf("unexpected record: %+v", raw[0])
	}
}
