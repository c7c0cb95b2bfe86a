package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScan_Table(t *testing.T) {
	lx := Default()
	tests := []struct {
		name      string
		text      string
		wantWords bool
		wantScore bool
	}{
		{"empty", "", false, false},
		{"neutral", "the weather today is mild and pleasant", false, false},
		{"emotional", "that was an amazing result", true, true},
		{"numbers", "we grew 300% in 6 months", true, true},
		{"revelation phrase", "it turns out nobody checked", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := lx.Scan(tt.text)
			if tt.wantWords != (len(m.Keywords) > 0) {
				t.Fatalf("keywords = %v, want present=%v", m.Keywords, tt.wantWords)
			}
			if tt.wantScore != (m.Score > 0) {
				t.Fatalf("score = %v, want positive=%v", m.Score, tt.wantScore)
			}
			if m.Score > 10 {
				t.Fatalf("score %v exceeds cap", m.Score)
			}
		})
	}
}

func TestScan_CountsCategoryOnce(t *testing.T) {
	lx := Default()
	single := lx.Scan("amazing")
	double := lx.Scan("amazing and incredible")
	if double.Score != single.Score {
		t.Fatalf("second word in same category changed score: %v vs %v", double.Score, single.Score)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		lx   Lexicon
	}{
		{"empty", Lexicon{}},
		{"no name", Lexicon{Categories: []Category{{Words: []string{"x"}, Weight: 1}}}},
		{"zero weight", Lexicon{Categories: []Category{{Name: "a", Words: []string{"x"}}}}},
		{"no content", Lexicon{Categories: []Category{{Name: "a", Weight: 1}}}},
		{"bad pattern", Lexicon{Categories: []Category{{Name: "a", Pattern: "(", Weight: 1}}}},
		{"duplicate", Lexicon{Categories: []Category{
			{Name: "a", Words: []string{"x"}, Weight: 1},
			{Name: "a", Words: []string{"y"}, Weight: 1},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.lx.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	doc := `categories:
  - name: custom
    words: ["banana"]
    weight: 0.5
  - name: digits
    pattern: '\d+'
    weight: 0.7
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	lx, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m := lx.Scan("banana number 42")
	if len(m.Keywords) != 2 {
		t.Fatalf("expected both categories to hit, got %v", m.Keywords)
	}
	if m.Score <= 0 || m.Score > 10 {
		t.Fatalf("score out of range: %v", m.Score)
	}
}
