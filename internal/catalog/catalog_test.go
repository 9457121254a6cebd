package catalog

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"folio/internal/models"
	"folio/internal/slug"
)

func active(category string) models.ContentItem {
	return models.ContentItem{Category: category, State: models.ItemStateActive}
}

func hidden(category string) models.ContentItem {
	return models.ContentItem{Category: category, State: models.ItemStateHidden}
}

func slugs(cats []models.Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.Slug)
	}
	return out
}

// TestReconcileScenarios covers the documented reconciliation scenarios.
func TestReconcileScenarios(t *testing.T) {
	tests := []struct {
		name  string
		items []models.ContentItem
		cats  []models.Category
		want  []string
	}{
		{
			name:  "only referenced categories survive",
			items: []models.ContentItem{active("Math")},
			cats: []models.Category{
				{Slug: "math", Title: "Math", Importance: 5},
				{Slug: "art", Title: "Art", Importance: 9},
			},
			want: []string{"math"},
		},
		{
			name:  "slugified category matches slug",
			items: []models.ContentItem{active("Computer Science")},
			cats:  []models.Category{{Slug: "computer-science", Title: "CS", Importance: 1}},
			want:  []string{"computer-science"},
		},
		{
			name:  "hidden items never count as used",
			items: []models.ContentItem{hidden("Math")},
			cats:  []models.Category{{Slug: "math", Title: "Math"}},
			want:  []string{},
		},
		{
			name:  "no items yields nothing",
			items: nil,
			cats: []models.Category{
				{Slug: "math", Title: "Math"},
				{Slug: "art", Title: "Art"},
			},
			want: []string{},
		},
		{
			name:  "exact slug match",
			items: []models.ContentItem{active("ml")},
			cats:  []models.Category{{Slug: "ml", Title: "Machine Learning"}},
			want:  []string{"ml"},
		},
		{
			name:  "items without state count as active",
			items: []models.ContentItem{{Category: "Art"}},
			cats:  []models.Category{{Slug: "art", Title: "Art"}},
			want:  []string{"art"},
		},
		{
			name:  "registry order is kept",
			items: []models.ContentItem{active("b"), active("a"), active("c")},
			cats: []models.Category{
				{Slug: "c", Title: "C"},
				{Slug: "a", Title: "A"},
				{Slug: "b", Title: "B"},
			},
			want: []string{"c", "a", "b"},
		},
		{
			// Title comparison is case-sensitive and "fine art" slugifies to
			// "fine-art", not "fine-arts", so this descriptor does not reconcile.
			name:  "case-only title difference does not match",
			items: []models.ContentItem{active("fine art")},
			cats:  []models.Category{{Slug: "fine-arts", Title: "Fine Art"}},
			want:  []string{},
		},
		{
			name:  "case difference rescued by slug rule",
			items: []models.ContentItem{active("FINE ART")},
			cats:  []models.Category{{Slug: "fine-art", Title: "Fine Art"}},
			want:  []string{"fine-art"},
		},
		{
			name:  "unknown item categories are ignored",
			items: []models.ContentItem{active("Poetry"), active("Math")},
			cats:  []models.Category{{Slug: "math", Title: "Math"}},
			want:  []string{"math"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugs(Reconcile(tt.items, tt.cats))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Reconcile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcileDoesNotModifyInput(t *testing.T) {
	cats := []models.Category{
		{Slug: "art", Title: "Art", Importance: 1},
		{Slug: "math", Title: "Math", Importance: 2},
	}
	before := append([]models.Category(nil), cats...)

	Reconcile([]models.ContentItem{active("Math")}, cats)

	if diff := cmp.Diff(before, cats); diff != "" {
		t.Errorf("input modified (-before +after):\n%s", diff)
	}
}

// randomFixture builds a deterministic pseudo-random item list and registry
// for property tests.
func randomFixture(seed int64) ([]models.ContentItem, []models.Category) {
	r := rand.New(rand.NewSource(seed))
	names := []string{"Math", "math", "Art History", "art-history", "Computer Science", "CS", "Poetry", " Music", "music"}

	cats := make([]models.Category, 0, 8)
	for i := 0; i < 8; i++ {
		title := names[r.Intn(len(names))]
		s := slug.Generate(title)
		if r.Intn(3) == 0 {
			s = names[r.Intn(len(names))]
		}
		cats = append(cats, models.Category{
			Slug:       s,
			Title:      title,
			Importance: models.Importance(r.Intn(4)),
			Preview:    fmt.Sprintf("preview %d", i),
		})
	}

	n := r.Intn(12)
	items := make([]models.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		state := models.ItemStateActive
		if r.Intn(3) == 0 {
			state = models.ItemStateHidden
		}
		items = append(items, models.ContentItem{
			Slug:     fmt.Sprintf("item-%d", i),
			Category: names[r.Intn(len(names))],
			State:    state,
		})
	}
	return items, cats
}

// TestReconcileProperties checks the subset and witness properties over a
// range of generated inputs.
func TestReconcileProperties(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		items, cats := randomFixture(seed)
		got := Reconcile(items, cats)

		for _, d := range got {
			inRegistry := false
			for _, c := range cats {
				if c == d {
					inRegistry = true
					break
				}
			}
			if !inRegistry {
				t.Fatalf("seed %d: descriptor %+v not in registry", seed, d)
			}

			witnessed := false
			for _, it := range items {
				if it.State == models.ItemStateActive &&
					(it.Category == d.Title || it.Category == d.Slug || slug.Slugify(it.Category) == d.Slug) {
					witnessed = true
					break
				}
			}
			if !witnessed {
				t.Fatalf("seed %d: descriptor %+v has no active item", seed, d)
			}
		}

		if n := len(got) + len(Unused(items, cats)); n != len(cats) {
			t.Fatalf("seed %d: reconciled+unused = %d, want %d", seed, n, len(cats))
		}
	}
}

func TestUnused(t *testing.T) {
	items := []models.ContentItem{active("Math"), hidden("Art")}
	cats := []models.Category{
		{Slug: "math", Title: "Math"},
		{Slug: "art", Title: "Art"},
		{Slug: "music", Title: "Music"},
	}

	got := slugs(Unused(items, cats))
	if diff := cmp.Diff([]string{"art", "music"}, got); diff != "" {
		t.Errorf("Unused mismatch (-want +got):\n%s", diff)
	}
}

func TestReferenced(t *testing.T) {
	items := []models.ContentItem{active("Travel"), hidden("Food")}
	cats := []models.Category{
		{Slug: "food", Title: "Food"},
		{Slug: "travel", Title: "Travel"},
		{Slug: "music", Title: "Music"},
	}

	if diff := cmp.Diff([]bool{false, true, false}, Referenced(items, cats)); diff != "" {
		t.Errorf("Referenced mismatch (-want +got):\n%s", diff)
	}
}

func TestMatches(t *testing.T) {
	d := models.Category{Slug: "computer-science", Title: "Computer Science"}
	tests := []struct {
		category string
		want     bool
	}{
		{"Computer Science", true},
		{"computer-science", true},
		{"COMPUTER SCIENCE", true},
		{"computer   science", true},
		{"Computer\u00a0Science", true},
		{"computer science ", false},
		{"Computer-Science", true},
		{"Computer_Science", false},
		{"CompSci", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := Matches(tt.category, d); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

// TestSortByImportance verifies descending order and stability on ties.
func TestSortByImportance(t *testing.T) {
	cats := []models.Category{
		{Slug: "a", Importance: 1},
		{Slug: "b", Importance: 5},
		{Slug: "c", Importance: 1},
		{Slug: "d", Importance: 9},
		{Slug: "e", Importance: 5},
	}

	got := slugs(SortByImportance(cats))
	if diff := cmp.Diff([]string{"d", "b", "e", "a", "c"}, got); diff != "" {
		t.Errorf("SortByImportance mismatch (-want +got):\n%s", diff)
	}

	if cats[0].Slug != "a" {
		t.Error("SortByImportance modified its input")
	}
}

func TestSortByImportanceProperties(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		_, cats := randomFixture(seed)
		once := SortByImportance(cats)

		for i := 1; i < len(once); i++ {
			if once[i].Importance > once[i-1].Importance {
				t.Fatalf("seed %d: importance increases at %d: %v > %v", seed, i, once[i].Importance, once[i-1].Importance)
			}
		}

		if diff := cmp.Diff(once, SortByImportance(once)); diff != "" {
			t.Fatalf("seed %d: sort not idempotent (-once +twice):\n%s", seed, diff)
		}
	}
}

func TestSortByImportanceDecodedNonFinite(t *testing.T) {
	var cats []models.Category
	registry := `[
		{"slug": "a", "importance": 1},
		{"slug": "b", "importance": "NaN"},
		{"slug": "c", "importance": 5}
	]`
	if err := json.Unmarshal([]byte(registry), &cats); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := slugs(SortByImportance(cats))
	if diff := cmp.Diff([]string{"c", "a", "b"}, got); diff != "" {
		t.Errorf("SortByImportance mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByImportanceEmpty(t *testing.T) {
	got := SortByImportance(nil)
	if got == nil || len(got) != 0 {
		t.Errorf("SortByImportance(nil) = %#v, want empty non-nil slice", got)
	}
}

func TestSearch(t *testing.T) {
	cats := []models.Category{
		{Slug: "art-history", Title: "Art History", Preview: "Paintings and people"},
		{Slug: "mathematics", Title: "Mathematics", Preview: "Numbers", Status: "in progress"},
		{Slug: "music", Title: "Music", Preview: "Scores and STARTING points"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title substring", query: "art", want: []string{"art-history", "music"}},
		{name: "case insensitive", query: "ART HIST", want: []string{"art-history"}},
		{name: "matches preview", query: "paintings", want: []string{"art-history"}},
		{name: "matches status", query: "progress", want: []string{"mathematics"}},
		{name: "no match", query: "zoology", want: []string{}},
		{name: "empty query returns all", query: "", want: []string{"art-history", "mathematics", "music"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slugs(Search(cats, tt.query))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

// TestSearchScenario checks the documented search example.
func TestSearchScenario(t *testing.T) {
	sorted := SortByImportance([]models.Category{
		{Slug: "art-history", Title: "Art History", Importance: 3},
		{Slug: "mathematics", Title: "Mathematics", Importance: 4},
	})

	got := Search(sorted, "art")
	if len(got) != 1 || got[0].Title != "Art History" {
		t.Errorf("Search(\"art\") = %+v, want only Art History", got)
	}
}

func TestSearchEmptyQueryIsIdentity(t *testing.T) {
	cats := []models.Category{{Slug: "b", Importance: 2}, {Slug: "a", Importance: 1}}
	if diff := cmp.Diff(cats, Search(cats, "")); diff != "" {
		t.Errorf("Search with empty query changed the list (-want +got):\n%s", diff)
	}
}

func TestItemsInCategory(t *testing.T) {
	d := models.Category{Slug: "computer-science", Title: "Computer Science"}
	items := []models.ContentItem{
		{Slug: "old", Category: "Computer Science", StartDate: "2020-01-01"},
		{Slug: "hidden", Category: "Computer Science", State: models.ItemStateHidden, StartDate: "2025-01-01"},
		{Slug: "finished", Category: "computer-science", StartDate: "2019-01-01", EndDate: "2024-05-01"},
		{Slug: "undated", Category: "COMPUTER SCIENCE"},
		{Slug: "other", Category: "Math", StartDate: "2026-01-01"},
		{Slug: "new", Category: "Computer Science", StartDate: "2023-07-14"},
	}

	var got []string
	for _, it := range ItemsInCategory(items, d) {
		got = append(got, it.Slug)
	}
	if diff := cmp.Diff([]string{"finished", "new", "old", "undated"}, got); diff != "" {
		t.Errorf("ItemsInCategory mismatch (-want +got):\n%s", diff)
	}
}

func TestFindCategory(t *testing.T) {
	cats := []models.Category{{Slug: "math", Title: "Math"}, {Slug: "art", Title: "Art"}}

	if got := FindCategory(cats, "art"); got == nil || got.Title != "Art" {
		t.Errorf("FindCategory(art) = %+v, want Art", got)
	}
	if got := FindCategory(cats, "Art"); got != nil {
		t.Errorf("FindCategory(Art) = %+v, want nil (slugs are case-sensitive)", got)
	}
	if got := FindCategory(nil, "art"); got != nil {
		t.Errorf("FindCategory on empty registry = %+v, want nil", got)
	}
}

func TestFindItem(t *testing.T) {
	items := []models.ContentItem{
		{Slug: "visible", State: models.ItemStateActive},
		{Slug: "secret", State: models.ItemStateHidden},
	}

	if got := FindItem(items, "visible"); got == nil {
		t.Error("FindItem(visible) = nil, want item")
	}
	if got := FindItem(items, "secret"); got != nil {
		t.Errorf("FindItem(secret) = %+v, want nil for hidden item", got)
	}
	if got := FindItem(items, "missing"); got != nil {
		t.Errorf("FindItem(missing) = %+v, want nil", got)
	}
}
