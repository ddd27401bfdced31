package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/kifouliw-hash/MYMIR-sub000/model"
)

func strPtr(s string) *string { return &s }

const sampleAnalysisJSON = `{
	"type_marche": "Travaux",
	"autorite": "Mairie de Lyon",
	"date_limite": "2026-10-15",
	"contexte": "Rénovation énergétique d'un groupe scolaire.",
	"documents_requis": ["DC1", "DC2", "Mémoire technique"],
	"analyse_profil": {
		"points_forts": ["Implantation locale"],
		"points_faibles": ["Références limitées"],
		"ressources_a_mobiliser": ["Bureau d'études thermiques"],
		"compatibilite": {"geographique": "Forte", "technique": "Moyenne", "financiere": "Bonne"}
	},
	"recommendations": {
		"renforcer_dossier": "Ajouter des références chantier comparables.",
		"ameliorer_profil": "Obtenir la qualification RGE.",
		"points_a_valoriser": "Proximité du site.",
		"erreurs_a_eviter": "Ne pas négliger le mémoire technique."
	},
	"plan_de_depot": ["Lire le règlement", "Constituer le dossier", "Déposer avant la date limite"],
	"score_opportunite": 72
}`

func sampleReportRequest(analysisJSON string) *ReportRequest {
	return &ReportRequest{
		Title:        "Rénovation groupe scolaire",
		Score:        72,
		AnalysisJSON: analysisJSON,
		GeneratedAt:  time.Date(2026, 8, 12, 14, 30, 0, 0, time.UTC),
		Profile: &model.CompanyProfile{
			CompanyName: strPtr("BTP Rhône SARL"),
			Sector:      strPtr("Construction"),
			Country:     strPtr("France"),
		},
	}
}

func TestRenderFullReport(t *testing.T) {
	svc := NewReportService()

	data, err := svc.Render(sampleReportRequest(sampleAnalysisJSON))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected PDF output")
	}

	doc := svc.build(sampleReportRequest(sampleAnalysisJSON))
	if got := doc.PageCount(); got != 4 {
		t.Errorf("Expected 4 pages (cover, details, profile, recommendations), got %d", got)
	}
}

func TestRenderEmptyPayload(t *testing.T) {
	svc := NewReportService()

	req := &ReportRequest{
		Title:        "",
		Score:        0,
		AnalysisJSON: "",
		GeneratedAt:  time.Now(),
	}

	data, err := svc.Render(req)
	if err != nil {
		t.Fatalf("Expected empty payload to render, got error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Expected PDF output")
	}

	// Cover and details always render; conditional pages are absent
	if got := svc.build(req).PageCount(); got != 2 {
		t.Errorf("Expected 2 pages for empty payload, got %d", got)
	}
}

func TestRenderConditionalPages(t *testing.T) {
	svc := NewReportService()

	tests := []struct {
		name     string
		payload  string
		expected int
	}{
		{"no optional sections", `{"type_marche": "Travaux"}`, 2},
		{"profile section only", `{"analyse_profil": {"points_forts": ["a"]}}`, 3},
		{"recommendations only", `{"recommendations": {"renforcer_dossier": "b"}}`, 3},
		{"both sections", `{"analyse_profil": {}, "recommendations": {}}`, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleReportRequest(tt.payload)
			if got := svc.build(req).PageCount(); got != tt.expected {
				t.Errorf("Expected %d pages, got %d", tt.expected, got)
			}
		})
	}
}

func TestRenderFencedPayloadEquivalence(t *testing.T) {
	svc := NewReportService()

	fenced := "```json\n" + sampleAnalysisJSON + "\n```"
	pinned := time.Date(2026, 8, 12, 15, 0, 0, 0, time.UTC)

	// Pin the volatile document metadata so the outputs can be compared
	// byte for byte.
	render := func(payload string) []byte {
		doc := svc.build(sampleReportRequest(payload))
		doc.SetCreationDate(pinned)
		doc.SetModificationDate(pinned)

		var buf bytes.Buffer
		if err := doc.Output(&buf); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return buf.Bytes()
	}

	plain := render(sampleAnalysisJSON)
	wrapped := render(fenced)

	if len(plain) == 0 {
		t.Fatal("Expected non-empty documents")
	}
	if !bytes.Equal(plain, wrapped) {
		t.Error("Expected identical documents for fenced and plain payloads")
	}
}

func TestScoreBand(t *testing.T) {
	tests := []struct {
		score int
		label string
	}{
		{0, "Risque élevé"},
		{39, "Risque élevé"},
		{40, "Opportunité moyenne"},
		{69, "Opportunité moyenne"},
		{70, "Bonne opportunité"},
		{100, "Bonne opportunité"},
	}

	for _, tt := range tests {
		_, _, _, label := scoreBand(tt.score)
		if label != tt.label {
			t.Errorf("Score %d: expected band %q, got %q", tt.score, tt.label, label)
		}
	}
}

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, ta *model.TenderAnalysis)
	}{
		{
			name: "plain json",
			raw:  `{"type_marche": "Services"}`,
			check: func(t *testing.T, ta *model.TenderAnalysis) {
				if ta.TypeMarche == nil || *ta.TypeMarche != "Services" {
					t.Error("Expected type_marche to parse")
				}
			},
		},
		{
			name: "fenced json with language tag",
			raw:  "```json\n{\"autorite\": \"Région\"}\n```",
			check: func(t *testing.T, ta *model.TenderAnalysis) {
				if ta.Autorite == nil || *ta.Autorite != "Région" {
					t.Error("Expected fenced payload to parse")
				}
			},
		},
		{
			name: "fenced json without language tag",
			raw:  "```\n{\"autorite\": \"Département\"}\n```",
			check: func(t *testing.T, ta *model.TenderAnalysis) {
				if ta.Autorite == nil || *ta.Autorite != "Département" {
					t.Error("Expected fenced payload to parse")
				}
			},
		},
		{
			name: "invalid json falls back to empty",
			raw:  "the model returned prose instead of JSON",
			check: func(t *testing.T, ta *model.TenderAnalysis) {
				if ta.TypeMarche != nil || ta.AnalyseProfil != nil || ta.Recommendations != nil {
					t.Error("Expected empty payload on parse failure")
				}
			},
		},
		{
			name: "empty string falls back to empty",
			raw:  "",
			check: func(t *testing.T, ta *model.TenderAnalysis) {
				if ta.TypeMarche != nil {
					t.Error("Expected empty payload")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := ParseAnalysis(tt.raw)
			if ta == nil {
				t.Fatal("Expected non-nil payload")
			}
			tt.check(t, ta)
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"simple", "Rapport 2026", "Rapport-2026"},
		{"special characters", "École & Travaux/2025!", "École-Travaux2025"},
		{"collapses whitespace", "a   b\t c", "a-b-c"},
		{"keeps hyphens", "lot-3 voirie", "lot-3-voirie"},
		{"empty falls back", "!!!", "rapport"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitle(tt.title); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitizeTitleCap(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "titre "
	}
	got := SanitizeTitle(long)
	if n := len([]rune(got)); n > 100 {
		t.Errorf("Expected at most 100 characters, got %d", n)
	}
}

func TestReportFilename(t *testing.T) {
	if got := ReportFilename("École & Travaux/2025!"); got != "École-Travaux2025.pdf" {
		t.Errorf("Unexpected filename: %q", got)
	}
}
