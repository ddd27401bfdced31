package model

import (
	"encoding/json"
	"testing"
)

func TestTenderAnalysisOptionalFields(t *testing.T) {
	payload := `{
		"type_marche": "Travaux",
		"documents_requis": ["DC1", "DC2"],
		"analyse_profil": {
			"points_forts": ["implantation locale"],
			"compatibilite": {"geographique": "forte"}
		},
		"score_opportunite": 72
	}`

	var ta TenderAnalysis
	if err := json.Unmarshal([]byte(payload), &ta); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if ta.TypeMarche == nil || *ta.TypeMarche != "Travaux" {
		t.Error("Expected type_marche to be set")
	}
	if ta.Autorite != nil {
		t.Error("Expected absent autorite to stay nil")
	}
	if len(ta.DocumentsRequis) != 2 {
		t.Errorf("Expected 2 required documents, got %d", len(ta.DocumentsRequis))
	}
	if ta.AnalyseProfil == nil {
		t.Fatal("Expected analyse_profil to be set")
	}
	if ta.AnalyseProfil.Compatibilite == nil || ta.AnalyseProfil.Compatibilite.Geographique == nil {
		t.Error("Expected geographic compatibility to be set")
	}
	if ta.AnalyseProfil.Compatibilite.Technique != nil {
		t.Error("Expected absent technical compatibility to stay nil")
	}
	if ta.Recommendations != nil {
		t.Error("Expected absent recommendations to stay nil")
	}
	if ta.ScoreOpportunite == nil || *ta.ScoreOpportunite != 72 {
		t.Error("Expected score_opportunite 72")
	}
}

func TestAnalysisStatusConstants(t *testing.T) {
	if StatusCompleted != "completed" || StatusFailed != "failed" {
		t.Error("Unexpected status constant values")
	}
}
