package model

// TenderAnalysis is the structured payload the LLM is asked to produce.
// Every field is optional; the renderer checks presence before emitting
// the corresponding section. Keys match the analytical template verbatim.
type TenderAnalysis struct {
	TypeMarche       *string          `json:"type_marche"`
	Autorite         *string          `json:"autorite"`
	DateLimite       *string          `json:"date_limite"`
	Contexte         *string          `json:"contexte"`
	DocumentsRequis  []string         `json:"documents_requis"`
	AnalyseProfil    *AnalyseProfil   `json:"analyse_profil"`
	Recommendations  *Recommendations `json:"recommendations"`
	PlanDeDepot      []string         `json:"plan_de_depot"`
	ScoreOpportunite *float64         `json:"score_opportunite"`
}

// AnalyseProfil describes how well the tender fits the company profile.
type AnalyseProfil struct {
	PointsForts          []string       `json:"points_forts"`
	PointsFaibles        []string       `json:"points_faibles"`
	RessourcesAMobiliser []string       `json:"ressources_a_mobiliser"`
	Compatibilite        *Compatibilite `json:"compatibilite"`
}

// Compatibilite holds the three fit axes of the profile analysis.
type Compatibilite struct {
	Geographique *string `json:"geographique"`
	Technique    *string `json:"technique"`
	Financiere   *string `json:"financiere"`
}

// Recommendations carries the advisory free-text fields of the analysis.
type Recommendations struct {
	RenforcerDossier *string `json:"renforcer_dossier"`
	AmeliorerProfil  *string `json:"ameliorer_profil"`
	PointsAValoriser *string `json:"points_a_valoriser"`
	ErreursAEviter   *string `json:"erreurs_a_eviter"`
}
