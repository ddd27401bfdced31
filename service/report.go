package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"

	"github.com/kifouliw-hash/MYMIR-sub000/model"
)

// ErrRender indicates the report document could not be constructed.
var ErrRender = errors.New("report rendering failed")

const (
	reportBrand  = "MyMír"
	reportFooter = "Confidentiel - MyMír"
	defaultTitle = "Appel d'offres"
)

// ReportRequest carries everything the renderer needs for one report.
type ReportRequest struct {
	Title        string
	Score        int
	AnalysisJSON string
	Profile      *model.CompanyProfile
	GeneratedAt  time.Time
}

// ReportService renders a stored analysis into a paginated PDF report.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// Render produces the full report as PDF bytes. Construction failures are
// reported before any byte leaves this function; the caller only starts
// transmitting once the whole document exists.
func (s *ReportService) Render(req *ReportRequest) ([]byte, error) {
	doc := s.build(req)
	if doc.Err() {
		return nil, fmt.Errorf("%w: %v", ErrRender, doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// build assembles the page sequence. Separate from Render so tests can
// inspect the page count without serializing.
func (s *ReportService) build(req *ReportRequest) *fpdf.Fpdf {
	analysis := ParseAnalysis(req.AnalysisJSON)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(reportBrand+" - "+reportTitle(req.Title), true)
	pdf.SetAutoPageBreak(true, 20)

	b := &reportBuilder{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(95, 10, b.tr(reportFooter), "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	b.coverPage(req)
	b.detailsPage(analysis)
	if analysis.AnalyseProfil != nil {
		b.profilePage(analysis.AnalyseProfil)
	}
	if analysis.Recommendations != nil {
		b.recommendationsPage(analysis.Recommendations, analysis.PlanDeDepot)
	}

	return pdf
}

type reportBuilder struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (b *reportBuilder) coverPage(req *ReportRequest) {
	pdf := b.pdf
	pdf.AddPage()

	pdf.Ln(25)
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(30, 60, 114)
	pdf.CellFormat(0, 14, b.tr(reportBrand), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 8, b.tr("Rapport d'analyse d'appel d'offres"), "", 1, "C", false, 0, "")

	pdf.Ln(14)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(40, 40, 40)
	pdf.MultiCell(0, 9, b.tr(reportTitle(req.Title)), "", "C", false)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 8, b.tr(req.GeneratedAt.Format("Généré le 02/01/2006 à 15h04")), "", 1, "C", false, 0, "")

	pdf.Ln(10)
	r, g, bl, label := scoreBand(req.Score)
	pdf.SetFillColor(r, g, bl)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 14, b.tr(fmt.Sprintf("Score d'opportunité : %d/100 - %s", req.Score, label)), "", 1, "C", true, 0, "")

	if p := req.Profile; p != nil {
		pdf.Ln(14)
		b.heading("Profil de l'entreprise")
		b.field("Entreprise", p.CompanyName)
		b.field("Secteur", p.Sector)
		b.field("Effectif", p.Headcount)
		b.field("Chiffre d'affaires", p.Revenue)
		b.field("Pays", p.Country)
	}
}

func (b *reportBuilder) detailsPage(a *model.TenderAnalysis) {
	b.pdf.AddPage()
	b.heading("Informations du marché")

	b.field("Type de marché", a.TypeMarche)
	b.field("Autorité émettrice", a.Autorite)
	b.field("Date limite de soumission", a.DateLimite)

	if a.Contexte != nil && *a.Contexte != "" {
		b.subheading("Contexte")
		b.paragraph(*a.Contexte, "L")
	}

	if len(a.DocumentsRequis) > 0 {
		b.subheading("Documents requis")
		b.bullets(a.DocumentsRequis)
	}
}

func (b *reportBuilder) profilePage(p *model.AnalyseProfil) {
	b.pdf.AddPage()
	b.heading("Adéquation avec votre profil")

	if len(p.PointsForts) > 0 {
		b.subheading("Points forts")
		b.bullets(p.PointsForts)
	}
	if len(p.PointsFaibles) > 0 {
		b.subheading("Points faibles")
		b.bullets(p.PointsFaibles)
	}
	if len(p.RessourcesAMobiliser) > 0 {
		b.subheading("Ressources à mobiliser")
		b.bullets(p.RessourcesAMobiliser)
	}

	if c := p.Compatibilite; c != nil {
		b.subheading("Compatibilité")
		b.field("Géographique", c.Geographique)
		b.field("Technique", c.Technique)
		b.field("Financière", c.Financiere)
	}
}

func (b *reportBuilder) recommendationsPage(r *model.Recommendations, plan []string) {
	b.pdf.AddPage()
	b.heading("Recommandations")

	b.recommendation("Renforcer le dossier", r.RenforcerDossier)
	b.recommendation("Améliorer le profil", r.AmeliorerProfil)
	b.recommendation("Points à valoriser", r.PointsAValoriser)
	b.recommendation("Erreurs à éviter", r.ErreursAEviter)

	if len(plan) > 0 {
		b.subheading("Plan de dépôt")
		pdf := b.pdf
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(60, 60, 60)
		for i, step := range plan {
			pdf.MultiCell(0, 6, b.tr(fmt.Sprintf("%d. %s", i+1, step)), "", "L", false)
			pdf.Ln(1)
		}
	}
}

func (b *reportBuilder) recommendation(label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	b.subheading(label)
	b.paragraph(*value, "J")
}

func (b *reportBuilder) heading(text string) {
	pdf := b.pdf
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(30, 60, 114)
	pdf.CellFormat(0, 10, b.tr(text), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(30, 60, 114)
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+60, pdf.GetY())
	pdf.Ln(6)
}

func (b *reportBuilder) subheading(text string) {
	pdf := b.pdf
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(40, 40, 40)
	pdf.CellFormat(0, 8, b.tr(text), "", 1, "L", false, 0, "")
}

// field writes a "label : value" line; a nil or empty value emits nothing.
func (b *reportBuilder) field(label string, value *string) {
	if value == nil || *value == "" {
		return
	}
	pdf := b.pdf
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(48, 7, b.tr(label+" :"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 7, b.tr(*value), "", "L", false)
}

func (b *reportBuilder) paragraph(text, align string) {
	pdf := b.pdf
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(60, 60, 60)
	pdf.MultiCell(0, 6, b.tr(text), "", align, false)
	pdf.Ln(2)
}

func (b *reportBuilder) bullets(items []string) {
	pdf := b.pdf
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(60, 60, 60)
	for _, item := range items {
		pdf.MultiCell(0, 6, b.tr("• "+item), "", "L", false)
		pdf.Ln(1)
	}
}

// scoreBand maps a 0-100 opportunity score to its banner color and label.
// Bands: below 40 risky, 40 to 69 medium, 70 and above good.
func scoreBand(score int) (r, g, b int, label string) {
	switch {
	case score < 40:
		return 192, 57, 43, "Risque élevé"
	case score < 70:
		return 230, 126, 34, "Opportunité moyenne"
	default:
		return 39, 174, 96, "Bonne opportunité"
	}
}

func reportTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return defaultTitle
	}
	return title
}

// ParseAnalysis decodes the structured payload produced by the analysis
// stage. Markdown code fences around the JSON are stripped first. Any
// parse failure falls back to an empty payload; every renderer branch
// checks presence, so the report still comes out.
func ParseAnalysis(raw string) *model.TenderAnalysis {
	var ta model.TenderAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &ta); err != nil {
		return &model.TenderAnalysis{}
	}
	return &ta
}

// stripFences removes a surrounding Markdown code fence, including an
// optional language tag on the opening line.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	t = strings.TrimSpace(t)
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

// SanitizeTitle turns a report title into a safe download filename stem:
// only letters, digits and hyphens survive, whitespace runs become single
// hyphens, and the result is capped at 100 characters.
func SanitizeTitle(title string) string {
	var sb strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '-' {
			sb.WriteRune(r)
		}
	}

	name := strings.Join(strings.Fields(sb.String()), "-")
	if runes := []rune(name); len(runes) > 100 {
		name = string(runes[:100])
	}
	if name == "" {
		name = "rapport"
	}
	return name
}

// ReportFilename returns the suggested download name for a report.
func ReportFilename(title string) string {
	return SanitizeTitle(title) + ".pdf"
}
