package service

// Prompt is the composed request payload for the text-generation service:
// a system instruction plus a single user message.
type Prompt struct {
	System string
	User   string
}

const systemInstruction = "Tu es un expert en marchés publics français. " +
	"Tu analyses des dossiers de consultation des entreprises (DCE) pour des PME. " +
	"Tu réponds uniquement avec un objet JSON valide, sans texte autour."

const analysisTemplate = `Analyse le document d'appel d'offres ci-dessous et produis un objet JSON avec exactement ces clés :

1. Identification du marché :
   - "type_marche" : nature du marché (travaux, fournitures, services)
   - "autorite" : autorité ou organisme émetteur
2. Données administratives :
   - "date_limite" : date limite de remise des offres
   - "contexte" : paragraphe résumant le contexte et l'objet du marché
3. Documents requis :
   - "documents_requis" : liste des pièces à fournir
4. Critères d'évaluation : intègre-les dans "contexte" s'ils sont précisés
5. Analyse des risques et adéquation au profil PME :
   - "analyse_profil" : objet avec "points_forts" (liste), "points_faibles" (liste),
     "ressources_a_mobiliser" (liste) et "compatibilite" (objet avec
     "geographique", "technique", "financiere")
6. Faisabilité PME et recommandations :
   - "recommendations" : objet avec "renforcer_dossier", "ameliorer_profil",
     "points_a_valoriser", "erreurs_a_eviter"
   - "plan_de_depot" : liste ordonnée des étapes de dépôt de l'offre
7. Score d'opportunité :
   - "score_opportunite" : note de 0 à 100 sur l'intérêt de ce marché pour une PME

Document à analyser :

`

// ComposePrompt builds the analysis prompt for the given extracted text.
// Pure and deterministic; the text is appended verbatim, already bounded
// by the extractor.
func ComposePrompt(text string) Prompt {
	return Prompt{
		System: systemInstruction,
		User:   analysisTemplate + text,
	}
}
