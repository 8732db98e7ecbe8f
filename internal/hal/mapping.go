// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hal

import (
	"sort"
	"strings"
)

// domainLabels maps HAL domain codes to display labels. The archive uses
// hierarchical codes; level 0 entries are broad disciplines and level 1
// entries are sub-disciplines.
var domainLabels = map[string]string{
	"0.shs":  "Sciences humaines et sociales",
	"0.sdv":  "Sciences du vivant",
	"0.phys": "Physique",
	"0.info": "Informatique",
	"0.spi":  "Sciences de l'ingénieur",
	"0.sde":  "Sciences de l'environnement",
	"0.chim": "Chimie",
	"0.sdu":  "Sciences de l'Univers",
	"0.math": "Mathématiques",
	"0.stat": "Statistiques",

	"1.shs.droit":     "Droit",
	"1.shs.hist":      "Histoire",
	"1.shs.litt":      "Littérature",
	"1.shs.archeo":    "Archéologie",
	"1.shs.socio":     "Sociologie",
	"1.shs.eco":       "Économie",
	"1.shs.geo":       "Géographie",
	"1.shs.langue":    "Langues",
	"1.shs.gestion":   "Gestion",
	"1.shs.edu":       "Sciences de l'éducation",
	"1.shs.scipo":     "Sciences politiques",
	"1.shs.art":       "Arts",
	"1.shs.phil":      "Philosophie",
	"1.shs.anthro-se": "Anthropologie",
	"1.shs.museo":     "Muséologie",
	"1.shs.psy":       "Psychologie",
	"1.shs.archi":     "Architecture",
	"1.shs.class":     "Études classiques",
	"1.shs.musiq":     "Musicologie",
	"1.shs.relig":     "Religions",

	"1.phys.phys": "Physique générale",
	"1.phys.meca": "Mécanique",
	"1.phys.cond": "Physique de la matière condensée",
	"1.phys.astr": "Astronomie",
	"1.phys.hist": "Histoire de la physique",
	"1.phys.nexp": "Physique nucléaire expérimentale",
	"1.phys.hexp": "Physique des hautes énergies expérimentale",

	"1.math.math-ap": "Mathématiques appliquées",
	"1.math.math-pr": "Mathématiques pures",
	"1.math.math-st": "Statistiques",
	"1.math.math-oc": "Optimisation et contrôle",

	"1.info.info-ai": "Intelligence artificielle",
	"1.info.info-mo": "Modélisation et simulation",
	"1.info.info-ts": "Théorie des systèmes",
	"1.info.info-ni": "Réseaux informatiques",

	"1.spi.signal": "Traitement du signal",
	"1.spi.mat":    "Matériaux",
	"1.spi.gproc":  "Génie des procédés",
	"1.spi.auto":   "Automatique",
	"1.spi.elec":   "Électronique",
	"1.spi.opti":   "Optique",
	"1.spi.nano":   "Nanotechnologies",
	"1.spi.tron":   "Microélectronique",

	"1.sde.be":  "Biodiversité et écologie",
	"1.sde.es":  "Environnement et société",
	"1.sde.ie":  "Ingénierie écologique",
	"1.sde.mcg": "Modélisation en géosciences",

	"1.sdu.stu":   "Sciences de la Terre",
	"1.sdu.ocean": "Océanographie",
	"1.sdu.astr":  "Astrophysique",

	"1.chim.mate": "Matériaux en chimie",
	"1.chim.orga": "Chimie organique",
	"1.chim.cata": "Catalyse",
	"1.chim.theo": "Chimie théorique",
	"1.chim.anal": "Chimie analytique",
	"1.chim.poly": "Polymères",

	"1.sdv.bbm":  "Biologie cellulaire et moléculaire",
	"1.sdv.neu":  "Neurosciences",
	"1.sdv.spee": "Écologie des populations et des écosystèmes",
	"1.sdv.bc":   "Biologie structurale",
	"1.sdv.aen":  "Agronomie et environnement",
	"1.sdv.gen":  "Génétique",
	"1.sdv.sp":   "Santé publique",
	"1.sdv.can":  "Cancer",
	"1.sdv.ib":   "Biologie intégrative",
	"1.sdv.imm":  "Immunologie",
	"1.sdv.bid":  "Bioinformatique",
	"1.sdv.mp":   "Médecine et santé mentale",
	"1.sdv.sa":   "Sciences animales",
}

// docTypeLabels maps HAL document type codes to display labels.
var docTypeLabels = map[string]string{
	"ART":             "Article de journal",
	"COMM":            "Communication dans une conférence",
	"POSTER":          "Affiche",
	"COUV":            "Chapitre d'ouvrage",
	"OUV":             "Ouvrage",
	"THESE":           "Thèse",
	"THESE_DOCTORANT": "Thèse (Doctorant)",
	"THESE_HDR":       "Thèse (HDR)",
	"REPORT":          "Rapport",
	"UNDEFINED":       "Non défini",
	"SYNTHESE":        "Synthèse",
	"REPORT_FPROJ":    "Rapport de projet final",
	"REPORT_GLICE":    "Rapport général de licence",
	"ETABTHESE":       "Thèse d'établissement",
	"REPACT":          "Rapport d'activité",
	"MEMLIC":          "Mémoire de licence",
	"REPORT_RFOINT":   "Rapport de recherche internationale",
	"REPORT_COOR":     "Rapport de coordination",
	"SOFTWARE":        "Logiciel",
	"PRESCONF":        "Présentation en conférence",
	"OTHER":           "Autre",
}

// hdrCodes lists every code the archive has used for habilitation
// theses. Thesis-type filtering expands to these.
var hdrCodes = []string{
	"HDR", "HABDIR", "HABIL", "HABILITATION", "HDR_SOUTENANCE", "HDR_DEFENSE", "MEMHDR",
}

// MapDomain returns the display label for a domain code, or a marker for
// unknown codes.
func MapDomain(code string) string {
	if label, ok := domainLabels[code]; ok {
		return label
	}
	return "Domaine non défini"
}

// MapDocType returns the display label for a document type code.
func MapDocType(code string) string {
	if code == "" {
		return "Type non défini"
	}
	if label, ok := docTypeLabels[code]; ok {
		return label
	}
	return "Type non défini (" + code + ")"
}

// DomainCode looks up the code for a display label, case-insensitively.
func DomainCode(label string) (string, bool) {
	return reverseLookup(domainLabels, label)
}

// DocTypeCode looks up the code for a display label, case-insensitively.
func DocTypeCode(label string) (string, bool) {
	return reverseLookup(docTypeLabels, label)
}

func reverseLookup(m map[string]string, label string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(label))
	for code, l := range m {
		if strings.ToLower(l) == want {
			return code, true
		}
	}
	return "", false
}

// LinkedDocTypes expands user-facing type codes into the archive codes a
// query must cover. THESE covers doctoral and habilitation records,
// THESE_DOCTORANT restricts to doctoral ones, and THESE_HDR selects
// habilitations under every historical code the archive has used.
func LinkedDocTypes(codes []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(code string) {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	for _, code := range codes {
		switch code {
		case "THESE", "HDR":
			add("THESE")
			for _, c := range hdrCodes {
				add(c)
			}
		case "THESE_DOCTORANT":
			add("THESE")
		case "THESE_HDR":
			for _, c := range hdrCodes {
				add(c)
			}
		default:
			add(code)
		}
	}
	return out
}

// Domains returns all domain codes with labels, sorted by code.
func Domains() [][2]string {
	return sortedPairs(domainLabels)
}

// DocTypes returns all document type codes with labels, sorted by code.
func DocTypes() [][2]string {
	return sortedPairs(docTypeLabels)
}

func sortedPairs(m map[string]string) [][2]string {
	out := make([][2]string, 0, len(m))
	for code, label := range m {
		out = append(out, [2]string{code, label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
