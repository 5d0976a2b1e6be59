package parsing

import "strings"

// Track identifiers. A track is a candidate's declared SAP specialization.
const (
	TrackFI    = "FI"
	TrackCO    = "CO"
	TrackMM    = "MM"
	TrackSD    = "SD"
	TrackPP    = "PP"
	TrackHCM   = "HCM"
	TrackABAP  = "ABAP"
	TrackBasis = "BASIS"
	TrackBW    = "BW"
)

// trackSkills lists the canonical skills belonging to each track. The first
// entries are the track's core skills.
var trackSkills = map[string][]string{
	TrackFI:    {"SAP FI", "SAP FICO", "S/4HANA", "General Ledger", "Accounts Payable", "Accounts Receivable", "Asset Accounting"},
	TrackCO:    {"SAP CO", "SAP FICO", "S/4HANA", "Cost Center Accounting", "Profitability Analysis", "Product Costing"},
	TrackMM:    {"SAP MM", "S/4HANA", "Procurement", "Inventory Management", "Purchasing", "Invoice Verification"},
	TrackSD:    {"SAP SD", "S/4HANA", "Order To Cash", "Pricing", "Billing", "Sales Order Management"},
	TrackPP:    {"SAP PP", "S/4HANA", "MRP", "Production Planning", "Shop Floor Control"},
	TrackHCM:   {"SAP HCM", "SuccessFactors", "Payroll", "Personnel Administration", "Organizational Management"},
	TrackABAP:  {"ABAP", "ABAP OO", "CDS Views", "OData", "Fiori", "SAPUI5", "BAPI"},
	TrackBasis: {"SAP Basis", "SAP HANA", "System Administration", "Transport Management", "Solution Manager"},
	TrackBW:    {"SAP BW", "BW/4HANA", "SAP Analytics Cloud", "BEx", "SAP HANA"},
}

// trackAliases maps free-form track labels to track identifiers
var trackAliases = map[string]string{
	"finance":                TrackFI,
	"financial accounting":   TrackFI,
	"sap fi":                 TrackFI,
	"fico":                   TrackFI,
	"controlling":            TrackCO,
	"sap co":                 TrackCO,
	"materials management":   TrackMM,
	"sap mm":                 TrackMM,
	"sales":                  TrackSD,
	"sales and distribution": TrackSD,
	"sap sd":                 TrackSD,
	"production planning":    TrackPP,
	"sap pp":                 TrackPP,
	"hr":                     TrackHCM,
	"human capital":          TrackHCM,
	"sap hcm":                TrackHCM,
	"development":            TrackABAP,
	"technical":              TrackABAP,
	"sap abap":               TrackABAP,
	"administration":         TrackBasis,
	"sap basis":              TrackBasis,
	"analytics":              TrackBW,
	"sap bw":                 TrackBW,
}

// NormalizeTrack maps a track label to its identifier. Unknown labels are upper-cased and returned as-is.
func NormalizeTrack(track string) string {
	trimmed := strings.Join(strings.Fields(track), " ")
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if id, ok := trackAliases[lower]; ok {
		return id
	}
	return strings.ToUpper(trimmed)
}

// TrackSkills returns the canonical skills for a track, or nil for an unknown track.
func TrackSkills(track string) []string {
	skills := trackSkills[NormalizeTrack(track)]
	if skills == nil {
		return nil
	}
	out := make([]string, len(skills))
	copy(out, skills)
	return out
}

// CoreTrackSkills returns up to n leading skills for a track.
func CoreTrackSkills(track string, n int) []string {
	skills := TrackSkills(track)
	if len(skills) > n {
		skills = skills[:n]
	}
	return skills
}

// IsTrackSkill reports whether a skill belongs to the given track's taxonomy.
// Skills matching the track identifier itself ("SAP FI" for FI) also count.
func IsTrackSkill(track, skill string) bool {
	id := NormalizeTrack(track)
	key := SkillKey(skill)
	if key == "" || id == "" {
		return false
	}
	for _, s := range trackSkills[id] {
		if SkillKey(s) == key {
			return true
		}
	}
	return key == strings.ToLower(id) || key == "sap "+strings.ToLower(id)
}
