// Package parsing validates and normalizes candidate records and match criteria at the input boundary.
package parsing

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"fi":                 "SAP FI",
	"sap fi":             "SAP FI",
	"sap-fi":             "SAP FI",
	"fico":               "SAP FICO",
	"sap fico":           "SAP FICO",
	"sap fi/co":          "SAP FICO",
	"co":                 "SAP CO",
	"sap co":             "SAP CO",
	"mm":                 "SAP MM",
	"sap mm":             "SAP MM",
	"sd":                 "SAP SD",
	"sap sd":             "SAP SD",
	"pp":                 "SAP PP",
	"sap pp":             "SAP PP",
	"hcm":                "SAP HCM",
	"sap hcm":            "SAP HCM",
	"sap hr":             "SAP HCM",
	"bw":                 "SAP BW",
	"sap bw":             "SAP BW",
	"bw4hana":            "BW/4HANA",
	"bw/4hana":           "BW/4HANA",
	"basis":              "SAP Basis",
	"sap basis":          "SAP Basis",
	"abap":               "ABAP",
	"sap abap":           "ABAP",
	"abap oo":            "ABAP OO",
	"s4hana":             "S/4HANA",
	"s/4hana":            "S/4HANA",
	"s/4 hana":           "S/4HANA",
	"sap s/4hana":        "S/4HANA",
	"hana":               "SAP HANA",
	"sap hana":           "SAP HANA",
	"fiori":              "Fiori",
	"sap fiori":          "Fiori",
	"ui5":                "SAPUI5",
	"sapui5":             "SAPUI5",
	"cds":                "CDS Views",
	"cds views":          "CDS Views",
	"odata":              "OData",
	"sac":                "SAP Analytics Cloud",
	"successfactors":     "SuccessFactors",
	"sap successfactors": "SuccessFactors",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	if skillName == "" {
		return ""
	}

	// Trim and collapse inner whitespace
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// Mixed case is taken as intentional
	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	// All lowercase single word: capitalize first letter
	if normalized == lower && !strings.Contains(normalized, " ") {
		return upperFirst(normalized)
	}

	return normalized
}

// SkillKey returns the comparison key for a skill name. Two skills match when their keys are equal.
func SkillKey(skillName string) string {
	return strings.ToLower(NormalizeSkillName(skillName))
}

// NormalizeLanguageName returns a language name with a capitalized first letter ("german" -> "German").
func NormalizeLanguageName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	switch strings.ToLower(name) {
	case "deutsch", "de":
		return "German"
	case "englisch", "en":
		return "English"
	}
	return upperFirst(strings.ToLower(name))
}

// upperFirst upper-cases the first rune of s
func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// IsAll reports whether a criterion value is the non-restrictive sentinel ("", "all" or "any").
func IsAll(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all", "any":
		return true
	default:
		return false
	}
}
