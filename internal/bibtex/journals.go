package bibtex

import "strings"

// journalAbbreviations maps full journal names (lowercased) to their
// conventional abbreviations. Lookup is exact and case-insensitive; no
// algorithmic abbreviation is attempted, so unmatched names pass through
// unchanged.
var journalAbbreviations = map[string]string{
	"journal of the mechanics and physics of solids":           "J. Mech. Phys. Solids",
	"proceedings of the london mathematical society":           "Proc. Lond. Math. Soc.",
	"proceedings of the national academy of sciences":          "Proc. Natl. Acad. Sci.",
	"journal of the american chemical society":                 "J. Am. Chem. Soc.",
	"physical review letters":                                  "Phys. Rev. Lett.",
	"physical review b":                                        "Phys. Rev. B",
	"physical review e":                                        "Phys. Rev. E",
	"journal of applied physics":                               "J. Appl. Phys.",
	"applied physics letters":                                  "Appl. Phys. Lett.",
	"journal of fluid mechanics":                               "J. Fluid Mech.",
	"journal of computational physics":                         "J. Comput. Phys.",
	"international journal of solids and structures":           "Int. J. Solids Struct.",
	"international journal for numerical methods in engineering": "Int. J. Numer. Methods Eng.",
	"computer methods in applied mechanics and engineering":    "Comput. Methods Appl. Mech. Eng.",
	"acta materialia":                                          "Acta Mater.",
	"acta metallurgica":                                        "Acta Metall.",
	"journal of molecular biology":                             "J. Mol. Biol.",
	"nucleic acids research":                                   "Nucleic Acids Res.",
	"nature communications":                                    "Nat. Commun.",
	"nature methods":                                           "Nat. Methods",
	"molecular biology and evolution":                          "Mol. Biol. Evol.",
	"bioinformatics":                                           "Bioinformatics",
	"annals of statistics":                                     "Ann. Stat.",
	"journal of the royal statistical society":                 "J. R. Stat. Soc.",
	"journal of machine learning research":                     "J. Mach. Learn. Res.",
	"communications of the acm":                                "Commun. ACM",
	"journal of the acm":                                       "J. ACM",
	"siam journal on computing":                                "SIAM J. Comput.",
	"siam journal on numerical analysis":                       "SIAM J. Numer. Anal.",
}

// AbbreviateJournal returns the conventional abbreviation for a journal
// name, or the name unchanged when it is not in the table.
func AbbreviateJournal(name string) string {
	if abbrev, ok := journalAbbreviations[strings.ToLower(strings.TrimSpace(name))]; ok {
		return abbrev
	}
	return name
}
