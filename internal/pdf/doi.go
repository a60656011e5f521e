package pdf

import (
	"regexp"
	"strings"
)

// doiPattern matches 10.XXXX/... identifiers embedded in page text.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// doiScanPages bounds the DOI scan; the identifier is almost always on
// the first page.
const doiScanPages = 3

// ExtractDOI scans the first few pages of a PDF for the document's own
// DOI. An empty result is not an error.
func ExtractDOI(filePath string) (string, error) {
	text, err := ExtractText(filePath, doiScanPages)
	if err != nil {
		return "", err
	}
	return FindDOI(text), nil
}

// FindDOI returns the first valid-looking DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI performs basic structural validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	return slashIdx != -1 && slashIdx < len(doi)-1
}
