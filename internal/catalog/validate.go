package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hodq/hodq/internal/vocab"
)

// Severity grades an audit finding.
type Severity string

const (
	// SeverityError marks findings that make a query unable to match
	// anything, such as a known prefix bound to the wrong namespace.
	SeverityError Severity = "error"
	// SeverityWarning marks suspicious but tolerated constructs, such as a
	// prefix used without a declaration. These are preserved verbatim from
	// the source battery; engines treat the resulting terms as unbound.
	SeverityWarning Severity = "warning"
)

// Finding is one audit result.
type Finding struct {
	QueryID  string   `json:"query_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

var (
	prefixDeclRe = regexp.MustCompile(`(?i)\bPREFIX\s+([A-Za-z][\w-]*):\s*<([^>]*)>`)
	prefixUseRe  = regexp.MustCompile(`(^|[\s({,^=|])([A-Za-z][\w-]*):([A-Za-z_][\w-]*)`)
)

// Audit checks every query of the catalogue for the silent-failure pitfalls
// a SPARQL engine will not report:
//
//   - a declared prefix that binds a known label to a different IRI than the
//     ontology uses (every pattern matches nothing, zero rows, no error);
//   - a prefixed name used without any declaration for its prefix (the term
//     is unbound for most engines, again zero rows).
//
// The first is an error, the second a warning: the source battery ships a
// few of the latter and they are preserved as-is.
func Audit(c *Catalog) []Finding {
	var findings []Finding
	for _, q := range c.Queries() {
		findings = append(findings, auditQuery(q)...)
	}
	return findings
}

// HasErrors reports whether any finding is error-grade.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func auditQuery(q QuerySpec) []Finding {
	var findings []Finding

	declared := map[string]string{}
	for _, m := range prefixDeclRe.FindAllStringSubmatch(q.Text, -1) {
		label, iri := m[1], m[2]
		declared[label] = iri
		want, known := vocab.Prefixes[strings.ToLower(label)]
		if !known {
			findings = append(findings, Finding{
				QueryID:  q.ID,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("prefix %q is not part of the ontology vocabulary", label),
			})
			continue
		}
		if iri != want {
			findings = append(findings, Finding{
				QueryID:  q.ID,
				Severity: SeverityError,
				Message:  fmt.Sprintf("prefix %q bound to %q, ontology uses %q (patterns will match nothing)", label, iri, want),
			})
		}
	}

	for _, label := range usedPrefixes(q.Text) {
		if _, ok := declared[label]; !ok {
			findings = append(findings, Finding{
				QueryID:  q.ID,
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("prefix %q used without declaration (term will be unbound)", label),
			})
		}
	}

	return findings
}

// usedPrefixes extracts the distinct prefix labels of prefixed names in the
// query body, skipping the PREFIX declarations themselves and anything that
// looks like an absolute IRI scheme.
func usedPrefixes(text string) []string {
	body := prefixDeclRe.ReplaceAllString(text, "")
	seen := map[string]bool{}
	var out []string
	for _, m := range prefixUseRe.FindAllStringSubmatch(body, -1) {
		label := m[2]
		switch strings.ToLower(label) {
		case "http", "https", "urn", "mailto", "file":
			continue
		}
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}
