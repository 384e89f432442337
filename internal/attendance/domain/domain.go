package attendance

import (
	"regexp"
	"strings"
)

// Domain is the organizational grouping encoded in a matricule prefix.
type Domain string

const (
	DomainChantre   Domain = "Chantre"
	DomainProtocole Domain = "Protocole"
	DomainRegis     Domain = "Régis"
	DomainAutre     Domain = "Autre"
)

// Domains lists the named groupings, excluding the catch-all.
func Domains() []Domain {
	return []Domain{DomainChantre, DomainProtocole, DomainRegis}
}

// AllDomains lists every grouping including the catch-all.
func AllDomains() []Domain {
	return []Domain{DomainChantre, DomainProtocole, DomainRegis, DomainAutre}
}

// String returns the display name.
func (d Domain) String() string { return string(d) }

// ClassifyDomain maps a matricule to its domain by leading character.
// Total: any input, including an empty or malformed matricule, resolves to a
// domain; unmapped prefixes resolve to DomainAutre.
func ClassifyDomain(matricule string) Domain {
	matricule = strings.ToUpper(strings.TrimSpace(matricule))
	if matricule == "" {
		return DomainAutre
	}
	switch matricule[0] {
	case 'C':
		return DomainChantre
	case 'P':
		return DomainProtocole
	case 'R':
		return DomainRegis
	default:
		return DomainAutre
	}
}

var matriculePattern = regexp.MustCompile(`^[CPR]\d+$`)

// ValidMatricule reports whether the matricule is a known prefix followed by
// digits.
func ValidMatricule(matricule string) bool {
	return matriculePattern.MatchString(strings.ToUpper(strings.TrimSpace(matricule)))
}

// NormalizeMatricule upper-cases and trims a matricule for comparison.
func NormalizeMatricule(matricule string) string {
	return strings.ToUpper(strings.TrimSpace(matricule))
}
