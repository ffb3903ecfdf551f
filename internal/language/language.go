// Package language normalizes stream descriptor language tags from
// BCP-47-ish input to ISO-639-2, the form the manifest and text-pipeline
// collaborators expect. Grounded on golang.org/x/text/language's BCP-47
// tag parser (already used by five82-spindle for disc-title casing) rather
// than a hand-rolled table.
package language

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	pkgerrors "github.com/theassyrian/shaka-packager/internal/errors"
)

// Undetermined is the BCP-47 tag for "language not determined." Stream
// descriptor normalization rejects it outright per invariant 3 of the data
// model section — a packaging run must know what it's labeling.
const Undetermined = "und"

// NormalizeToISO6392 parses a BCP-47-ish tag and returns its ISO-639-2
// equivalent. Empty input passes through as empty (language is optional on
// a descriptor). A tag that fails to parse, or that resolves to the
// undetermined base language, is rejected.
func NormalizeToISO6392(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", nil
	}

	tag, err := language.Parse(trimmed)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "language", "NormalizeToISO6392",
			"could not parse language tag '"+trimmed+"'", err)
	}

	base, _ := tag.Base()
	code := base.ISO3()
	if code == "" || code == Undetermined {
		return "", pkgerrors.Wrap(pkgerrors.ErrInvalidArgument, "language", "NormalizeToISO6392",
			"language '"+trimmed+"' is undetermined", nil)
	}
	return code, nil
}

// DisplayName renders a friendly title-cased label for a language tag,
// falling back to the trimmed input when the tag can't be parsed.
func DisplayName(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return cases.Title(language.Und).String(trimmed)
	}
	return cases.Title(language.Und).String(tag.String())
}
