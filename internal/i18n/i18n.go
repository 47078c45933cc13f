// Package i18n renders localizable message values through a
// golang.org/x/text catalog.
//
// A Message is structured data: a fixed identifier plus named
// arguments. Error values in the engine stay structured all the way to
// the host boundary; only a host that wants user-facing text calls
// Localize. Catalog entries use positional printf verbs, so each
// message identifier has a fixed argument order registered alongside
// its translations.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message is a localizable value: an identifier into the catalog plus
// named arguments substituted into the translated string.
type Message struct {
	ID   string         `json:"id"`
	Args map[string]any `json:"args,omitempty"`
}

// Localizable is implemented by error values that carry a translatable
// message for the host to render.
type Localizable interface {
	Message() Message
}

// Supported lists the catalog languages, English first (the fallback).
var Supported = []language.Tag{
	language.English,
	language.Greek,
}

// argOrder maps a message identifier to the order in which its named
// arguments bind to the positional verbs of its catalog entries.
var argOrder = map[string][]string{
	"badParam.tabs.differentTypes.message": {
		"column_name",
		"column_type",
		"column_tab_name",
		"used_column_name",
		"used_column_type",
		"used_column_tab_name",
	},
}

var messages = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	mustSet(language.English, "badParam.tabs.differentTypes.message",
		`The column %[1]q is of type "%[2]s" in %[3]q but of type "%[5]s" in %[6]q. Please convert one to match the other.`)
	mustSet(language.Greek, "badParam.tabs.differentTypes.message",
		`Η στήλη %[1]q είναι τύπου «%[2]s» στην καρτέλα %[3]q αλλά τύπου «%[5]s» στην καρτέλα %[6]q. Μετατρέψτε τη μία ώστε να ταιριάζει με την άλλη.`)
}

func mustSet(tag language.Tag, id, msg string) {
	if err := messages.SetString(tag, id, msg); err != nil {
		panic(err)
	}
}

// Localize renders m in the catalog language best matching tag,
// falling back to English. Unknown message identifiers render as the
// identifier itself so a catalog gap is visible rather than fatal.
func Localize(tag language.Tag, m Message) string {
	order, ok := argOrder[m.ID]
	if !ok {
		return m.ID
	}
	args := make([]any, len(order))
	for i, key := range order {
		args[i] = m.Args[key]
	}
	p := message.NewPrinter(tag, message.Catalog(messages))
	return p.Sprintf(m.ID, args...)
}

// MatchLang parses a BCP 47 language string against the supported
// catalog languages, returning English for anything unrecognized.
func MatchLang(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	matcher := language.NewMatcher(Supported)
	_, i, _ := matcher.Match(tag)
	return Supported[i]
}
