package triage

import "github.com/swasthya-health/swasthya/domain/entities"

// Responder walks a fixed per-language script, one line per prior user turn.
// The user's text is not inspected.
type Responder struct {
	table *Table
}

// NewResponder creates a responder. A nil table uses DefaultTable.
func NewResponder(table *Table) *Responder {
	if table == nil {
		table = DefaultTable()
	}
	return &Responder{table: table}
}

var defaultResponder = NewResponder(nil)

// Respond runs the built-in responder
func Respond(userInput string, priorUserTurns []string, lang entities.LanguageTag) string {
	return defaultResponder.Respond(userInput, priorUserTurns, lang)
}

// Respond returns script[min(len(priorUserTurns), len(script)-1)]. Once the
// script is exhausted the last line repeats on every later turn.
func (r *Responder) Respond(_ string, priorUserTurns []string, lang entities.LanguageTag) string {
	script := r.table.Resolve(lang).Script
	if len(script) == 0 {
		return ""
	}
	return script[min(len(priorUserTurns), len(script)-1)]
}
