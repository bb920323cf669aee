package template

import (
	"regexp"
	"strings"
)

// shorthandPattern matches a bare dotted field path: `user.id`, `guild_id`.
var shorthandPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// reservedWords are names with meaning of their own inside an action
// (control keywords, literals, and builtin functions) which must never be
// rewritten into field lookups.
var reservedWords = map[string]struct{}{
	"if": {}, "else": {}, "end": {}, "range": {}, "with": {},
	"template": {}, "block": {}, "define": {}, "break": {}, "continue": {},
	"nil": {}, "true": {}, "false": {},
	"and": {}, "or": {}, "not": {}, "len": {}, "index": {}, "slice": {},
	"print": {}, "printf": {}, "println": {}, "call": {},
	"html": {}, "js": {}, "urlquery": {},
	"eq": {}, "ne": {}, "lt": {}, "le": {}, "gt": {}, "ge": {},
}

var tokenPattern = regexp.MustCompile(`\S+`)

// transform rewrites author shorthand into template syntax: bare field paths
// gain a leading dot, so `{{user.id}}` renders the context key `user` → `id`
// and `{{shout user.name}}` passes the field to the block. Tokens already in
// template syntax (dotted, variables, strings, keywords, block names) pass
// through untouched.
func transform(source string, isBlock func(string) bool) string {
	var b strings.Builder
	rest := source
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		action := rest[start+2 : start+2+end]
		b.WriteString(rest[:start])
		b.WriteString("{{")
		b.WriteString(rewriteAction(action, isBlock))
		b.WriteString("}}")
		rest = rest[start+2+end+2:]
	}
	return b.String()
}

func rewriteAction(action string, isBlock func(string) bool) string {
	locs := tokenPattern.FindAllStringIndex(action, -1)
	if len(locs) == 0 {
		return action
	}

	single := onlyTrimMarkersAround(action, locs)

	var b strings.Builder
	last := 0
	funcPos := true
	for _, loc := range locs {
		tok := action[loc[0]:loc[1]]
		b.WriteString(action[last:loc[0]])
		b.WriteString(rewriteToken(tok, funcPos, single, isBlock))
		last = loc[1]
		// Trim markers do not consume the call position.
		funcPos = tok == "|" || (funcPos && tok == "-")
	}
	b.WriteString(action[last:])
	return b.String()
}

// onlyTrimMarkersAround reports whether the action holds one real token plus
// the optional `-` trim markers, e.g. `- user.id -`.
func onlyTrimMarkersAround(action string, locs [][]int) bool {
	real := 0
	for _, loc := range locs {
		if action[loc[0]:loc[1]] != "-" {
			real++
		}
	}
	return real == 1
}

func rewriteToken(tok string, funcPos, single bool, isBlock func(string) bool) string {
	if !shorthandPattern.MatchString(tok) {
		return tok
	}
	if _, ok := reservedWords[tok]; ok {
		return tok
	}
	if !strings.Contains(tok, ".") && isBlock != nil && isBlock(tok) {
		return tok
	}
	// A bare undotted name heading a multi-token action is a call target,
	// not a field; leave it for the compiler to judge.
	if funcPos && !single && !strings.Contains(tok, ".") {
		return tok
	}
	return "." + tok
}
