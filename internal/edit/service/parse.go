package service

import (
	"strings"

	"sheetops/internal/apperr"
	"sheetops/internal/edit/model"
)

// trigger builds an operation from the whole command and the text after the
// first occurrence of phrase.
type trigger struct {
	phrase string
	build  func(command, args string) model.Operation
}

// triggers is checked top to bottom and the first phrase found wins, so
// "rename column Price to Replacement Price" is a rename, not a replace.
var triggers = []trigger{
	{"remove empty rows", func(_, _ string) model.Operation { return model.RemoveEmptyRows{} }},
	{"add column", func(_, a string) model.Operation { return model.AddColumn{Name: a} }},
	{"drop column", func(_, a string) model.Operation { return model.DropColumn{Name: a} }},
	{"filter rows where", func(_, a string) model.Operation { return model.FilterRows{Predicate: a} }},
	{"rename column", buildRename},
	{"replace", buildReplace},
	{"check columns", buildCheckColumns},
}

// Triggers returns the recognized phrases in priority order.
func Triggers() []string {
	out := make([]string, len(triggers))
	for i, t := range triggers {
		out[i] = t.phrase
	}
	return out
}

// Parse turns one free-text command into an Operation. It never fails;
// unknown text yields model.Unrecognized and argument problems surface from
// Operation.Validate.
func Parse(command string) model.Operation {
	for _, t := range triggers {
		at := indexFold(command, t.phrase)
		if at < 0 {
			continue
		}
		return t.build(command, strings.TrimSpace(command[at+len(t.phrase):]))
	}
	return model.Unrecognized{RawText: command}
}

func buildRename(_, args string) model.Operation {
	parts := splitFold(args, " to ")
	if len(parts) != 2 {
		op := model.RenameColumn{}
		return op.WithArgError(apperr.MalformedArguments(
			"rename column: expected exactly one ' to ' separator, got %d", len(parts)-1))
	}
	return model.RenameColumn{
		OldName: strings.TrimSpace(parts[0]),
		NewName: strings.TrimSpace(parts[1]),
	}
}

// buildReplace splits on the first " with "; anything after it, including
// further " with ", is the new value.
func buildReplace(_, args string) model.Operation {
	at := indexFold(args, " with ")
	if at < 0 {
		op := model.ReplaceValue{OldValue: strings.TrimSpace(args)}
		return op.WithArgError(apperr.MalformedArguments("replace: expected 'replace <old> with <new>'"))
	}
	return model.ReplaceValue{
		OldValue: strings.TrimSpace(args[:at]),
		NewValue: strings.TrimSpace(args[at+len(" with "):]),
	}
}

// buildCheckColumns reads the comma separated list after the first ':' of
// the whole command. Without a ':' there is nothing to check.
func buildCheckColumns(command, _ string) model.Operation {
	_, list, ok := strings.Cut(command, ":")
	if !ok {
		return model.CheckColumnsExist{}
	}
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return model.CheckColumnsExist{Names: names}
}

// indexFold is strings.Index with ASCII case folding on sub.
func indexFold(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

// splitFold is strings.Split with case-insensitive matching of sep.
func splitFold(s, sep string) []string {
	var parts []string
	start := 0
	for i := 0; i+len(sep) <= len(s); {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			parts = append(parts, s[start:i])
			i += len(sep)
			start = i
			continue
		}
		i++
	}
	return append(parts, s[start:])
}
