// Package chatbot turns free-text admin commands into mutations of the
// user directory: a keyword classifier picks the intent, pattern
// extractors pull out the structured fields, and one handler per intent
// applies the change through the record store.
package chatbot

import "strings"

// Intent is the classified purpose of a command.
type Intent string

const (
	IntentAddUser    Intent = "add_user"
	IntentDeleteUser Intent = "delete_user"
	IntentUpdateUser Intent = "update_user"
	IntentUnknown    Intent = "unknown"
)

// keywordRules is the intent dispatch table. Rules are checked in order
// and the first keyword hit wins, so "add" outranks "delete" outranks
// "update" when a command mentions several.
var keywordRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentAddUser, []string{"add", "create", "new user", "add the user"}},
	{IntentDeleteUser, []string{"remove", "delete", "take out"}},
	{IntentUpdateUser, []string{"update", "change", "modify"}},
}

// Classify maps raw command text to an intent. Empty input and text with
// no known keyword classify as IntentUnknown.
func Classify(text string) Intent {
	t := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}
