package chatbot

import (
	"regexp"
	"strings"

	"github.com/wpbrigade/admin-chatbot/models"
)

// Extraction pattern table. Each extractor scans the raw command text and
// returns the first match; they are independent of one another and of the
// order they run in.
var (
	emailRe      = regexp.MustCompile(`[\w.-]+@[\w.-]+\.[A-Za-z]{2,}`)
	emailExactRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	phoneRe      = regexp.MustCompile(`\+?\d{3,15}`)
	quotedRe     = regexp.MustCompile(`["']\s*([A-Za-z0-9 .'\-]+?)\s*["']`)
	cityRe       = regexp.MustCompile(`(?i)city\s+to\s+([A-Za-z0-9 \-]+)`)

	// Free-text identifier targets, one per handler that accepts an
	// unquoted name.
	deleteTargetRe = regexp.MustCompile(`(?i)(?:remove|delete)\s+(?:the\s+)?(?:user\s+)?([A-Za-z0-9.' \-]{1,60})(?:\s+with|\s+email|\s+phone|$)`)
	updateTargetRe = regexp.MustCompile(`(?i)update\s+([A-Za-z0-9.' \-]{1,60}?)\s+city`)
	addLeadRe      = regexp.MustCompile(`(?i)^\s*(?:please\s+)?(?:add|create)\s+(?:the\s+)?(?:a\s+)?(?:new\s+)?(?:user\s+)?`)
	trailingCtxRe  = regexp.MustCompile(`(?i)\s+(?:with|email|phone)\b.*$`)
	plainNameRe    = regexp.MustCompile(`^[A-Za-z][A-Za-z .'\-]*$`)

	separatorRe = regexp.MustCompile(`[._\-]+`)
	digitRe     = regexp.MustCompile(`\d+`)
	nonAlnumRe  = regexp.MustCompile(`[^a-z0-9]`)
)

// ExtractEmail returns the first email-shaped substring, lowercased.
func ExtractEmail(text string) (string, bool) {
	m := emailRe.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

// ExtractPhone returns the first optional-plus digit run of 3 to 15
// digits, or "N/A" when the text has none.
func ExtractPhone(text string) string {
	m := phoneRe.FindString(text)
	if m == "" {
		return models.NotAvailable
	}
	return m
}

// ExtractQuotedName returns the first single- or double-quoted span. A
// quoted span that is itself a full email address is treated as absent so
// `delete "john@x.com"` is not misread as a name.
func ExtractQuotedName(text string) (string, bool) {
	m := quotedRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	candidate := strings.TrimSpace(m[1])
	if emailExactRe.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

// ExtractCity returns the text following "city to", trimmed.
// Multi-word cities are allowed.
func ExtractCity(text string) (string, bool) {
	m := cityRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// NameFromEmail derives a display name from the local part of an email:
// separators become spaces, digits are dropped, and each token is
// capitalized ("jane.doe" -> "Jane Doe"). Returns "N/A" when nothing
// survives.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = separatorRe.ReplaceAllString(local, " ")
	local = strings.TrimSpace(digitRe.ReplaceAllString(local, ""))

	var parts []string
	for _, p := range strings.Fields(local) {
		parts = append(parts, capitalize(p))
	}
	if len(parts) == 0 {
		return models.NotAvailable
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// nameBeforeEmail pulls an unquoted display name out of an add command:
// the text between the add keyword and the email (or the whole command
// when no email position is known), with any trailing "with ..."/
// "email ..."/"phone ..." context cut off.
func nameBeforeEmail(text, email string) (string, bool) {
	head := text
	if idx := strings.Index(strings.ToLower(text), strings.ToLower(email)); idx >= 0 {
		head = text[:idx]
	}
	head = strings.TrimRight(head, " \t<")
	head = addLeadRe.ReplaceAllString(head, "")
	head = trailingCtxRe.ReplaceAllString(head, "")
	head = strings.TrimSpace(head)
	if head == "" || !plainNameRe.MatchString(head) {
		return "", false
	}
	return head, true
}

// deleteTarget extracts the free-text identifier of a delete command in
// the admin's original casing, e.g. "remove the user John Smith" ->
// "John Smith". Callers fold the case themselves when matching.
func deleteTarget(text string) (string, bool) {
	m := deleteTargetRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// updateTarget extracts the identifier between "update" and "city".
func updateTarget(text string) (string, bool) {
	m := updateTargetRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(m[1])), true
}

// stripPossessive tolerates possessive and simple plural references:
// "samantha's" and "samanthas" both become "samantha". The lone trailing
// "s" is only dropped for single-word tokens so "Dolores" stays intact
// inside multi-word names.
func stripPossessive(token string) string {
	token = strings.TrimSuffix(token, "'s")
	if !strings.Contains(token, " ") && strings.HasSuffix(token, "s") {
		token = token[:len(token)-1]
	}
	return token
}

// normalizeKey folds a token to its fuzzy-match form: lowercase with all
// non-alphanumerics removed.
func normalizeKey(text string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(text), "")
}
