package chatbot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wpbrigade/admin-chatbot/models"
)

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"plain", "delete john@x.com", "john@x.com", true},
		{"angle brackets", "add John Smith <john@x.com>", "john@x.com", true},
		{"lowercased", "add JOHN.SMITH@EXAMPLE.COM", "john.smith@example.com", true},
		{"dots and hyphens", "add jane-doe.2@mail-server.co.uk", "jane-doe.2@mail-server.co.uk", true},
		{"first of several", "move a@x.com to b@x.com", "a@x.com", true},
		{"missing tld", "add john@localhost", "", false},
		{"none", "hello there", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractEmail(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPhone(t *testing.T) {
	assert.Equal(t, "+15551234567", ExtractPhone("add John phone +15551234567"))
	assert.Equal(t, "5551234", ExtractPhone("reach him at 5551234"))
	assert.Equal(t, models.NotAvailable, ExtractPhone("add John Smith"))
	assert.Equal(t, models.NotAvailable, ExtractPhone("only +12 here"), "runs shorter than 3 digits do not count")
}

func TestExtractQuotedName(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"double quotes", `add "John Smith" john@x.com`, "John Smith", true},
		{"single quotes", "remove 'Samantha'", "Samantha", true},
		{"inner whitespace trimmed", `add " Mary Jane " mj@x.com`, "Mary Jane", true},
		{"period kept", `add "J. Smith" js@x.com`, "J. Smith", true},
		{"quoted email treated as absent", `delete "john@x.com"`, "", false},
		{"no quotes", "add John Smith", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractQuotedName(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCity(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"single word", "update jane@x.com city to Lima", "Lima", true},
		{"multi word", "update jane city to Buenos Aires", "Buenos Aires", true},
		{"case insensitive phrase", "update jane CITY TO Quito", "Quito", true},
		{"stops at punctuation", "update jane city to Lima, effective now", "Lima", true},
		{"missing phrase", "update jane@x.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCity(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane.doe@x.com", "Jane Doe"},
		{"john_smith@x.com", "John Smith"},
		{"mary-ann.o@x.com", "Mary Ann O"},
		{"john99@x.com", "John"},
		{"JOHN@x.com", "John"},
		{"12345@x.com", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, NameFromEmail(tt.email))
		})
	}
}

func TestNameBeforeEmail(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		email string
		want  string
		found bool
	}{
		{"angle brackets", "add John Smith <john@x.com> phone +15551234567", "john@x.com", "John Smith", true},
		{"bare email only", "add jane.doe@x.com", "jane.doe@x.com", "", false},
		{"add the user", "add the user Bob with email bob@x.com", "bob@x.com", "Bob", true},
		{"create keyword", "create Mary mary@x.com", "mary@x.com", "Mary", true},
		{"digits rejected", "add +15551234567 j@x.com", "j@x.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nameBeforeEmail(tt.text, tt.email)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeleteTarget(t *testing.T) {
	// The admin's casing is preserved; matching folds case later.
	got, ok := deleteTarget("remove the user John Smith")
	assert.True(t, ok)
	assert.Equal(t, "John Smith", got)

	got, ok = deleteTarget("delete samanthas")
	assert.True(t, ok)
	assert.Equal(t, "samanthas", got)

	_, ok = deleteTarget("take out the trash!")
	assert.False(t, ok)
}

func TestUpdateTarget(t *testing.T) {
	got, ok := updateTarget("update samanthas city to Cordoba")
	assert.True(t, ok)
	assert.Equal(t, "samanthas", got)

	got, ok = updateTarget("update John Smith city to Lima")
	assert.True(t, ok)
	assert.Equal(t, "john smith", got)

	_, ok = updateTarget("update the record")
	assert.False(t, ok)
}

func TestStripPossessive(t *testing.T) {
	assert.Equal(t, "samantha", stripPossessive("samantha's"))
	assert.Equal(t, "samantha", stripPossessive("samanthas"))
	assert.Equal(t, "john smith", stripPossessive("john smith's"))
	// the lone trailing "s" is only dropped for single-word tokens
	assert.Equal(t, "john smiths", stripPossessive("john smiths"))
	assert.Equal(t, "lima", stripPossessive("lima"))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "johnsmith", normalizeKey("John-Smith!"))
	assert.Equal(t, "janedoexcom", normalizeKey("jane.doe@x.com"))
	assert.Equal(t, "", normalizeKey("!!! ???"))
}
