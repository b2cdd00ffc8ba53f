package importer_test

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canac/mailbox/internal/config"
	"github.com/canac/mailbox/internal/importer"
	"github.com/canac/mailbox/internal/mailbox"
	"github.com/canac/mailbox/internal/store"
)

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&strings.Builder{}, nil))
}

func TestParseFormat(t *testing.T) {
	_, err := importer.ParseFormat("tsv")
	require.NoError(t, err)
	_, err = importer.ParseFormat("json")
	require.NoError(t, err)
	_, err = importer.ParseFormat("xml")
	assert.Error(t, err)
}

func TestImport_tsvParsesMailboxContentAndState(t *testing.T) {
	input := "work/urgent\tship it\tread\nhome\tgroceries\n"
	messages, err := importer.Import(strings.NewReader(input), importer.FormatTSV, config.Overrides{}, noopLogger())
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, mailbox.MustParse("work/urgent"), messages[0].Mailbox)
	assert.Equal(t, "ship it", messages[0].Content)
	require.NotNil(t, messages[0].State)
	assert.Equal(t, store.Read, *messages[0].State)

	assert.Equal(t, mailbox.MustParse("home"), messages[1].Mailbox)
	assert.Nil(t, messages[1].State)
}

func TestImport_tsvSkipsMalformedLines(t *testing.T) {
	input := "onlyonefield\nhome\tvalid message\n"
	messages, err := importer.Import(strings.NewReader(input), importer.FormatTSV, config.Overrides{}, noopLogger())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "valid message", messages[0].Content)
}

func TestImport_jsonParsesOptionalState(t *testing.T) {
	input := `{"mailbox":"work","content":"first"}
{"mailbox":"work/urgent","content":"second","state":"archived"}
not json at all
`
	messages, err := importer.Import(strings.NewReader(input), importer.FormatJSON, config.Overrides{}, noopLogger())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Nil(t, messages[0].State)
	require.NotNil(t, messages[1].State)
	assert.Equal(t, store.Archived, *messages[1].State)
}

func TestImport_overridesDropIgnoredMailboxes(t *testing.T) {
	overrides, err := config.NewOverrides(map[string]string{
		"spam":      "ignored",
		"work":      "read",
	})
	require.NoError(t, err)

	input := "spam\tunwanted\nwork\tnewsletter\nhome\tdinner\n"
	messages, err := importer.Import(strings.NewReader(input), importer.FormatTSV, overrides, noopLogger())
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, mailbox.MustParse("work"), messages[0].Mailbox)
	require.NotNil(t, messages[0].State)
	assert.Equal(t, store.Read, *messages[0].State)

	assert.Equal(t, mailbox.MustParse("home"), messages[1].Mailbox)
	assert.Nil(t, messages[1].State)
}

func TestImport_overrideAppliesToDescendantMailbox(t *testing.T) {
	overrides, err := config.NewOverrides(map[string]string{"work": "archived"})
	require.NoError(t, err)

	messages, err := importer.Import(strings.NewReader("work/urgent\tping\n"), importer.FormatTSV, overrides, noopLogger())
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.NotNil(t, messages[0].State)
	assert.Equal(t, store.Archived, *messages[0].State)
}
