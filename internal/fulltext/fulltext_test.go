package fulltext_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelens/internal/fulltext"
	"codelens/internal/symbol"
)

func buildIndex(t *testing.T) *fulltext.Index {
	t.Helper()
	idx := fulltext.New()
	batch := fulltext.NewBatch()
	batch.Add(fulltext.DocumentFromSymbol(0, symbol.Symbol{
		Name: "AuthenticateUser", FilePath: "internal/auth/auth.go",
		Signature: "func AuthenticateUser(token string) (User, error)",
		DocComment: "AuthenticateUser validates a session token and returns the user.",
	}))
	batch.Add(fulltext.DocumentFromSymbol(1, symbol.Symbol{
		Name: "Logout", FilePath: "internal/auth/auth.go",
		Signature: "func Logout(session string) error",
		DocComment: "Logout ends a session.",
	}))
	batch.Add(fulltext.DocumentFromSymbol(2, symbol.Symbol{
		Name: "ParseConfig", FilePath: "internal/config/config.go",
		Signature: "func ParseConfig(path string) (*Config, error)",
	}))
	idx.Commit(batch)
	return idx
}

func TestSearchRanksRelevantDocFirst(t *testing.T) {
	idx := buildIndex(t)
	results := idx.Search("authenticate session token", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "AuthenticateUser", results[0].Symbol.Name)
}

func TestSearchNoMatchesReturnsEmpty(t *testing.T) {
	idx := buildIndex(t)
	assert.Empty(t, idx.Search("nonexistentxyz", 10))
}

func TestSizeReflectsCommittedBatch(t *testing.T) {
	idx := buildIndex(t)
	assert.Equal(t, 3, idx.Size())
}

func TestCommitReplacesPreviousBatch(t *testing.T) {
	idx := buildIndex(t)
	empty := fulltext.NewBatch()
	idx.Commit(empty)
	assert.Equal(t, 0, idx.Size())
}
