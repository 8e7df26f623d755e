package persist

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"codelens/internal/errs"
)

func init() {
	sqlite_vec.Auto()
}

// VectorStore persists the vector index's raw vectors in a small SQLite
// database via sqlite-vec's float32 blob codec — the one artifact in the
// cache layout that genuinely benefits from a queryable on-disk format
// rather than a flat gob snapshot, carried over from the teacher's
// internal/store.SQLiteStore. Loading does not reconstruct the HNSW graph
// structure directly; the orchestrator re-adds every stored vector to a
// fresh vectorindex.Index, which is cheap relative to a full re-embed and
// keeps the persisted format to exactly what changed here (raw vectors),
// not graph internals that would need their own versioned format.
type VectorStore struct {
	db *sql.DB
}

const vectorSchema = `
CREATE TABLE IF NOT EXISTS vectors (
	symbol_id INTEGER PRIMARY KEY,
	embedding BLOB NOT NULL
);
`

// OpenVectorStore opens (creating if absent) the SQLite-backed vector
// store at dbPath.
func OpenVectorStore(dbPath string) (*VectorStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, errs.New(errs.KindData, "persist.OpenVectorStore", dbPath, err)
	}
	if _, err := db.Exec(vectorSchema); err != nil {
		db.Close()
		return nil, errs.New(errs.KindData, "persist.OpenVectorStore", dbPath, err)
	}
	return &VectorStore{db: db}, nil
}

// Upsert stores or replaces the vector for symbolID.
func (s *VectorStore) Upsert(symbolID int, vector []float32) error {
	blob, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return fmt.Errorf("serialize vector %d: %w", symbolID, err)
	}
	_, err = s.db.Exec(
		"INSERT INTO vectors (symbol_id, embedding) VALUES (?, ?) ON CONFLICT(symbol_id) DO UPDATE SET embedding = excluded.embedding",
		symbolID, blob,
	)
	return err
}

// StoredVector is one row loaded back from the vector store.
type StoredVector struct {
	SymbolID int
	Vector   []float32
}

// LoadAll returns every stored vector, for rebuilding the in-memory HNSW
// graph on startup.
func (s *VectorStore) LoadAll() ([]StoredVector, error) {
	rows, err := s.db.Query("SELECT symbol_id, embedding FROM vectors")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredVector
	for rows.Next() {
		var id int
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		vec, err := sqlite_vec.DeserializeFloat32(blob)
		if err != nil {
			return nil, fmt.Errorf("deserialize vector %d: %w", id, err)
		}
		out = append(out, StoredVector{SymbolID: id, Vector: vec})
	}
	return out, rows.Err()
}

// DeleteAll clears the vector store. The orchestrator calls it at the
// start of every vector-index build, before the new vectors are written.
func (s *VectorStore) DeleteAll() error {
	_, err := s.db.Exec("DELETE FROM vectors")
	return err
}

func (s *VectorStore) Close() error {
	return s.db.Close()
}
