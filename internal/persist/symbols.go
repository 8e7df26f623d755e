package persist

import (
	"bytes"
	"encoding/gob"
	"os"

	"codelens/internal/errs"
	"codelens/internal/symbol"
)

// SaveSymbols gob-encodes the full symbol set and writes it atomically.
func SaveSymbols(path string, symbols []symbol.Symbol) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(symbols); err != nil {
		return errs.New(errs.KindData, "persist.SaveSymbols", path, err)
	}
	return WriteAtomic(path, buf.Bytes())
}

// LoadSymbols reads back a symbol set saved by SaveSymbols. A missing file
// yields (nil, nil).
func LoadSymbols(path string) ([]symbol.Symbol, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.New(errs.KindData, "persist.LoadSymbols", path, err)
	}
	var symbols []symbol.Symbol
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&symbols); err != nil {
		return nil, errs.New(errs.KindData, "persist.LoadSymbols", path, errs.ErrCacheCorrupt)
	}
	return symbols, nil
}
