package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/lottolab/tombola-analytics/internal/engine"
)

var ErrKeyNotFound = errors.New("key not found")

const tableKeyspace = "table"

// TableStore caches computed distribution tables in badger, keyed by game
// parameters, so re-running an analysis with the same configuration skips the
// recomputation entirely.
type TableStore struct {
	db     *badger.DB
	prefix string
}

func NewTableStore(dir, prefix string) (*TableStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &TableStore{db: db, prefix: prefix}, nil
}

func (s *TableStore) key(p engine.GameParams) []byte {
	k := fmt.Sprintf("%s/%d/%d", tableKeyspace, p.CardSize, p.DrumSize)
	if s.prefix != "" {
		k = s.prefix + "/" + k
	}
	return []byte(k)
}

// Get loads a cached table. The second return reports whether it was present.
func (s *TableStore) Get(p engine.GameParams) (*engine.DistributionTable, bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key(p))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return ErrKeyNotFound
			}
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var table engine.DistributionTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, false, fmt.Errorf("decode cached table: %w", err)
	}
	return &table, true, nil
}

// Put stores a computed table under its parameters.
func (s *TableStore) Put(table *engine.DistributionTable) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key(table.Params), raw)
	})
}

// List returns the parameters of every cached table.
func (s *TableStore) List() ([]engine.GameParams, error) {
	searchPrefix := tableKeyspace + "/"
	if s.prefix != "" {
		searchPrefix = s.prefix + "/" + searchPrefix
	}

	var result []engine.GameParams
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		p := []byte(searchPrefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			var params engine.GameParams
			rest := string(it.Item().Key())[len(searchPrefix):]
			if _, err := fmt.Sscanf(rest, "%d/%d", &params.CardSize, &params.DrumSize); err != nil {
				continue
			}
			result = append(result, params)
		}
		return nil
	})
	return result, err
}

// Clear drops every cached table.
func (s *TableStore) Clear() error {
	searchPrefix := tableKeyspace + "/"
	if s.prefix != "" {
		searchPrefix = s.prefix + "/" + searchPrefix
	}
	return s.db.DropPrefix([]byte(searchPrefix))
}

func (s *TableStore) Close() error {
	return s.db.Close()
}
