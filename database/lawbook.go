// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"errors"

	"github.com/blinklabs-io/witan/council"
	badger "github.com/dgraph-io/badger/v4"
)

var lawBookKeyPrefix = []byte("law:")

func lawBookKey(legislationNumber string) []byte {
	return append(
		[]byte{},
		append(lawBookKeyPrefix, []byte(legislationNumber)...)...,
	)
}

// PutLawRecord stores the rendered law book entry for a legislation number
func (d *Database) PutLawRecord(
	legislationNumber string,
	payload []byte,
) error {
	return d.lawBook.Update(func(txn *badger.Txn) error {
		return txn.Set(lawBookKey(legislationNumber), payload)
	})
}

// GetLawRecord retrieves the law book entry for a legislation number
func (d *Database) GetLawRecord(legislationNumber string) ([]byte, error) {
	var payload []byte
	err := d.lawBook.View(func(txn *badger.Txn) error {
		item, err := txn.Get(lawBookKey(legislationNumber))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, council.ErrNotFound
		}
		return nil, err
	}
	return payload, nil
}

// ListLawRecordNumbers lists the legislation numbers present in the law
// book, in key order (which matches numeric order for zero-padded keys).
func (d *Database) ListLawRecordNumbers() ([]string, error) {
	var numbers []string
	err := d.lawBook.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(lawBookKeyPrefix); it.ValidForPrefix(lawBookKeyPrefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			numbers = append(numbers, string(key[len(lawBookKeyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return numbers, nil
}
