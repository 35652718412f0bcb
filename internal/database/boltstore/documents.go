package boltstore

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"tangled.org/arabica.social/brewjournal/internal/database"
)

// bucket returns the bucket for collection, creating it inside write transactions.
func bucket(tx *bolt.Tx, collection string) (*bolt.Bucket, error) {
	if tx.Writable() {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", collection, err)
		}
		return b, nil
	}
	return tx.Bucket([]byte(collection)), nil
}

func (s *Store) Put(ctx context.Context, collection, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
}

func (s *Store) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b, _ := bucket(tx, collection)
		if b == nil {
			return database.ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return database.ErrNotFound
		}
		// Values are only valid for the life of the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) List(ctx context.Context, collection string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out [][]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b, _ := bucket(tx, collection)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			out = append(out, append([]byte(nil), v...))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := bucket(tx, collection)
		if err != nil {
			return err
		}
		if b.Get([]byte(id)) == nil {
			return database.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

func (s *Store) Count(ctx context.Context, collection string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		b, _ := bucket(tx, collection)
		if b == nil {
			return nil
		}
		n = b.Stats().KeyN
		return nil
	})
	return n, err
}
