package index

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
	"vitrine/internal/domain/product"
)

type CategoryStat struct {
	Name  string
	Count int
}

func (s *Store) Get(seoURL string) (product.Product, error) {
	seoURL = strings.Trim(strings.TrimSpace(seoURL), "/")
	if seoURL == "" {
		return product.Product{}, ErrNotFound
	}
	var p product.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bProducts)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(seoURL))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &p)
	})
	return p, err
}

// ResolveID maps a product id to its seoUrl.
func (s *Store) ResolveID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrNotFound
	}
	var seo string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bIdxID)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		seo = string(v)
		return nil
	})
	return seo, err
}

// All returns the indexed catalog in its original order.
func (s *Store) All() ([]product.Product, error) {
	var out []product.Product
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		out, err = collect(tx, tx.Bucket(bOrder))
		return err
	})
	return out, err
}

// Categories lists every category with its product count, by name.
func (s *Store) Categories() ([]CategoryStat, error) {
	var out []CategoryStat
	err := s.db.View(func(tx *bolt.Tx) error {
		idx := tx.Bucket(bIdxCat)
		if idx == nil {
			return nil
		}
		return idx.ForEach(func(k, v []byte) error {
			if v != nil {
				return nil
			}
			sb := idx.Bucket(k)
			if sb == nil {
				return nil
			}
			out = append(out, CategoryStat{Name: string(k), Count: countKeys(sb)})
			return nil
		})
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bOrder); b != nil {
			n = countKeys(b)
		}
		return nil
	})
	return n, err
}

// LastBuild is the fingerprint and time of the last recorded build. Both are zero before the
// first build.
func (s *Store) LastBuild() (string, time.Time, error) {
	var (
		fp string
		at time.Time
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return nil
		}
		fp = string(b.Get(kFingerprint))
		if raw := b.Get(kBuiltAt); raw != nil {
			t, err := time.Parse(time.RFC3339Nano, string(raw))
			if err != nil {
				return err
			}
			at = t
		}
		return nil
	})
	return fp, at, err
}

// collect walks an ordered seq -> seoUrl bucket and loads each product.
func collect(tx *bolt.Tx, order *bolt.Bucket) ([]product.Product, error) {
	products := tx.Bucket(bProducts)
	if order == nil || products == nil {
		return nil, nil
	}
	var out []product.Product
	cur := order.Cursor()
	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		if _, ok := seqFromKey(k); !ok {
			continue
		}
		raw := products.Get(v)
		if raw == nil {
			continue
		}
		var p product.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func countKeys(b *bolt.Bucket) int {
	n := 0
	cur := b.Cursor()
	for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
		n++
	}
	return n
}
