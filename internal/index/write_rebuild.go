package index

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
	"vitrine/internal/domain/product"
)

// Rebuild replaces the indexed catalog with items, keeping their order. Items without a seoUrl
// are skipped; callers run product.EnsureSeoURLs first. Build metadata survives a rebuild.
func (s *Store) Rebuild(items []product.Product) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bProducts, bOrder, bIdxID, bIdxCat} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return fmt.Errorf("drop %s: %w", name, err)
			}
		}

		productsB, err := tx.CreateBucket(bProducts)
		if err != nil {
			return err
		}
		orderB, err := tx.CreateBucket(bOrder)
		if err != nil {
			return err
		}
		idB, err := tx.CreateBucket(bIdxID)
		if err != nil {
			return err
		}
		catB, err := tx.CreateBucket(bIdxCat)
		if err != nil {
			return err
		}

		seq := 0
		for _, p := range items {
			seo := strings.TrimSpace(p.SeoURL)
			if seo == "" {
				continue
			}
			if productsB.Get([]byte(seo)) != nil {
				return fmt.Errorf("index: duplicate seoUrl %q", seo)
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := productsB.Put([]byte(seo), pb); err != nil {
				return err
			}

			key := seqKey(seq)
			seq++
			if err := orderB.Put(key, []byte(seo)); err != nil {
				return err
			}

			if id := strings.TrimSpace(p.ID); id != "" {
				if err := idB.Put([]byte(id), []byte(seo)); err != nil {
					return err
				}
			}

			if cat := strings.TrimSpace(p.Category); cat != "" {
				sb, err := catB.CreateBucketIfNotExists([]byte(cat))
				if err != nil {
					return err
				}
				if err := sb.Put(key, []byte(seo)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// SaveBuild records the fingerprint of a finished build.
func (s *Store) SaveBuild(fingerprint string, at time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bMeta)
		if err != nil {
			return err
		}
		if err := b.Put(kFingerprint, []byte(fingerprint)); err != nil {
			return err
		}
		return b.Put(kBuiltAt, []byte(at.UTC().Format(time.RFC3339Nano)))
	})
}
