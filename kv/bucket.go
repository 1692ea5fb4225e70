// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket namespaces keys of an underlying store by a fixed prefix.
type Bucket string

func (b Bucket) prefixed(key []byte) []byte {
	k := make([]byte, 0, len(b)+len(key))
	return append(append(k, b...), key...)
}

type bucketGetter struct {
	Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.prefixed(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.prefixed(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.prefixed(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.prefixed(key)) }

// NewGetter reads keys of the bucket from src.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter writes keys of the bucket to src.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

type bucketStore struct {
	Getter
	Putter
	bucket Bucket
	src    Store
}

// NewStore scopes the whole store src to the bucket.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{b.NewGetter(src), b.NewPutter(src), b, src}
}

func (s *bucketStore) Snapshot() Snapshot {
	snap := s.src.Snapshot()
	return &struct {
		Getter
		ReleaseFunc
	}{s.bucket.NewGetter(snap), snap.Release}
}

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &struct {
		Putter
		WriteFunc
	}{s.bucket.NewPutter(bulk), bulk.Write}
}

// Iterate walks keys of the bucket in r, an empty limit meaning the bucket end.
// Returned keys have the bucket prefix stripped.
func (s *bucketStore) Iterate(r Range) Iterator {
	prefix := []byte(s.bucket)
	r.Start = s.bucket.prefixed(r.Start)
	if len(r.Limit) == 0 {
		r.Limit = util.BytesPrefix(prefix).Limit
	} else {
		r.Limit = s.bucket.prefixed(r.Limit)
	}
	iter := s.src.Iterate(r)
	return &struct {
		NextFunc
		KeyFunc
		ValueFunc
		ReleaseFunc
		ErrorFunc
	}{
		iter.Next,
		func() []byte { return iter.Key()[len(prefix):] },
		iter.Value,
		iter.Release,
		iter.Error,
	}
}
