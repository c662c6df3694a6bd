package metadata

import (
	"context"
	"fmt"
	"os"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"apisect/internal/model"
)

// Loader reads model files, consulting Cache when set.
type Loader struct {
	Cache *Cache
	// Memo keeps recently decoded documents in memory; see NewMemo.
	Memo *lru.Cache[Digest, *Document]
	// OnCacheError is told about cache failures, which never fail a load.
	OnCacheError func(path string, err error)
}

// NewMemo returns an in-memory document cache holding size entries.
func NewMemo(size int) (*lru.Cache[Digest, *Document], error) {
	return lru.New[Digest, *Document](size)
}

// Load reads path and returns the linked assembly it describes.
func (l *Loader) Load(path string) (*model.Assembly, error) {
	doc, err := l.document(path)
	if err != nil {
		return nil, err
	}
	return doc.Assembly(path)
}

func (l *Loader) document(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	var key Digest
	if l.Cache != nil || l.Memo != nil {
		key = DigestOf(data)
	}
	if l.Memo != nil {
		if doc, ok := l.Memo.Get(key); ok {
			return doc, nil
		}
	}
	if l.Cache != nil {
		doc, ok, err := l.Cache.Get(key)
		if err != nil {
			l.cacheError(path, err)
		} else if ok {
			l.remember(key, doc)
			return doc, nil
		}
	}
	doc, err := Decode(data, DetectFormat(path))
	if err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}
	if l.Cache != nil {
		if err := l.Cache.Put(key, doc); err != nil {
			l.cacheError(path, err)
		}
	}
	l.remember(key, doc)
	return doc, nil
}

func (l *Loader) remember(key Digest, doc *Document) {
	if l.Memo != nil {
		l.Memo.Add(key, doc)
	}
}

func (l *Loader) cacheError(path string, err error) {
	if l.OnCacheError != nil {
		l.OnCacheError(path, err)
	}
}

// LoadAll loads paths with up to jobs workers; jobs <= 0 means GOMAXPROCS.
// The result is in input order. The first failure cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, paths []string, jobs int) ([]*model.Assembly, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	out := make([]*model.Assembly, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := l.Load(path)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
