package facts

import (
	"context"
	"fmt"
	"runtime"

	"github.com/simonhull/firebird-suite/raven/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// LoadFiles parses every fact document concurrently and merges them into a
// single Set. Types keep the order of paths, then the order inside each
// document. A type declared in two documents is an error.
func LoadFiles(ctx context.Context, log logger.Logger, paths ...string) (*Set, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no fact documents given")
	}
	if log == nil {
		log = logger.Default()
	}

	docs := make([]*Document, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			doc, err := ParseFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			log.Debug("Loaded fact document",
				logger.F("path", path),
				logger.F("name", doc.Name),
				logger.F("types", len(doc.Spec.Types)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, doc := range docs {
		total += len(doc.Spec.Types)
	}

	merged := make([]*TypeFact, 0, total)
	for _, doc := range docs {
		merged = append(merged, doc.Spec.Types...)
	}

	set, err := NewSet(merged)
	if err != nil {
		return nil, fmt.Errorf("merging fact documents: %w", err)
	}
	return set, nil
}
