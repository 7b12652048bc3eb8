package documentloaders

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sevigo/splitframe/schema"
)

// FileLoader reads whole files into documents, one per path. Content bytes
// are stored as is, without decoding.
type FileLoader struct {
	Paths   []string
	Headers map[string]any
}

func NewFileLoader(paths ...string) *FileLoader {
	return &FileLoader{Paths: paths}
}

func (l *FileLoader) Load(ctx context.Context) ([]schema.Document, error) {
	if len(l.Paths) == 0 {
		return nil, errors.New("no files to load")
	}

	docs := make([]schema.Document, 0, len(l.Paths))
	for _, path := range l.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		metadata := make(map[string]any, len(l.Headers)+2)
		for k, v := range l.Headers {
			metadata[k] = v
		}
		metadata["source"] = path
		metadata["size"] = len(content)
		docs = append(docs, schema.NewDocument(string(content), metadata))
	}
	return docs, nil
}
