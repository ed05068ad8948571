package importer

import (
	_ "embed"
	"errors"
	"fmt"
	"kaimporter/lib/catalog"
	"kaimporter/lib/configutil"
	"kaimporter/lib/textutil"
	"os"
	"strings"

	"github.com/antzucaro/matchr"
)

// Source is a maker whose catalog lives in a google docs document.
type Source struct {
	Name      string `json:"name"`
	DocId     string `json:"doc_id"`
	Instagram string `json:"instagram"`
	Website   string `json:"website"`
}

func (s Source) Seed() catalog.Seed {
	return catalog.Seed{
		Name:      s.Name,
		Instagram: s.Instagram,
		Website:   s.Website,
	}
}

type SourcesConfig struct {
	Sources []Source `json:"sources"`
}

//go:embed sources.json5
var defaultSources []byte

const SourcesFile = "sources.json5"

var ErrUnknownSource = errors.New("unknown source")

// LoadSources reads the sources from path, if path is empty it searches
// for sources.json5 from the cwd upwards and falls back on the built in
// list when there is none.
func LoadSources(path string) ([]Source, error) {
	var cfg SourcesConfig
	var err error
	if path != "" {
		cfg, err = configutil.ReadConfig[SourcesConfig](path)
	} else {
		cfg, err = configutil.ReadRecursively[SourcesConfig](SourcesFile)
		if errors.Is(err, os.ErrNotExist) {
			cfg, err = configutil.ParseConfig[SourcesConfig](defaultSources)
		}
	}
	if err != nil {
		return nil, err
	}

	for i, s := range cfg.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("source %d has no name", i)
		}
		if strings.TrimSpace(s.DocId) == "" {
			return nil, fmt.Errorf("source %q has no doc_id", s.Name)
		}
	}
	return cfg.Sources, nil
}

const similarityThreshold = 0.85

// Resolve finds the source a user meant by query: exact name first, then
// a unique partial match, then the most similar name.
func Resolve(sources []Source, query string) (Source, error) {
	normalized := textutil.NormalizeName(query)
	if normalized == "" {
		return Source{}, fmt.Errorf("%w: empty name", ErrUnknownSource)
	}

	var partial []Source
	for _, s := range sources {
		name := textutil.NormalizeName(s.Name)
		if name == normalized || textutil.NormalizeName(s.DocId) == normalized {
			return s, nil
		}
		if textutil.MatchName(s.Name, []string{normalized}) {
			partial = append(partial, s)
		}
	}
	if len(partial) == 1 {
		return partial[0], nil
	}

	var best Source
	bestSimilarity := 0.0
	for _, s := range sources {
		similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(s.Name), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = s
		}
	}
	if bestSimilarity >= similarityThreshold {
		return best, nil
	}

	if best.Name != "" {
		return Source{}, fmt.Errorf("%w: %q, did you mean %q?", ErrUnknownSource, query, best.Name)
	}
	return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, query)
}
