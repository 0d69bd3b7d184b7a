package template

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// Store holds every template bundle loaded from the template directory.
type Store struct {
	bundles []*Bundle
}

// NewStore scans dir for *.json template documents, sorted by file name for
// deterministic selection order. Unparseable files fail the load; a template
// directory with no usable bundle is a configuration error.
func NewStore(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigMissing, "template directory not found: "+dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	store := &Store{}
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeTemplateInvalid, "failed to read template "+name)
		}
		bundle, err := Parse(data, name)
		if err != nil {
			return nil, err
		}
		store.bundles = append(store.bundles, bundle)
	}
	if len(store.bundles) == 0 {
		return nil, apperrors.New(apperrors.CodeTemplateMissing, "no supplier evaluation templates found in "+dir)
	}
	return store, nil
}

// NewStoreFromBundles builds a store from pre-parsed bundles, mainly for
// tests.
func NewStoreFromBundles(bundles ...*Bundle) *Store {
	return &Store{bundles: bundles}
}

// Select picks the template for an industry: the first bundle (in load
// order) with a tag contained in the normalized industry string. Bundles
// without tags never match. Falls back to the first bundle.
func (s *Store) Select(industry string) *Bundle {
	normalized := Normalize(industry)
	for _, bundle := range s.bundles {
		if len(bundle.Tags) == 0 {
			continue
		}
		for _, tag := range bundle.Tags {
			if tag != "" && strings.Contains(normalized, tag) {
				return bundle
			}
		}
	}
	return s.bundles[0]
}

// Bundles returns every loaded bundle in selection order.
func (s *Store) Bundles() []*Bundle {
	return s.bundles
}
