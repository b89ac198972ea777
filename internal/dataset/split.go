// Package dataset reads IIW split files and turns their entries into
// image identifiers.
package dataset

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
	"gopkg.in/yaml.v3"
)

// LoadSplits reads a split file: a sequence of per-split sequences of
// path-like entries. Pickle (.p, .pkl) and YAML (.yaml, .yml) files hold
// nested lists; any other extension is read as one entry per line and
// yields a single split.
func LoadSplits(file string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".p", ".pkl", ".pickle":
		return loadPickle(file)
	case ".yaml", ".yml":
		return loadYAML(file)
	default:
		return loadText(file)
	}
}

func loadPickle(file string) ([][]string, error) {
	obj, err := pickle.Load(file)
	if err != nil {
		return nil, fmt.Errorf("unpickle split file %s: %w", file, err)
	}
	outer, err := sequence(obj)
	if err != nil {
		return nil, fmt.Errorf("split file %s: %w", file, err)
	}

	splits := make([][]string, 0, len(outer))
	for i, item := range outer {
		inner, err := sequence(item)
		if err != nil {
			return nil, fmt.Errorf("split %d in %s: %w", i, file, err)
		}
		entries := make([]string, 0, len(inner))
		for j, e := range inner {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("split %d entry %d in %s: expected string, got %T", i, j, file, e)
			}
			entries = append(entries, s)
		}
		splits = append(splits, entries)
	}
	return splits, nil
}

func sequence(obj interface{}) ([]interface{}, error) {
	switch v := obj.(type) {
	case *types.List:
		out := make([]interface{}, v.Len())
		for i := range out {
			out[i] = v.Get(i)
		}
		return out, nil
	case *types.Tuple:
		out := make([]interface{}, v.Len())
		for i := range out {
			out[i] = v.Get(i)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list, got %T", obj)
	}
}

func loadYAML(file string) ([][]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read split file: %w", err)
	}
	var splits [][]string
	if err := yaml.Unmarshal(data, &splits); err != nil {
		return nil, fmt.Errorf("parse split YAML %s: %w", file, err)
	}
	return splits, nil
}

func loadText(file string) ([][]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read split file: %w", err)
	}
	var entries []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan split file %s: %w", file, err)
	}
	return [][]string{entries}, nil
}

// ImageID strips directories and every extension from a split entry, so
// "data/iiw/117613.png.h5" becomes "117613".
func ImageID(entry string) string {
	base := path.Base(filepath.ToSlash(entry))
	id, _, _ := strings.Cut(base, ".")
	return id
}

// Select returns the requested splits in order. No indices selects every
// split.
func Select(splits [][]string, indices []int) ([][]string, error) {
	if len(indices) == 0 {
		return splits, nil
	}
	out := make([][]string, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(splits) {
			return nil, fmt.Errorf("split index %d out of range [0, %d)", i, len(splits))
		}
		out = append(out, splits[i])
	}
	return out, nil
}

func IDs(entries []string) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = ImageID(e)
	}
	return ids
}

// Sample keeps every n-th id, starting with the first.
func Sample(ids []string, every int) []string {
	if every <= 1 {
		return ids
	}
	out := make([]string, 0, len(ids)/every+1)
	for i, id := range ids {
		if i%every == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Exclude drops the listed ids and keeps the remaining order.
func Exclude(ids []string, excluded []string) []string {
	if len(excluded) == 0 {
		return ids
	}
	skip := make(map[string]struct{}, len(excluded))
	for _, e := range excluded {
		skip[e] = struct{}{}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

type Options struct {
	Splits      []int
	SampleEvery int
	Exclude     []string
}

// LoadIDs reads a split file and applies split selection, sampling and
// exclusion, in that order. Sampling restarts at the head of every split.
func LoadIDs(file string, opts Options) ([]string, error) {
	splits, err := LoadSplits(file)
	if err != nil {
		return nil, err
	}
	chosen, err := Select(splits, opts.Splits)
	if err != nil {
		return nil, fmt.Errorf("split file %s: %w", file, err)
	}
	var ids []string
	for _, entries := range chosen {
		ids = append(ids, Sample(IDs(entries), opts.SampleEvery)...)
	}
	return Exclude(ids, opts.Exclude), nil
}
