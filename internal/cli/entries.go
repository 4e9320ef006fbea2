package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/henderiw/intervalmap/pkg/interval"
	"github.com/henderiw/intervalmap/pkg/intervalmap"
	"gopkg.in/yaml.v3"
)

// entryFile is the layout of a --file document.
type entryFile struct {
	// Overwrite applies the entries with overwrite semantics, later entries
	// win. By default earlier entries win.
	Overwrite bool        `yaml:"overwrite" toml:"overwrite"`
	Entries   []fileEntry `yaml:"entries" toml:"entries"`
}

type fileEntry struct {
	Range string `yaml:"range" toml:"range"`
	Value string `yaml:"value" toml:"value"`
}

func readEntryFile(path string) (*entryFile, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml", ".toml":
	default:
		return nil, fmt.Errorf("unsupported entry file %s, want .yaml, .yml or .toml", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f := &entryFile{}
	switch ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	}
	return f, nil
}

// parseEntry splits s at its last '=' into a range and a value.
func parseEntry(s string) (intervalmap.Entry[int64, string], error) {
	i := strings.LastIndexByte(s, '=')
	if i < 0 {
		return intervalmap.Entry[int64, string]{}, fmt.Errorf("entry %q is not of the form RANGE=VALUE", s)
	}
	iv, err := interval.ParseInt(s[:i])
	if err != nil {
		return intervalmap.Entry[int64, string]{}, fmt.Errorf("entry %q: %w", s, err)
	}
	return intervalmap.Entry[int64, string]{Interval: iv, Value: s[i+1:]}, nil
}

func parseEntries(args []string) ([]intervalmap.Entry[int64, string], error) {
	entries := make([]intervalmap.Entry[int64, string], 0, len(args))
	for _, arg := range args {
		e, err := parseEntry(arg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func entrySeq(entries []intervalmap.Entry[int64, string]) iter.Seq2[interval.Interval[int64], string] {
	return func(yield func(interval.Interval[int64], string) bool) {
		for _, e := range entries {
			if !yield(e.Interval, e.Value) {
				return
			}
		}
	}
}

// load builds the base map from the entry file and the --entry flags.
func (o *rootOptions) load() (*intervalmap.Map[int64, string], error) {
	m := intervalmap.NewOrdered[int64, string]()
	if o.file != "" {
		f, err := readEntryFile(o.file)
		if err != nil {
			return nil, err
		}
		entries := make([]intervalmap.Entry[int64, string], 0, len(f.Entries))
		for i, fe := range f.Entries {
			iv, err := interval.ParseInt(fe.Range)
			if err != nil {
				return nil, fmt.Errorf("%s: entry %d: %w", o.file, i, err)
			}
			entries = append(entries, intervalmap.Entry[int64, string]{Interval: iv, Value: fe.Value})
		}
		if f.Overwrite {
			m.ExtendOverwrite(entrySeq(entries))
		} else {
			m.Extend(entrySeq(entries))
		}
		o.log.V(1).Info("loaded entry file", "file", o.file, "entries", len(entries), "overwrite", f.Overwrite)
	}

	entries, err := parseEntries(o.entries)
	if err != nil {
		return nil, err
	}
	m.Extend(entrySeq(entries))
	o.log.V(1).Info("loaded base map", "entries", m.Len())
	return m, nil
}
