package load

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/weftworks/liftplan/pkg/draft"
	"github.com/weftworks/liftplan/pkg/errors"
)

// yamlDraft is the on-disk shape of a full draft document:
//
//	shafts: 8
//	tieup:
//	  1: [1, 2]
//	  2: [3, 4]
//	sections:
//	  hem:
//	    - treadles: [1]
//	    - treadles: [2]
//	  body:
//	    - ref: hem
//	      repeat: 3
//	main:
//	  - section: body
//	    repeat: 2
type yamlDraft struct {
	Shafts   int                    `yaml:"shafts"`
	TieUp    map[int][]int          `yaml:"tieup"`
	Sections map[string][]yamlEntry `yaml:"sections"`
	Main     []yamlSeqRef           `yaml:"main"`
}

type yamlEntry struct {
	Treadles []int  `yaml:"treadles"`
	Ref      string `yaml:"ref"`
	Repeat   int    `yaml:"repeat"`
}

type yamlSeqRef struct {
	Section string `yaml:"section"`
	Repeat  int    `yaml:"repeat"`
}

// DraftYAML parses a full draft document from YAML.
func DraftYAML(r io.Reader) (*Draft, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read draft")
	}

	var doc yamlDraft
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode draft YAML")
	}

	d := &Draft{
		TieUp:    draft.TieUp{},
		Sections: draft.Sections{},
		Shafts:   doc.Shafts,
	}
	for treadle, shafts := range doc.TieUp {
		d.TieUp[treadle] = shafts
	}
	if err := d.TieUp.Validate(); err != nil {
		return nil, err
	}

	for name, entries := range doc.Sections {
		if name == "" {
			return nil, errors.New(errors.ErrCodeInvalidTreadling, "section with empty name")
		}
		converted := make([]draft.Entry, 0, len(entries))
		for i, e := range entries {
			switch {
			case e.Ref != "":
				repeat := e.Repeat
				if repeat == 0 {
					repeat = 1
				}
				converted = append(converted, draft.Ref(e.Ref, repeat))
			default:
				if e.Repeat != 0 {
					return nil, errors.New(errors.ErrCodeInvalidTreadling, "section %q entry %d: repeat without a ref", name, i+1)
				}
				converted = append(converted, draft.Pick(e.Treadles...))
			}
		}
		d.Sections[name] = converted
	}

	for i, m := range doc.Main {
		if m.Section == "" {
			return nil, errors.New(errors.ErrCodeInvalidTreadling, "main entry %d: missing section name", i+1)
		}
		repeat := m.Repeat
		if repeat == 0 {
			repeat = 1
		}
		d.Main = append(d.Main, draft.SeqRef{Name: m.Section, Repeat: repeat})
	}
	if len(d.Main) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidTreadling, "draft has no main sequence: nothing to weave")
	}

	return d, nil
}

// DraftYAMLFile loads a full draft document from path.
func DraftYAMLFile(path string) (*Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open draft %s", path)
	}
	defer f.Close()
	return DraftYAML(f)
}
