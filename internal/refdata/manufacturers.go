// Package refdata holds immutable reference tables injected into the
// extractor and validator: known vehicle manufacturers and their canonical
// casing. Tables can be replaced wholesale (e.g. in tests, or from a yaml
// override file) but are never mutated in place.
package refdata

import (
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manufacturers is an ordered manufacturer name table. Matching is longest
// name first so that multi-word names ("Land Rover") are tried before any
// single-word prefix of the same text, then by the table's original order to
// keep results deterministic for equal lengths.
type Manufacturers struct {
	names   []string
	ordered []string // names sorted by descending length for prefix matching
	byLower map[string]string
}

// NewManufacturers builds a table from the given canonical names.
func NewManufacturers(names []string) *Manufacturers {
	m := &Manufacturers{
		names:   names,
		ordered: make([]string, len(names)),
		byLower: make(map[string]string, len(names)),
	}
	copy(m.ordered, names)
	sort.SliceStable(m.ordered, func(i, j int) bool {
		return len(m.ordered[i]) > len(m.ordered[j])
	})
	for _, n := range names {
		m.byLower[strings.ToLower(n)] = n
	}
	return m
}

// MatchPrefix returns the canonical manufacturer whose name is a
// case-insensitive prefix of text, trying longer names first. The second
// return is the remainder of text with leading whitespace trimmed. ok=false
// when no manufacturer matches.
func (m *Manufacturers) MatchPrefix(text string) (name, rest string, ok bool) {
	lower := strings.ToLower(text)
	for _, name := range m.ordered {
		nl := strings.ToLower(name)
		if !strings.HasPrefix(lower, nl) {
			continue
		}
		// Require a word boundary so "Kia" does not match "Kiara".
		tail := text[len(name):]
		if tail != "" && !strings.HasPrefix(tail, " ") && !strings.HasPrefix(tail, "\t") {
			continue
		}
		return name, strings.TrimLeft(tail, " \t"), true
	}
	return "", "", false
}

// Contains reports whether name is a known manufacturer, case-insensitively.
func (m *Manufacturers) Contains(name string) bool {
	_, ok := m.byLower[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the canonical names in their original order.
func (m *Manufacturers) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// LoadManufacturers reads a yaml file containing a `manufacturers:` list and
// returns a table built from it.
func LoadManufacturers(path string) (*Manufacturers, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "refdata: read manufacturers file %s", path)
	}
	var doc struct {
		Manufacturers []string `yaml:"manufacturers"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "refdata: parse manufacturers yaml")
	}
	if len(doc.Manufacturers) == 0 {
		return nil, eris.Errorf("refdata: %s contains no manufacturers", path)
	}
	return NewManufacturers(doc.Manufacturers), nil
}

// DefaultManufacturers returns the built-in manufacturer table. Multi-word
// names are listed alongside single-word ones; ordering within the table does
// not matter for matching (length does) but is kept roughly by market share
// for readable diffs.
func DefaultManufacturers() *Manufacturers {
	return NewManufacturers([]string{
		"Ford",
		"Chevrolet",
		"Toyota",
		"Honda",
		"Nissan",
		"Jeep",
		"Ram",
		"GMC",
		"Hyundai",
		"Kia",
		"Subaru",
		"Volkswagen",
		"BMW",
		"Mercedes-Benz",
		"Lexus",
		"Mazda",
		"Audi",
		"Buick",
		"Cadillac",
		"Chrysler",
		"Dodge",
		"Lincoln",
		"Acura",
		"Infiniti",
		"Volvo",
		"Mitsubishi",
		"Porsche",
		"Land Rover",
		"Range Rover",
		"Jaguar",
		"Mini",
		"Fiat",
		"Alfa Romeo",
		"Aston Martin",
		"Bentley",
		"Rolls-Royce",
		"Ferrari",
		"Lamborghini",
		"Maserati",
		"McLaren",
		"Tesla",
		"Rivian",
		"Lucid",
		"Polestar",
		"Genesis",
		"Saturn",
		"Pontiac",
		"Oldsmobile",
		"Mercury",
		"Saab",
		"Hummer",
		"Scion",
		"Smart",
		"Suzuki",
		"Isuzu",
	})
}
