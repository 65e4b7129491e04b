// Package persona resolves a study mode and vibe variant into the response
// style used when composing tutor prompts.
package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeNormal    Mode = "normal"
	ModeProfessor Mode = "professor"
	ModeVibe      Mode = "vibe"
)

// DefaultVariant is reported for modes without a regional variant.
const DefaultVariant = "default"

// DefaultLanguage is used when neither the persona nor the learner picks one.
const DefaultLanguage = "English"

//go:embed personas.yaml
var embeddedPersonas []byte

// Persona is a fully resolved response style.
type Persona struct {
	Mode     Mode
	Variant  string
	Name     string
	Language string // forced output language; empty means "use the learner's"
	Style    string
	Slang    []string
	Example  string
}

// ResolveLanguage returns the forced persona language, falling back to the
// learner's own choice and then to English.
func (p Persona) ResolveLanguage(userLanguage string) string {
	if p.Language != "" {
		return p.Language
	}
	if lang := strings.TrimSpace(userLanguage); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// StyleBlock renders the persona section of a prompt.
func (p Persona) StyleBlock() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Persona: %s\n", p.Name))
	b.WriteString(fmt.Sprintf("Style: %s\n", strings.TrimSpace(p.Style)))
	if len(p.Slang) > 0 {
		b.WriteString(fmt.Sprintf("Use characteristic terms such as: %s.\n", strings.Join(p.Slang, ", ")))
	}
	if p.Example != "" {
		b.WriteString(fmt.Sprintf("Example of the expected tone: \"%s\"\n", p.Example))
	}
	return b.String()
}

type personaSpec struct {
	Name     string                 `yaml:"name"`
	Language string                 `yaml:"language"`
	Style    string                 `yaml:"style"`
	Slang    []string               `yaml:"slang"`
	Example  string                 `yaml:"example"`
	Variants map[string]personaSpec `yaml:"variants"`
}

type fileSpec struct {
	Modes map[string]personaSpec `yaml:"modes"`
}

// Table is an immutable lookup of personas by mode and variant.
type Table struct {
	modes map[Mode]personaSpec
}

// Default returns the table compiled into the binary.
func Default() *Table {
	t, err := Parse(embeddedPersonas)
	if err != nil {
		panic(fmt.Sprintf("embedded personas.yaml is invalid: %v", err))
	}
	return t
}

// LoadFile reads a persona table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read personas file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML persona table. The "normal" mode is mandatory since
// every unknown mode falls back to it.
func Parse(data []byte) (*Table, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse personas: %w", err)
	}

	modes := make(map[Mode]personaSpec, len(spec.Modes))
	for name, ps := range spec.Modes {
		key := Mode(normalize(name))
		if strings.TrimSpace(ps.Style) == "" {
			return nil, fmt.Errorf("persona %q has no style", name)
		}
		variants := make(map[string]personaSpec, len(ps.Variants))
		for vName, vs := range ps.Variants {
			if strings.TrimSpace(vs.Style) == "" {
				return nil, fmt.Errorf("persona %q variant %q has no style", name, vName)
			}
			variants[normalize(vName)] = vs
		}
		ps.Variants = variants
		modes[key] = ps
	}

	if _, ok := modes[ModeNormal]; !ok {
		return nil, fmt.Errorf("personas must define the %q mode", ModeNormal)
	}

	return &Table{modes: modes}, nil
}

// Resolve maps a requested mode/variant onto a persona. Unknown modes behave
// exactly like "normal"; unknown variants use the mode's base persona.
func (t *Table) Resolve(mode, variant string) Persona {
	m := Mode(normalize(mode))
	spec, ok := t.modes[m]
	if !ok {
		m = ModeNormal
		spec = t.modes[ModeNormal]
	}

	if v, ok := spec.Variants[normalize(variant)]; ok {
		return toPersona(m, normalize(variant), v, spec)
	}
	return toPersona(m, DefaultVariant, spec, spec)
}

// Modes lists the configured mode names.
func (t *Table) Modes() []Mode {
	out := make([]Mode, 0, len(t.modes))
	for m := range t.modes {
		out = append(out, m)
	}
	return out
}

func toPersona(mode Mode, variant string, spec, parent personaSpec) Persona {
	p := Persona{
		Mode:     mode,
		Variant:  variant,
		Name:     spec.Name,
		Language: strings.TrimSpace(spec.Language),
		Style:    spec.Style,
		Slang:    spec.Slang,
		Example:  spec.Example,
	}
	if p.Name == "" {
		p.Name = parent.Name
	}
	if p.Language == "" {
		p.Language = strings.TrimSpace(parent.Language)
	}
	return p
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
