// Package manifest loads *_command.{yaml,yml,toml} files into command
// descriptors whose hooks and entries run as shell scripts.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Hook failure policies.
const (
	OnFailureFail = "fail"
	OnFailureHalt = "halt"
)

// Manifest is the on-disk shape of a command file.
type Manifest struct {
	Summary     string               `yaml:"summary" toml:"summary"`
	Description string               `yaml:"description" toml:"description"`
	Hidden      bool                 `yaml:"hidden" toml:"hidden"`
	Aliases     []string             `yaml:"aliases" toml:"aliases"`
	Banner      string               `yaml:"banner" toml:"banner"`
	Options     []OptionSpec         `yaml:"options" toml:"options"`
	Arguments   []ArgumentSpec       `yaml:"arguments" toml:"arguments"`
	Env         map[string]string    `yaml:"env" toml:"env"`
	Before      []HookSpec           `yaml:"before" toml:"before"`
	Run         string               `yaml:"run" toml:"run"`
	Commands    map[string]EntrySpec `yaml:"commands" toml:"commands"`
}

type OptionSpec struct {
	Name        string   `yaml:"name" toml:"name"`
	Type        string   `yaml:"type" toml:"type"`
	Aliases     []string `yaml:"aliases" toml:"aliases"`
	Enum        []string `yaml:"enum" toml:"enum"`
	Default     any      `yaml:"default" toml:"default"`
	Required    bool     `yaml:"required" toml:"required"`
	Description string   `yaml:"description" toml:"description"`
	Banner      string   `yaml:"banner" toml:"banner"`
	Hidden      bool     `yaml:"hidden" toml:"hidden"`
}

// ArgumentSpec is required unless required: false.
type ArgumentSpec struct {
	Name        string `yaml:"name" toml:"name"`
	Required    *bool  `yaml:"required" toml:"required"`
	Description string `yaml:"description" toml:"description"`
}

type HookSpec struct {
	Run       string `yaml:"run" toml:"run"`
	If        string `yaml:"if" toml:"if"`
	OnFailure string `yaml:"on_failure" toml:"on_failure"`
}

type EntrySpec struct {
	Summary string `yaml:"summary" toml:"summary"`
	Run     string `yaml:"run" toml:"run"`
	Hidden  bool   `yaml:"hidden" toml:"hidden"`
}

// Extensions lists the file extensions Decode understands.
var Extensions = []string{".yaml", ".yml", ".toml"}

// Decode parses data according to the extension of path. Unknown keys are errors.
func Decode(path string, data []byte) (*Manifest, error) {
	var m Manifest

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	default:
		return nil, fmt.Errorf("%s: unsupported manifest format", path)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// ReadFile reads and decodes a manifest file.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data)
}

func (m *Manifest) validate() error {
	if strings.TrimSpace(m.Run) == "" && len(m.Commands) == 0 {
		return errors.New("manifest defines neither run nor commands")
	}
	for i, o := range m.Options {
		if o.Name == "" {
			return fmt.Errorf("option %d has no name", i)
		}
	}
	for i, a := range m.Arguments {
		if a.Name == "" {
			return fmt.Errorf("argument %d has no name", i)
		}
	}
	for i, h := range m.Before {
		if strings.TrimSpace(h.Run) == "" {
			return fmt.Errorf("before hook %d has no run", i)
		}
		switch h.OnFailure {
		case "", OnFailureFail, OnFailureHalt:
		default:
			return fmt.Errorf("before hook %d: on_failure must be %q or %q", i, OnFailureFail, OnFailureHalt)
		}
	}
	for name, e := range m.Commands {
		if strings.TrimSpace(e.Run) == "" {
			return fmt.Errorf("command %q has no run", name)
		}
	}
	return nil
}
