// Package catalog holds the static exercise lookup tables: which muscle group
// an exercise works and whether it is a push or a pull movement.
// A catalog is loaded once at startup and is read-only afterwards.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var ErrUnknownExercise = errors.New("unknown exercise")

type Movement string

const (
	MovementPush Movement = "push"
	MovementPull Movement = "pull"
)

func (m Movement) IsValid() bool {
	return m == MovementPush || m == MovementPull
}

func (m Movement) String() string {
	return string(m)
}

type Exercise struct {
	Name        string   `json:"name" yaml:"name"`
	MuscleGroup string   `json:"muscleGroup" yaml:"muscle_group"`
	Movement    Movement `json:"movement" yaml:"movement"`
}

type catalogFile struct {
	Exercises []Exercise `yaml:"exercises"`
	KeyLifts  []string   `yaml:"key_lifts"`
}

type Catalog struct {
	exercises []Exercise
	byName    map[string]Exercise
	keyLifts  []string
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCatalogYAML))
}

// MustDefault is Default for callers that cannot recover from a broken
// embedded catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile reads the catalog from a YAML file. An empty path means the
// embedded default.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func Load(r io.Reader) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.NewDecoder(r).Decode(&cf); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	if len(cf.Exercises) == 0 {
		return nil, errors.New("catalog has no exercises")
	}

	c := &Catalog{
		exercises: make([]Exercise, 0, len(cf.Exercises)),
		byName:    make(map[string]Exercise, len(cf.Exercises)),
	}
	for i, ex := range cf.Exercises {
		ex.Name = strings.TrimSpace(ex.Name)
		ex.MuscleGroup = strings.TrimSpace(ex.MuscleGroup)
		ex.Movement = Movement(strings.ToLower(string(ex.Movement)))

		if ex.Name == "" {
			return nil, fmt.Errorf("exercise #%d: empty name", i)
		}
		if ex.MuscleGroup == "" {
			return nil, fmt.Errorf("exercise [%s]: empty muscle group", ex.Name)
		}
		if !ex.Movement.IsValid() {
			return nil, fmt.Errorf("exercise [%s]: invalid movement [%s]", ex.Name, ex.Movement)
		}
		if _, exists := c.byName[ex.Name]; exists {
			return nil, fmt.Errorf("exercise [%s]: duplicate entry", ex.Name)
		}

		c.exercises = append(c.exercises, ex)
		c.byName[ex.Name] = ex
	}

	for _, lift := range cf.KeyLifts {
		if _, ok := c.byName[lift]; !ok {
			return nil, fmt.Errorf("key lift [%s]: %w", lift, ErrUnknownExercise)
		}
		c.keyLifts = append(c.keyLifts, lift)
	}

	return c, nil
}

// Exercises returns the catalog exercises in file order.
func (c *Catalog) Exercises() []Exercise {
	out := make([]Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

func (c *Catalog) KeyLifts() []string {
	out := make([]string, len(c.keyLifts))
	copy(out, c.keyLifts)
	return out
}

func (c *Catalog) Lookup(name string) (Exercise, error) {
	ex, ok := c.byName[name]
	if !ok {
		return Exercise{}, fmt.Errorf("%w: %s", ErrUnknownExercise, name)
	}
	return ex, nil
}

func (c *Catalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// MovementOf tags every exercise that is not a catalog push movement as pull,
// including names missing from the catalog.
func (c *Catalog) MovementOf(name string) Movement {
	if ex, ok := c.byName[name]; ok && ex.Movement == MovementPush {
		return MovementPush
	}
	return MovementPull
}

// MuscleGroups returns the distinct muscle groups in file order.
func (c *Catalog) MuscleGroups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, ex := range c.exercises {
		if !seen[ex.MuscleGroup] {
			seen[ex.MuscleGroup] = true
			groups = append(groups, ex.MuscleGroup)
		}
	}
	return groups
}
