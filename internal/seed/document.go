// Package seed loads YAML fixtures describing an organisation's schools,
// classrooms, trainers and planning sessions, and applies them through the
// application services.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the root of a seed file.
type Document struct {
	// Owner is the email of the account that will own every record.
	Owner    string       `yaml:"owner"`
	Schools  []SchoolDoc  `yaml:"schools"`
	Sessions []SessionDoc `yaml:"sessions"`
}

type SchoolDoc struct {
	Name       string         `yaml:"name"`
	Classrooms []ClassroomDoc `yaml:"classrooms"`
	Trainers   []TrainerDoc   `yaml:"trainers"`
}

type ClassroomDoc struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type TrainerDoc struct {
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
	Email     string `yaml:"email"`
	Specialty string `yaml:"specialty"`
	Status    string `yaml:"status"`
}

// FullName is the key sessions use to reference the trainer.
func (t TrainerDoc) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// SessionDoc references its classroom by name and its trainer by
// "firstName lastName".
type SessionDoc struct {
	Classroom   string `yaml:"classroom"`
	Trainer     string `yaml:"trainer"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Location    string `yaml:"location"`
	Color       string `yaml:"color"`
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (Document, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("seed: empty document")
		}
		return Document{}, fmt.Errorf("seed: decode: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Load reads and parses the seed file at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Validate checks that the owner is set and that every session references
// exactly one declared classroom and trainer.
func (d Document) Validate() error {
	var problems []error
	if strings.TrimSpace(d.Owner) == "" {
		problems = append(problems, errors.New("owner is required"))
	}

	classrooms := make(map[string]int)
	trainers := make(map[string]int)
	for _, school := range d.Schools {
		for _, c := range school.Classrooms {
			classrooms[c.Name]++
		}
		for _, t := range school.Trainers {
			trainers[t.FullName()]++
		}
	}
	for name, count := range classrooms {
		if count > 1 {
			problems = append(problems, fmt.Errorf("classroom %q is declared %d times", name, count))
		}
	}
	for name, count := range trainers {
		if count > 1 {
			problems = append(problems, fmt.Errorf("trainer %q is declared %d times", name, count))
		}
	}
	for i, s := range d.Sessions {
		if _, ok := classrooms[s.Classroom]; !ok {
			problems = append(problems, fmt.Errorf("session %d: unknown classroom %q", i+1, s.Classroom))
		}
		if _, ok := trainers[s.Trainer]; !ok {
			problems = append(problems, fmt.Errorf("session %d: unknown trainer %q", i+1, s.Trainer))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("seed: invalid document: %w", errors.Join(problems...))
	}
	return nil
}
