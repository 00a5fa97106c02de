package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"checktree/internal/model"

	"github.com/google/uuid"
)

var ErrInvalidTreeID = errors.New("invalid tree id")

// Tree ids appear in URLs and CSS id selectors, so they are limited to
// characters that need no escaping in either.
var treeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func ValidateTreeID(id string) error {
	if !treeIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q (use letters, digits, '_' or '-')", ErrInvalidTreeID, id)
	}
	return nil
}

// NewTreeID returns a fresh "tree-…" identifier.
func NewTreeID() string {
	return "tree-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// LoadDefinitionFile reads a tree definition. The file is either a TreeDef
// object or a bare array of descriptors. A missing id is generated; a missing
// label defaults to the file name.
func LoadDefinitionFile(path string) (model.TreeDef, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return model.TreeDef{}, err
	}
	def, err := ParseDefinition(b)
	if err != nil {
		return model.TreeDef{}, fmt.Errorf("%s: %w", path, err)
	}
	if def.Label == "" {
		def.Label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return def, nil
}

func ParseDefinition(b []byte) (model.TreeDef, error) {
	var def model.TreeDef
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &def.Nodes); err != nil {
			return model.TreeDef{}, err
		}
	} else if err := json.Unmarshal(trimmed, &def); err != nil {
		return model.TreeDef{}, err
	}
	if len(def.Nodes) == 0 {
		return model.TreeDef{}, fmt.Errorf("definition has no nodes")
	}
	def.ID = strings.TrimSpace(def.ID)
	if def.ID == "" {
		def.ID = NewTreeID()
	}
	return def, nil
}
