// Package importer reads whole activity plans from JSON or YAML files.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of an activity plan file.
type ImportSchema struct {
	Activity ActivityImport  `json:"activity" yaml:"activity"`
	Topics   []TopicImport   `json:"topics" yaml:"topics"`
	SubTasks []SubTaskImport `json:"sub_tasks" yaml:"sub_tasks"`
}

// ActivityImport defines the activity itself. Owner is an email; when empty
// the importing user owns the activity.
type ActivityImport struct {
	Name        string  `json:"name" yaml:"name"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Start       string  `json:"start" yaml:"start"`
	End         string  `json:"end" yaml:"end"`
	Owner       string  `json:"owner,omitempty" yaml:"owner,omitempty"`
}

// TopicImport defines a topic. Ref is local to the file and is how
// sub-tasks point at their topic.
type TopicImport struct {
	Ref         string  `json:"ref" yaml:"ref"`
	Title       string  `json:"title" yaml:"title"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
}

// SubTaskImport defines a dated sub-task. Assignee is an email.
type SubTaskImport struct {
	TopicRef    string  `json:"topic_ref" yaml:"topic_ref"`
	Title       string  `json:"title" yaml:"title"`
	Description *string `json:"description,omitempty" yaml:"description,omitempty"`
	Start       string  `json:"start" yaml:"start"`
	End         string  `json:"end" yaml:"end"`
	Status      string  `json:"status,omitempty" yaml:"status,omitempty"`
	Progress    *int    `json:"progress,omitempty" yaml:"progress,omitempty"`
	Assignee    *string `json:"assignee,omitempty" yaml:"assignee,omitempty"`
}

// LoadImportSchema reads a plan file. The format follows the extension:
// .json, or .yaml/.yml.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema ImportSchema
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &schema)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &schema)
	default:
		return nil, fmt.Errorf("import file %s: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
