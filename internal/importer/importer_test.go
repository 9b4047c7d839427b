package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() *ImportSchema {
	progress := 40
	return &ImportSchema{
		Activity: ActivityImport{Name: "Relaunch", Start: "2025-03-01", End: "2025-03-31"},
		Topics:   []TopicImport{{Ref: "design", Title: "Design"}},
		SubTasks: []SubTaskImport{{
			TopicRef: "design", Title: "Wireframes",
			Start: "2025-03-03", End: "2025-03-07",
			Status: "IN_PROGRESS", Progress: &progress,
		}},
	}
}

func TestLoadImportSchema_YAML(t *testing.T) {
	schema, err := LoadImportSchema("testdata/plan.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Website relaunch", schema.Activity.Name)
	require.NotNil(t, schema.Activity.Description)
	assert.Equal(t, "New marketing site", *schema.Activity.Description)
	require.Len(t, schema.Topics, 2)
	require.Len(t, schema.SubTasks, 2)
	assert.Equal(t, "IN_PROGRESS", schema.SubTasks[0].Status)
	require.NotNil(t, schema.SubTasks[0].Progress)
	assert.Equal(t, 40, *schema.SubTasks[0].Progress)
	require.NotNil(t, schema.SubTasks[1].Assignee)
	assert.Equal(t, "max@example.com", *schema.SubTasks[1].Assignee)
	assert.Empty(t, ValidateImportSchema(schema))
}

func TestLoadImportSchema_JSON(t *testing.T) {
	schema, err := LoadImportSchema("testdata/plan.json")
	require.NoError(t, err)
	assert.Equal(t, "design", schema.SubTasks[0].TopicRef)
	assert.Nil(t, schema.SubTasks[0].Progress)
}

func TestLoadImportSchema_Errors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "plan.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err := LoadImportSchema(txt)
	assert.ErrorContains(t, err, "unsupported extension")

	bad := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadImportSchema(bad)
	assert.ErrorContains(t, err, "parsing import file")

	_, err = LoadImportSchema(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateImportSchema(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ImportSchema)
		want   []string
	}{
		{"valid", func(*ImportSchema) {}, nil},
		{"missing name", func(s *ImportSchema) { s.Activity.Name = "" }, []string{"activity.name is required"}},
		{"inverted activity", func(s *ImportSchema) { s.Activity.End = "2025-02-01" },
			[]string{"activity: end 2025-02-01 is before start 2025-03-01"}},
		{"bad date", func(s *ImportSchema) { s.SubTasks[0].Start = "03/03/2025" },
			[]string{`sub_tasks[0].start: invalid date format "03/03/2025" (expected YYYY-MM-DD)`}},
		{"unknown topic", func(s *ImportSchema) { s.SubTasks[0].TopicRef = "ops" },
			[]string{`sub_tasks[0].topic_ref "ops" does not match any topic`}},
		{"duplicate ref", func(s *ImportSchema) {
			s.Topics = append(s.Topics, TopicImport{Ref: "design", Title: "Again"})
		}, []string{`topics[1].ref "design" is duplicated`}},
		{"bad status and progress", func(s *ImportSchema) {
			s.SubTasks[0].Status = "DONE"
			p := 120
			s.SubTasks[0].Progress = &p
		}, []string{
			`sub_tasks[0].status: invalid value "DONE"`,
			"sub_tasks[0].progress 120 must be between 0 and 100",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchema()
			tt.mutate(s)
			var got []string
			for _, err := range ValidateImportSchema(s) {
				got = append(got, err.Error())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert(t *testing.T) {
	s := validSchema()
	assignee := "max@example.com"
	s.SubTasks = append(s.SubTasks, SubTaskImport{
		TopicRef: "design", Title: "Review", Start: "2025-03-08", End: "2025-03-08", Assignee: &assignee,
	})
	lookup := func(email string) (string, error) {
		if email == "max@example.com" {
			return "user-max", nil
		}
		return "", fmt.Errorf("unknown %s: %w", email, domain.ErrNotFound)
	}

	plan, err := Convert(s, "user-actor", lookup)
	require.NoError(t, err)

	assert.NotEmpty(t, plan.Activity.ID)
	assert.Equal(t, "user-actor", plan.Activity.OwnerID)
	assert.Equal(t, domain.NewDate(2025, 3, 1), plan.Activity.Interval.Start)
	require.Len(t, plan.Topics, 1)
	assert.Equal(t, plan.Activity.ID, plan.Topics[0].ActivityID)

	require.Len(t, plan.SubTasks, 2)
	first, second := plan.SubTasks[0], plan.SubTasks[1]
	assert.Equal(t, plan.Topics[0].ID, first.TopicID)
	assert.Equal(t, domain.StatusInProgress, first.Status)
	assert.Equal(t, 40, first.Progress)
	assert.Nil(t, first.AssigneeID)
	assert.Equal(t, domain.StatusPlanned, second.Status)
	assert.Equal(t, 0, second.Progress)
	require.NotNil(t, second.AssigneeID)
	assert.Equal(t, "user-max", *second.AssigneeID)
	assert.Equal(t, 1, second.Interval.Days())

	s.Activity.Owner = "nobody@example.com"
	_, err = Convert(s, "user-actor", lookup)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
