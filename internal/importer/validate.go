package importer

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/domain"
)

// ValidateImportSchema checks the schema before conversion and returns every
// problem found, not just the first.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error
	errs = append(errs, validateActivity(&schema.Activity)...)

	refs := make(map[string]bool, len(schema.Topics))
	errs = append(errs, validateTopics(schema.Topics, refs)...)
	errs = append(errs, validateSubTasks(schema.SubTasks, refs)...)
	return errs
}

// validateRange checks a pair of required dates and their order.
func validateRange(prefix, start, end string) []error {
	var errs []error
	s, startErr := parseRequired(prefix+".start", start)
	if startErr != nil {
		errs = append(errs, startErr)
	}
	e, endErr := parseRequired(prefix+".end", end)
	if endErr != nil {
		errs = append(errs, endErr)
	}
	if startErr == nil && endErr == nil && e.Before(s) {
		errs = append(errs, fmt.Errorf("%s: end %s is before start %s", prefix, end, start))
	}
	return errs
}

func validateActivity(a *ActivityImport) []error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, fmt.Errorf("activity.name is required"))
	}
	return append(errs, validateRange("activity", a.Start, a.End)...)
}

func validateTopics(topics []TopicImport, refs map[string]bool) []error {
	var errs []error
	for i, t := range topics {
		prefix := fmt.Sprintf("topics[%d]", i)
		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if refs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref %q is duplicated", prefix, t.Ref))
		}
		refs[t.Ref] = true
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
	}
	return errs
}

func validateSubTasks(subtasks []SubTaskImport, refs map[string]bool) []error {
	var errs []error
	for i, st := range subtasks {
		prefix := fmt.Sprintf("sub_tasks[%d]", i)
		if st.TopicRef == "" {
			errs = append(errs, fmt.Errorf("%s.topic_ref is required", prefix))
		} else if !refs[st.TopicRef] {
			errs = append(errs, fmt.Errorf("%s.topic_ref %q does not match any topic", prefix, st.TopicRef))
		}
		if st.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		errs = append(errs, validateRange(prefix, st.Start, st.End)...)
		if st.Status != "" && !domain.ValidSubTaskStatuses[domain.SubTaskStatus(st.Status)] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, st.Status))
		}
		if st.Progress != nil && (*st.Progress < 0 || *st.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress %d must be between 0 and 100", prefix, *st.Progress))
		}
	}
	return errs
}
