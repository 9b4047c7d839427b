package domain

import "time"

// GanttSnapshot is the read model for one activity and its full tree.
// Topics are in creation order; SubTasks carry no meaningful order.
type GanttSnapshot struct {
	Activity *Activity
	Topics   []*Topic
	SubTasks []*SubTask
	Scale    Scale
	Now      time.Time
}

// Clone returns a deep copy that shares nothing with s.
func (s *GanttSnapshot) Clone() *GanttSnapshot {
	if s == nil {
		return nil
	}
	c := &GanttSnapshot{
		Activity: s.Activity.Clone(),
		Topics:   make([]*Topic, 0, len(s.Topics)),
		SubTasks: make([]*SubTask, 0, len(s.SubTasks)),
		Scale:    s.Scale,
		Now:      s.Now,
	}
	for _, t := range s.Topics {
		c.Topics = append(c.Topics, t.Clone())
	}
	for _, st := range s.SubTasks {
		c.SubTasks = append(c.SubTasks, st.Clone())
	}
	return c
}

// Topic returns the topic with the given ID, or nil.
func (s *GanttSnapshot) Topic(id string) *Topic {
	for _, t := range s.Topics {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// SubTask returns the sub-task with the given ID, or nil.
func (s *GanttSnapshot) SubTask(id string) *SubTask {
	for _, st := range s.SubTasks {
		if st.ID == id {
			return st
		}
	}
	return nil
}

// SubTasksOf returns the sub-tasks whose parent is topicID.
func (s *GanttSnapshot) SubTasksOf(topicID string) []*SubTask {
	var out []*SubTask
	for _, st := range s.SubTasks {
		if st.TopicID == topicID {
			out = append(out, st)
		}
	}
	return out
}
