package core

// DefaultCircumference is the arc length of the progress ring drawn by the
// goal list template.
const DefaultCircumference = 188

// Progress describes how far a goal's checklist is completed.
type Progress struct {
	Total   int
	Done    int
	Percent int
}

// ComputeProgress returns the completion percentage, truncated toward zero.
// A goal with no requirements is at 0%.
func ComputeProgress(total, done int) Progress {
	p := Progress{Total: total, Done: done}
	if total > 0 && done > 0 {
		p.Percent = done * 100 / total
	}
	return p
}

// Remaining is the percentage still to be completed.
func (p Progress) Remaining() int {
	return 100 - p.Percent
}

// Status derives the goal status from the done/total ratio.
func (p Progress) Status() GoalStatus {
	return DeriveStatus(p.Total, p.Done)
}

// Offset is the dash offset for a ring of the given circumference.
func (p Progress) Offset(circumference int) int {
	return CircleOffset(circumference, p.Percent)
}

// DeriveStatus maps requirement completion to a goal status.
func DeriveStatus(total, done int) GoalStatus {
	switch {
	case done <= 0:
		return StatusNotStarted
	case done < total:
		return StatusInProgress
	default:
		return StatusDone
	}
}

// CircleOffset maps a percentage linearly onto the unfilled part of a ring.
func CircleOffset(circumference, percent int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return circumference - circumference*percent/100
}

// CountDone returns how many requirements are checked.
func CountDone(reqs []Requirement) int {
	n := 0
	for _, r := range reqs {
		if r.IsDone {
			n++
		}
	}
	return n
}
