package gapgen

import "github.com/abhisek/coursementor/internal/mentor"

// PlanTargets spreads count questions over the weak areas round-robin,
// weakest chapter first. Inside a chapter, concepts rotate most-missed
// first; a chapter with no matched concepts targets its title.
func PlanTargets(areas []mentor.WeakArea, count int) []Target {
	if len(areas) == 0 || count <= 0 {
		return nil
	}

	perArea := make([][]Target, len(areas))
	for i, a := range areas {
		if len(a.WeakConcepts) == 0 {
			perArea[i] = []Target{{Chapter: a.ChapterNumber, ChapterTitle: a.ChapterTitle, Concept: a.ChapterTitle}}
			continue
		}
		for _, c := range a.WeakConcepts {
			perArea[i] = append(perArea[i], Target{Chapter: a.ChapterNumber, ChapterTitle: a.ChapterTitle, Concept: c.Concept})
		}
	}

	targets := make([]Target, 0, count)
	next := make([]int, len(areas))
	for len(targets) < count {
		for i := range perArea {
			if len(targets) == count {
				break
			}
			ts := perArea[i]
			targets = append(targets, ts[next[i]%len(ts)])
			next[i]++
		}
	}
	return targets
}
