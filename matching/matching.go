// Package matching scores and ranks staff against tasks by skill overlap and
// availability overlap. Everything here is pure.
package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/ncobase/staffing/structs"
)

// SkillMatch returns the percentage of required skills present in the
// candidate skills, compared case-insensitively and rounded to two decimals.
// It is 0 when no skills are required.
func SkillMatch(required, candidate []string) float64 {
	req := normalize(required)
	if len(req) == 0 {
		return 0
	}
	have := normalize(candidate)

	matched := 0
	for skill := range req {
		if _, ok := have[skill]; ok {
			matched++
		}
	}
	return round2(100 * float64(matched) / float64(len(req)))
}

// Overlaps reports whether two inclusive date ranges intersect. A missing or
// unreadable range on either side always overlaps.
func Overlaps(a, b *structs.DateRange) bool {
	aStart, aEnd, okA := a.Bounds()
	bStart, bEnd, okB := b.Bounds()
	if !okA || !okB {
		return true
	}
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

// RankCandidates ranks staff for a task, best match first. Staff whose
// availability misses the task window are dropped; ties keep input order.
func RankCandidates(task *structs.Task, staff []*structs.StaffProfile) []*structs.Candidate {
	window := task.Window()
	out := make([]*structs.Candidate, 0, len(staff))
	for _, s := range staff {
		if s == nil || !Overlaps(window, s.Availability) {
			continue
		}
		out = append(out, &structs.Candidate{
			Email:           s.Email,
			Name:            s.Name,
			Skills:          nonNil(s.Skills),
			PercentageMatch: SkillMatch(task.RequiredSkills, s.Skills),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PercentageMatch > out[j].PercentageMatch
	})
	return out
}

// RankTasks ranks open tasks for a staff member, best match first.
// own maps a task id to the staff member's own request on that task, if any.
func RankTasks(staff *structs.StaffProfile, tasks []*structs.Task, own map[string]*structs.Request) []*structs.TaskMatch {
	out := make([]*structs.TaskMatch, 0, len(tasks))
	for _, t := range tasks {
		if t == nil || !t.IsOpen() || !Overlaps(t.Window(), staff.Availability) {
			continue
		}
		m := &structs.TaskMatch{
			TaskID:          t.TaskID,
			TaskName:        t.TaskName,
			ProjectID:       t.ProjectID,
			RequiredSkills:  nonNil(t.RequiredSkills),
			StartDate:       t.StartDate,
			EndDate:         t.EndDate,
			PercentageMatch: SkillMatch(t.RequiredSkills, staff.Skills),
		}
		if r, ok := own[t.TaskID]; ok && r != nil {
			switch r.Status {
			case structs.RequestStatusPending, structs.RequestStatusApproved:
				m.HasRequested = true
			case structs.RequestStatusRejected:
				m.IsRejected = true
			}
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PercentageMatch > out[j].PercentageMatch
	})
	return out
}

func normalize(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
