// Package policy decides whether a daily task's time interval may join a
// day schedule, and how the interval must be adjusted when it collides
// with existing tasks. The policy is a pure function over the candidate
// and the day's current tasks; it never mutates either.
package policy

import (
	"sort"

	"ai-planner-be/internal/apperr"
	"ai-planner-be/internal/entity"
	"ai-planner-be/internal/pkg/timeutil"
)

const endOfDay = 24 * 60

// Outcome labels how a candidate interval was admitted.
type Outcome string

const (
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeRescheduled Outcome = "rescheduled"
	OutcomeCompressed  Outcome = "compressed"
)

// Resolution is the admitted interval. StartTime/EndTime differ from the
// candidate's when the policy had to shift or shorten it.
type Resolution struct {
	StartTime string
	EndTime   string
	Outcome   Outcome
}

// Resolve admits, adjusts, or rejects the candidate against the existing
// tasks of the same date. The rules, in order:
//
//  1. No overlap, or the candidate may run in parallel, or every
//     overlapped task may run in parallel: admitted unchanged.
//  2. The candidate may be rescheduled: it shifts to the earliest gap at
//     or after its original start that fits its full duration.
//  3. The candidate may be compressed: its end clips to the start of the
//     next blocking task, provided a non-empty interval remains.
//  4. Otherwise the insert fails with a conflict naming the first
//     blocking task.
//
// Existing tasks are never moved; a fixed task always wins.
func Resolve(candidate entity.DailyTask, existing []entity.DailyTask) (Resolution, error) {
	start, err := timeutil.ParseClock(candidate.StartTime)
	if err != nil {
		return Resolution{}, apperr.Validation("%v", err)
	}
	end, err := timeutil.ParseClock(candidate.EndTime)
	if err != nil {
		return Resolution{}, apperr.Validation("%v", err)
	}
	if start >= end {
		return Resolution{}, apperr.Validation("start_time %s must be before end_time %s", candidate.StartTime, candidate.EndTime)
	}

	// Admitted intervals are always re-rendered through FormatClock so the
	// stored strings are zero-padded and sort lexically in time order.
	unchanged := Resolution{
		StartTime: timeutil.FormatClock(start),
		EndTime:   timeutil.FormatClock(end),
		Outcome:   OutcomeUnchanged,
	}

	blockers := blockingIntervals(existing)
	overlapped := overlapping(blockers, start, end)
	if len(overlapped) == 0 || candidate.CanParallel {
		return unchanged, nil
	}

	if candidate.CanReschedule {
		if shifted, ok := earliestGap(blockers, start, end-start); ok {
			return Resolution{
				StartTime: timeutil.FormatClock(shifted),
				EndTime:   timeutil.FormatClock(shifted + (end - start)),
				Outcome:   OutcomeRescheduled,
			}, nil
		}
	}

	if candidate.CanCompress {
		if clipped, ok := compressEnd(overlapped, start); ok {
			return Resolution{
				StartTime: timeutil.FormatClock(start),
				EndTime:   timeutil.FormatClock(clipped),
				Outcome:   OutcomeCompressed,
			}, nil
		}
	}

	first := overlapped[0]
	return Resolution{}, apperr.Conflict(
		"time conflict with task \""+first.name+"\" ("+first.task.StartTime+"-"+first.task.EndTime+")",
		map[string]interface{}{
			"blocking_task":  first.name,
			"blocking_start": first.task.StartTime,
			"blocking_end":   first.task.EndTime,
		},
	)
}

type interval struct {
	start, end int
	name       string
	task       entity.DailyTask
}

// blockingIntervals collects the parsed intervals of every non-parallel
// existing task, sorted by start. Parallel tasks never block anyone.
// Tasks with unparsable times are skipped; they cannot have entered the
// schedule through the store in the first place.
func blockingIntervals(existing []entity.DailyTask) []interval {
	out := make([]interval, 0, len(existing))
	for _, t := range existing {
		if t.CanParallel {
			continue
		}
		s, err := timeutil.ParseClock(t.StartTime)
		if err != nil {
			continue
		}
		e, err := timeutil.ParseClock(t.EndTime)
		if err != nil {
			continue
		}
		out = append(out, interval{start: s, end: e, name: t.Name, task: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func overlapping(blockers []interval, start, end int) []interval {
	var out []interval
	for _, b := range blockers {
		if timeutil.Overlaps(start, end, b.start, b.end) {
			out = append(out, b)
		}
	}
	return out
}

// earliestGap finds the first free interval of the given duration starting
// at or after from, scanning the sorted blocker list up to end of day.
func earliestGap(blockers []interval, from, duration int) (int, bool) {
	cursor := from
	for _, b := range blockers {
		if b.end <= cursor {
			continue
		}
		if b.start >= cursor+duration {
			break
		}
		if b.end > cursor {
			cursor = b.end
		}
	}
	if cursor+duration <= endOfDay {
		return cursor, true
	}
	return 0, false
}

// compressEnd clips the candidate's end to the start of the earliest
// blocker that begins after the candidate's start. Compression cannot help
// when a blocker already covers the start itself.
func compressEnd(overlapped []interval, start int) (int, bool) {
	clipped := endOfDay
	for _, b := range overlapped {
		if b.start <= start {
			return 0, false
		}
		if b.start < clipped {
			clipped = b.start
		}
	}
	if clipped > start {
		return clipped, true
	}
	return 0, false
}
