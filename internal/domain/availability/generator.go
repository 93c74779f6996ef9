package availability

import (
	"sort"
	"time"

	"agencyhub/internal/domain/schedule"
)

// DefaultLeadBuffer is how far ahead of now a same-day slot must start to stay bookable.
const DefaultLeadBuffer = 30 * time.Minute

// GenerateSlots tiles every active template for target's weekday into slot start times.
// A slot is emitted only if its full duration fits before the template's end.
// target is read as a calendar day in its own location; now is converted into that location.
// Slots starting before now+leadBuffer are dropped, and a target day before today yields nothing.
// The result is deduplicated and ascending.
func GenerateSlots(templates []schedule.WeeklyTemplateSlot, now, target time.Time, leadBuffer time.Duration) []schedule.WallClock {
	loc := target.Location()
	day := schedule.StartOfDay(target, loc)
	today := schedule.StartOfDay(now, loc)
	if day.Before(today) {
		return nil
	}
	cutoff := now.Add(leadBuffer)

	seen := make(map[schedule.WallClock]struct{})
	for _, t := range templates {
		if !t.IsActive || t.DayOfWeek != day.Weekday() || t.DurationMinutes <= 0 {
			continue
		}
		step := t.Duration()
		for slot := t.StartTime; !slot.Add(step).After(t.EndTime); slot = slot.Add(step) {
			if slot.On(day).Before(cutoff) {
				continue
			}
			seen[slot] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	out := make([]schedule.WallClock, 0, len(seen))
	for slot := range seen {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings formats slots as "HH:MM".
func Strings(slots []schedule.WallClock) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}
