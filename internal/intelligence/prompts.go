package intelligence

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timebox/internal/domain"
)

const plannerSystemPrompt = `You are the planning assistant of a daily timeboxing tool.
Answer ONLY with a JSON object matching the requested schema.
Do not use markdown. Use strict JSON numbers (0.5, never .5).`

// profileContext renders the optional user context shared by the prompts.
func profileContext(profile, hobbies string, fasting bool) string {
	var b strings.Builder
	if p := strings.TrimSpace(profile); p != "" {
		fmt.Fprintf(&b, "\nUser profile: %q", p)
	}
	if h := strings.TrimSpace(hobbies); h != "" {
		fmt.Fprintf(&b, "\nUser hobbies and interests: %q", h)
	}
	if fasting {
		b.WriteString("\nUser practices intermittent fasting, so avoid scheduling meal times " +
			"too close together and consider a later breakfast/earlier dinner window.")
	}
	return b.String()
}

func topGoalsPrompt(r TopGoalsRequest) string {
	return fmt.Sprintf(`Based on the user's north star: %q and brain dump: %q,%s
generate 3 focused daily goals.`,
		strings.TrimSpace(r.NorthStar), strings.TrimSpace(r.BrainDump),
		profileContext(r.Profile, r.Hobbies, false))
}

func schedulePrompt(r ScheduleRequest) string {
	day := r.DayDuration.Normalize()
	core := r.coreTime()

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the user's north star: %q,\nbrain dump: %q,\nand top goals: %q,",
		strings.TrimSpace(r.NorthStar), strings.TrimSpace(r.BrainDump),
		strings.Join(domain.CleanGoals(r.TopGoals), ", "))
	b.WriteString(profileContext(r.Profile, r.Hobbies, r.IntermittentFasting))
	if r.Date != "" {
		fmt.Fprintf(&b, "\nThe schedule is for %s.", r.Date)
	}

	focus := "1-hour minimum"
	if r.WorkingDuration > 0 {
		focus = fmt.Sprintf("%d-minute", r.WorkingDuration)
	}

	fmt.Fprintf(&b, `
generate a realistic daily schedule applying timeboxing principles:

1. Create dedicated %s focus blocks for each of the top goals, with clear start and end times
2. Include rest/break blocks between intense focus sessions
3. Allocate at least one 1-hour block for physical activity/movement
4. Include at least one 1-2 hour leisure/entertainment block
5. Consider grouping similar tasks into larger time blocks when appropriate (1+ hours each)
6. Schedule the most important/challenging tasks during the user's Core Time (%s to %s), which is when they are most active and productive
7. ONLY schedule activities between the user's preferred hours of %s and %s

IMPORTANT: Each activity block MUST be a minimum of 30 minutes in duration.
IMPORTANT: Blocks must not overlap.
startTime is the hour of the day from 0 to 23 and may end in .5 for a half hour.
duration is in hours and may end in .5.
activityType is one of "top-goal", "leisure", "physical" or "default".
Give every item a short unique id.
Make the schedule realistic by not overloading the day with too many tasks.`,
		focus, core.Start, core.End, day.Start, day.End)
	return b.String()
}

func classifyPrompt(r ClassifyRequest) string {
	return fmt.Sprintf(`Categorize the following activity: %q

Top goals provided by the user: %s

Categorize this activity into one of these types:
1. "top-goal" - If it directly relates to one of the user's top goals
2. "leisure" - If it's for relaxation, entertainment, breaks, or hobbies
3. "physical" - If it involves exercise, physical activity, or movement
4. "default" - If it doesn't fit clearly into the above categories`,
		strings.TrimSpace(r.Activity), strings.Join(domain.CleanGoals(r.TopGoals), ", "))
}
