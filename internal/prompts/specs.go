package prompts

const researchSpec = `A well-structured markdown report with a heading for each section above.
Use tables where they help (accommodation options, transport comparison).
Be specific: real names, real price ranges and actionable advice.
Avoid generic filler; every sentence should be useful to the traveler.`

const localGuideSpec = `A rich, engaging markdown guide with emojis on section headers.
Write in a warm, enthusiastic tone that makes the traveler want to explore.
Be specific: real place names, real areas and real prices where possible.
Organize it so it works as a reference during the trip.`

const itinerarySpec = `A formatted markdown travel plan with this structure:

# 🌍 Welcome to {{.Destination}}
[3-4 paragraph introduction to the city: its character, its vibe, what makes it special]

---

# 🗓️ Your {{.Destination}} Itinerary

## Day 1 · [Date] · Arrival & First Impressions
### 🌅 Morning (9:00 AM - 12:00 PM)
...
### ☀️ Afternoon (12:00 PM - 5:00 PM)
...
### 🌙 Evening (5:00 PM - 9:00 PM)
...

[Repeat for each of the {{.Days}} days]

---

# 💰 Budget Overview
| Category | Budget | Mid-Range | Comfort |
|----------|--------|-----------|---------|
| ...      | ...    | ...       | ...     |

Use emojis on every section header and write in a friendly, confident tone.
Every activity should connect to the traveler's interests: {{.Interests}}.`

var specs = map[Stage]string{
	StageResearch:   researchSpec,
	StageLocalGuide: localGuideSpec,
	StageItinerary:  itinerarySpec,
}

// Spec returns the expected-output template for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
