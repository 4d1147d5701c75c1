package prompts

// mapsRule is shared by every stage. The destination is pre-escaped so the
// example link is unambiguous about how place names are encoded.
const mapsRule = `
> IMPORTANT: for every specific place, hotel, restaurant, market or landmark you mention,
> append a Google Maps link in exactly this format:
>
>     [📍 View on Maps](https://www.google.com/maps/search/?api=1&query=PLACE+NAME+{{mapsQuery .Destination}})
>
> Replace spaces with + in the URL and percent-encode any other character that is not a
> letter, digit, '-', '.' or '_'. Do not leave raw spaces or '&' inside the query value.`

const researchInstructions = `You are researching {{.Destination}} for a traveler departing from {{.Origin}}.
Travel window: {{.StartDate}} to {{.EndDate}} ({{.Days}} days).

Search for and compile the following:

1. **Getting There**
   - Transport options from {{.Origin}} to {{.Destination}} (flight, train, bus, car)
   - Typical travel time and approximate cost for each option
   - Recommended booking platforms or tips

2. **Accommodation**
   - 2-3 budget options with an approximate nightly price
   - 2-3 mid-range options
   - 1-2 premium or boutique options
   - Neighborhoods worth staying in and why

3. **Cost of Living & Daily Budget**
   - Average daily spend for budget, mid-range and comfort travelers
   - Typical meal costs (street food, local restaurant, upscale)
   - Local transport costs

4. **Weather During Travel Dates**
   - Expected temperature range for {{.StartDate}} to {{.EndDate}}
   - Advisories or seasonal considerations
   - What to pack

5. **Practical Info**
   - Currency and payment norms
   - Language and useful phrases
   - Safety tips and areas to avoid
   - Emergency contacts

6. **Events & Festivals**
   - Festivals, cultural events or local happenings between {{.StartDate}} and {{.EndDate}}
` + mapsRule

const localGuideInstructions = `You are creating a personalized local guide for {{.Destination}}, tailored to a traveler
whose interests are: **{{.Interests}}**.
Travel dates: {{.StartDate}} to {{.EndDate}}.

Research and curate the following:

1. **Top Attractions Aligned with Interests**
   - For each interest in "{{.Interests}}", find 3-5 specific places, experiences or activities
   - Include name, relevance to the interest, location, opening hours and entry fees
   - Mix iconic landmarks with lesser-known local favorites

2. **Food & Dining**
   - 3-5 local dishes or food experiences in {{.Destination}}
   - Specific restaurants or street food stalls (name, area, price range)
   - Food markets, food streets or culinary experiences

3. **Hidden Gems & Local Tips**
   - 2-3 places most tourists miss but locals love
   - Best time of day to visit key attractions
   - Insider tips specific to {{.Destination}}

4. **Shopping & Souvenirs**
   - What {{.Destination}} is known for
   - Best markets or shopping areas
   - Bargaining tips where relevant

5. **Day Trips**
   - 1-2 nearby destinations worth a half-day or full-day trip from {{.Destination}}
` + mapsRule

const itineraryInstructions = `Using the destination research and the local guide provided by your colleagues, create a
complete day-by-day travel itinerary for {{.Destination}}.

Traveler profile:
- Interests: {{.Interests}}
- Arrival: {{.StartDate}}
- Departure: {{.EndDate}}
- Trip length: {{.Days}} days

Build the itinerary with these principles:

1. **Day-by-Day Structure**
   - A separate plan for each day from {{.StartDate}} to {{.EndDate}}
   - Morning, afternoon and evening blocks with specific times
   - Travel time between locations
   - Balance busy periods with rest or leisure

2. **Smart Scheduling**
   - Day 1 stays light to account for arrival fatigue
   - Middle days carry the highlights and interest-specific activities
   - The last day covers winding down, shopping and departure
   - Respect opening hours; never schedule a closed attraction

3. **No Repetition**
   - Each specific location, attraction, restaurant or place appears at most once in the whole itinerary
   - Never revisit or re-suggest a place on a different day
   - When major attractions run out, use nearby neighborhoods, markets, parks or day trips instead

4. **Details for Each Activity**
   - Place name and a 1-2 sentence description
   - Time to spend there
   - How to get there from the previous location
   - Estimated cost

5. **Meals**
   - Specific breakfast, lunch and dinner spots for each day
   - Vary dining experiences across the trip

6. **Budget Summary**
   - Close with a total trip cost breakdown (transport, accommodation, food, activities)
   - Budget, mid-range and comfort estimates
` + mapsRule

var instructions = map[Stage]string{
	StageResearch:   researchInstructions,
	StageLocalGuide: localGuideInstructions,
	StageItinerary:  itineraryInstructions,
}

// Instructions returns the default instruction template for a stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
