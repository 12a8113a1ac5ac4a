package vision

// framePrompt instructs the vision model to return one structured record per
// frame. The flight_style vocabulary here is the contract behind
// metadata.FlightStyle; extend both together.
const framePrompt = `You are analyzing frames from FPV drone footage. Describe what you see concisely, focusing on:
- Environment (indoor/outdoor, terrain type, vegetation, structures)
- Flight characteristics (speed impression, proximity to objects, altitude)
- Maneuvers if identifiable (rolls, flips, split-s, gaps, proximity)
- Visual quality (clear, foggy, DVR artifacts, signal breakup)
- Notable features (interesting scenery, obstacles, other pilots)

Respond in JSON format with these exact fields:
{
  "description": "Brief description of the scene",
  "environment": ["outdoor", "forest"],
  "flight_style": "proximity",
  "interest_score": 7,
  "quality_issues": []
}

Where:
- description: 1-2 sentence description
- environment: list of environment tags (outdoor, indoor, forest, field, urban, etc.)
- flight_style: one of: takeoff, landing, cruising, proximity, freestyle, racing, cinematic, stationary
- interest_score: 1-10 rating (1=boring, 10=amazing)
- quality_issues: list of issues like "dvr-artifacts", "signal-loss", "blur", "foggy", or empty list`

// summaryPrompt frames the flight-summary request; the per-frame descriptions
// are appended below it.
const summaryPrompt = `Based on these frame-by-frame descriptions of an FPV drone flight, write a 2-3 sentence summary.

Focus on: overall environment, flight style, and any notable moments.
Respond with just the summary text, no JSON or extra formatting.

Frame descriptions:
`
