package prompts

// DefaultActionLimit is the recent-action window for full narrator prompts.
const DefaultActionLimit = 10

// SummaryActionLimit is the recent-action window for compact summaries.
const SummaryActionLimit = 5

// GMSystemPrompt is the system prompt sent alongside every narrator request.
const GMSystemPrompt = `You are an expert Game Master for a fantasy RPG. Provide immersive, engaging responses that move the story forward. Be descriptive but concise. Respond in character as the omniscient narrator.`

// PromptHeader opens every narrator prompt.
const PromptHeader = "GAME MASTER CONTEXT"

// NoRecentActions is rendered when the session has no action history yet.
const NoRecentActions = "- No recent actions"

// NoActiveNPCs is rendered when no known NPC shares the player's location.
const NoActiveNPCs = "No active NPCs"

// GMInstructions closes every narrator prompt.
const GMInstructions = `GM INSTRUCTIONS:
1. Respond as the omniscient narrator and world
2. Maintain consistency with previous interactions
3. React appropriately to the player's reputation and recent actions
4. Consider NPC relationships and dispositions
5. Provide immersive, contextual descriptions
6. Balance challenge with player agency

Current situation requires your response as Game Master.`
