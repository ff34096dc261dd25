package userctx

import (
	"fmt"
	"strings"
)

var commTones = map[string]string{
	"friendly": "in a warm, friendly, and approachable manner",
	"blunt":    "directly and without unnecessary pleasantries",
	"concise":  "briefly and to the point, avoiding unnecessary elaboration",
	"playful":  "with a light, playful, and engaging tone",
}

var skillLevels = map[string]string{
	"beginner":     "They are a beginner and may need more explanation and guidance.",
	"intermediate": "They have intermediate experience and can handle moderate complexity.",
	"advanced":     "They are advanced and can handle complex topics with less explanation.",
	"expert":       "They are an expert and can discuss advanced topics at a high level.",
}

var timeCapacities = map[string]string{
	"limited":  "They have limited time, so prioritize quick wins and minimal viable solutions.",
	"moderate": "They have moderate time available for their projects.",
	"flexible": "They have flexible time constraints and can invest in more thorough solutions.",
}

var learningStyles = map[string]string{
	"visual":     "They learn best with visual aids, diagrams, and examples.",
	"hands-on":   "They learn best by doing, so provide step-by-step instructions they can follow.",
	"conceptual": "They prefer understanding the underlying concepts first.",
	"examples":   "They learn best from concrete examples and code snippets.",
}

type projector func(ctx *UserContext, parts []string) []string

var projectors = map[string]projector{
	"pm95":     projectPM95,
	"builder":  projectBuilder,
	"fixit":    projectFixit,
	"tinkerer": projectTinkerer,
}

// Serialize renders the user context as a short paragraph suitable for
// appending to a system prompt. Field selection depends on the agent: each
// built-in agent sees only the profile slices relevant to its role, and
// unknown agents get a general projection. A nil context yields "".
func Serialize(ctx *UserContext, agentID string) string {
	if ctx == nil {
		return ""
	}

	var parts []string
	if ctx.Name != "" {
		parts = append(parts, fmt.Sprintf("The user's name is %s.", ctx.Name))
	}
	if ctx.Role != "" {
		parts = append(parts, fmt.Sprintf("They work as a %s.", ctx.Role))
	}

	project := projectors[agentID]
	if project == nil {
		project = projectDefault
	}
	parts = project(ctx, parts)

	if desc, ok := commTones[ctx.Tone]; ok {
		parts = append(parts, fmt.Sprintf("You should communicate with them %s.", desc))
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// activeGoals returns goals whose status matches any of the given values.
func activeGoals(goals []Goal, statuses ...string) []Goal {
	var out []Goal
	for _, g := range goals {
		for _, s := range statuses {
			if g.Status == s {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

func goalTitles(goals []Goal) []string {
	titles := make([]string, len(goals))
	for i, g := range goals {
		titles[i] = g.Title
	}
	return titles
}

// projectPM95 surfaces goals, constraints, and time capacity.
func projectPM95(ctx *UserContext, parts []string) []string {
	if len(ctx.Goals) > 0 {
		active := activeGoals(ctx.Goals, "in-progress", "planning")
		if len(active) > 0 {
			parts = append(parts, fmt.Sprintf("Their current goals include: %s.", strings.Join(goalTitles(active), ", ")))
			for _, g := range active {
				if g.Description != "" {
					parts = append(parts, fmt.Sprintf("- %s: %s (priority: %s)", g.Title, g.Description, g.Priority))
				}
			}
		}
	} else if ctx.Projects != "" {
		parts = append(parts, "They are currently working on: "+ctx.Projects)
	}

	if len(ctx.Constraints) > 0 {
		parts = append(parts, fmt.Sprintf("Key constraints: %s.", strings.Join(ctx.Constraints, ", ")))
	}
	if desc, ok := timeCapacities[ctx.TimeCapacity]; ok {
		parts = append(parts, desc)
	}
	return parts
}

// projectBuilder surfaces tech stack, skill level, code preferences, and
// goals that are actively being built.
func projectBuilder(ctx *UserContext, parts []string) []string {
	if len(ctx.TechStack) > 0 {
		parts = append(parts, fmt.Sprintf("Their preferred tech stack: %s.", strings.Join(ctx.TechStack, ", ")))
	}
	if desc, ok := skillLevels[ctx.SkillLevel]; ok {
		parts = append(parts, desc)
	}

	if ctx.Preferences != nil {
		var prefs []string
		if ctx.Preferences.CodeStyle != "" {
			prefs = append(prefs, "code style: "+ctx.Preferences.CodeStyle)
		}
		if ctx.Preferences.DocumentationLevel != "" {
			prefs = append(prefs, "documentation: "+ctx.Preferences.DocumentationLevel)
		}
		if ctx.Preferences.Comments != "" {
			prefs = append(prefs, "comments: "+ctx.Preferences.Comments)
		}
		if len(prefs) > 0 {
			parts = append(parts, fmt.Sprintf("Code preferences: %s.", strings.Join(prefs, ", ")))
		}
	}

	if len(ctx.Goals) > 0 {
		active := activeGoals(ctx.Goals, "in-progress")
		if len(active) > 0 {
			parts = append(parts, fmt.Sprintf("They are currently building: %s.", strings.Join(goalTitles(active), ", ")))
		}
	} else if ctx.Projects != "" {
		parts = append(parts, "They are currently working on: "+ctx.Projects)
	}
	return parts
}

// projectFixit surfaces skill level, tech stack, and learning style.
func projectFixit(ctx *UserContext, parts []string) []string {
	if desc, ok := skillLevels[ctx.SkillLevel]; ok {
		parts = append(parts, desc)
	}
	if len(ctx.TechStack) > 0 {
		parts = append(parts, fmt.Sprintf("Their tech stack: %s. Use stack-specific solutions.", strings.Join(ctx.TechStack, ", ")))
	}
	if desc, ok := learningStyles[ctx.LearningStyle]; ok {
		parts = append(parts, desc)
	}
	return parts
}

// projectTinkerer surfaces interests drawn from goal tech, skill level,
// tech stack, and the free-text projects field.
func projectTinkerer(ctx *UserContext, parts []string) []string {
	if len(ctx.Goals) > 0 {
		seen := make(map[string]bool)
		var tech []string
		for _, g := range ctx.Goals {
			for _, t := range g.RelatedTech {
				if !seen[t] {
					seen[t] = true
					tech = append(tech, t)
				}
			}
		}
		if len(tech) > 0 {
			parts = append(parts, fmt.Sprintf("They're interested in: %s.", strings.Join(tech, ", ")))
		}
	}

	if desc, ok := skillLevels[ctx.SkillLevel]; ok {
		parts = append(parts, desc)
	}
	if len(ctx.TechStack) > 0 {
		parts = append(parts, fmt.Sprintf("They enjoy working with: %s.", strings.Join(ctx.TechStack, ", ")))
	}
	if ctx.Projects != "" {
		parts = append(parts, "Current interests: "+ctx.Projects)
	}
	return parts
}

// projectDefault is the general projection for agents without a dedicated
// strategy.
func projectDefault(ctx *UserContext, parts []string) []string {
	if len(ctx.Goals) > 0 {
		active := activeGoals(ctx.Goals, "in-progress", "planning")
		if len(active) > 0 {
			parts = append(parts, fmt.Sprintf("Current goals: %s.", strings.Join(goalTitles(active), ", ")))
		}
	} else if ctx.Projects != "" {
		parts = append(parts, "They are currently working on: "+ctx.Projects)
	}

	if desc, ok := skillLevels[ctx.SkillLevel]; ok {
		parts = append(parts, desc)
	}
	if len(ctx.TechStack) > 0 {
		parts = append(parts, fmt.Sprintf("Tech stack: %s.", strings.Join(ctx.TechStack, ", ")))
	}
	return parts
}
