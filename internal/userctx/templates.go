package userctx

// Template is a prebuilt profile for a common user archetype. Applying a
// template merges it over an existing context rather than replacing it.
type Template struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Context     UserContext `json:"context"`
}

var contextTemplates = []Template{
	{
		ID:          "junior-developer",
		Name:        "Junior Developer",
		Description: "For developers early in their career",
		Context: UserContext{
			SkillLevel:    "beginner",
			TimeCapacity:  "flexible",
			LearningStyle: "hands-on",
			Tone:          "friendly",
			Preferences: &Preferences{
				CodeStyle:          "verbose",
				DocumentationLevel: "extensive",
				Comments:           "generous",
			},
			TechStack:   []string{"JavaScript", "React", "Node.js"},
			Constraints: []string{"Learning new technologies", "Following best practices"},
		},
	},
	{
		ID:          "startup-founder",
		Name:        "Startup Founder",
		Description: "For entrepreneurs building their first product",
		Context: UserContext{
			SkillLevel:    "intermediate",
			TimeCapacity:  "limited",
			LearningStyle: "conceptual",
			Tone:          "concise",
			Preferences: &Preferences{
				CodeStyle:          "minimal",
				DocumentationLevel: "minimal",
				Comments:           "sparse",
			},
			Constraints: []string{"Limited time", "Need quick wins", "Budget constraints"},
			Goals: []Goal{
				{
					Title:       "Build MVP",
					Description: "Create a minimal viable product to validate the idea",
					Status:      "in-progress",
					Priority:    "high",
				},
			},
		},
	},
	{
		ID:          "enterprise-developer",
		Name:        "Enterprise Developer",
		Description: "For developers working in large organizations",
		Context: UserContext{
			SkillLevel:    "advanced",
			TimeCapacity:  "moderate",
			LearningStyle: "examples",
			Tone:          "concise",
			Preferences: &Preferences{
				CodeStyle:          "balanced",
				DocumentationLevel: "moderate",
				Comments:           "sparse",
			},
			TechStack:   []string{"TypeScript", "React", "Java", "Python"},
			Constraints: []string{"Code quality standards", "Security requirements", "Team collaboration"},
		},
	},
	{
		ID:          "designer-learning-code",
		Name:        "Designer Learning Code",
		Description: "For designers expanding into development",
		Context: UserContext{
			SkillLevel:    "beginner",
			TimeCapacity:  "moderate",
			LearningStyle: "visual",
			Tone:          "friendly",
			Preferences: &Preferences{
				CodeStyle:          "verbose",
				DocumentationLevel: "extensive",
				Comments:           "generous",
			},
			TechStack: []string{"HTML", "CSS", "JavaScript"},
			Goals: []Goal{
				{
					Title:       "Learn Frontend Development",
					Description: "Build interactive designs and prototypes",
					Status:      "in-progress",
					Priority:    "high",
				},
			},
		},
	},
	{
		ID:          "senior-engineer",
		Name:        "Senior Engineer",
		Description: "For experienced engineers leading projects",
		Context: UserContext{
			SkillLevel:    "expert",
			TimeCapacity:  "moderate",
			LearningStyle: "conceptual",
			Tone:          "blunt",
			Preferences: &Preferences{
				CodeStyle:          "minimal",
				DocumentationLevel: "moderate",
				Comments:           "sparse",
			},
			Constraints: []string{"Technical debt", "Performance requirements", "Team mentoring"},
		},
	},
}

// Templates returns the built-in context templates.
func Templates() []Template {
	out := make([]Template, len(contextTemplates))
	copy(out, contextTemplates)
	return out
}

// GetTemplate looks up a template by ID.
func GetTemplate(id string) (Template, bool) {
	for _, t := range contextTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ApplyTemplate merges a template over an existing context. Template scalars
// win for overlapping fields, slices are concatenated with duplicates removed
// (goals are concatenated as-is), and preferences merge field by field.
func ApplyTemplate(t Template, existing *UserContext) *UserContext {
	merged := UserContext{}
	if existing != nil {
		merged = *existing
	}

	if t.Context.SkillLevel != "" {
		merged.SkillLevel = t.Context.SkillLevel
	}
	if t.Context.TimeCapacity != "" {
		merged.TimeCapacity = t.Context.TimeCapacity
	}
	if t.Context.LearningStyle != "" {
		merged.LearningStyle = t.Context.LearningStyle
	}
	if t.Context.Tone != "" {
		merged.Tone = t.Context.Tone
	}

	merged.TechStack = mergeUnique(merged.TechStack, t.Context.TechStack)
	merged.Constraints = mergeUnique(merged.Constraints, t.Context.Constraints)
	merged.Goals = append(append([]Goal{}, merged.Goals...), t.Context.Goals...)

	if t.Context.Preferences != nil {
		prefs := Preferences{}
		if merged.Preferences != nil {
			prefs = *merged.Preferences
		}
		if t.Context.Preferences.CodeStyle != "" {
			prefs.CodeStyle = t.Context.Preferences.CodeStyle
		}
		if t.Context.Preferences.DocumentationLevel != "" {
			prefs.DocumentationLevel = t.Context.Preferences.DocumentationLevel
		}
		if t.Context.Preferences.ErrorHandling != "" {
			prefs.ErrorHandling = t.Context.Preferences.ErrorHandling
		}
		if t.Context.Preferences.Comments != "" {
			prefs.Comments = t.Context.Preferences.Comments
		}
		merged.Preferences = &prefs
	}

	return &merged
}

func mergeUnique(base, extra []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range append(append([]string{}, base...), extra...) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
