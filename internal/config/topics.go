package config

import "strings"

// topicShortcuts maps memorable shortcuts to Unreal Engine
// documentation slugs. Shortcuts are a convenience for the default
// site; any slug not in this table is used verbatim.
var topicShortcuts = map[string]string{
	"behavior-tree":    "behavior-tree-in-unreal-engine",
	"bt":               "behavior-tree-in-unreal-engine",
	"ai":               "artificial-intelligence",
	"ai-perception":    "ai-perception-in-unreal-engine",
	"perception":       "ai-perception-in-unreal-engine",
	"blackboard":       "blackboard-in-unreal-engine",
	"eqs":              "environment-query-system-in-unreal-engine",
	"navigation":       "navigation-system-in-unreal-engine",
	"nav-mesh":         "navigation-mesh-in-unreal-engine",
	"gameplay-ability": "gameplay-ability-system-for-unreal-engine",
	"gas":              "gameplay-ability-system-for-unreal-engine",
	"enhanced-input":   "enhanced-input-in-unreal-engine",
	"input":            "enhanced-input-in-unreal-engine",
	"niagara":          "niagara-visual-effects",
	"vfx":              "niagara-visual-effects",
	"materials":        "unreal-engine-materials",
	"blueprints":       "blueprints-visual-scripting-in-unreal-engine",
	"bp":               "blueprints-visual-scripting-in-unreal-engine",
	"cpp":              "programming-with-cplusplus-in-unreal-engine",
	"c++":              "programming-with-cplusplus-in-unreal-engine",
	"umg":              "umg-ui-designer-in-unreal-engine",
	"ui":               "umg-ui-designer-in-unreal-engine",
	"widgets":          "creating-widgets-in-unreal-engine",
	"animation":        "skeletal-mesh-animation-system-in-unreal-engine",
	"physics":          "physics-in-unreal-engine",
	"collision":        "collision-in-unreal-engine",
	"networking":       "networking-and-multiplayer-in-unreal-engine",
	"replication":      "property-replication-in-unreal-engine",
	"packaging":        "packaging-unreal-engine-projects",
	"build":            "packaging-unreal-engine-projects",
}

// ResolveTopic resolves a topic argument to a documentation slug.
// Lookup is case-insensitive; extra shortcuts from the config file take
// precedence over the built-in table. An argument matching no shortcut
// is returned unchanged and treated as a literal slug.
func ResolveTopic(topic string, extra map[string]string) string {
	key := strings.ToLower(topic)
	if slug, ok := extra[key]; ok {
		return slug
	}
	if slug, ok := topicShortcuts[key]; ok {
		return slug
	}
	return topic
}

// Shortcuts returns the built-in shortcut table merged with extra
// entries from the config file. Extra entries win on collision.
// The result is a fresh map the caller may sort or modify.
func Shortcuts(extra map[string]string) map[string]string {
	merged := make(map[string]string, len(topicShortcuts)+len(extra))
	for k, v := range topicShortcuts {
		merged[k] = v
	}
	for k, v := range extra {
		merged[strings.ToLower(k)] = v
	}
	return merged
}
