package catalog

// AllModules is the sentinel module ID that disables topic filtering.
const AllModules = "all"

// Module is a selectable practice series. A module's ID equals the topic it
// filters on.
type Module struct {
	ID    string
	Label string
}

// Modules lists the selectable series in display order.
var Modules = []Module{
	{ID: AllModules, Label: "Everything"},
	{ID: "daily-life", Label: "Daily life"},
	{ID: "prepositions", Label: "Prepositions"},
	{ID: "phrasal-verbs", Label: "Phrasal verbs"},
	{ID: "past-simple", Label: "Past simple"},
	{ID: "present-perfect", Label: "Present perfect"},
	{ID: "future", Label: "Future"},
	{ID: "travel", Label: "Travel"},
	{ID: "work", Label: "Work"},
	{ID: "food", Label: "Food"},
	{ID: "shopping", Label: "Shopping"},
	{ID: "health", Label: "Health"},
	{ID: "education", Label: "Education"},
	{ID: "technology", Label: "Technology"},
	{ID: "questions", Label: "Questions"},
	{ID: "irregular-verbs", Label: "Irregular verbs"},
	{ID: "collocations", Label: "Collocations"},
}

// ModuleByID returns the module with id, falling back to the "all" module.
func ModuleByID(id string) Module {
	for _, m := range Modules {
		if m.ID == id {
			return m
		}
	}
	return Modules[0]
}

// IsAll reports whether moduleID selects every topic.
func IsAll(moduleID string) bool {
	return moduleID == "" || moduleID == AllModules
}

var topicTips = map[string]string{
	"prepositions":  "Tip: use at for specific points, in for cities and countries, on for surfaces.",
	"phrasal-verbs": "Tip: the particle changes the meaning of the base verb.",
	"modal-verbs":   "Tip: modals go before the main verb and never take 'to'.",
	"conditionals":  "Tip: if + present, will + verb for the first conditional.",
	"collocations":  "Tip: some words simply go together (make a decision, do homework).",
}

// TopicTip returns a short grammar tip for topic, or "".
func TopicTip(topic string) string {
	return topicTips[topic]
}
