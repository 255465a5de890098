package hotkey

// Scope says whether a hotkey must work while the application is unfocused.
// Application-scoped hotkeys live in the in-app accelerator table and are
// never routed through a global registration mechanism.
type Scope string

const (
	ScopeGlobal      Scope = "global"
	ScopeApplication Scope = "application"
)

// Definition is one entry in the fixed hotkey table. The id set is closed and
// known at build time; nothing registers ids outside this table.
type Definition struct {
	ID          string
	Scope       Scope
	Description string
	Default     string
}

// Definitions is the canonical hotkey table, in display order.
var Definitions = []Definition{
	{ID: "toggle-always-on-top", Scope: ScopeGlobal, Description: "Toggle always on top", Default: "Primary+Alt+T"},
	{ID: "boss-key", Scope: ScopeGlobal, Description: "Hide every window", Default: "Primary+Alt+H"},
	{ID: "quick-chat", Scope: ScopeGlobal, Description: "Open quick chat", Default: "Primary+Shift+Space"},
	{ID: "print-to-pdf", Scope: ScopeApplication, Description: "Print the current view to PDF", Default: "Primary+Shift+P"},
}

// DefinitionByID looks up a definition in the fixed table.
func DefinitionByID(id string) (Definition, bool) {
	for _, def := range Definitions {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Setting is the persisted per-hotkey state. The surrounding application
// loads and saves a JSON map of these keyed by hotkey id; the manager only
// ever sees the in-memory map.
type Setting struct {
	Enabled     bool   `json:"enabled"`
	Accelerator string `json:"accelerator"`
}

// DefaultSettings returns the settings map for a fresh installation: every
// hotkey enabled on its default accelerator.
func DefaultSettings() map[string]Setting {
	settings := make(map[string]Setting, len(Definitions))
	for _, def := range Definitions {
		settings[def.ID] = Setting{Enabled: true, Accelerator: def.Default}
	}
	return settings
}
