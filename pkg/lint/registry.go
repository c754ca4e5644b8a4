package lint

import "sync"

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = newRegistry()

// Registry stores registered lint rules grouped by target node kind.
// Order is registration order: diagnostic ordering within a node follows
// it, so it must be deterministic across runs (rules register from init()
// functions, which Go runs in a fixed order).
type Registry struct {
	mu     sync.RWMutex
	byKind map[NodeKind][]RuleDef
	byID   map[string]RuleDef
	order  []string
}

func newRegistry() *Registry {
	return &Registry{
		byKind: make(map[NodeKind][]RuleDef),
		byID:   make(map[string]RuleDef),
	}
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	if _, exists := globalRegistry.byID[rule.ID]; !exists {
		globalRegistry.order = append(globalRegistry.order, rule.ID)
		globalRegistry.byKind[rule.Target] = append(globalRegistry.byKind[rule.Target], rule)
	}
	globalRegistry.byID[rule.ID] = rule
}

// RulesFor returns the rules registered for a node kind, in registration
// order.
func RulesFor(kind NodeKind) []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rules := make([]RuleDef, len(globalRegistry.byKind[kind]))
	copy(rules, globalRegistry.byKind[kind])
	return rules
}

// All returns all registered rules in registration order.
func All() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rules := make([]RuleDef, 0, len(globalRegistry.order))
	for _, id := range globalRegistry.order {
		rules = append(rules, globalRegistry.byID[id])
	}
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.byID[id]
	return rule, ok
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.order)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.byKind = make(map[NodeKind][]RuleDef)
	globalRegistry.byID = make(map[string]RuleDef)
	globalRegistry.order = nil
}
