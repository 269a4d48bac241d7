package chunker

// Grammar vocabulary shared by the TSX, TypeScript and JavaScript grammars.
const (
	kindCall   = "call_expression"
	kindReturn = "return_statement"

	fieldName   = "name"
	fieldCallee = "function"
)

// Options configures what the locator and classifier recognize. It is
// passed in at construction; the package keeps no mutable globals.
type Options struct {
	// LogicPrefix marks stateful/effectful calls, e.g. "use" for React hooks.
	LogicPrefix string
	// ViewKinds are the node kinds accepted as the root of a returned view.
	ViewKinds []string
	// FunctionKinds declare a name through their own name field.
	FunctionKinds []string
	// BindingKinds declare names through BindingNode children.
	BindingKinds []string
	BindingNode  string
}

func DefaultOptions() Options {
	return Options{
		LogicPrefix:   "use",
		ViewKinds:     []string{"parenthesized_expression", "jsx_element", "jsx_self_closing_element", "jsx_fragment"},
		FunctionKinds: []string{"function_declaration"},
		BindingKinds:  []string{"lexical_declaration"},
		BindingNode:   "variable_declarator",
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
