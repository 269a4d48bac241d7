package chunker

import (
	"unicode"
	"unicode/utf8"

	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

// identifierKinds are the name node kinds a component may be bound to.
// Destructuring patterns and computed names never qualify.
var identifierKinds = map[string]struct{}{
	"identifier":      {},
	"type_identifier": {},
}

// Located pairs an accepted declaration with the subtree it owns.
type Located struct {
	Decl domain.Declaration
	Node port.SyntaxNode
}

// Locator finds component declarations anywhere in a tree.
type Locator struct {
	functionKinds map[string]struct{}
	bindingKinds  map[string]struct{}
	bindingNode   string
}

func NewLocator(opts Options) *Locator {
	return &Locator{
		functionKinds: toSet(opts.FunctionKinds),
		bindingKinds:  toSet(opts.BindingKinds),
		bindingNode:   opts.BindingNode,
	}
}

// Locate returns the accepted declarations of the tree in pre-order.
func (l *Locator) Locate(root port.SyntaxNode, src []byte) []Located {
	var found []Located
	l.walk(root, func(n port.SyntaxNode) {
		if decl, ok := l.candidate(n, src); ok && decl.Accepted {
			found = append(found, Located{Decl: decl, Node: n})
		}
	})
	return found
}

// Candidates returns every declaration candidate, including the ones the
// naming convention rejects.
func (l *Locator) Candidates(root port.SyntaxNode, src []byte) []domain.Declaration {
	var decls []domain.Declaration
	l.walk(root, func(n port.SyntaxNode) {
		if decl, ok := l.candidate(n, src); ok {
			decls = append(decls, decl)
		}
	})
	return decls
}

// walk visits nodes depth-first, parents before children, siblings in
// source order. An explicit stack keeps deep trees off the goroutine stack.
func (l *Locator) walk(root port.SyntaxNode, visit func(port.SyntaxNode)) {
	if root == nil {
		return
	}
	stack := []port.SyntaxNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)

		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// candidate reports whether n is a declaration node and, if so, describes it.
func (l *Locator) candidate(n port.SyntaxNode, src []byte) (domain.Declaration, bool) {
	var (
		form     domain.DeclarationForm
		nameNode port.SyntaxNode
	)
	switch {
	case has(l.functionKinds, n.Kind()):
		form = domain.FunctionForm
		nameNode = n.Field(fieldName)
	case has(l.bindingKinds, n.Kind()):
		form = domain.BindingForm
		// Only the first binding of `const A = ..., B = ...` is considered.
		for _, child := range n.Children() {
			if child.Kind() == l.bindingNode {
				nameNode = child.Field(fieldName)
				break
			}
		}
	default:
		return domain.Declaration{}, false
	}

	name := ""
	if nameNode != nil && has(identifierKinds, nameNode.Kind()) {
		name = nodeText(nameNode, src)
	}

	return domain.Declaration{
		Name:      name,
		Form:      form,
		NodeKind:  n.Kind(),
		StartLine: n.StartLine(),
		EndLine:   n.EndLine(),
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		Accepted:  isComponentName(name),
	}, true
}

// accepts reports whether n would be located as a component.
func (l *Locator) accepts(n port.SyntaxNode, src []byte) bool {
	decl, ok := l.candidate(n, src)
	return ok && decl.Accepted
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

// nodeText slices src by the node's byte span, returning "" for spans that
// do not fit the source.
func nodeText(n port.SyntaxNode, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}
