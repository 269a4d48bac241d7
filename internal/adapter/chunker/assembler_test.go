package chunker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchunk/internal/adapter/syntax"
	"ragchunk/internal/domain"
)

func assemble(t *testing.T, path, src string) []domain.Chunk {
	t.Helper()
	provider := syntax.NewTreeSitterProvider(false)
	tree, err := provider.Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	return NewAssembler(DefaultOptions()).Assemble(tree.Root(), tree.Source())
}

const nestedSource = `function Outer() {
  const Inner = () => {
    const v = useMemo(() => 1, []);
    return <span>{v}</span>;
  };
  const [s] = useState(0);
  return (
    <div>
      <Inner />
      {s}
    </div>
  );
}
`

const panelSource = `import * as React from 'react';

export interface PanelProps {
  title: string;
}

function formatTitle(title: string) {
  return title.trim();
}

export const Panel = React.forwardRef(function Panel(props: PanelProps, ref) {
  const [open, setOpen] = useState(false);
  const label = useMemo(() => formatTitle(props.title), [props.title]);

  useEffect(() => {
    if (open) {
      useCallback(() => setOpen(false), []);
    }
  }, [open]);

  if (!label) {
    return null;
  }

  return (
    <section ref={ref}>
      <h2>{label}</h2>
    </section>
  );
});

export default function PanelGroup({ children }: { children: React.ReactNode }) {
  const ctx = useContext(GroupContext);
  return <>{children}</>;
}
`

func TestAssemble_ComponentWithHookAndView(t *testing.T) {
	chunks := assemble(t, "Button.tsx", `function Button(){ const x = useState(0); return (<div>{x}</div>); }`)

	require.Len(t, chunks, 3)

	assert.Equal(t, domain.KindSignature, chunks[0].Kind)
	assert.Equal(t, "Button", chunks[0].Parent)
	assert.Equal(t, "Component: Button", chunks[0].Content)
	assert.Equal(t, 1, chunks[0].Line)

	assert.Equal(t, domain.KindLogic, chunks[1].Kind)
	assert.Equal(t, "Button", chunks[1].Parent)
	assert.Equal(t, "useState(0)", chunks[1].Content)

	assert.Equal(t, domain.KindView, chunks[2].Kind)
	assert.Equal(t, "Button", chunks[2].Parent)
	assert.Equal(t, "(<div>{x}</div>)", chunks[2].Content)
}

func TestAssemble_LowercaseBindingIsIgnored(t *testing.T) {
	chunks := assemble(t, "helper.tsx", `const helper = () => { return 1; }`)
	assert.Empty(t, chunks)
}

func TestAssemble_NestedLowercaseFunction(t *testing.T) {
	chunks := assemble(t, "Outer.tsx", `function Outer(){ function inner(){} return <div/>; }`)

	require.Len(t, chunks, 2)
	assert.Equal(t, domain.KindSignature, chunks[0].Kind)
	assert.Equal(t, "Outer", chunks[0].Parent)
	assert.Equal(t, domain.KindView, chunks[1].Kind)
	assert.Equal(t, "<div/>", chunks[1].Content)
	for _, c := range chunks {
		assert.NotEqual(t, "inner", c.Parent)
	}
}

func TestAssemble_NamingFilter(t *testing.T) {
	assert.Empty(t, assemble(t, "a.tsx", `function helperFn() { const v = useState(1); return <p>{v}</p>; }`))

	chunks := assemble(t, "b.tsx", `function Button() {}`)
	require.NotEmpty(t, chunks)
	assert.Equal(t, domain.KindSignature, chunks[0].Kind)
	assert.Equal(t, "Button", chunks[0].Parent)
}

func TestAssemble_SubstringFidelity(t *testing.T) {
	chunks := assemble(t, "Panel.tsx", panelSource)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		if c.Kind == domain.KindSignature {
			continue
		}
		assert.Equal(t, panelSource[c.StartByte:c.EndByte], c.Content, "chunk %s", c.ID)
	}
}

func TestAssemble_LineageCompleteness(t *testing.T) {
	provider := syntax.NewTreeSitterProvider(false)
	tree, err := provider.Parse(context.Background(), "Panel.tsx", []byte(panelSource))
	require.NoError(t, err)
	defer tree.Close()

	asm := NewAssembler(DefaultOptions())
	names := make(map[string]int)
	for _, d := range asm.Declarations(tree.Root(), tree.Source()) {
		if d.Accepted {
			names[d.Name]++
		}
	}
	assert.Equal(t, map[string]int{"Panel": 1, "PanelGroup": 1}, names)

	for _, c := range asm.Assemble(tree.Root(), tree.Source()) {
		assert.NotEmpty(t, c.Parent)
		assert.Equal(t, 1, names[c.Parent], "chunk %s has foreign parent", c.ID)
	}
}

func TestAssemble_PanelChunks(t *testing.T) {
	chunks := assemble(t, "Panel.tsx", panelSource)

	var got []string
	for _, c := range chunks {
		got = append(got, string(c.Kind)+":"+c.Parent)
	}
	assert.Equal(t, []string{
		"signature:Panel",
		"logic:Panel",
		"logic:Panel",
		"logic:Panel",
		"view:Panel",
		"signature:PanelGroup",
		"logic:PanelGroup",
		"view:PanelGroup",
	}, got)

	// useEffect is opaque: the useCallback inside it is not a separate unit.
	assert.Contains(t, chunks[3].Content, "useCallback")
	assert.Equal(t, "useState(false)", chunks[1].Content)
	// `return null` is not a view; the parenthesized JSX is.
	assert.Contains(t, chunks[4].Content, "<section ref={ref}>")
	assert.Equal(t, "<>{children}</>", chunks[7].Content)
}

func TestAssemble_NestedComponentsDoNotOverlap(t *testing.T) {
	chunks := assemble(t, "Outer.tsx", nestedSource)

	var got []string
	for _, c := range chunks {
		got = append(got, string(c.Kind)+":"+c.Parent+":"+c.Content)
	}
	assert.Equal(t, []string{
		"signature:Outer:Component: Outer",
		"logic:Outer:useState(0)",
		"view:Outer:(\n    <div>\n      <Inner />\n      {s}\n    </div>\n  )",
		"signature:Inner:Component: Inner",
		"logic:Inner:useMemo(() => 1, [])",
		"view:Inner:<span>{v}</span>",
	}, got)

	for i, a := range chunks {
		for _, b := range chunks[i+1:] {
			if a.Parent == b.Parent {
				continue
			}
			overlap := a.Line <= b.EndLine && b.Line <= a.EndLine
			assert.False(t, overlap, "%s [%d-%d] overlaps %s [%d-%d]", a.ID, a.Line, a.EndLine, b.ID, b.Line, b.EndLine)
		}
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	first := assemble(t, "Panel.tsx", panelSource)
	second := assemble(t, "Panel.tsx", panelSource)
	assert.Equal(t, first, second)
}

// Only the first binding of a multi-binding declaration is surfaced.
func TestAssemble_MultiBindingKnownBoundary(t *testing.T) {
	chunks := assemble(t, "pair.tsx", "const A = () => {\n  return <a/>;\n}, B = () => {\n  return <b/>;\n};\n")

	for _, c := range chunks {
		assert.Equal(t, "A", c.Parent)
	}
	require.Len(t, chunks, 3)
	assert.Equal(t, "<a/>", chunks[1].Content)
	// B's view is still inside A's declaration subtree.
	assert.Equal(t, "<b/>", chunks[2].Content)
}

func TestAssemble_NonStructuralReturn(t *testing.T) {
	chunks := assemble(t, "Label.tsx", `function Label() { const text = "x"; return text; }`)
	require.Len(t, chunks, 1)
	assert.Equal(t, domain.KindSignature, chunks[0].Kind)
}

func TestAssemble_HookInReturnStatement(t *testing.T) {
	chunks := assemble(t, "useThing.ts", `export function Thing() { return useThing(1); }`)
	require.Len(t, chunks, 2)
	assert.Equal(t, domain.KindLogic, chunks[1].Kind)
	assert.Equal(t, "useThing(1)", chunks[1].Content)
}

func TestAssemble_MemberCallIsNotLogic(t *testing.T) {
	chunks := assemble(t, "Field.tsx", `function Field() { const [v] = React.useState(0); return <input value={v} />; }`)
	require.Len(t, chunks, 2)
	assert.Equal(t, domain.KindView, chunks[1].Kind)
}

func TestAssemble_SameLineDuplicateID(t *testing.T) {
	chunks := assemble(t, "Pair.tsx", `function Pair() { const a = useA(); const b = useB(); }`)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Pair_logic_1", chunks[1].ID)
	assert.Equal(t, "useA()", chunks[1].Content)
}

func TestAssemble_ChunkIDs(t *testing.T) {
	chunks := assemble(t, "Outer.tsx", nestedSource)

	ids := make(map[string]bool)
	for _, c := range chunks {
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		ids[c.ID] = true
	}
	assert.True(t, ids["Outer_signature_1"])
	assert.True(t, ids["Inner_logic_3"])
	assert.True(t, ids["Outer_view_7"])
}
