package chunker

import (
	"ragchunk/internal/domain"
	"ragchunk/internal/port"
)

// Assembler turns a parse tree into the ordered chunk list of one file:
// each component's signature followed by its own logic and view units.
type Assembler struct {
	locator    *Locator
	classifier *Classifier
}

func NewAssembler(opts Options) *Assembler {
	locator := NewLocator(opts)
	return &Assembler{
		locator:    locator,
		classifier: NewClassifier(opts, locator),
	}
}

// Assemble performs no I/O and does not retain root or src.
func (a *Assembler) Assemble(root port.SyntaxNode, src []byte) []domain.Chunk {
	var chunks []domain.Chunk
	seen := make(map[string]struct{})

	add := func(c domain.Chunk) {
		if _, dup := seen[c.ID]; dup {
			return
		}
		seen[c.ID] = struct{}{}
		chunks = append(chunks, c)
	}

	for _, loc := range a.locator.Locate(root, src) {
		add(signatureChunk(loc.Decl))
		for _, c := range a.classifier.Classify(loc.Node, loc.Decl.Name, src) {
			add(c)
		}
	}

	return chunks
}

// Declarations lists every declaration candidate in the tree.
func (a *Assembler) Declarations(root port.SyntaxNode, src []byte) []domain.Declaration {
	return a.locator.Candidates(root, src)
}

// SignatureLabel is the synthesized content of a signature chunk.
func SignatureLabel(name string) string {
	return "Component: " + name
}

func signatureChunk(decl domain.Declaration) domain.Chunk {
	return domain.Chunk{
		ID:        chunkID(decl.Name, domain.KindSignature, decl.StartLine),
		Kind:      domain.KindSignature,
		Parent:    decl.Name,
		Content:   SignatureLabel(decl.Name),
		Line:      decl.StartLine,
		EndLine:   decl.StartLine,
		StartByte: decl.StartByte,
		EndByte:   decl.EndByte,
	}
}
