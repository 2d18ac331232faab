package models

// ArtifactKind identifies the family of office artifact an operation touches.
type ArtifactKind string

const (
	// KindDocument covers text documents (reports, letters, memos).
	KindDocument ArtifactKind = "document"
	// KindPresentation covers slide decks.
	KindPresentation ArtifactKind = "presentation"
	// KindSpreadsheet covers workbooks.
	KindSpreadsheet ArtifactKind = "spreadsheet"
	// KindFile covers workspace file operations that belong to no single
	// artifact family.
	KindFile ArtifactKind = "file"
	// KindAny marks cross-artifact affinity. Used by producer descriptors
	// only; artifacts themselves always carry a concrete kind.
	KindAny ArtifactKind = "any"
)

// Valid returns true if the kind is a concrete artifact kind.
func (k ArtifactKind) Valid() bool {
	switch k {
	case KindDocument, KindPresentation, KindSpreadsheet, KindFile:
		return true
	default:
		return false
	}
}

// FormatTier is the output fidelity an artifact was written in.
type FormatTier string

const (
	// TierRich is the native binary format (docx, pptx, xlsx).
	TierRich FormatTier = "rich"
	// TierPlain is the degraded plain-text fallback.
	TierPlain FormatTier = "plain"
)

// Artifact describes one generated output file.
type Artifact struct {
	// Kind is the artifact family.
	Kind ArtifactKind `json:"kind"`
	// Path is the workspace path the artifact was written to.
	Path string `json:"path"`
	// Tier is the format tier the artifact was written in.
	Tier FormatTier `json:"tier"`
}
