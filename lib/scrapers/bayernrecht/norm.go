package bayernrecht

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
)

type BlockKind string

const (
	BlockParagraph BlockKind = "p"
	BlockList      BlockKind = "ol"
)

// Block is one content element of a norm, either a paragraph or an
// ordered list. A paragraph directly followed by an enumeration on the
// source page carries that enumeration in Items.
//
// Sentence numbers appear inside paragraph text as <satznr>N</satznr>
// tags so consumers can address individual sentences, which legal
// citation requires. Rendering them as unicode superscript glyphs
// loses that addressability.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Text  string    `json:"text,omitempty"`
	Items []string  `json:"items,omitempty"`
}

// NormRecord is the parsed form of a single provision page.
type NormRecord struct {
	// canonical number within the law, e.g. "6a"
	Number string
	// display number as printed in the heading, e.g. "Art. 6a"
	NumberRaw string
	Title     string
	Content   []Block
	// reserved for citation extraction, always empty for now
	References []string
	Url        string
}

func (r NormRecord) ContentJSON() string {
	b, err := json.Marshal(r.Content)
	if err != nil {
		// []Block cannot fail to marshal
		panic(err)
	}
	return string(b)
}

// Fingerprint digests display number, title and content in a fixed
// order. It is the sole change detection oracle: any switch of
// algorithm or input order makes every stored norm look changed once,
// so this must stay stable across releases. sha256 over md5 purely for
// ubiquity, collision resistance is not a concern at this corpus size.
func (r NormRecord) Fingerprint() string {
	h := sha256.New()
	io.WriteString(h, r.NumberRaw)
	io.WriteString(h, r.Title)
	io.WriteString(h, r.ContentJSON())
	return hex.EncodeToString(h.Sum(nil))
}
