package farm

import (
	"errors"

	"github.com/tidwall/gjson"
)

var ErrBadSnapshot = errors.New("snapshot is not a farm document")

// Snapshot wraps one fetched farm document. The API returns {"farm": {...}};
// all extractor paths are relative to the farm object.
//
// The document is walked with gjson rather than decoded into structs: the
// game adds fields constantly and the extractors only ever touch a small,
// stable subset.
type Snapshot struct {
	doc  gjson.Result
	root gjson.Result
}

func ParseSnapshot(raw []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrBadSnapshot
	}
	doc := gjson.ParseBytes(raw)
	farmNode := doc.Get("farm")
	if !farmNode.Exists() || !farmNode.IsObject() {
		return nil, ErrBadSnapshot
	}
	return &Snapshot{doc: doc, root: farmNode}, nil
}

// SnapshotFromResult builds a Snapshot rooted at an already-parsed farm
// object. Used by tests that construct documents inline.
func SnapshotFromResult(farmNode gjson.Result) *Snapshot {
	return &Snapshot{root: farmNode}
}

func (s *Snapshot) Get(path string) gjson.Result { return s.root.Get(path) }

func (s *Snapshot) Root() gjson.Result { return s.root }

// Auctions returns the upcoming-auctions array from the document, tolerating
// both the flat shape {"auctions": [...]} and the nested
// {"auctions": {"auctions": [...]}} the API has shipped at different times.
func (s *Snapshot) Auctions() gjson.Result {
	node := s.doc.Get("auctions")
	if node.IsObject() {
		return node.Get("auctions")
	}
	return node
}
