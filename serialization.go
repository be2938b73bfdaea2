// ═══════════════════════════════════════════════════════════════════════════════
// SERIALIZATION: Saving and Loading the Directory
// ═══════════════════════════════════════════════════════════════════════════════
// Save flattens the directory into a Snapshot: a plain tree of values with
// no pointers back into live structures. Load is its exact inverse: every
// posting, tree shape and isArray flag survives the round trip.
//
// COMPACTION:
// -----------
// Pointer-rich structures cannot serialize as-is, so two sub-indexes emit
// compacted forms:
//
//   - Radix trees flatten into a node table: each node gets a sequential
//     index and child pointers become indices into the table. Indices are
//     stable across processes; memory addresses are not.
//   - Flat indexes intern their keys into a table with one posting array
//     per key.
//
// AVL, BKD and Bool sub-indexes are plain trees of values already and are
// emitted as-is. Vectors serialize as bare float arrays; magnitudes are
// recomputed on load rather than stored.
//
// Every tree snapshot leads with its type tag so Load can dispatch without
// consulting a schema.
//
// BINARY FORMAT:
// --------------
// Encode/Decode additionally flatten a Snapshot to length-prefixed
// little-endian bytes for callers that want a transportable blob:
// strings and arrays are [length: uint32][data], numbers are fixed-width
// little-endian.
// ═══════════════════════════════════════════════════════════════════════════════

package orama

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// Snapshot is the serializable image of a directory.
type Snapshot struct {
	Indexes                       map[string]*TreeSnapshot
	VectorIndexes                 map[string]*VectorSnapshot
	SearchableProperties          []string
	SearchablePropertiesWithTypes map[string]SearchableType
	DocsCount                     int
}

// TreeSnapshot carries one serialized sub-index. Type is the dispatch tag;
// exactly the matching payload field is non-nil.
type TreeSnapshot struct {
	Type    string
	IsArray bool

	Radix *RadixSnapshot
	AVL   *AVLNodeSnapshot
	Flat  *FlatSnapshot
	BKD   *BKDSnapshot
	Bool  *BoolSnapshot
}

// RadixSnapshot is the node table of a flattened radix tree. Nodes[0] is
// the root; child links are indices into Nodes.
type RadixSnapshot struct {
	Nodes []RadixNodeRecord
}

// RadixNodeRecord is one flattened radix node.
type RadixNodeRecord struct {
	Subword  string
	Word     string
	End      bool
	Postings []PostingRecord
	Children []uint32
}

// PostingRecord is one (document, term frequency) posting.
type PostingRecord struct {
	ID    InternalID
	Count uint32
}

// FlatSnapshot is a flat index with interned keys: Postings[i] belongs to
// Keys[i].
type FlatSnapshot struct {
	Keys     []string
	Postings [][]InternalID
}

// AVLNodeSnapshot is a plain-value AVL node.
type AVLNodeSnapshot struct {
	Key    float64
	Docs   []InternalID
	Height int
	Left   *AVLNodeSnapshot
	Right  *AVLNodeSnapshot
}

// BKDSnapshot is a BKD tree with its overflow buffer.
type BKDSnapshot struct {
	Root    *BKDNodeSnapshot
	Pending []BKDEntrySnapshot
}

// BKDNodeSnapshot is a plain-value BKD node.
type BKDNodeSnapshot struct {
	Leaf     bool
	SplitDim int
	SplitVal float64
	MinLat   float64
	MaxLat   float64
	MinLon   float64
	MaxLon   float64
	Entries  []BKDEntrySnapshot
	Left     *BKDNodeSnapshot
	Right    *BKDNodeSnapshot
}

// BKDEntrySnapshot is one stored point with its posting list.
type BKDEntrySnapshot struct {
	Lat  float64
	Lon  float64
	Docs []InternalID
}

// BoolSnapshot is the two posting sets of a boolean index.
type BoolSnapshot struct {
	True  []InternalID
	False []InternalID
}

// VectorSnapshot is one vector slot as plain arrays.
type VectorSnapshot struct {
	Size    int
	Vectors map[DocumentID][]float32
}

// ═══════════════════════════════════════════════════════════════════════════════
// SAVE
// ═══════════════════════════════════════════════════════════════════════════════

// Save flattens the directory into a Snapshot.
func (dir *IndexDirectory) Save() *Snapshot {
	snap := &Snapshot{
		Indexes:                       make(map[string]*TreeSnapshot, len(dir.indexes)),
		VectorIndexes:                 make(map[string]*VectorSnapshot, len(dir.vectorIndexes)),
		SearchableProperties:          append([]string(nil), dir.searchableProperties...),
		SearchablePropertiesWithTypes: make(map[string]SearchableType, len(dir.searchablePropertiesWithTypes)),
		DocsCount:                     dir.docsCount,
	}
	for path, typ := range dir.searchablePropertiesWithTypes {
		snap.SearchablePropertiesWithTypes[path] = typ
	}

	for path, tree := range dir.indexes {
		ts := &TreeSnapshot{Type: tree.Type.String(), IsArray: tree.IsArray}
		switch tree.Type {
		case TreeRadix:
			ts.Radix = saveRadix(tree.Radix)
		case TreeAVL:
			ts.AVL = saveAVL(tree.AVL.root)
		case TreeFlat:
			ts.Flat = saveFlat(tree.Flat)
		case TreeBKD:
			ts.BKD = saveBKD(tree.BKD)
		case TreeBool:
			ts.Bool = &BoolSnapshot{
				True:  toInternalIDs(tree.Bool.trueDocs),
				False: toInternalIDs(tree.Bool.falseDocs),
			}
		}
		snap.Indexes[path] = ts
	}

	for path, slot := range dir.vectorIndexes {
		vs := &VectorSnapshot{
			Size:    slot.size,
			Vectors: make(map[DocumentID][]float32, len(slot.vectors)),
		}
		for docID, entry := range slot.vectors {
			vs.Vectors[docID] = append([]float32(nil), entry.Data...)
		}
		snap.VectorIndexes[path] = vs
	}

	return snap
}

// saveRadix assigns every node a sequential index in preorder and rewrites
// child pointers as indices.
func saveRadix(t *RadixTree) *RadixSnapshot {
	snap := &RadixSnapshot{}
	var flatten func(n *radixNode) uint32
	flatten = func(n *radixNode) uint32 {
		idx := uint32(len(snap.Nodes))
		snap.Nodes = append(snap.Nodes, RadixNodeRecord{
			Subword: n.subword,
			Word:    n.word,
			End:     n.end,
		})

		postings := make([]PostingRecord, 0, len(n.docs))
		for id, count := range n.docs {
			postings = append(postings, PostingRecord{ID: id, Count: uint32(count)})
		}
		sort.Slice(postings, func(i, j int) bool { return postings[i].ID < postings[j].ID })

		children := make([]uint32, 0, len(n.children))
		for _, c := range n.sortedChildren() {
			children = append(children, flatten(c))
		}

		snap.Nodes[idx].Postings = postings
		snap.Nodes[idx].Children = children
		return idx
	}
	flatten(t.root)
	return snap
}

func saveAVL(n *avlNode) *AVLNodeSnapshot {
	if n == nil {
		return nil
	}
	return &AVLNodeSnapshot{
		Key:    n.key,
		Docs:   append([]InternalID(nil), n.docs...),
		Height: n.height,
		Left:   saveAVL(n.left),
		Right:  saveAVL(n.right),
	}
}

// saveFlat interns the keys into a sorted table with one posting array per
// key.
func saveFlat(f *FlatIndex) *FlatSnapshot {
	keys := make([]string, 0, len(f.postings))
	for k := range f.postings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	snap := &FlatSnapshot{Keys: keys, Postings: make([][]InternalID, len(keys))}
	for i, k := range keys {
		snap.Postings[i] = toInternalIDs(f.postings[k])
	}
	return snap
}

func saveBKD(t *BKDTree) *BKDSnapshot {
	snap := &BKDSnapshot{Root: saveBKDNode(t.root)}
	for _, e := range t.pending {
		snap.Pending = append(snap.Pending, saveBKDEntry(e))
	}
	return snap
}

func saveBKDNode(n *bkdNode) *BKDNodeSnapshot {
	if n == nil {
		return nil
	}
	out := &BKDNodeSnapshot{
		Leaf:     n.isLeaf(),
		SplitDim: n.splitDim,
		SplitVal: n.splitVal,
		MinLat:   n.minLat,
		MaxLat:   n.maxLat,
		MinLon:   n.minLon,
		MaxLon:   n.maxLon,
		Left:     saveBKDNode(n.left),
		Right:    saveBKDNode(n.right),
	}
	for _, e := range n.entries {
		out.Entries = append(out.Entries, saveBKDEntry(e))
	}
	return out
}

func saveBKDEntry(e bkdEntry) BKDEntrySnapshot {
	return BKDEntrySnapshot{
		Lat:  e.point.Lat,
		Lon:  e.point.Lon,
		Docs: append([]InternalID(nil), e.docs...),
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// LOAD
// ═══════════════════════════════════════════════════════════════════════════════

// Load reconstructs a directory from a Snapshot. The id store reference is
// taken as-is: loading never re-interns documents.
func Load(store InternalIDStore, snap *Snapshot) (*IndexDirectory, error) {
	dir := &IndexDirectory{
		store:                         store,
		indexes:                       make(map[string]*Tree, len(snap.Indexes)),
		vectorIndexes:                 make(map[string]*VectorSlot, len(snap.VectorIndexes)),
		searchableProperties:          append([]string(nil), snap.SearchableProperties...),
		searchablePropertiesWithTypes: make(map[string]SearchableType, len(snap.SearchablePropertiesWithTypes)),
		docsCount:                     snap.DocsCount,
	}
	for path, typ := range snap.SearchablePropertiesWithTypes {
		dir.searchablePropertiesWithTypes[path] = typ
	}

	for path, ts := range snap.Indexes {
		tree := &Tree{IsArray: ts.IsArray}
		switch ts.Type {
		case "Radix":
			tree.Type = TreeRadix
			radix, err := loadRadix(ts.Radix)
			if err != nil {
				return nil, err
			}
			tree.Radix = radix
		case "AVL":
			tree.Type = TreeAVL
			tree.AVL = &AVLTree{root: loadAVL(ts.AVL)}
		case "Flat":
			tree.Type = TreeFlat
			tree.Flat = loadFlat(ts.Flat)
		case "BKD":
			tree.Type = TreeBKD
			tree.BKD = loadBKD(ts.BKD)
		case "Bool":
			tree.Type = TreeBool
			b := NewBoolIndex()
			b.trueDocs.AddMany(ts.Bool.True)
			b.falseDocs.AddMany(ts.Bool.False)
			tree.Bool = b
		default:
			return nil, fmt.Errorf("unknown tree tag %q for property %q", ts.Type, path)
		}
		dir.indexes[path] = tree
	}

	for path, vs := range snap.VectorIndexes {
		slot := NewVectorSlot(vs.Size)
		for docID, data := range vs.Vectors {
			vec := append([]float32(nil), data...)
			slot.vectors[docID] = VectorEntry{Magnitude: magnitude(vec), Data: vec}
		}
		dir.vectorIndexes[path] = slot
	}

	return dir, nil
}

func loadRadix(snap *RadixSnapshot) (*RadixTree, error) {
	if snap == nil || len(snap.Nodes) == 0 {
		return NewRadixTree(), nil
	}

	nodes := make([]*radixNode, len(snap.Nodes))
	for i, rec := range snap.Nodes {
		n := newRadixNode(rec.Subword)
		n.word = rec.Word
		n.end = rec.End
		if len(rec.Postings) > 0 {
			n.docs = make(map[InternalID]int, len(rec.Postings))
			for _, p := range rec.Postings {
				n.docs[p.ID] = int(p.Count)
			}
		}
		nodes[i] = n
	}
	for i, rec := range snap.Nodes {
		for _, childIdx := range rec.Children {
			if int(childIdx) >= len(nodes) {
				return nil, fmt.Errorf("radix child index %d out of range", childIdx)
			}
			child := nodes[childIdx]
			if child.subword == "" {
				return nil, fmt.Errorf("radix child %d has empty subword", childIdx)
			}
			nodes[i].children[child.subword[0]] = child
		}
	}
	return &RadixTree{root: nodes[0]}, nil
}

func loadAVL(snap *AVLNodeSnapshot) *avlNode {
	if snap == nil {
		return nil
	}
	return &avlNode{
		key:    snap.Key,
		docs:   append([]InternalID(nil), snap.Docs...),
		height: snap.Height,
		left:   loadAVL(snap.Left),
		right:  loadAVL(snap.Right),
	}
}

func loadFlat(snap *FlatSnapshot) *FlatIndex {
	f := NewFlatIndex()
	if snap == nil {
		return f
	}
	for i, key := range snap.Keys {
		bm := roaringFromIDs(snap.Postings[i])
		f.postings[key] = bm
	}
	return f
}

func loadBKD(snap *BKDSnapshot) *BKDTree {
	t := NewBKDTree()
	if snap == nil {
		return t
	}
	t.root = loadBKDNode(snap.Root)
	for _, e := range snap.Pending {
		t.pending = append(t.pending, loadBKDEntry(e))
	}
	return t
}

func loadBKDNode(snap *BKDNodeSnapshot) *bkdNode {
	if snap == nil {
		return nil
	}
	n := &bkdNode{
		splitDim: snap.SplitDim,
		splitVal: snap.SplitVal,
		minLat:   snap.MinLat,
		maxLat:   snap.MaxLat,
		minLon:   snap.MinLon,
		maxLon:   snap.MaxLon,
		left:     loadBKDNode(snap.Left),
		right:    loadBKDNode(snap.Right),
	}
	for _, e := range snap.Entries {
		n.entries = append(n.entries, loadBKDEntry(e))
	}
	return n
}

func loadBKDEntry(snap BKDEntrySnapshot) bkdEntry {
	return bkdEntry{
		point: GeoPoint{Lat: snap.Lat, Lon: snap.Lon},
		docs:  append([]InternalID(nil), snap.Docs...),
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// BINARY ENCODING
// ═══════════════════════════════════════════════════════════════════════════════

// Encode flattens the snapshot to length-prefixed little-endian bytes.
func (snap *Snapshot) Encode() ([]byte, error) {
	e := &snapshotEncoder{buffer: new(bytes.Buffer)}

	e.writeUint32(uint32(snap.DocsCount))

	e.writeUint32(uint32(len(snap.SearchableProperties)))
	for _, path := range snap.SearchableProperties {
		e.writeString(path)
		e.writeString(snap.SearchablePropertiesWithTypes[path])
	}

	// Indexes, sorted by path so the byte stream is deterministic.
	paths := make([]string, 0, len(snap.Indexes))
	for p := range snap.Indexes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	e.writeUint32(uint32(len(paths)))
	for _, path := range paths {
		e.writeString(path)
		e.writeTree(snap.Indexes[path])
	}

	vpaths := make([]string, 0, len(snap.VectorIndexes))
	for p := range snap.VectorIndexes {
		vpaths = append(vpaths, p)
	}
	sort.Strings(vpaths)
	e.writeUint32(uint32(len(vpaths)))
	for _, path := range vpaths {
		vs := snap.VectorIndexes[path]
		e.writeString(path)
		e.writeUint32(uint32(vs.Size))
		docIDs := make([]string, 0, len(vs.Vectors))
		for d := range vs.Vectors {
			docIDs = append(docIDs, d)
		}
		sort.Strings(docIDs)
		e.writeUint32(uint32(len(docIDs)))
		for _, d := range docIDs {
			e.writeString(d)
			for _, f := range vs.Vectors[d] {
				e.writeUint32(math.Float32bits(f))
			}
		}
	}

	return e.buffer.Bytes(), nil
}

type snapshotEncoder struct {
	buffer *bytes.Buffer
}

func (e *snapshotEncoder) writeUint32(v uint32) {
	binary.Write(e.buffer, binary.LittleEndian, v)
}

func (e *snapshotEncoder) writeFloat64(v float64) {
	binary.Write(e.buffer, binary.LittleEndian, math.Float64bits(v))
}

func (e *snapshotEncoder) writeBool(v bool) {
	b := byte(0)
	if v {
		b = 1
	}
	e.buffer.WriteByte(b)
}

// writeString writes a length-prefixed string: [length: uint32][bytes].
func (e *snapshotEncoder) writeString(s string) {
	e.writeUint32(uint32(len(s)))
	e.buffer.WriteString(s)
}

func (e *snapshotEncoder) writeIDs(ids []InternalID) {
	e.writeUint32(uint32(len(ids)))
	for _, id := range ids {
		e.writeUint32(id)
	}
}

func (e *snapshotEncoder) writeTree(ts *TreeSnapshot) {
	e.writeString(ts.Type)
	e.writeBool(ts.IsArray)

	switch ts.Type {
	case "Radix":
		e.writeUint32(uint32(len(ts.Radix.Nodes)))
		for _, n := range ts.Radix.Nodes {
			e.writeString(n.Subword)
			e.writeString(n.Word)
			e.writeBool(n.End)
			e.writeUint32(uint32(len(n.Postings)))
			for _, p := range n.Postings {
				e.writeUint32(p.ID)
				e.writeUint32(p.Count)
			}
			e.writeUint32(uint32(len(n.Children)))
			for _, c := range n.Children {
				e.writeUint32(c)
			}
		}
	case "AVL":
		e.writeAVLNode(ts.AVL)
	case "Flat":
		e.writeUint32(uint32(len(ts.Flat.Keys)))
		for i, k := range ts.Flat.Keys {
			e.writeString(k)
			e.writeIDs(ts.Flat.Postings[i])
		}
	case "BKD":
		e.writeBKDNode(ts.BKD.Root)
		e.writeUint32(uint32(len(ts.BKD.Pending)))
		for _, entry := range ts.BKD.Pending {
			e.writeBKDEntry(entry)
		}
	case "Bool":
		e.writeIDs(ts.Bool.True)
		e.writeIDs(ts.Bool.False)
	}
}

// writeAVLNode emits the tree preorder with presence bytes marking nil.
func (e *snapshotEncoder) writeAVLNode(n *AVLNodeSnapshot) {
	if n == nil {
		e.writeBool(false)
		return
	}
	e.writeBool(true)
	e.writeFloat64(n.Key)
	e.writeIDs(n.Docs)
	e.writeUint32(uint32(n.Height))
	e.writeAVLNode(n.Left)
	e.writeAVLNode(n.Right)
}

func (e *snapshotEncoder) writeBKDNode(n *BKDNodeSnapshot) {
	if n == nil {
		e.writeBool(false)
		return
	}
	e.writeBool(true)
	e.writeBool(n.Leaf)
	e.writeUint32(uint32(n.SplitDim))
	e.writeFloat64(n.SplitVal)
	e.writeFloat64(n.MinLat)
	e.writeFloat64(n.MaxLat)
	e.writeFloat64(n.MinLon)
	e.writeFloat64(n.MaxLon)
	e.writeUint32(uint32(len(n.Entries)))
	for _, entry := range n.Entries {
		e.writeBKDEntry(entry)
	}
	e.writeBKDNode(n.Left)
	e.writeBKDNode(n.Right)
}

func (e *snapshotEncoder) writeBKDEntry(entry BKDEntrySnapshot) {
	e.writeFloat64(entry.Lat)
	e.writeFloat64(entry.Lon)
	e.writeIDs(entry.Docs)
}

// ═══════════════════════════════════════════════════════════════════════════════
// BINARY DECODING
// ═══════════════════════════════════════════════════════════════════════════════

// DecodeSnapshot reverses Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	d := &snapshotDecoder{data: data}

	docsCount, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{
		Indexes:                       make(map[string]*TreeSnapshot),
		VectorIndexes:                 make(map[string]*VectorSnapshot),
		SearchablePropertiesWithTypes: make(map[string]SearchableType),
		DocsCount:                     int(docsCount),
	}

	propCount, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < propCount; i++ {
		path, err := d.readString()
		if err != nil {
			return nil, err
		}
		typ, err := d.readString()
		if err != nil {
			return nil, err
		}
		snap.SearchableProperties = append(snap.SearchableProperties, path)
		snap.SearchablePropertiesWithTypes[path] = typ
	}

	idxCount, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < idxCount; i++ {
		path, err := d.readString()
		if err != nil {
			return nil, err
		}
		ts, err := d.readTree()
		if err != nil {
			return nil, err
		}
		snap.Indexes[path] = ts
	}

	vecCount, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < vecCount; i++ {
		path, err := d.readString()
		if err != nil {
			return nil, err
		}
		size, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		vs := &VectorSnapshot{Size: int(size), Vectors: make(map[DocumentID][]float32)}
		n, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		for j := uint32(0); j < n; j++ {
			docID, err := d.readString()
			if err != nil {
				return nil, err
			}
			vec := make([]float32, size)
			for k := range vec {
				bits, err := d.readUint32()
				if err != nil {
					return nil, err
				}
				vec[k] = math.Float32frombits(bits)
			}
			vs.Vectors[docID] = vec
		}
		snap.VectorIndexes[path] = vs
	}

	return snap, nil
}

type snapshotDecoder struct {
	data   []byte
	offset int
}

func (d *snapshotDecoder) readUint32() (uint32, error) {
	if d.offset+4 > len(d.data) {
		return 0, fmt.Errorf("snapshot truncated at offset %d", d.offset)
	}
	v := binary.LittleEndian.Uint32(d.data[d.offset:])
	d.offset += 4
	return v, nil
}

func (d *snapshotDecoder) readFloat64() (float64, error) {
	if d.offset+8 > len(d.data) {
		return 0, fmt.Errorf("snapshot truncated at offset %d", d.offset)
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.offset:]))
	d.offset += 8
	return v, nil
}

func (d *snapshotDecoder) readBool() (bool, error) {
	if d.offset >= len(d.data) {
		return false, fmt.Errorf("snapshot truncated at offset %d", d.offset)
	}
	b := d.data[d.offset]
	d.offset++
	return b != 0, nil
}

func (d *snapshotDecoder) readString() (string, error) {
	n, err := d.readUint32()
	if err != nil {
		return "", err
	}
	if d.offset+int(n) > len(d.data) {
		return "", fmt.Errorf("snapshot truncated at offset %d", d.offset)
	}
	s := string(d.data[d.offset : d.offset+int(n)])
	d.offset += int(n)
	return s, nil
}

func (d *snapshotDecoder) readIDs() ([]InternalID, error) {
	n, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	ids := make([]InternalID, n)
	for i := range ids {
		if ids[i], err = d.readUint32(); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (d *snapshotDecoder) readTree() (*TreeSnapshot, error) {
	tag, err := d.readString()
	if err != nil {
		return nil, err
	}
	isArray, err := d.readBool()
	if err != nil {
		return nil, err
	}
	ts := &TreeSnapshot{Type: tag, IsArray: isArray}

	switch tag {
	case "Radix":
		count, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		ts.Radix = &RadixSnapshot{Nodes: make([]RadixNodeRecord, count)}
		for i := uint32(0); i < count; i++ {
			rec := &ts.Radix.Nodes[i]
			if rec.Subword, err = d.readString(); err != nil {
				return nil, err
			}
			if rec.Word, err = d.readString(); err != nil {
				return nil, err
			}
			if rec.End, err = d.readBool(); err != nil {
				return nil, err
			}
			pcount, err := d.readUint32()
			if err != nil {
				return nil, err
			}
			for j := uint32(0); j < pcount; j++ {
				var p PostingRecord
				if p.ID, err = d.readUint32(); err != nil {
					return nil, err
				}
				if p.Count, err = d.readUint32(); err != nil {
					return nil, err
				}
				rec.Postings = append(rec.Postings, p)
			}
			ccount, err := d.readUint32()
			if err != nil {
				return nil, err
			}
			for j := uint32(0); j < ccount; j++ {
				c, err := d.readUint32()
				if err != nil {
					return nil, err
				}
				rec.Children = append(rec.Children, c)
			}
		}
	case "AVL":
		if ts.AVL, err = d.readAVLNode(); err != nil {
			return nil, err
		}
	case "Flat":
		count, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		ts.Flat = &FlatSnapshot{}
		for i := uint32(0); i < count; i++ {
			key, err := d.readString()
			if err != nil {
				return nil, err
			}
			ids, err := d.readIDs()
			if err != nil {
				return nil, err
			}
			ts.Flat.Keys = append(ts.Flat.Keys, key)
			ts.Flat.Postings = append(ts.Flat.Postings, ids)
		}
	case "BKD":
		ts.BKD = &BKDSnapshot{}
		if ts.BKD.Root, err = d.readBKDNode(); err != nil {
			return nil, err
		}
		count, err := d.readUint32()
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < count; i++ {
			entry, err := d.readBKDEntry()
			if err != nil {
				return nil, err
			}
			ts.BKD.Pending = append(ts.BKD.Pending, entry)
		}
	case "Bool":
		ts.Bool = &BoolSnapshot{}
		if ts.Bool.True, err = d.readIDs(); err != nil {
			return nil, err
		}
		if ts.Bool.False, err = d.readIDs(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown tree tag %q", tag)
	}

	return ts, nil
}

func (d *snapshotDecoder) readAVLNode() (*AVLNodeSnapshot, error) {
	present, err := d.readBool()
	if err != nil || !present {
		return nil, err
	}
	n := &AVLNodeSnapshot{}
	if n.Key, err = d.readFloat64(); err != nil {
		return nil, err
	}
	if n.Docs, err = d.readIDs(); err != nil {
		return nil, err
	}
	height, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	n.Height = int(height)
	if n.Left, err = d.readAVLNode(); err != nil {
		return nil, err
	}
	if n.Right, err = d.readAVLNode(); err != nil {
		return nil, err
	}
	return n, nil
}

func (d *snapshotDecoder) readBKDNode() (*BKDNodeSnapshot, error) {
	present, err := d.readBool()
	if err != nil || !present {
		return nil, err
	}
	n := &BKDNodeSnapshot{}
	if n.Leaf, err = d.readBool(); err != nil {
		return nil, err
	}
	dim, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	n.SplitDim = int(dim)
	if n.SplitVal, err = d.readFloat64(); err != nil {
		return nil, err
	}
	if n.MinLat, err = d.readFloat64(); err != nil {
		return nil, err
	}
	if n.MaxLat, err = d.readFloat64(); err != nil {
		return nil, err
	}
	if n.MinLon, err = d.readFloat64(); err != nil {
		return nil, err
	}
	if n.MaxLon, err = d.readFloat64(); err != nil {
		return nil, err
	}
	count, err := d.readUint32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		entry, err := d.readBKDEntry()
		if err != nil {
			return nil, err
		}
		n.Entries = append(n.Entries, entry)
	}
	if n.Left, err = d.readBKDNode(); err != nil {
		return nil, err
	}
	if n.Right, err = d.readBKDNode(); err != nil {
		return nil, err
	}
	return n, nil
}

func (d *snapshotDecoder) readBKDEntry() (BKDEntrySnapshot, error) {
	var entry BKDEntrySnapshot
	var err error
	if entry.Lat, err = d.readFloat64(); err != nil {
		return entry, err
	}
	if entry.Lon, err = d.readFloat64(); err != nil {
		return entry, err
	}
	if entry.Docs, err = d.readIDs(); err != nil {
		return entry, err
	}
	return entry, nil
}
