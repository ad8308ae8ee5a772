package vantage

import "github.com/hajimehoshi/ebiten/v2"

// batchKind distinguishes the two draw-item flavors kept on separate free lists.
type batchKind uint8

const (
	kindQuad batchKind = iota
	kindTriangle
)

// nilBatch marks the end of a batch chain.
const nilBatch = int32(-1)

// BatchKey is the rendering state a draw must share to merge into an existing
// batch. Two submissions with equal keys that arrive back to back produce a
// single batch node and a single draw call.
type BatchKey struct {
	Graphic         *Graphic
	Colored         bool // multiplicative color transform present
	HasColorOffsets bool // additive color offsets present
	Blend           BlendMode
	Smoothing       bool
	Shader          *ebiten.Shader
}

// blitOp is one quad recorded for the immediate-composition backend: the
// source frame, the full draw matrix, and the color transform to apply while
// compositing pixels.
type blitOp struct {
	frame Frame
	m     [6]float64
	ct    ColorTransform
}

// DrawBatch is a pooled node describing one contiguous run of draw operations
// sharing a BatchKey. Nodes live in a BatchPool arena and are addressed by
// index; nextOfKind chains nodes of the same kind for recycling, nextInStack
// chains all nodes in render order.
type DrawBatch struct {
	kind      batchKind
	key       BatchKey
	immediate bool // geometry representation chosen by the owning camera's backend

	// Batched-backend geometry.
	verts []ebiten.Vertex
	inds  []uint32
	// Per-vertex additive color offsets, filled only when key.HasColorOffsets.
	// Played back as a second pass; see BatchedBackend.
	offVerts []ebiten.Vertex

	// Immediate-backend quad geometry.
	blits []blitOp

	// Accumulated bounds of triangle submissions, used by the batched backend
	// to cull whole batches at playback.
	bounds    Rect
	hasBounds bool

	nextOfKind  int32
	nextInStack int32
}

// QuadCount returns the number of quads recorded in the batch.
func (b *DrawBatch) QuadCount() int {
	if b.immediate {
		return len(b.blits)
	}
	return len(b.verts) / 4
}

// VertexCount returns the number of vertices recorded in the batch.
func (b *DrawBatch) VertexCount() int {
	return len(b.verts)
}

// reset clears a node for return to the free list. Slices are truncated, not
// freed, so reacquired nodes draw without reallocating. The key is zeroed so
// a free-listed node never pins a Graphic or Shader.
func (b *DrawBatch) reset() {
	b.key = BatchKey{}
	b.immediate = false
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
	b.offVerts = b.offVerts[:0]
	b.blits = b.blits[:0]
	b.bounds = Rect{}
	b.hasBounds = false
	b.nextOfKind = nilBatch
	b.nextInStack = nilBatch
}

// BatchPool is an arena of DrawBatch nodes shared by every camera constructed
// with it. Nodes are checked out during a frame and returned on the camera's
// end-of-frame stack clear; after warmup no frame allocates.
//
// The pool is not safe for concurrent use: all cameras sharing a pool must
// run on the same goroutine, one frame at a time.
type BatchPool struct {
	nodes         []DrawBatch
	freeQuads     []int32
	freeTriangles []int32
}

// NewBatchPool creates an empty pool. A single pool is typically shared by
// all cameras in a game.
func NewBatchPool() *BatchPool {
	return &BatchPool{}
}

// node returns the arena node at index i.
func (p *BatchPool) node(i int32) *DrawBatch {
	return &p.nodes[i]
}

// take pops a node of the given kind from its free list, or grows the arena.
// The returned node is reset and ready to receive a key and geometry.
func (p *BatchPool) take(kind batchKind) int32 {
	free := &p.freeQuads
	if kind == kindTriangle {
		free = &p.freeTriangles
	}
	if n := len(*free); n > 0 {
		i := (*free)[n-1]
		*free = (*free)[:n-1]
		return i
	}
	p.nodes = append(p.nodes, DrawBatch{
		kind:        kind,
		nextOfKind:  nilBatch,
		nextInStack: nilBatch,
	})
	return int32(len(p.nodes) - 1)
}

// release resets a node and returns it to its kind's free list. The node must
// no longer be reachable from any camera's stack.
func (p *BatchPool) release(i int32) {
	n := &p.nodes[i]
	kind := n.kind
	n.reset()
	if kind == kindTriangle {
		p.freeTriangles = append(p.freeTriangles, i)
	} else {
		p.freeQuads = append(p.freeQuads, i)
	}
}

// size returns the arena node count. Used by tests to verify reuse.
func (p *BatchPool) size() int {
	return len(p.nodes)
}

// drawStack is a camera's per-frame render-order stack of pool nodes, plus
// per-kind chains used to return nodes on clear.
type drawStack struct {
	head int32
	tail int32
	// Heads of the kind chains threaded through nextOfKind. Order within a
	// chain is irrelevant; the chains exist so clearing runs in one pass per
	// kind without walking the render-order list twice.
	quadsHead     int32
	trianglesHead int32
}

func emptyStack() drawStack {
	return drawStack{head: nilBatch, tail: nilBatch, quadsHead: nilBatch, trianglesHead: nilBatch}
}

// acquire returns the stack tail when it matches (kind, key) — the merge path
// — or takes a node from the pool, keys it, and links it as the new tail.
func (c *Camera) acquire(kind batchKind, key BatchKey) *DrawBatch {
	if t := c.stack.tail; t != nilBatch {
		n := c.pool.node(t)
		if n.kind == kind && n.key == key {
			return n
		}
	}

	i := c.pool.take(kind)
	n := c.pool.node(i)
	n.key = key
	n.immediate = c.backend.immediateMode()

	if kind == kindTriangle {
		n.nextOfKind = c.stack.trianglesHead
		c.stack.trianglesHead = i
	} else {
		n.nextOfKind = c.stack.quadsHead
		c.stack.quadsHead = i
	}

	if c.stack.head == nilBatch {
		c.stack.head = i
	} else {
		c.pool.node(c.stack.tail).nextInStack = i
	}
	c.stack.tail = i
	return n
}

// QuadBatch returns the batch that the next quad submission with this key
// should be added to, merging into the stack tail when the key matches.
//
// The returned pointer is valid until the next QuadBatch or TriangleBatch
// call on any camera sharing the pool; the arena may grow and move.
func (c *Camera) QuadBatch(key BatchKey) *DrawBatch {
	return c.acquire(kindQuad, key)
}

// TriangleBatch returns the batch that the next triangle submission with this
// key should be added to, merging into the stack tail when the key matches.
func (c *Camera) TriangleBatch(key BatchKey) *DrawBatch {
	return c.acquire(kindTriangle, key)
}

// clearStack returns every node on the camera's stack to the pool and empties
// the stack. Runs in time linear in the number of batches. Called exactly
// once per frame by Render, after playback.
func (c *Camera) clearStack() {
	for i := c.stack.quadsHead; i != nilBatch; {
		next := c.pool.node(i).nextOfKind
		c.pool.release(i)
		i = next
	}
	for i := c.stack.trianglesHead; i != nilBatch; {
		next := c.pool.node(i).nextOfKind
		c.pool.release(i)
		i = next
	}
	c.stack = emptyStack()
}
