package history

import (
	"time"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// snapshot is one stored version of the image.
type snapshot struct {
	image       *imaging.ImageBuffer
	description string
	timestamp   time.Time
}

// History is a linear sequence of image snapshots with a cursor.
//
// The zero value is an empty history ready for use.
type History struct {
	snapshots []*snapshot
	cursor    int // index into snapshots; meaningless while empty

	label    string
	hasLabel bool

	now func() time.Time
}

// State is a read-only view of where the cursor sits.
type State struct {
	Empty  bool
	Cursor int // -1 when Empty
	Length int
}

// Entry describes one snapshot for history listings.
type Entry struct {
	Index       int       `json:"index"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Channels    int       `json:"channels"`
	Current     bool      `json:"current"`
}

// CommitOption customizes a single Commit.
type CommitOption func(*commitOptions)

type commitOptions struct {
	label       string
	hasLabel    bool
	description string
}

// WithLabel sets the source label (usually a file path) along with the commit.
func WithLabel(label string) CommitOption {
	return func(o *commitOptions) {
		o.label = label
		o.hasLabel = true
	}
}

// WithDescription records what produced the snapshot, e.g. "blur k=5".
func WithDescription(desc string) CommitOption {
	return func(o *commitOptions) {
		o.description = desc
	}
}

// New returns an empty history.
func New() *History {
	return &History{}
}

// NewSeeded returns a history holding a copy of img as its only snapshot,
// labelled with label.
func NewSeeded(img *imaging.ImageBuffer, label string) (*History, error) {
	h := New()
	if err := h.Commit(img, WithLabel(label), WithDescription("open")); err != nil {
		return nil, err
	}
	return h, nil
}

// Commit stores a deep copy of img as the new current snapshot.
//
// Snapshots after the cursor are discarded first, so a commit made after one
// or more Undo calls permanently drops the redo branch. The source label is
// replaced only when WithLabel is given.
//
// Commit returns an *imaging.InvalidImageError for a nil or malformed buffer
// and leaves the history unchanged.
func (h *History) Commit(img *imaging.ImageBuffer, opts ...CommitOption) error {
	if err := imaging.Validate("commit", img); err != nil {
		return err
	}

	var o commitOptions
	for _, opt := range opts {
		opt(&o)
	}

	if !h.IsEmpty() {
		// Release pruned snapshots before reslicing
		for i := h.cursor + 1; i < len(h.snapshots); i++ {
			h.snapshots[i] = nil
		}
		h.snapshots = h.snapshots[:h.cursor+1]
	}

	h.snapshots = append(h.snapshots, &snapshot{
		image:       img.Clone(),
		description: o.description,
		timestamp:   h.clock(),
	})
	h.cursor = len(h.snapshots) - 1

	if o.hasLabel {
		h.label = o.label
		h.hasLabel = true
	}
	return nil
}

// Current returns a copy of the snapshot at the cursor. The second result is
// false when the history is empty.
func (h *History) Current() (*imaging.ImageBuffer, bool) {
	if h.IsEmpty() {
		return nil, false
	}
	return h.snapshots[h.cursor].image.Clone(), true
}

// Undo moves the cursor back one snapshot. It reports false, changing
// nothing, when already at the oldest snapshot or empty.
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one snapshot. It reports false, changing
// nothing, when already at the newest snapshot or empty.
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	h.cursor++
	return true
}

// SourceLabel returns the label of the document. It does not depend on the
// cursor.
func (h *History) SourceLabel() (string, bool) {
	return h.label, h.hasLabel
}

// SetSourceLabel replaces the label without committing a snapshot.
func (h *History) SetSourceLabel(label string) {
	h.label = label
	h.hasLabel = true
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Cursor returns the index of the current snapshot, or -1 when empty.
func (h *History) Cursor() int {
	if h.IsEmpty() {
		return -1
	}
	return h.cursor
}

// IsEmpty reports whether nothing has been committed yet.
func (h *History) IsEmpty() bool {
	return len(h.snapshots) == 0
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool {
	return !h.IsEmpty() && h.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool {
	return !h.IsEmpty() && h.cursor < len(h.snapshots)-1
}

// State returns the cursor position and length.
func (h *History) State() State {
	return State{
		Empty:  h.IsEmpty(),
		Cursor: h.Cursor(),
		Length: h.Len(),
	}
}

// Entries lists every snapshot from oldest to newest.
func (h *History) Entries() []Entry {
	entries := make([]Entry, len(h.snapshots))
	for i, s := range h.snapshots {
		entries[i] = Entry{
			Index:       i,
			Description: s.description,
			Timestamp:   s.timestamp,
			Width:       s.image.Width,
			Height:      s.image.Height,
			Channels:    s.image.Channels,
			Current:     i == h.cursor,
		}
	}
	return entries
}

// SizeBytes returns the pixel bytes held across all snapshots.
func (h *History) SizeBytes() int {
	total := 0
	for _, s := range h.snapshots {
		total += s.image.SizeBytes()
	}
	return total
}

func (h *History) clock() time.Time {
	if h.now != nil {
		return h.now()
	}
	return time.Now()
}
