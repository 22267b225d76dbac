// Package session ties one edit history to files on disk and to the
// transform library.
//
// A Document is what the server edits: Open starts a fresh history from a
// file, Apply runs one transform on the current snapshot and commits the
// result, and Save/SaveAs write the current snapshot back out. A failed Open
// or Save never changes the document.
package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/image-edit-mcp/internal/config"
	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
	"github.com/ironsheep/image-edit-mcp/internal/transform"
)

// Errors returned by Document operations.
var (
	// ErrNoImage indicates an operation that needs an image on an empty document.
	ErrNoImage = errors.New("no image loaded")

	// ErrNoSourcePath indicates Save was called on a document that has never
	// been associated with a file; use SaveAs.
	ErrNoSourcePath = errors.New("no file path known, use save as")
)

// Document is the single image being edited.
//
// The zero value is not usable; create one with New.
type Document struct {
	hist *history.History // nil while nothing is loaded
	cfg  *config.Config
	log  logrus.FieldLogger
}

// Status summarizes the document for display.
type Status struct {
	Loaded       bool   `json:"loaded"`
	Source       string `json:"source,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Channels     int    `json:"channels,omitempty"`
	Cursor       int    `json:"cursor"`
	Length       int    `json:"length"`
	CanUndo      bool   `json:"can_undo"`
	CanRedo      bool   `json:"can_redo"`
	HistoryBytes int    `json:"history_bytes"`
}

// SaveResult describes a written file.
type SaveResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// New creates an empty document. A nil cfg uses config.Default(); a nil log
// discards log output.
func New(cfg *config.Config, log logrus.FieldLogger) *Document {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Document{cfg: cfg, log: log}
}

// Open decodes the file at path and replaces the document with a fresh
// history seeded from it. On failure the current document is kept.
func (d *Document) Open(path string) error {
	img, err := imaging.Load(path)
	if err != nil {
		d.log.WithFields(logrus.Fields{"path": path, "error": err}).Warn("open failed")
		return err
	}

	hist, err := history.NewSeeded(img, path)
	if err != nil {
		return err
	}
	d.hist = hist

	d.log.WithFields(logrus.Fields{
		"path":     path,
		"width":    img.Width,
		"height":   img.Height,
		"channels": img.Channels,
	}).Info("image opened")
	return nil
}

// OpenImage replaces the document with a history seeded from an in-memory
// image that has no file path yet. Save fails with ErrNoSourcePath until
// SaveAs names one.
func (d *Document) OpenImage(img *imaging.ImageBuffer) error {
	hist := history.New()
	if err := hist.Commit(img, history.WithDescription("new")); err != nil {
		return err
	}
	d.hist = hist

	d.log.WithFields(logrus.Fields{"width": img.Width, "height": img.Height}).Info("image created")
	return nil
}

// Close discards the document and its history.
func (d *Document) Close() {
	if d.hist != nil {
		d.log.WithField("snapshots", d.hist.Len()).Info("image closed")
	}
	d.hist = nil
}

// Loaded reports whether an image is open.
func (d *Document) Loaded() bool {
	return d.hist != nil && !d.hist.IsEmpty()
}

// Current returns a copy of the current snapshot.
func (d *Document) Current() (*imaging.ImageBuffer, error) {
	if d.hist == nil {
		return nil, ErrNoImage
	}
	img, ok := d.hist.Current()
	if !ok {
		return nil, ErrNoImage
	}
	return img, nil
}

// Save writes the current snapshot to the document's source path, in the
// format implied by its extension.
func (d *Document) Save() (*SaveResult, error) {
	if !d.Loaded() {
		return nil, ErrNoImage
	}
	path, ok := d.hist.SourceLabel()
	if !ok || path == "" {
		return nil, ErrNoSourcePath
	}
	return d.write(path)
}

// SaveAs writes the current snapshot to path and, on success, makes path the
// document's source path. History is not touched.
func (d *Document) SaveAs(path string) (*SaveResult, error) {
	if !d.Loaded() {
		return nil, ErrNoImage
	}
	res, err := d.write(path)
	if err != nil {
		return nil, err
	}
	d.hist.SetSourceLabel(path)
	return res, nil
}

func (d *Document) write(path string) (*SaveResult, error) {
	img, err := d.Current()
	if err != nil {
		return nil, err
	}

	if err := imaging.Save(img, path, d.cfg.Save.SaveOptions()); err != nil {
		d.log.WithFields(logrus.Fields{"path": path, "error": err}).Warn("save failed")
		return nil, err
	}

	info := imaging.Info(img, path)
	d.log.WithFields(logrus.Fields{"path": path, "format": info.Format}).Info("image saved")
	return &SaveResult{
		Path:   path,
		Format: info.Format,
		Width:  info.Width,
		Height: info.Height,
	}, nil
}

// DefaultParams returns the configured parameters for Apply requests that
// omit some.
func (d *Document) DefaultParams() transform.Params {
	return d.cfg.Defaults.Params()
}

// Apply runs op on the current snapshot and commits the result. It returns
// the history description recorded for the new snapshot. A failing transform
// leaves the history unchanged.
func (d *Document) Apply(op transform.Operation, p transform.Params) (string, error) {
	img, err := d.Current()
	if err != nil {
		return "", err
	}

	if err := transform.CheckLimits(op, img, p); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	out, err := transform.Apply(op, img, p)
	if err != nil {
		d.log.WithFields(logrus.Fields{"operation": op, "error": err}).Warn("apply failed")
		return "", fmt.Errorf("%s: %w", op, err)
	}

	desc := transform.Describe(op, p)
	if err := d.hist.Commit(out, history.WithDescription(desc)); err != nil {
		return "", err
	}

	d.log.WithFields(logrus.Fields{
		"operation": desc,
		"width":     out.Width,
		"height":    out.Height,
		"cursor":    d.hist.Cursor(),
		"length":    d.hist.Len(),
	}).Debug("operation applied")
	return desc, nil
}

// Undo steps back one snapshot. It reports whether the cursor moved.
func (d *Document) Undo() bool {
	if d.hist == nil {
		return false
	}
	moved := d.hist.Undo()
	d.log.WithFields(logrus.Fields{"moved": moved, "cursor": d.hist.Cursor()}).Debug("undo")
	return moved
}

// Redo steps forward one snapshot. It reports whether the cursor moved.
func (d *Document) Redo() bool {
	if d.hist == nil {
		return false
	}
	moved := d.hist.Redo()
	d.log.WithFields(logrus.Fields{"moved": moved, "cursor": d.hist.Cursor()}).Debug("redo")
	return moved
}

// History lists the snapshots of the document, oldest first.
func (d *Document) History() []history.Entry {
	if d.hist == nil {
		return []history.Entry{}
	}
	return d.hist.Entries()
}

// Status reports what is loaded and where the history cursor is.
func (d *Document) Status() Status {
	if !d.Loaded() {
		return Status{Cursor: -1}
	}

	st := d.hist.State()
	cur := d.hist.Entries()[st.Cursor]
	source, _ := d.hist.SourceLabel()
	return Status{
		Loaded:       true,
		Source:       source,
		Width:        cur.Width,
		Height:       cur.Height,
		Channels:     cur.Channels,
		Cursor:       st.Cursor,
		Length:       st.Length,
		CanUndo:      d.hist.CanUndo(),
		CanRedo:      d.hist.CanRedo(),
		HistoryBytes: d.hist.SizeBytes(),
	}
}
