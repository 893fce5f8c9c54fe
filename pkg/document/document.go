// Package document implements the document template family: plain
// documents, reports, contracts and configurations that can be cloned
// through a prototype registry, plus a Library that manages named templates
// and the documents created from them.
//
// Field ownership for every type in this package:
//
//	Title, Content, Author, type names, Parties  value, copied
//	Environment                                  value, copied
//	Tags, Attachments, Sections, Charts, Terms   owned, new slice per clone
//	Dependencies                                 owned, new slice per clone
//	Attributes, Settings                         owned, deep copied
//	Metadata                                     owned, new record per clone
//	clock                                        shared
package document

import (
	"fmt"
	"slices"
	"time"

	"protoreg/pkg/prototype"
)

// Kind identifies the concrete template type.
type Kind string

const (
	KindDocument Kind = "document"
	KindReport   Kind = "report"
	KindContract Kind = "contract"

	KindConfiguration Kind = "configuration"
)

// Template is implemented by every document variant. Clone always returns a
// value of the receiver's concrete type.
type Template interface {
	prototype.Prototype[Template]
	Kind() Kind
	Base() *Document
	Summary() string
}

// Attachment is a file reference carried by a document.
type Attachment struct {
	Filename string    `json:"filename"`
	Size     int64     `json:"size"`
	AddedAt  time.Time `json:"added_at"`
}

// Document is the base template type.
type Document struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Author      string         `json:"author,omitempty"`
	Tags        []string       `json:"tags"`
	Attachments []Attachment   `json:"attachments,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	Metadata    *Metadata      `json:"metadata"`

	clock Clock
}

// Option configures a document at construction time.
type Option func(*Document)

// WithClock sets the clock used for metadata timestamps.
func WithClock(c Clock) Option {
	return func(d *Document) {
		if c != nil {
			d.clock = c
		}
	}
}

// WithContent sets the initial content without bumping the version.
func WithContent(content string) Option {
	return func(d *Document) { d.Content = content }
}

// WithAuthor sets the document author.
func WithAuthor(author string) Option {
	return func(d *Document) { d.Author = author }
}

// New constructs a draft document.
func New(title string, opts ...Option) *Document {
	d := &Document{Title: title, Tags: []string{}}
	d.init(opts)
	return d
}

func (d *Document) init(opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	d.Metadata = NewMetadata(d.now())
}

func (d *Document) now() time.Time {
	if d.clock == nil {
		return ClockFunc(nil).Now()
	}
	return d.clock.Now()
}

func (d *Document) touch() {
	if d.Metadata == nil {
		d.Metadata = NewMetadata(d.now())
	}
	d.Metadata.touch(d.now())
}

// Kind reports KindDocument.
func (d *Document) Kind() Kind { return KindDocument }

// Base returns the receiver.
func (d *Document) Base() *Document { return d }

// Clone returns an independent *Document. See the package documentation for
// the per-field copy rules.
func (d *Document) Clone() Template {
	return d.cloneDocument()
}

func (d *Document) cloneDocument() *Document {
	return &Document{
		Title:       d.Title,
		Content:     d.Content,
		Author:      d.Author,
		Tags:        cloneTags(d.Tags),
		Attachments: prototype.CloneSlice(d.Attachments),
		Attributes:  prototype.CloneAttributes(d.Attributes),
		Metadata:    d.Metadata.Clone(d.now()),
		clock:       d.clock,
	}
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return prototype.CloneSlice(tags)
}

// Version returns the current metadata version.
func (d *Document) Version() int {
	if d.Metadata == nil {
		return 0
	}
	return d.Metadata.Version
}

// SetContent replaces the content and records a new version.
func (d *Document) SetContent(content string) {
	d.Content = content
	d.touch()
}

// AddTag appends tag unless it is empty or already present. It reports
// whether the tag was added.
func (d *Document) AddTag(tag string) bool {
	if tag == "" || slices.Contains(d.Tags, tag) {
		return false
	}
	d.Tags = append(d.Tags, tag)
	d.touch()
	return true
}

// RemoveTag deletes tag and reports whether it was present.
func (d *Document) RemoveTag(tag string) bool {
	idx := slices.Index(d.Tags, tag)
	if idx < 0 {
		return false
	}
	d.Tags = slices.Delete(d.Tags, idx, idx+1)
	d.touch()
	return true
}

// HasTag reports whether tag is present.
func (d *Document) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// SetStatus moves the document to status.
func (d *Document) SetStatus(status Status) error {
	if !status.Valid() {
		return fmt.Errorf("document: unknown status %q", status)
	}
	if d.Metadata == nil {
		d.Metadata = NewMetadata(d.now())
	}
	d.Metadata.Status = status
	d.touch()
	return nil
}

// AddAttachment records a file attachment.
func (d *Document) AddAttachment(filename string, size int64) {
	d.Attachments = append(d.Attachments, Attachment{Filename: filename, Size: size, AddedAt: d.now()})
	d.touch()
}

// SetAttribute stores a JSON-compatible value under key. The value is deep
// copied so later changes by the caller do not leak into the document.
func (d *Document) SetAttribute(key string, value any) {
	if key == "" {
		return
	}
	if d.Attributes == nil {
		d.Attributes = make(map[string]any)
	}
	d.Attributes[key] = prototype.CloneValue(value)
	d.touch()
}

// Attribute returns a deep copy of the attribute stored under key.
func (d *Document) Attribute(key string) (any, bool) {
	v, ok := d.Attributes[key]
	if !ok {
		return nil, false
	}
	return prototype.CloneValue(v), true
}

// Summary renders a one-line description.
func (d *Document) Summary() string {
	return fmt.Sprintf("Document: '%s' (v%d, %d chars)", d.Title, d.Version(), len(d.Content))
}

// Info renders a detailed description including tags and metadata.
func (d *Document) Info() string {
	meta := "Metadata[none]"
	if d.Metadata != nil {
		meta = d.Metadata.Info()
	}
	return fmt.Sprintf("Document[title='%s', author='%s', tags=%v, %s]", d.Title, d.Author, d.Tags, meta)
}

// UseClock replaces the clock used for metadata timestamps. Decoded
// templates start without a clock and fall back to the current UTC time.
func (d *Document) UseClock(c Clock) {
	d.clock = c
}
