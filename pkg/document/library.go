package document

import (
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"protoreg/pkg/prototype"
)

// previewLength bounds the content preview reported by TemplateDetails.
const previewLength = 200

// Entry records a document created from a template. The Document field is
// the same value returned to the caller of CreateFromTemplate, so later
// customisation by the caller is visible through the entry.
type Entry struct {
	ID        string
	Template  string
	Document  Template
	CreatedAt time.Time
}

// TemplateInfo summarises a registered template.
type TemplateInfo struct {
	Name    string
	Kind    Kind
	Summary string
}

// TemplateDetails describes a registered template in depth.
type TemplateDetails struct {
	TemplateInfo
	CreatedAt time.Time
	Tags      []string
	Preview   string
}

// Library manages named document templates and tracks the documents
// created from them.
type Library struct {
	templates *prototype.Registry[Template]

	mu         sync.Mutex
	documents  []Entry
	packs      map[string]PackInfo
	installing map[string]struct{}

	clock  Clock
	newID  func() string
	logger prototype.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryConfig)

type libraryConfig struct {
	clock      Clock
	newID      func() string
	logger     prototype.Logger
	registryOp []prototype.Option
}

// WithLibraryClock sets the clock used to stamp created entries.
func WithLibraryClock(c Clock) LibraryOption {
	return func(cfg *libraryConfig) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithIDGenerator overrides the identifier source for created documents.
func WithIDGenerator(fn func() string) LibraryOption {
	return func(cfg *libraryConfig) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// WithLibraryLogger sets the logger used by the library and its registry.
func WithLibraryLogger(l prototype.Logger) LibraryOption {
	return func(cfg *libraryConfig) {
		if l != nil {
			cfg.logger = l
			cfg.registryOp = append(cfg.registryOp, prototype.WithLogger(l))
		}
	}
}

// WithRegistryOptions forwards options to the underlying prototype registry.
func WithRegistryOptions(opts ...prototype.Option) LibraryOption {
	return func(cfg *libraryConfig) {
		cfg.registryOp = append(cfg.registryOp, opts...)
	}
}

// NewLibrary constructs an empty library.
func NewLibrary(opts ...LibraryOption) *Library {
	cfg := libraryConfig{
		clock:  ClockFunc(nil),
		newID:  uuid.NewString,
		logger: discardLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Library{
		templates:  prototype.NewRegistry[Template](cfg.registryOp...),
		packs:      make(map[string]PackInfo),
		installing: make(map[string]struct{}),
		clock:      cfg.clock,
		newID:      cfg.newID,
		logger:     cfg.logger,
	}
}

// RegisterTemplate stores t under name, replacing any previous template.
// Empty names and nil templates are ignored.
func (l *Library) RegisterTemplate(name string, t Template) {
	if name == "" || prototype.IsNil(t) {
		l.logger.Warn("template registration ignored", "name", name)
		return
	}
	l.templates.Register(name, t)
	l.logger.Info("template registered", "name", name, "summary", t.Summary())
}

// UnregisterTemplate removes the named template. Unknown names are ignored.
func (l *Library) UnregisterTemplate(name string) {
	l.templates.Unregister(name)
}

// HasTemplate reports whether a template is registered under name.
func (l *Library) HasTemplate(name string) bool {
	return l.templates.Has(name)
}

// TemplateNames returns the sorted template names.
func (l *Library) TemplateNames() []string {
	return l.templates.Names()
}

// Template returns a fresh clone of the named template without recording it
// as a created document.
func (l *Library) Template(name string) (Template, error) {
	return l.templates.Create(name)
}

// CreateFromTemplate clones the named template, optionally retitles it and
// records the result. Generated content is re-rendered after a retitle.
func (l *Library) CreateFromTemplate(name, title string) (Template, error) {
	return l.CreateWith(name, title, nil)
}

// CreateWith behaves like CreateFromTemplate and then applies updates to the
// clone. Keys the template does not define are logged and ignored; templates
// that are not Customizable ignore every key.
func (l *Library) CreateWith(name, title string, updates map[string]any) (Template, error) {
	doc, err := l.templates.Create(name)
	if err != nil {
		return nil, err
	}
	if title != "" {
		doc.Base().Title = title
		if r, ok := doc.(interface{ Render() }); ok {
			r.Render()
		}
	}
	if len(updates) > 0 {
		var ignored []string
		if c, ok := doc.(Customizable); ok {
			ignored = c.Update(updates)
		} else {
			for key := range updates {
				ignored = append(ignored, key)
			}
			sort.Strings(ignored)
		}
		for _, key := range ignored {
			l.logger.Warn("unknown template setting ignored", "template", name, "key", key)
		}
	}
	entry := Entry{
		ID:        l.newID(),
		Template:  name,
		Document:  doc,
		CreatedAt: l.clock.Now(),
	}
	l.mu.Lock()
	l.documents = append(l.documents, entry)
	l.mu.Unlock()
	l.logger.Info("document created", "template", name, "id", entry.ID, "title", doc.Base().Title)
	return doc, nil
}

// Templates lists the registered templates sorted by name.
func (l *Library) Templates() []TemplateInfo {
	names := l.templates.Names()
	out := make([]TemplateInfo, 0, len(names))
	for _, name := range names {
		t, err := l.templates.Create(name)
		if err != nil {
			// unregistered between Names and Create
			continue
		}
		out = append(out, TemplateInfo{Name: name, Kind: t.Kind(), Summary: t.Summary()})
	}
	return out
}

// Details describes the named template.
func (l *Library) Details(name string) (TemplateDetails, error) {
	t, err := l.templates.Create(name)
	if err != nil {
		return TemplateDetails{}, err
	}
	base := t.Base()
	preview := truncate(base.Content, previewLength)
	var created time.Time
	if base.Metadata != nil {
		created = base.Metadata.CreatedAt
	}
	return TemplateDetails{
		TemplateInfo: TemplateInfo{Name: name, Kind: t.Kind(), Summary: t.Summary()},
		CreatedAt:    created,
		Tags:         base.Tags,
		Preview:      preview,
	}, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Documents returns the created documents in creation order. The slice is a
// copy; the documents themselves are shared with their creators.
func (l *Library) Documents() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.documents))
	copy(out, l.documents)
	return out
}

// Install registers every template contributed by pack. The pack's templates
// are staged first, so a failing pack leaves the library unchanged. The pack
// name is reserved for the duration of the install, so concurrent installs
// of the same pack let exactly one through.
func (l *Library) Install(pack Pack) (PackInfo, error) {
	if prototype.IsNil(pack) {
		return PackInfo{}, fmt.Errorf("pack cannot be nil")
	}
	name := pack.Name()
	l.mu.Lock()
	_, installed := l.packs[name]
	_, installing := l.installing[name]
	if installed || installing {
		l.mu.Unlock()
		return PackInfo{}, fmt.Errorf("pack %s already installed", name)
	}
	l.installing[name] = struct{}{}
	l.mu.Unlock()

	staging := NewPackRegistry()
	if err := pack.Register(staging); err != nil {
		l.release(name, nil)
		return PackInfo{}, fmt.Errorf("install pack %s: %w", name, err)
	}
	for _, tpl := range staging.order {
		l.RegisterTemplate(tpl, staging.templates[tpl])
	}

	info := PackInfo{Name: name, Version: pack.Version(), Templates: append([]string(nil), staging.order...)}
	l.release(name, &info)
	l.logger.Info("pack installed", "pack", info.Name, "version", info.Version, "templates", len(info.Templates))
	return info, nil
}

// release drops the install reservation for name and records info when the
// install succeeded.
func (l *Library) release(name string, info *PackInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.installing, name)
	if info != nil {
		l.packs[name] = *info
	}
}

// Packs returns metadata for installed packs sorted by name.
func (l *Library) Packs() []PackInfo {
	l.mu.Lock()
	out := make([]PackInfo, 0, len(l.packs))
	for _, info := range l.packs {
		info.Templates = append([]string(nil), info.Templates...)
		out = append(out, info)
	}
	l.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any)  {}
func (discardLogger) Warn(string, ...any)  {}
func (discardLogger) Error(string, ...any) {}
