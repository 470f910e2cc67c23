// Package registry indexes command descriptors by namespace. Built-ins are
// registered explicitly; manifest files under the search roots are loaded
// lazily the first time a lookup needs them.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"github.com/footprint-tools/cmdr/internal/command"
	"github.com/footprint-tools/cmdr/internal/domain"
	"github.com/footprint-tools/cmdr/internal/invocation"
	"github.com/footprint-tools/cmdr/internal/log"
	"github.com/footprint-tools/cmdr/internal/manifest"
)

// FileSuffix is the naming convention for command files, before the extension.
const FileSuffix = "_command"

// ErrDuplicate is returned when a namespace is registered twice.
var ErrDuplicate = errors.New("namespace already registered")

// LoadFunc builds a descriptor from a command file.
type LoadFunc func(path, namespace string) (*command.Descriptor, error)

// Diagnostic records a command file that could not be loaded.
type Diagnostic struct {
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %v", d.Path, d.Err)
}

// Registry is safe for concurrent use.
type Registry struct {
	mu sync.Mutex

	roots   []string
	loaders map[string]LoadFunc
	exts    []string
	pattern glob.Glob
	logger  domain.Logger

	descriptors []*command.Descriptor
	index       map[string]*command.Descriptor // namespaces and aliases
	namespaces  map[string]*command.Descriptor
	files       map[string]bool
	scanned     map[string]bool
	diagnostics []Diagnostic
}

// Option configures a Registry.
type Option func(*Registry)

// WithRoots sets the ordered search roots.
func WithRoots(roots ...string) Option {
	return func(r *Registry) {
		r.roots = append([]string(nil), roots...)
	}
}

// WithLoader registers fn for files ending in ext (".yaml").
func WithLoader(ext string, fn LoadFunc) Option {
	return func(r *Registry) {
		r.loaders[strings.ToLower(ext)] = fn
	}
}

// WithoutLoaders drops the default manifest loaders.
func WithoutLoaders() Option {
	return func(r *Registry) {
		r.loaders = make(map[string]LoadFunc)
	}
}

func WithLogger(l domain.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New creates a registry that loads manifests with the manifest package.
func New(opts ...Option) *Registry {
	r := &Registry{
		loaders:    make(map[string]LoadFunc),
		index:      make(map[string]*command.Descriptor),
		namespaces: make(map[string]*command.Descriptor),
		files:      make(map[string]bool),
		scanned:    make(map[string]bool),
	}
	for _, ext := range manifest.Extensions {
		r.loaders[ext] = manifest.Load
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}

	for ext := range r.loaders {
		r.exts = append(r.exts, ext)
	}
	sort.Strings(r.exts)

	if len(r.exts) > 0 {
		trimmed := make([]string, len(r.exts))
		for i, ext := range r.exts {
			trimmed[i] = strings.TrimPrefix(ext, ".")
		}
		r.pattern = glob.MustCompile("**"+FileSuffix+".{"+strings.Join(trimmed, ",")+"}", '/')
	}
	return r
}

// Roots returns the search roots.
func (r *Registry) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Register adds a descriptor. The first registration of a namespace wins.
func (r *Registry) Register(d *command.Descriptor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(d)
}

// MustRegister is Register for init-time wiring of built-ins.
func (r *Registry) MustRegister(ds ...*command.Descriptor) {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) register(d *command.Descriptor) error {
	if d == nil || d.Namespace == "" {
		return errors.New("registry: descriptor without namespace")
	}
	if existing, ok := r.namespaces[d.Namespace]; ok {
		r.logger.Warn("registry: %s from %s ignored, already registered from %s", d.Namespace, d.Source, existing.Source)
		return fmt.Errorf("%w: %s", ErrDuplicate, d.Namespace)
	}

	// a real namespace takes its key back from an alias
	if holder, ok := r.index[d.Namespace]; ok {
		r.logger.Debug("registry: alias %s of %s replaced by namespace", d.Namespace, holder.Namespace)
	}

	r.descriptors = append(r.descriptors, d)
	r.namespaces[d.Namespace] = d
	r.index[d.Namespace] = d
	for _, alias := range d.Aliases {
		if _, taken := r.index[alias]; taken {
			r.logger.Debug("registry: alias %s of %s shadowed", alias, d.Namespace)
			continue
		}
		r.index[alias] = d
	}
	r.logger.Debug("registry: registered %s (%s)", d.Namespace, d.Source)
	return nil
}

// Resolve returns the descriptor for inv, or nil. It never fails: load
// problems are kept as diagnostics.
func (r *Registry) Resolve(inv invocation.Invocation) *command.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadTargeted(inv.LookupPaths())
	if d := r.match(inv); d != nil {
		return d
	}

	r.scanAll()
	return r.match(inv)
}

func (r *Registry) match(inv invocation.Invocation) *command.Descriptor {
	for _, candidate := range inv.Lookups() {
		if d, ok := r.index[candidate]; ok {
			return d
		}
	}
	return nil
}

// LookupAll scans every search root.
func (r *Registry) LookupAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scanAll()
}

func (r *Registry) loadTargeted(paths []string) {
	for _, root := range r.roots {
		for _, p := range paths {
			if !safeRelative(p) {
				continue
			}
			for _, ext := range r.exts {
				file := filepath.Join(root, filepath.FromSlash(p)+FileSuffix+ext)
				if r.files[file] {
					continue
				}
				if info, err := os.Stat(file); err != nil || info.IsDir() {
					continue
				}
				r.loadFile(root, file)
			}
		}
	}
}

func (r *Registry) scanAll() {
	for _, root := range r.roots {
		r.scanRoot(root)
	}
}

func (r *Registry) scanRoot(root string) {
	if r.scanned[root] || r.pattern == nil {
		return
	}
	r.scanned[root] = true

	var found []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fs.SkipDir
			}
			r.diagnostics = append(r.diagnostics, Diagnostic{Path: path, Err: err})
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if r.pattern.Match(filepath.ToSlash(rel)) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		r.logger.Debug("registry: scan %s: %v", root, err)
	}

	sort.Strings(found)
	for _, file := range found {
		if !r.files[file] {
			r.loadFile(root, file)
		}
	}
	r.logger.Debug("registry: scanned %s, %d command files", root, len(found))
}

func (r *Registry) loadFile(root, file string) {
	r.files[file] = true

	ext := strings.ToLower(filepath.Ext(file))
	load, ok := r.loaders[ext]
	if !ok {
		return
	}

	ns, err := NamespaceFor(root, file)
	if err != nil {
		r.diagnostics = append(r.diagnostics, Diagnostic{Path: file, Err: err})
		return
	}

	d, err := load(file, ns)
	if err != nil {
		r.logger.Warn("registry: could not load %s: %v", file, err)
		r.diagnostics = append(r.diagnostics, Diagnostic{Path: file, Err: err})
		return
	}
	if err := r.register(d); err != nil {
		r.diagnostics = append(r.diagnostics, Diagnostic{Path: file, Err: err})
	}
}

// NamespaceFor derives the namespace of a command file from its path under root:
// "db/migrate_command.yaml" is "db:migrate" and "server/server_command.yaml" is "server".
func NamespaceFor(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))

	name, ok := strings.CutSuffix(rel, FileSuffix)
	if !ok || name == "" || strings.HasSuffix(name, "/") {
		return "", fmt.Errorf("%s: not a command file", file)
	}

	segments := strings.Split(name, "/")
	if n := len(segments); n >= 2 && segments[n-1] == segments[n-2] {
		segments = segments[:n-1]
	}
	return strings.Join(segments, ":"), nil
}

// safeRelative rejects lookup paths that would escape a search root.
func safeRelative(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || filepath.IsAbs(p) {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// Len is the number of index keys (namespaces and aliases).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.index)
}

// Descriptors returns every registered descriptor sorted by namespace.
func (r *Registry) Descriptors() []*command.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*command.Descriptor(nil), r.descriptors...)
	sort.Slice(out, func(i, j int) bool { return out[i].Namespace < out[j].Namespace })
	return out
}

// Namespaces returns every index key, sorted. Used for suggestions.
func (r *Registry) Namespaces() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.index))
	for k := range r.index {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Diagnostics returns load failures collected so far.
func (r *Registry) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.diagnostics...)
}
