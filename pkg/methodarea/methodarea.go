package methodarea

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kestrelvm/kestrel/pkg/classfile"
	"github.com/kestrelvm/kestrel/pkg/heap"
)

// MethodArea is the process-wide, append-only registry of loaded classes.
// Reads of a loaded class only take the read side of mu. The write side is
// held only to check and update the loading set and to insert into
// classes, not across parsing and linking; a second MaybeLoadClass for a
// name that is already mid-load gets a ClassCircularity error instead of
// waiting for the first load. The interpreter itself runs a single Java
// thread.
type MethodArea struct {
	mu        sync.RWMutex
	classes   map[string]*LoadedClass
	classPath []string
	loading   map[string]bool // classes currently mid-MaybeLoadClass, for cycle detection
}

// New creates a method area that searches classPath, in order, for
// "<dir>/<name>.class".
func New(classPath []string) *MethodArea {
	return &MethodArea{
		classes:   make(map[string]*LoadedClass),
		classPath: classPath,
		loading:   make(map[string]bool),
	}
}

// Get returns an already-loaded class, or NotLoaded.
func (ma *MethodArea) Get(name string) (*LoadedClass, error) {
	ma.mu.RLock()
	defer ma.mu.RUnlock()
	lc, ok := ma.classes[name]
	if !ok {
		return nil, &NotLoaded{Name: name}
	}
	return lc, nil
}

// MaybeLoadClass returns the named class, loading, linking, and recording
// it first if it is not already present. Loading a class that
// is already being loaded somewhere in the current call chain (a
// superclass cycle) fails with ClassCircularity rather than recursing
// forever.
func (ma *MethodArea) MaybeLoadClass(name string) (*LoadedClass, error) {
	if lc, err := ma.Get(name); err == nil {
		return lc, nil
	}
	return ma.loadChain(name, nil)
}

func (ma *MethodArea) loadChain(name string, chain []string) (*LoadedClass, error) {
	if lc, err := ma.Get(name); err == nil {
		return lc, nil
	}

	ma.mu.Lock()
	if ma.loading[name] {
		ma.mu.Unlock()
		return nil, &ClassCircularity{Chain: append(append([]string{}, chain...), name)}
	}
	ma.loading[name] = true
	ma.mu.Unlock()
	defer func() {
		ma.mu.Lock()
		delete(ma.loading, name)
		ma.mu.Unlock()
	}()

	cf, err := ma.readClassFile(name)
	if err != nil {
		return nil, err
	}

	thisName, err := cf.ThisClassName()
	if err != nil {
		return nil, fmt.Errorf("resolving this_class of %s: %w", name, err)
	}

	superName, err := cf.SuperClassName()
	if err != nil {
		return nil, fmt.Errorf("resolving super_class of %s: %w", name, err)
	}
	ifaceNames, err := cf.InterfaceNames()
	if err != nil {
		return nil, fmt.Errorf("resolving interfaces of %s: %w", name, err)
	}

	nextChain := append(append([]string{}, chain...), name)
	if superName != "" {
		if _, err := ma.loadChain(superName, nextChain); err != nil {
			return nil, fmt.Errorf("loading superclass of %s: %w", name, err)
		}
	}
	for _, iface := range ifaceNames {
		if _, err := ma.loadChain(iface, nextChain); err != nil {
			return nil, fmt.Errorf("loading interface of %s: %w", name, err)
		}
	}

	lc := &LoadedClass{
		Name:           thisName,
		File:           cf,
		SuperName:      superName,
		InterfaceNames: ifaceNames,
		StaticFields:   make(map[string]heap.Value),
		PendingStrings: make(map[string]string),
	}
	linkStaticFields(lc)

	ma.mu.Lock()
	ma.classes[thisName] = lc
	ma.mu.Unlock()

	return lc, nil
}

func (ma *MethodArea) readClassFile(name string) (*classfile.ClassFile, error) {
	for _, dir := range ma.classPath {
		path := filepath.Join(dir, filepath.FromSlash(name)+".class")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cf, err := classfile.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cf, nil
	}
	return nil, &ClassNotFound{Name: name, Err: os.ErrNotExist}
}
