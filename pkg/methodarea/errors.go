package methodarea

import "fmt"

// ClassNotFound is returned when a class cannot be located on the search
// path (a loading error).
type ClassNotFound struct {
	Name string
	Err  error
}

func (e *ClassNotFound) Error() string {
	return fmt.Sprintf("class not found: %s: %v", e.Name, e.Err)
}
func (e *ClassNotFound) Unwrap() error { return e.Err }

// NotLoaded is returned by Get for a class that has not yet been loaded.
type NotLoaded struct{ Name string }

func (e *NotLoaded) Error() string { return fmt.Sprintf("class not loaded: %s", e.Name) }

// ClassCircularity is returned when loading a class would require loading
// itself again through its own superclass chain.
type ClassCircularity struct{ Chain []string }

func (e *ClassCircularity) Error() string {
	return fmt.Sprintf("class circularity error: %v", e.Chain)
}

// NoSuchMethod is returned by ResolveMethod when no class in the search
// order declares the requested (name, descriptor).
type NoSuchMethod struct {
	Owner, Name, Descriptor string
}

func (e *NoSuchMethod) Error() string {
	return fmt.Sprintf("no such method: %s.%s%s", e.Owner, e.Name, e.Descriptor)
}

// NoSuchField is returned by ResolveField when no class in the search
// order declares the requested field.
type NoSuchField struct {
	Owner, Name string
}

func (e *NoSuchField) Error() string {
	return fmt.Sprintf("no such field: %s.%s", e.Owner, e.Name)
}
