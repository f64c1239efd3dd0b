package classfile

import "fmt"

// JvmType is a parsed field-descriptor type: one of the eight primitives,
// a reference (class name), or an array (component JvmType, one level of
// [ consumed per nesting).
type JvmType struct {
	Kind      byte // one of B C D F I J S Z L [
	ClassName string
	Component *JvmType
}

func (t JvmType) String() string {
	switch t.Kind {
	case 'L':
		return "L" + t.ClassName + ";"
	case '[':
		return "[" + t.Component.String()
	default:
		return string(t.Kind)
	}
}

// IsCategory2 reports whether this type occupies two stack/local slots
// (long, double).
func (t JvmType) IsCategory2() bool {
	return t.Kind == 'J' || t.Kind == 'D'
}

// Slots returns how many local variable slots a value of this type occupies.
func (t JvmType) Slots() int {
	if t.IsCategory2() {
		return 2
	}
	return 1
}

// MethodDescriptor is a parsed method descriptor: ordered parameter types
// plus a return type (ReturnType.Kind == 'V' for void).
type MethodDescriptor struct {
	Params     []JvmType
	ReturnType JvmType
}

// IsVoid reports whether the method returns void.
func (d MethodDescriptor) IsVoid() bool { return d.ReturnType.Kind == 'V' }

// ParamSlots returns the number of local variable slots the parameters
// occupy (the slot-accounting invariant), not counting `this`.
func (d MethodDescriptor) ParamSlots() int {
	n := 0
	for _, p := range d.Params {
		n += p.Slots()
	}
	return n
}

// ParseFieldDescriptor parses a single field descriptor, e.g. "I", "[I",
// "Ljava/lang/String;", or "[[Ljava/lang/String;".
func ParseFieldDescriptor(s string) (JvmType, error) {
	t, rest, err := parseType(s)
	if err != nil {
		return JvmType{}, err
	}
	if rest != "" {
		return JvmType{}, fmt.Errorf("trailing data in field descriptor %q", s)
	}
	return t, nil
}

// ParseMethodDescriptor parses a method descriptor, e.g. "(I)V" or
// "(Ljava/lang/String;I)[Ljava/lang/Object;".
func ParseMethodDescriptor(s string) (MethodDescriptor, error) {
	if len(s) == 0 || s[0] != '(' {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q missing opening paren", s)
	}
	rest := s[1:]
	var params []JvmType
	for len(rest) > 0 && rest[0] != ')' {
		t, r, err := parseType(rest)
		if err != nil {
			return MethodDescriptor{}, fmt.Errorf("parsing method descriptor %q: %w", s, err)
		}
		params = append(params, t)
		rest = r
	}
	if len(rest) == 0 || rest[0] != ')' {
		return MethodDescriptor{}, fmt.Errorf("method descriptor %q missing closing paren", s)
	}
	rest = rest[1:]
	if rest == "V" {
		return MethodDescriptor{Params: params, ReturnType: JvmType{Kind: 'V'}}, nil
	}
	ret, trailing, err := parseType(rest)
	if err != nil {
		return MethodDescriptor{}, fmt.Errorf("parsing method descriptor %q return type: %w", s, err)
	}
	if trailing != "" {
		return MethodDescriptor{}, fmt.Errorf("trailing data in method descriptor %q", s)
	}
	return MethodDescriptor{Params: params, ReturnType: ret}, nil
}

func parseType(s string) (JvmType, string, error) {
	if len(s) == 0 {
		return JvmType{}, "", fmt.Errorf("empty type descriptor")
	}
	switch s[0] {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return JvmType{Kind: s[0]}, s[1:], nil
	case 'L':
		end := -1
		for i := 1; i < len(s); i++ {
			if s[i] == ';' {
				end = i
				break
			}
		}
		if end < 0 {
			return JvmType{}, "", fmt.Errorf("unterminated class type in %q", s)
		}
		return JvmType{Kind: 'L', ClassName: s[1:end]}, s[end+1:], nil
	case '[':
		comp, rest, err := parseType(s[1:])
		if err != nil {
			return JvmType{}, "", err
		}
		return JvmType{Kind: '[', Component: &comp}, rest, nil
	default:
		return JvmType{}, "", fmt.Errorf("unrecognized type tag %q in %q", s[0:1], s)
	}
}
