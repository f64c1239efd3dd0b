package classfile

import "testing"

func TestParseFieldDescriptor(t *testing.T) {
	cases := map[string]JvmType{
		"I":                    {Kind: 'I'},
		"Z":                    {Kind: 'Z'},
		"[I":                   {Kind: '[', Component: &JvmType{Kind: 'I'}},
		"Ljava/lang/String;":   {Kind: 'L', ClassName: "java/lang/String"},
		"[[Ljava/lang/Object;": {Kind: '[', Component: &JvmType{Kind: '[', Component: &JvmType{Kind: 'L', ClassName: "java/lang/Object"}}},
	}
	for desc, want := range cases {
		got, err := ParseFieldDescriptor(desc)
		if err != nil {
			t.Fatalf("ParseFieldDescriptor(%q): %v", desc, err)
		}
		if got.String() != want.String() {
			t.Errorf("ParseFieldDescriptor(%q) = %v, want %v", desc, got, want)
		}
	}
}

func TestParseMethodDescriptorSlotAccounting(t *testing.T) {
	// long/double parameters occupy two local-variable slots.
	md, err := ParseMethodDescriptor("(IJDLjava/lang/String;)V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if !md.IsVoid() {
		t.Errorf("expected void return")
	}
	if len(md.Params) != 4 {
		t.Fatalf("expected 4 params, got %d", len(md.Params))
	}
	// int(1) + long(2) + double(2) + String(1) = 6
	if got := md.ParamSlots(); got != 6 {
		t.Errorf("ParamSlots() = %d, want 6", got)
	}
}

func TestParseMethodDescriptorReturnType(t *testing.T) {
	md, err := ParseMethodDescriptor("()Ljava/lang/String;")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if md.ReturnType.Kind != 'L' || md.ReturnType.ClassName != "java/lang/String" {
		t.Errorf("ReturnType = %v, want Ljava/lang/String;", md.ReturnType)
	}
}

func TestParseMethodDescriptorRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"I)V", "(I", "(Q)V", ""} {
		if _, err := ParseMethodDescriptor(bad); err == nil {
			t.Errorf("ParseMethodDescriptor(%q): expected error, got nil", bad)
		}
	}
}
