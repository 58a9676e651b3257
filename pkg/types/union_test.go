package types

import (
	"errors"
	"testing"

	verr "github.com/vhavlena/typelattice/pkg/err"
	"github.com/vhavlena/typelattice/pkg/trilean"
)

// classWithProperty builds an object type backed by a class declaring the
// given property.
func classWithProperty(className, property string) TypeDef {
	return NewObjectType(&DeclaredClass{
		ClassName: className,
		Properties: map[string]TypeDef{
			property: NewScalarType(ScalarInt),
		},
	})
}

func mustUnion(t *testing.T, members ...TypeDef) TypeDef {
	t.Helper()
	u, uerr := NewUnionType(members)
	if uerr != nil {
		t.Fatalf("unexpected union construction error: %v", uerr)
	}
	return u
}

func TestUnionConstructionInvariants(t *testing.T) {
	t.Parallel()

	t.Run("fewer than two members fails", func(t *testing.T) {
		t.Parallel()
		_, uerr := NewUnionType([]TypeDef{NewScalarType(ScalarInt)})
		if uerr == nil {
			t.Fatal("expected error for single member")
		}
		if !errors.Is(uerr, verr.ErrInvariant) {
			t.Errorf("expected invariant violation, got %v", uerr)
		}
	})

	t.Run("empty member list fails", func(t *testing.T) {
		t.Parallel()
		_, uerr := NewUnionType(nil)
		if uerr == nil {
			t.Fatal("expected error for empty member list")
		}
	})

	t.Run("nested union member fails", func(t *testing.T) {
		t.Parallel()
		inner := mustUnion(t, NewScalarType(ScalarInt), NewScalarType(ScalarString))
		_, uerr := NewUnionType([]TypeDef{inner, NewScalarType(ScalarBool)})
		if uerr == nil {
			t.Fatal("expected error for nested union member")
		}
		if !errors.Is(uerr, verr.ErrInvariant) {
			t.Errorf("expected invariant violation, got %v", uerr)
		}
	})

	t.Run("members are stored in canonical order", func(t *testing.T) {
		t.Parallel()
		u1 := mustUnion(t, NewScalarType(ScalarInt), NewScalarType(ScalarString))
		u2 := mustUnion(t, NewScalarType(ScalarString), NewScalarType(ScalarInt))
		if !u1.Equals(&u2) {
			t.Error("unions from the same member set must be interchangeable")
		}
		if len(u1.Members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(u1.Members))
		}
		if u1.Members[0].Scalar != ScalarInt || u1.Members[1].Scalar != ScalarString {
			t.Errorf("unexpected member order: %v", u1.Describe(VerbosityValue))
		}
	})
}

func TestUnionSuperSubTypeDuality(t *testing.T) {
	t.Parallel()

	members := []TypeDef{
		NewScalarType(ScalarInt),
		NewScalarType(ScalarString),
		NewConstantScalar(ScalarFloat, "1.5"),
	}
	u := mustUnion(t, members...)

	probes := []TypeDef{
		NewScalarType(ScalarInt),
		NewConstantScalar(ScalarInt, "7"),
		NewScalarType(ScalarBool),
		NewNamedObjectType("Foo"),
		NewMixedType(),
	}

	for _, probe := range probes {
		probe := probe
		t.Run(probe.Describe(VerbosityValue), func(t *testing.T) {
			t.Parallel()

			superVals := make([]trilean.Value, len(u.Members))
			subVals := make([]trilean.Value, len(u.Members))
			for i := range u.Members {
				superVals[i] = u.Members[i].IsSuperTypeOf(&probe)
				subVals[i] = probe.IsSuperTypeOf(&u.Members[i])
			}

			if got, want := u.IsSuperTypeOf(&probe), trilean.Or(superVals...); got != want {
				t.Errorf("IsSuperTypeOf: expected %v, got %v", want, got)
			}
			if got, want := u.IsSubTypeOf(&probe), trilean.Uniform(subVals...); got != want {
				t.Errorf("IsSubTypeOf: expected %v, got %v", want, got)
			}
		})
	}
}

func TestUnionSubTypeSemantics(t *testing.T) {
	t.Parallel()

	intType := NewScalarType(ScalarInt)
	strType := NewScalarType(ScalarString)
	u := mustUnion(t, NewConstantScalar(ScalarInt, "1"), NewConstantScalar(ScalarInt, "2"))

	// every alternative is an int literal, so the union is definitely int
	if got := u.IsSubTypeOf(&intType); got != trilean.Yes {
		t.Errorf("expected yes, got %v", got)
	}
	// no alternative is a string
	if got := u.IsSubTypeOf(&strType); got != trilean.No {
		t.Errorf("expected no, got %v", got)
	}

	mixed := mustUnion(t, NewConstantScalar(ScalarInt, "1"), strType)
	if got := mixed.IsSubTypeOf(&intType); got != trilean.Maybe {
		t.Errorf("expected maybe, got %v", got)
	}
}

func TestUnionAccepts(t *testing.T) {
	t.Parallel()

	u := mustUnion(t, NewScalarType(ScalarInt), NewScalarType(ScalarString))

	intType := NewScalarType(ScalarInt)
	boolType := NewScalarType(ScalarBool)
	if !u.Accepts(&intType) {
		t.Error("expected union to accept one of its alternatives")
	}
	if u.Accepts(&boolType) {
		t.Error("expected union to reject a foreign scalar")
	}

	// a compound candidate fits only when all of its alternatives fit
	fitting := mustUnion(t, NewConstantScalar(ScalarInt, "1"), NewScalarType(ScalarString))
	if !u.Accepts(&fitting) {
		t.Error("expected union to accept a narrower union")
	}
	partial := mustUnion(t, NewScalarType(ScalarInt), boolType)
	if u.Accepts(&partial) {
		t.Error("expected union to reject a union with a foreign alternative")
	}
}

func TestUnionCapabilityUniformity(t *testing.T) {
	t.Parallel()

	obj1 := NewNamedObjectType("Foo")
	obj2 := NewNamedObjectType("Bar")
	intType := NewScalarType(ScalarInt)
	floatType := NewScalarType(ScalarFloat)

	tests := []struct {
		name     string
		union    TypeDef
		expected trilean.Value
	}{
		{"all object members", mustUnion(t, obj1, obj2), trilean.Yes},
		{"mixed object and scalar", mustUnion(t, obj1, intType), trilean.Maybe},
		{"no capable members", mustUnion(t, intType, floatType), trilean.No},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.union.CanAccessProperties(); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUnionOffsetAccessProbes(t *testing.T) {
	t.Parallel()

	arr := NewArrayType(NewScalarType(ScalarInt), NewScalarType(ScalarString))
	rec := NewRecordType([]RecordEntry{
		{Key: NewConstantScalar(ScalarString, "a"), Value: NewScalarType(ScalarInt)},
	})
	str := NewScalarType(ScalarString)
	boolType := NewScalarType(ScalarBool)

	uniform := mustUnion(t, arr, rec)
	if got := uniform.IsOffsetAccessible(); got != trilean.Yes {
		t.Errorf("expected yes, got %v", got)
	}
	// strings are offset accessible per character
	withString := mustUnion(t, arr, str)
	if got := withString.IsOffsetAccessible(); got != trilean.Yes {
		t.Errorf("expected yes, got %v", got)
	}
	withBool := mustUnion(t, arr, boolType)
	if got := withBool.IsOffsetAccessible(); got != trilean.Maybe {
		t.Errorf("expected maybe, got %v", got)
	}
}

func TestUnionExistencePolicy(t *testing.T) {
	t.Parallel()

	withFoo := classWithProperty("WithFoo", "foo")
	withFoo2 := classWithProperty("WithFoo2", "foo")
	withoutFoo := classWithProperty("WithoutFoo", "bar")
	intType := NewScalarType(ScalarInt)

	tests := []struct {
		name     string
		union    TypeDef
		expected bool
	}{
		{"one capable member lacks the property", mustUnion(t, withFoo, withoutFoo), false},
		{"all capable members have the property", mustUnion(t, withFoo, withFoo2), true},
		{"incapable members are excluded from agreement", mustUnion(t, withFoo, intType), true},
		{"no capable member at all", mustUnion(t, intType, NewScalarType(ScalarFloat)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.union.HasProperty("foo"); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUnionMemberResolution(t *testing.T) {
	t.Parallel()

	withFoo := classWithProperty("WithFoo", "foo")
	intType := NewScalarType(ScalarInt)

	u := mustUnion(t, withFoo, intType)
	prop, perr := u.GetProperty(nil, "foo")
	if perr != nil {
		t.Fatalf("unexpected error: %v", perr)
	}
	if prop.Name() != "foo" {
		t.Errorf("expected foo, got %q", prop.Name())
	}

	// no alternative carries properties: contract violation
	scalars := mustUnion(t, intType, NewScalarType(ScalarFloat))
	_, perr = scalars.GetProperty(nil, "foo")
	if perr == nil {
		t.Fatal("expected error for incapable union")
	}
	if !errors.Is(perr, verr.ErrInvariant) {
		t.Errorf("expected invariant violation, got %v", perr)
	}
}

func TestUnionCallableResolution(t *testing.T) {
	t.Parallel()

	callable := NewCallableType([]ParameterAcceptor{
		{Name: "x", Type: NewScalarType(ScalarInt)},
	}, NewScalarType(ScalarString))
	intType := NewScalarType(ScalarInt)

	u := mustUnion(t, callable, intType)
	acceptors, cerr := u.GetCallableAcceptors(nil)
	if cerr != nil {
		t.Fatalf("unexpected error: %v", cerr)
	}
	if len(acceptors) != 1 || acceptors[0].Name != "x" {
		t.Errorf("unexpected acceptors: %+v", acceptors)
	}

	scalars := mustUnion(t, intType, NewScalarType(ScalarFloat))
	if _, cerr = scalars.GetCallableAcceptors(nil); cerr == nil {
		t.Fatal("expected error for non-callable union")
	}
}

func TestUnionCoercionRoundTrip(t *testing.T) {
	t.Parallel()

	intType := NewScalarType(ScalarInt)
	strType := NewScalarType(ScalarString)
	u := mustUnion(t, intType, strType)

	got := u.ToNumber()
	want := UnionOf(intType.ToNumber(), strType.ToNumber())
	if !got.Equals(&want) {
		t.Errorf("expected %v, got %v",
			want.Describe(VerbosityValue), got.Describe(VerbosityValue))
	}
}

func TestUnionIterationShapes(t *testing.T) {
	t.Parallel()

	arr := NewArrayType(NewScalarType(ScalarInt), NewScalarType(ScalarString))
	rec := NewRecordType([]RecordEntry{
		{Key: NewConstantScalar(ScalarString, "a"), Value: NewScalarType(ScalarBool)},
	})
	u := mustUnion(t, arr, rec)

	value := u.IterableValueType()
	want := UnionOf(NewScalarType(ScalarString), NewScalarType(ScalarBool))
	if !value.Equals(&want) {
		t.Errorf("expected %v, got %v",
			want.Describe(VerbosityValue), value.Describe(VerbosityValue))
	}

	// a non-iterable member contributes the bottom type, which vanishes
	withInt := mustUnion(t, arr, NewScalarType(ScalarInt))
	value = withInt.IterableValueType()
	strType := NewScalarType(ScalarString)
	if !value.Equals(&strType) {
		t.Errorf("expected string, got %v", value.Describe(VerbosityValue))
	}
}

func TestUnionSetOffsetRebuildsArity(t *testing.T) {
	t.Parallel()

	arr1 := NewArrayType(NewScalarType(ScalarInt), NewScalarType(ScalarString))
	arr2 := NewArrayType(NewScalarType(ScalarInt), NewScalarType(ScalarBool))
	u := mustUnion(t, arr1, arr2)

	offset := NewConstantScalar(ScalarInt, "0")
	value := NewScalarType(ScalarFloat)
	result := u.SetOffsetValueType(&offset, &value)

	if result.Kind != KindUnion {
		t.Fatalf("expected union, got %v", result.Kind)
	}
	if len(result.Members) != len(u.Members) {
		t.Errorf("expected arity %d, got %d", len(u.Members), len(result.Members))
	}
	for i := range result.Members {
		valueType := result.Members[i].ValueType
		if valueType == nil || valueType.Kind != KindUnion {
			t.Errorf("member %d: expected widened value type", i)
		}
	}
}

func TestUnionResolveStatic(t *testing.T) {
	t.Parallel()

	staticRef := NewNamedObjectType(StaticRefName)
	nullType := NewScalarType(ScalarNull)
	u := mustUnion(t, staticRef, nullType)

	resolved := u.ResolveStatic("Foo")
	if resolved.Kind != KindUnion || len(resolved.Members) != 2 {
		t.Fatalf("expected a two-member union, got %v", resolved.Describe(VerbosityValue))
	}
	if !resolved.HasMember(NewNamedObjectType("Foo")) {
		t.Errorf("expected resolved object member, got %v", resolved.Describe(VerbosityValue))
	}
}

func TestUnionReferencedClasses(t *testing.T) {
	t.Parallel()

	u := mustUnion(t,
		NewNamedObjectType("Foo"),
		NewNamedObjectType("Bar"),
		NewArrayType(NewScalarType(ScalarInt), NewNamedObjectType("Foo")),
	)
	names := u.ReferencedClasses()
	if len(names) != 2 {
		t.Fatalf("expected 2 deduplicated names, got %v", names)
	}
	if names[0] != "Bar" || names[1] != "Foo" {
		t.Errorf("expected sorted names [Bar Foo], got %v", names)
	}
}
