package types

// Scope is the opaque analysis-context handle passed through to reflection
// calls unchanged. Collaborators use it to resolve context-sensitive
// members; this core never inspects it.
type Scope interface{}

// PropertyReflection describes a resolved property of a class.
type PropertyReflection interface {
	Name() string
	Type() TypeDef
}

// MethodReflection describes a resolved method of a class.
type MethodReflection interface {
	Name() string
	Acceptors() []ParameterAcceptor
	ReturnType() TypeDef
}

// ConstantReflection describes a resolved class constant.
type ConstantReflection interface {
	Name() string
	Value() TypeDef
}

// ClassReflection resolves member metadata for a class-like shape of the
// analyzed language. Implementations are provided by the surrounding
// engine; this core only relies on existence and identity of members.
type ClassReflection interface {
	Name() string
	// Ancestors lists the names of all transitive parent classes and
	// implemented interfaces, excluding the class itself.
	Ancestors() []string

	HasProperty(name string) bool
	GetProperty(scope Scope, name string) (PropertyReflection, bool)
	HasMethod(name string) bool
	GetMethod(scope Scope, name string) (MethodReflection, bool)
	HasConstant(name string) bool
	GetConstant(scope Scope, name string) (ConstantReflection, bool)

	// IsTraversable reports whether instances can be iterated.
	IsTraversable() bool
	// IsInvokable reports whether instances can be called as functions.
	IsInvokable() bool
	// InvokeAcceptors returns the call signature when IsInvokable.
	InvokeAcceptors() []ParameterAcceptor
}

// DeclaredMethod is the signature of a method of a DeclaredClass.
type DeclaredMethod struct {
	Params []ParameterAcceptor
	Return TypeDef
}

// DeclaredClass is an in-memory ClassReflection implementation used by the
// bundled front end and by tests. Engines with their own reflection
// subsystem substitute it wholesale.
type DeclaredClass struct {
	ClassName    string
	Parents      []string
	Properties   map[string]TypeDef
	Methods      map[string]DeclaredMethod
	Constants    map[string]TypeDef
	Traversable  bool
	Invokable    bool
	InvokeParams []ParameterAcceptor
}

// Name returns the declared class name
func (c *DeclaredClass) Name() string {
	return c.ClassName
}

// Ancestors returns the declared parent class names
func (c *DeclaredClass) Ancestors() []string {
	return c.Parents
}

// HasProperty checks if the class declares the named property
func (c *DeclaredClass) HasProperty(name string) bool {
	_, ok := c.Properties[name]
	return ok
}

// GetProperty returns the reflection of the named property, if declared
func (c *DeclaredClass) GetProperty(_ Scope, name string) (PropertyReflection, bool) {
	typ, ok := c.Properties[name]
	if !ok {
		return nil, false
	}
	return &declaredProperty{name: name, typ: typ}, true
}

// HasMethod checks if the class declares the named method
func (c *DeclaredClass) HasMethod(name string) bool {
	_, ok := c.Methods[name]
	return ok
}

// GetMethod returns the reflection of the named method, if declared
func (c *DeclaredClass) GetMethod(_ Scope, name string) (MethodReflection, bool) {
	m, ok := c.Methods[name]
	if !ok {
		return nil, false
	}
	return &declaredMethod{name: name, method: m}, true
}

// HasConstant checks if the class declares the named constant
func (c *DeclaredClass) HasConstant(name string) bool {
	_, ok := c.Constants[name]
	return ok
}

// GetConstant returns the reflection of the named constant, if declared
func (c *DeclaredClass) GetConstant(_ Scope, name string) (ConstantReflection, bool) {
	typ, ok := c.Constants[name]
	if !ok {
		return nil, false
	}
	return &declaredConstant{name: name, value: typ}, true
}

// IsTraversable reports whether instances can be iterated
func (c *DeclaredClass) IsTraversable() bool {
	return c.Traversable
}

// IsInvokable reports whether instances can be called as functions
func (c *DeclaredClass) IsInvokable() bool {
	return c.Invokable
}

// InvokeAcceptors returns the declared call signature
func (c *DeclaredClass) InvokeAcceptors() []ParameterAcceptor {
	return c.InvokeParams
}

type declaredProperty struct {
	name string
	typ  TypeDef
}

func (p *declaredProperty) Name() string  { return p.name }
func (p *declaredProperty) Type() TypeDef { return p.typ }

type declaredMethod struct {
	name   string
	method DeclaredMethod
}

func (m *declaredMethod) Name() string                   { return m.name }
func (m *declaredMethod) Acceptors() []ParameterAcceptor { return m.method.Params }
func (m *declaredMethod) ReturnType() TypeDef            { return m.method.Return }

type declaredConstant struct {
	name  string
	value TypeDef
}

func (c *declaredConstant) Name() string   { return c.name }
func (c *declaredConstant) Value() TypeDef { return c.value }
