package mython

// Method is a named callable declared inside a class body. FormalParams
// excludes the implicit self.
type Method struct {
	Name         string
	FormalParams []string
	Body         Statement
}

// Class describes a user-defined class: an ordered method list and an
// optional parent. Classes are immutable once their definition statement has
// executed and live for the whole program, so children reference parents by
// plain pointer. Parent chains are acyclic by construction: a class can only
// inherit from a class defined before it.
type Class struct {
	Name    string
	Methods []*Method
	Parent  *Class
}

// GetMethod finds the first method with the given name, scanning this
// class's methods in declaration order and then the parent chain.
func (c *Class) GetMethod(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	if c.Parent != nil {
		return c.Parent.GetMethod(name)
	}
	return nil
}

// Instance is an object of a user-defined class. Fields live in the
// instance's own closure.
type Instance struct {
	class  *Class
	fields *Closure
}

func NewInstanceOf(class *Class) *Instance {
	return &Instance{class: class, fields: NewClosure()}
}

func (i *Instance) Class() *Class { return i.class }

func (i *Instance) Fields() *Closure { return i.fields }

// HasMethod reports whether the method found by name lookup also has the
// requested arity. A name match with the wrong parameter count is treated
// as no such method.
func (i *Instance) HasMethod(name string, arity int) bool {
	m := i.class.GetMethod(name)
	return m != nil && len(m.FormalParams) == arity
}
