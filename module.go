package weaver

// ModuleOption is one registration action inside a module.
type ModuleOption func(*Container) error

// NewModule groups registration actions under a name. Actions run in
// order; the first failure stops the module and comes back wrapped in a
// ModuleError carrying the module name. Modules nest, so larger modules
// can be assembled from smaller ones.
//
// Example:
//
//	var CoreModule = weaver.NewModule("core",
//	    weaver.ProvideValue(Env, map[string]string{"env": "dev"}),
//	    weaver.Provide(Config),
//	    weaver.Provide(Service),
//	)
//
//	var AppModule = weaver.NewModule("app",
//	    CoreModule,
//	    weaver.Provide(Handler),
//	)
func NewModule(name string, actions ...ModuleOption) ModuleOption {
	return func(c *Container) error {
		for _, action := range actions {
			if action == nil {
				continue
			}

			if err := action(c); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}
		return nil
	}
}

// Provide registers a constructible def.
func Provide(def *Def) ModuleOption {
	return func(c *Container) error {
		return c.Register(def)
	}
}

// ProvideValue registers a value under an identifier, usually a Token.
func ProvideValue(id Identifier, value any) ModuleOption {
	return func(c *Container) error {
		return c.Register(id, value)
	}
}

// ProvideMock registers an overlay value for test substitution.
func ProvideMock(id Identifier, value any) ModuleOption {
	return func(c *Container) error {
		return c.RegisterMock(id, value)
	}
}

// Apply runs the given modules against the container, stopping at the
// first failure.
func (c *Container) Apply(modules ...ModuleOption) error {
	for _, m := range modules {
		if m == nil {
			continue
		}

		if err := m(c); err != nil {
			return err
		}
	}
	return nil
}
