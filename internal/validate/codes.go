package validate

// Validation diagnostic codes (E100-E299).
const (
	// Produces-method errors (E101-E109)
	ErrProducesNoReturn       = "E101" // method declares no provided type
	ErrProducesPrivate        = "E102" // provider method must not be private
	ErrProducesAbstract       = "E103" // provider method must not be abstract
	ErrProducesStatic         = "E104" // provider method must not be static
	ErrProducesDuplicateParam = "E105" // duplicate parameter name
	ErrProducesBadType        = "E106" // provided type is not an exported type reference

	// Binds-method errors (E111-E119)
	ErrBindsNotAbstract = "E111" // binds method must be abstract
	ErrBindsParamCount  = "E112" // binds method takes exactly one parameter
	ErrBindsNoReturn    = "E113" // binds method declares no bound type
	ErrBindsStatic      = "E114" // binds method must not be static

	// Module errors (E201-E209, warnings W2xx)
	ErrModuleNotType      = "E201" // module entity is not a type
	ErrModulePrivate      = "E202" // module must not be private
	ErrModuleSupertype    = "E203" // module must not extend another type
	ErrModuleDualMarker   = "E204" // method carries both produces and binds
	WarnModuleNoProviders = "W205" // module declares no provider methods
)
