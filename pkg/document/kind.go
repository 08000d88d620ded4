package document

// Kind is the closed set of document classifications.
type Kind int

const (
	// KindMalformed marks text that does not parse, has no fields, or lacks a usable $type.
	KindMalformed Kind = iota

	// KindEnvironment marks a commerce environment document.
	KindEnvironment

	// KindPolicySet marks an unconditional policy set document.
	KindPolicySet

	// KindConditionalPolicySet marks a policy set gated by Conditions.
	KindConditionalPolicySet

	// KindUnrecognized marks a well-formed document whose $type names none of the known types.
	KindUnrecognized
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindEnvironment:
		return "environment"
	case KindPolicySet:
		return "policy_set"
	case KindConditionalPolicySet:
		return "conditional_policy_set"
	case KindUnrecognized:
		return "unrecognized"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Disposition tells the orchestrator what to do with a classified document.
type Disposition int

const (
	// DispositionContinue means the document should be dispatched to an import operation.
	DispositionContinue Disposition = iota

	// DispositionSkip means the document is ignored without error.
	DispositionSkip

	// DispositionFailIsolated means the document failed but the batch goes on.
	DispositionFailIsolated

	// DispositionFailFatal means the document failed and the rest of the batch must not run.
	DispositionFailFatal
)

// String returns a string representation of the disposition.
func (d Disposition) String() string {
	switch d {
	case DispositionContinue:
		return "continue"
	case DispositionSkip:
		return "skip"
	case DispositionFailIsolated:
		return "fail_isolated"
	case DispositionFailFatal:
		return "fail_fatal"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Disposition) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Fully-qualified discriminator names recognised by default.
const (
	DefaultEnvironmentType          = "Sitecore.Commerce.Core.CommerceEnvironment"
	DefaultPolicySetType            = "Sitecore.Commerce.Core.PolicySet"
	DefaultConditionalPolicySetType = "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet"
)

// TypeNames holds the discriminator names matched against $type, in priority order.
type TypeNames struct {
	Environment          string
	PolicySet            string
	ConditionalPolicySet string
}

// DefaultTypeNames returns the built-in discriminator names.
func DefaultTypeNames() TypeNames {
	return TypeNames{
		Environment:          DefaultEnvironmentType,
		PolicySet:            DefaultPolicySetType,
		ConditionalPolicySet: DefaultConditionalPolicySetType,
	}
}

// Condition is a single setting-name to regex-pattern gate.
type Condition struct {
	Setting string `json:"setting"`
	Pattern string `json:"pattern"`
}

// Empty reports whether the condition has no name or no pattern.
// Empty conditions are vacuously satisfied.
func (c Condition) Empty() bool {
	return c.Setting == "" || c.Pattern == ""
}

// ConditionSet is an ordered name-to-pattern mapping. Order is document order.
type ConditionSet []Condition

// Set adds or replaces the pattern for setting, keeping the original position on replace.
func (cs ConditionSet) Set(setting, pattern string) ConditionSet {
	for i := range cs {
		if cs[i].Setting == setting {
			cs[i].Pattern = pattern
			return cs
		}
	}
	return append(cs, Condition{Setting: setting, Pattern: pattern})
}

// Get returns the pattern for setting.
func (cs ConditionSet) Get(setting string) (string, bool) {
	for _, c := range cs {
		if c.Setting == setting {
			return c.Pattern, true
		}
	}
	return "", false
}

// Document is one classified configuration file. It is built once by the
// Classifier and not modified afterwards.
type Document struct {
	// Path is the source file location
	Path string

	// Raw is the original text, handed to import operations unmodified
	Raw string

	// TypeTag is the $type value; empty when absent
	TypeTag string

	// Kind is the classification result
	Kind Kind

	// Conditions is populated for KindConditionalPolicySet only
	Conditions ConditionSet

	// Err holds the classification-level error, if any
	Err error
}

// Disposition derives the orchestrator action from the classification.
func (d *Document) Disposition() Disposition {
	switch {
	case d.Kind == KindMalformed:
		return DispositionFailFatal
	case d.Kind == KindUnrecognized:
		return DispositionSkip
	case d.Err != nil:
		return DispositionFailIsolated
	default:
		return DispositionContinue
	}
}
