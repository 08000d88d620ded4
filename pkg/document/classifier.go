package document

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	// TypeField is the discriminator field name, matched case-insensitively.
	TypeField = "$type"

	// ConditionsField is the gating field of conditional policy sets, matched case-insensitively.
	ConditionsField = "Conditions"
)

// Classifier parses raw document text and determines its Kind.
// It performs no I/O and keeps no state between calls.
type Classifier struct {
	types TypeNames
}

// NewClassifier creates a classifier for the given discriminator names.
// Empty names fall back to the defaults.
func NewClassifier(types TypeNames) *Classifier {
	defaults := DefaultTypeNames()
	if types.Environment == "" {
		types.Environment = defaults.Environment
	}
	if types.PolicySet == "" {
		types.PolicySet = defaults.PolicySet
	}
	if types.ConditionalPolicySet == "" {
		types.ConditionalPolicySet = defaults.ConditionalPolicySet
	}
	return &Classifier{types: types}
}

// TypeNames returns the discriminator names in use.
func (c *Classifier) TypeNames() TypeNames {
	return c.types
}

// Classify parses raw and returns the classified document for path.
func (c *Classifier) Classify(path, raw string) *Document {
	doc := &Document{Path: path, Raw: raw}

	if !gjson.Valid(raw) {
		return malformed(doc, ReasonInvalidJSON, "text is not valid JSON")
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return malformed(doc, ReasonInvalidJSON, "top-level value is not an object")
	}

	// The first key matching case-insensitively is used; a later key spelled
	// exactly the same replaces its value.
	fields := 0
	var typeValue, conditionsValue gjson.Result
	var typeKey, conditionsKey string
	var hasType, hasConditions bool
	root.ForEach(func(key, value gjson.Result) bool {
		fields++
		name := key.String()
		if strings.EqualFold(name, TypeField) && (!hasType || name == typeKey) {
			typeValue, typeKey, hasType = value, name, true
		}
		if strings.EqualFold(name, ConditionsField) && (!hasConditions || name == conditionsKey) {
			conditionsValue, conditionsKey, hasConditions = value, name, true
		}
		return true
	})

	if fields == 0 {
		return malformed(doc, ReasonInvalidJSON, "document has no fields")
	}
	if !hasType {
		return malformed(doc, ReasonInvalidJSON, "missing "+TypeField+" field")
	}

	doc.TypeTag = typeValue.String()
	if doc.TypeTag == "" {
		return malformed(doc, ReasonInvalidType, "empty "+TypeField+" value")
	}

	doc.Kind = c.kindOf(doc.TypeTag)
	if doc.Kind != KindConditionalPolicySet {
		return doc
	}

	if !hasConditions {
		doc.Err = &ConditionsMissingError{FilePath: path}
		return doc
	}
	conditions, err := parseConditions(conditionsValue)
	if err != nil {
		doc.Err = &ConditionsUnparseableError{FilePath: path, Message: err.Error()}
		return doc
	}
	doc.Conditions = conditions
	return doc
}

// kindOf matches by containment so that assembly-qualified names still match.
// The first match in priority order wins.
func (c *Classifier) kindOf(tag string) Kind {
	switch {
	case strings.Contains(tag, c.types.Environment):
		return KindEnvironment
	case strings.Contains(tag, c.types.PolicySet):
		return KindPolicySet
	case strings.Contains(tag, c.types.ConditionalPolicySet):
		return KindConditionalPolicySet
	default:
		return KindUnrecognized
	}
}

// parseConditions converts a JSON object into an ordered ConditionSet.
// Scalar values are stringified and null values become empty patterns.
func parseConditions(value gjson.Result) (ConditionSet, error) {
	if !value.IsObject() {
		return nil, fmt.Errorf("expected an object, got %s", typeName(value))
	}

	var (
		conditions ConditionSet
		parseErr   error
	)
	value.ForEach(func(key, v gjson.Result) bool {
		switch v.Type {
		case gjson.String, gjson.Number, gjson.True, gjson.False, gjson.Null:
			conditions = conditions.Set(key.String(), v.String())
			return true
		default:
			parseErr = fmt.Errorf("value of %q is %s, expected a string", key.String(), typeName(v))
			return false
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if conditions == nil {
		conditions = ConditionSet{}
	}
	return conditions, nil
}

func typeName(v gjson.Result) string {
	switch {
	case v.IsObject():
		return "an object"
	case v.IsArray():
		return "an array"
	case v.Type == gjson.Null:
		return "null"
	case v.Type == gjson.String:
		return "a string"
	case v.Type == gjson.Number:
		return "a number"
	default:
		return "a boolean"
	}
}

func malformed(doc *Document, reason, message string) *Document {
	doc.Kind = KindMalformed
	doc.Err = &MalformedDocumentError{FilePath: doc.Path, Reason: reason, Message: message}
	return doc
}
