// Package commerce models the entities produced by the host import commands.
//
// Documents are stored verbatim; only their identity and a few summary
// fields are extracted so that a re-import of the same document replaces
// the previous copy instead of adding a new one.
package commerce

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	// EnvironmentIDPrefix prefixes environment ids derived from the Name field.
	EnvironmentIDPrefix = "Entity-CommerceEnvironment-"

	// PolicySetIDPrefix prefixes policy set ids derived from the Name field.
	PolicySetIDPrefix = "Entity-PolicySet-"
)

// documentNamespace seeds ids derived from the document text.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:condconfig:document"))

// ErrMissingName is returned when an environment document has no Name.
var ErrMissingName = errors.New("environment has no Name")

// Environment is an imported commerce environment.
type Environment struct {
	ID         string
	Name       string
	Raw        string
	ImportedAt time.Time
}

// PolicySet is an imported policy set. Conditional is set when it came from
// a conditional policy set document.
type PolicySet struct {
	ID          string
	Name        string
	PolicyCount int
	Conditional bool
	Raw         string
	ImportedAt  time.Time
}

// ParseEnvironment extracts the identity of an environment document.
func ParseEnvironment(raw string) (*Environment, error) {
	root, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	name := field(root, "Name").String()
	if name == "" {
		return nil, ErrMissingName
	}

	id := field(root, "Id").String()
	if id == "" {
		id = EnvironmentIDPrefix + name
	}

	return &Environment{ID: id, Name: name, Raw: raw}, nil
}

// ParsePolicySet extracts the identity of a policy set document.
// Policies are counted from the "Policies" array, or its "$values" form.
func ParsePolicySet(raw string) (*PolicySet, error) {
	root, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	ps := &PolicySet{
		Name:        field(root, "Name").String(),
		Conditional: field(root, "Conditions").Exists(),
		Raw:         raw,
	}

	policies := field(root, "Policies")
	if policies.IsObject() {
		policies = field(policies, "$values")
	}
	if policies.IsArray() {
		ps.PolicyCount = len(policies.Array())
	}

	switch id := field(root, "Id").String(); {
	case id != "":
		ps.ID = id
	case ps.Name != "":
		ps.ID = PolicySetIDPrefix + ps.Name
	default:
		ps.ID = PolicySetIDPrefix + uuid.NewSHA1(documentNamespace, []byte(raw)).String()
	}

	return ps, nil
}

func parseObject(raw string) (gjson.Result, error) {
	if !gjson.Valid(raw) {
		return gjson.Result{}, fmt.Errorf("document is not valid JSON")
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return gjson.Result{}, fmt.Errorf("document is not a JSON object")
	}
	return root, nil
}

// field returns the first member of obj whose key equals name, ignoring case.
func field(obj gjson.Result, name string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(key, value gjson.Result) bool {
		if strings.EqualFold(key.String(), name) {
			found = value
			return false
		}
		return true
	})
	return found
}
