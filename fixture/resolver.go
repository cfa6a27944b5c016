package fixture

import "strings"

// ModelResolver rewrites the reserved placeholder namespace to the
// application's root namespace.
type ModelResolver struct {
	Placeholder   string
	RootNamespace string
}

// Resolve returns model with a leading Placeholder replaced by
// RootNamespace\Entity\. Any other model is returned unchanged, as is every
// model when RootNamespace is empty.
func (r *ModelResolver) Resolve(model string) string {
	if r == nil || r.Placeholder == "" || r.RootNamespace == "" {
		return model
	}
	typeName, ok := strings.CutPrefix(model, r.Placeholder)
	if !ok || typeName == "" {
		return model
	}
	if i := strings.LastIndex(typeName, `\`); i >= 0 {
		typeName = typeName[i+1:]
	}
	return strings.TrimSuffix(r.RootNamespace, `\`) + `\Entity\` + typeName
}

// TypeName returns the last namespace segment of a model identifier:
// `App\Entity\BlogPost` yields "BlogPost".
func TypeName(model string) string {
	if i := strings.LastIndexAny(model, `\.`); i >= 0 {
		return model[i+1:]
	}
	return model
}
