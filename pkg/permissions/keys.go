package permissions

// Key names a project-level permission. The set of keys is closed: grant
// writes reject anything outside the registry below, while evaluation simply
// never matches unknown keys, so stray values in stored data cannot widen
// access.
type Key string

const (
	// ViewProject allows reading the project and its child resources.
	ViewProject Key = "VIEW_PROJECT"
	// CreateEnvironment allows creating environments within the project.
	CreateEnvironment Key = "CREATE_ENVIRONMENT"
	// CreateFeature allows creating features within the project.
	CreateFeature Key = "CREATE_FEATURE"
	// EditFeature allows changing existing features.
	EditFeature Key = "EDIT_FEATURE"
	// DeleteFeature allows removing features.
	DeleteFeature Key = "DELETE_FEATURE"
)

// registry lists every known key in a stable order.
var registry = []Key{
	ViewProject,
	CreateEnvironment,
	CreateFeature,
	EditFeature,
	DeleteFeature,
}

// Keys returns all registered permission keys in a stable order. The
// returned slice is a copy and safe to modify.
func Keys() []Key {
	keys := make([]Key, len(registry))
	copy(keys, registry)
	return keys
}

// Valid reports whether the key is part of the registry.
func (k Key) Valid() bool {
	for _, known := range registry {
		if k == known {
			return true
		}
	}
	return false
}
