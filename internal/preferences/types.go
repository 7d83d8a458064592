package preferences

// Permission is a capability the user must grant before browsing.
type Permission string

const (
	PermissionNetwork         Permission = "network"
	PermissionStorage         Permission = "storage"
	PermissionRecommendations Permission = "recommendations"
)

// RequiredPermissions lists the permissions the splash screen checks, in the
// order they are requested.
var RequiredPermissions = []Permission{
	PermissionNetwork,
	PermissionStorage,
	PermissionRecommendations,
}

// ValidPermission checks if p is a known permission.
func ValidPermission(p string) bool {
	for _, known := range RequiredPermissions {
		if Permission(p) == known {
			return true
		}
	}
	return false
}

// Setting keys
const (
	KeyLanguage       = "browse_language"
	KeyIncludeAdult   = "browse_include_adult"
	KeyFirstRunDone   = "first_run_done"
	keyPermissionBase = "permission_"
)

func permissionKey(p Permission) string {
	return keyPermissionBase + string(p)
}

// BrowsePreferences are the user-editable catalog settings.
type BrowsePreferences struct {
	Language     string `json:"language" validate:"required,bcp47_language_tag"`
	IncludeAdult bool   `json:"includeAdult"`
}

// DefaultPreferences returns the default values for browse preferences
func DefaultPreferences() BrowsePreferences {
	return BrowsePreferences{
		Language:     "en-US",
		IncludeAdult: false,
	}
}
