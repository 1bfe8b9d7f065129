package models

// User types, ordered by privilege.
const (
	UserTypeUser       = 1
	UserTypeAdmin      = 2
	UserTypeSuperAdmin = 3
)

// Debug mode of a user's groups.
const (
	DebugModeDisabled = 0
	DebugModeEnabled  = 1
)

// User is a console user together with the rules of its role.
type User struct {
	UserID    string `json:"userid"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Type      int    `json:"type"`
	DebugMode int    `json:"debug_mode"`
	Lang      string `json:"lang,omitempty"`
	// Rules maps role rule names to access. The "*" key, when present,
	// applies to every rule not listed explicitly.
	Rules map[string]bool `json:"rules"`
}

// FullName renders "username (name surname)" or just the username when the
// user has no name and surname.
func (u *User) FullName() string {
	var rest string
	switch {
	case u.Name != "" && u.Surname != "":
		rest = u.Name + " " + u.Surname
	case u.Name != "":
		rest = u.Name
	case u.Surname != "":
		rest = u.Surname
	}
	if rest == "" {
		return u.Username
	}
	return u.Username + " (" + rest + ")"
}

// HasRule reports whether the user's role grants rule.
func (u *User) HasRule(rule string) bool {
	if u == nil {
		return false
	}
	if v, ok := u.Rules[rule]; ok {
		return v
	}
	return u.Rules[RuleAll]
}

// IsDebug reports whether profiling output is shown to the user.
func (u *User) IsDebug() bool {
	return u != nil && u.DebugMode == DebugModeEnabled
}
