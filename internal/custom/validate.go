package custom

import "regexp"

// Discord naming rules: chat input commands are lowercase kebab, user and
// message commands allow mixed case and spaces.
var (
	chatNamePattern    = regexp.MustCompile(`^[a-z0-9-]{1,32}$`)
	contextNamePattern = regexp.MustCompile(`^[\w\- ]{1,32}$`)
)

// ValidateName reports whether name is acceptable for a command of type t.
// Pure; callers must reject before attempting any remote or local write.
func ValidateName(t CommandType, name string) bool {
	if t == TypeChatInput {
		return chatNamePattern.MatchString(name)
	}
	return contextNamePattern.MatchString(name)
}
