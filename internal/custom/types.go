// Package custom implements guild-defined commands: the persisted record
// model, name validation, the storage/registration service, and the context
// map handed to template rendering.
package custom

// CommandType mirrors Discord's application command types.
type CommandType int

const (
	TypeChatInput CommandType = 1
	TypeUser      CommandType = 2
	TypeMessage   CommandType = 3
)

// String returns the short human label used in listings and autocomplete.
func (t CommandType) String() string {
	switch t {
	case TypeChatInput:
		return "Chat"
	case TypeUser:
		return "User"
	case TypeMessage:
		return "Message"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the three registrable types.
func (t CommandType) Valid() bool {
	return t == TypeChatInput || t == TypeUser || t == TypeMessage
}

// Record is the persisted definition of one custom command. ID is assigned by
// Discord on registration, never generated locally. Name and Type are
// immutable after creation.
type Record struct {
	ID          string      `json:"id"`
	GuildID     string      `json:"guild_id"`
	Name        string      `json:"name"`
	Type        CommandType `json:"type"`
	Content     string      `json:"content"`
	Description string      `json:"description,omitempty"`
}

// CreateInput is the payload for Service.Create.
type CreateInput struct {
	GuildID     string
	Name        string
	Type        CommandType
	Content     string
	Description string
}

// UpdateInput is the partial payload for Service.Update. Ref may be a command
// ID or name. Nil fields keep their stored value; name and type cannot be
// changed.
type UpdateInput struct {
	GuildID     string
	Ref         string
	Content     *string
	Description *string
}

// Choice is one autocomplete suggestion.
type Choice struct {
	Name  string
	Value string
}

func recordKey(guildID, id string) string {
	return "commands:" + guildID + ":" + id
}

func guildPrefix(guildID string) string {
	return "commands:" + guildID + ":"
}
