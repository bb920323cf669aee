package command

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TinkerStorm/hack-n-slash/internal/custom"
)

type fakeCommand struct {
	name  string
	perms []int64
	runs  int
	fail  error
}

func (f *fakeCommand) Name() string             { return f.name }
func (f *fakeCommand) Description() string      { return "a fake command" }
func (f *fakeCommand) UserPermissions() []int64 { return f.perms }

func (f *fakeCommand) Run(ctx *Context) error {
	f.runs++
	return f.fail
}

func (f *fakeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: f.name, Description: f.Description()}
}

func guildContext(guildID string, perms int64) *Context {
	return &Context{
		Event: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				GuildID:   guildID,
				ChannelID: "c1",
				Member: &discordgo.Member{
					Permissions: perms,
					User:        &discordgo.User{ID: "u1", Username: "alice"},
				},
			},
		},
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeCommand{name: "ping"})
	r.Register(&fakeCommand{name: "about"})

	require.NotNil(t, r.Get("ping"))
	assert.Nil(t, r.Get("missing"))
}

func TestRegistryGetAllSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeCommand{name: "ping"})
	r.Register(&fakeCommand{name: "about"})
	r.Register(&fakeCommand{name: "command"})

	all := r.GetAll()
	require.Len(t, all, 3)
	assert.Equal(t, "about", all[0].Name())
	assert.Equal(t, "command", all[1].Name())
	assert.Equal(t, "ping", all[2].Name())
}

func TestRegistryReplaceSameName(t *testing.T) {
	r := NewRegistry()
	first := &fakeCommand{name: "ping"}
	second := &fakeCommand{name: "ping"}
	r.Register(first)
	r.Register(second)

	require.Len(t, r.GetAll(), 1)
	assert.Same(t, Command(second), r.Get("ping"))
}

func TestRootUnwrapsMiddlewareChain(t *testing.T) {
	inner := &fakeCommand{name: "ping"}
	chained := Apply(inner, WithGuildOnly(), WithUserPermissionCheck())

	assert.Same(t, Command(inner), Root(chained))

	sp, ok := chained.(SlashProvider)
	require.True(t, ok)
	require.NotNil(t, sp.SlashDefinition())
	assert.Equal(t, "ping", sp.SlashDefinition().Name)
}

func TestGuildOnlyRejectsDM(t *testing.T) {
	inner := &fakeCommand{name: "ping"}
	cmd := Apply(inner, WithGuildOnly())

	err := cmd.Run(guildContext("", 0))
	require.Error(t, err)
	assert.True(t, custom.IsKind(err, custom.KindValidation))
	assert.Zero(t, inner.runs)

	require.NoError(t, cmd.Run(guildContext("g1", 0)))
	assert.Equal(t, 1, inner.runs)
}

func TestPermissionCheckAnyOf(t *testing.T) {
	inner := &fakeCommand{
		name:  "command",
		perms: []int64{discordgo.PermissionManageGuild, discordgo.PermissionManageChannels},
	}
	cmd := Apply(inner, WithUserPermissionCheck())

	err := cmd.Run(guildContext("g1", discordgo.PermissionSendMessages))
	require.Error(t, err)
	assert.True(t, custom.IsKind(err, custom.KindValidation))
	assert.Contains(t, err.Error(), "Manage Server")
	assert.Zero(t, inner.runs)

	require.NoError(t, cmd.Run(guildContext("g1", discordgo.PermissionManageChannels)))
	assert.Equal(t, 1, inner.runs)
}

func TestPermissionCheckAdminBypass(t *testing.T) {
	inner := &fakeCommand{name: "command", perms: []int64{discordgo.PermissionManageGuild}}
	cmd := Apply(inner, WithUserPermissionCheck())

	require.NoError(t, cmd.Run(guildContext("g1", discordgo.PermissionAdministrator)))
	assert.Equal(t, 1, inner.runs)
}

func TestPermissionCheckOpenCommand(t *testing.T) {
	inner := &fakeCommand{name: "ping"}
	cmd := Apply(inner, WithUserPermissionCheck())

	require.NoError(t, cmd.Run(guildContext("g1", 0)))
	assert.Equal(t, 1, inner.runs)
}
