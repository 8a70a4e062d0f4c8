// Package catalog holds the static bot, guild and command data served until
// the dashboard is wired to a live bot.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCommandNotFound  = errors.New("command not found")
)

type BotStatus struct {
	Status       string `json:"status"`
	Uptime       string `json:"uptime"`
	Servers      int    `json:"servers"`
	Users        int    `json:"users"`
	CommandsUsed int    `json:"commands_used"`
	Version      string `json:"version"`
	MemoryUsage  string `json:"memory_usage"`
}

type CommandUsage struct {
	Name string `json:"name"`
	Uses int    `json:"uses"`
}

type ServerGrowth struct {
	Daily   int `json:"daily"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

type BotStats struct {
	TotalCommands     int            `json:"total_commands"`
	TopCommands       []CommandUsage `json:"top_commands"`
	MessagesProcessed int            `json:"messages_processed"`
	ActiveServers     int            `json:"active_servers"`
	ServerGrowth      ServerGrowth   `json:"server_growth"`
}

func Status() BotStatus {
	return BotStatus{
		Status:       "online",
		Uptime:       "3d 5h 27m",
		Servers:      250,
		Users:        15000,
		CommandsUsed: 7834,
		Version:      "10.0.10",
		MemoryUsage:  "256MB",
	}
}

func Stats() BotStats {
	return BotStats{
		TotalCommands: 42587,
		TopCommands: []CommandUsage{
			{Name: "help", Uses: 5832},
			{Name: "play", Uses: 4281},
			{Name: "profile", Uses: 3459},
		},
		MessagesProcessed: 153298,
		ActiveServers:     230,
		ServerGrowth:      ServerGrowth{Daily: 5, Weekly: 35, Monthly: 120},
	}
}

type Activity struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type BotSettings struct {
	Prefix   string   `json:"prefix"`
	Status   string   `json:"status"`
	Activity Activity `json:"activity"`
}

// ApplySettingsDefaults fills every empty field with the bot's defaults.
func ApplySettingsDefaults(prefix, status, activityType, activityName string) BotSettings {
	return BotSettings{
		Prefix:   orDefault(prefix, "!"),
		Status:   orDefault(status, "online"),
		Activity: Activity{Type: orDefault(activityType, "PLAYING"), Name: orDefault(activityName, "with commands")},
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// ExecuteResult describes a command run either in one guild or globally.
func ExecuteResult(command, guildID string) string {
	if guildID == "" {
		return fmt.Sprintf("Executed '%s' globally", command)
	}
	return fmt.Sprintf("Executed '%s' in guild %s", command, guildID)
}

type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	MemberCount int    `json:"member_count"`
	OwnerID     string `json:"owner_id"`
	PremiumTier int    `json:"premium_tier"`
}

type Role struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Members int    `json:"members"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type GuildDetail struct {
	Guild
	Roles    []Role    `json:"roles"`
	Channels []Channel `json:"channels"`
	Features []string  `json:"features"`
}

type GuildList struct {
	Guilds []Guild `json:"guilds"`
	Total  int     `json:"total"`
}

func Guilds() GuildList {
	return GuildList{
		Guilds: []Guild{
			{
				ID:          "123456789012345678",
				Name:        "Dev Hub Main",
				Icon:        "https://cdn.discordapp.com/icons/123456789012345678/abcdef.png",
				MemberCount: 5432,
				OwnerID:     "987654321098765432",
				PremiumTier: 2,
			},
			{
				ID:          "234567890123456789",
				Name:        "Gaming Community",
				Icon:        "https://cdn.discordapp.com/icons/234567890123456789/ghijkl.png",
				MemberCount: 2876,
				OwnerID:     "876543210987654321",
				PremiumTier: 1,
			},
		},
		Total: 250,
	}
}

// GuildByID returns the detail view for any id; the remaining fields are fixed.
func GuildByID(id string) GuildDetail {
	g := Guilds().Guilds[0]
	g.ID = id
	return GuildDetail{
		Guild: g,
		Roles: []Role{
			{ID: "role1", Name: "Admin", Color: "#FF0000", Members: 5},
			{ID: "role2", Name: "Moderator", Color: "#00FF00", Members: 12},
			{ID: "role3", Name: "Member", Color: "#0000FF", Members: 5415},
		},
		Channels: []Channel{
			{ID: "channel1", Name: "general", Type: "text"},
			{ID: "channel2", Name: "voice-chat", Type: "voice"},
			{ID: "channel3", Name: "announcements", Type: "text"},
		},
		Features: []string{"COMMUNITY", "WELCOME_SCREEN_ENABLED", "NEWS"},
	}
}

type WelcomeSettings struct {
	Enabled   bool   `json:"enabled"`
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
}

type ModerationSettings struct {
	LogChannelID string `json:"log_channel_id"`
	AutoRoleID   string `json:"auto_role_id"`
	MuteRoleID   string `json:"mute_role_id"`
}

type LevelSettings struct {
	Enabled           bool   `json:"enabled"`
	AnnounceChannelID string `json:"announce_channel_id"`
	AnnounceMessage   string `json:"announce_message"`
}

type AutoModSettings struct {
	Enabled         bool `json:"enabled"`
	FilterProfanity bool `json:"filter_profanity"`
	FilterInvites   bool `json:"filter_invites"`
	FilterLinks     bool `json:"filter_links"`
	FilterSpam      bool `json:"filter_spam"`
}

type GuildSettings struct {
	Prefix     string             `json:"prefix"`
	Welcome    WelcomeSettings    `json:"welcome"`
	Moderation ModerationSettings `json:"moderation"`
	Levels     LevelSettings      `json:"levels"`
	AutoMod    AutoModSettings    `json:"auto_mod"`
}

func Settings(string) GuildSettings {
	return GuildSettings{
		Prefix: "!",
		Welcome: WelcomeSettings{
			Enabled:   true,
			ChannelID: "welcome-channel-id",
			Message:   "Welcome {user} to {server}!",
		},
		Moderation: ModerationSettings{
			LogChannelID: "mod-logs-channel-id",
			AutoRoleID:   "member-role-id",
			MuteRoleID:   "muted-role-id",
		},
		Levels: LevelSettings{
			Enabled:           true,
			AnnounceChannelID: "levels-channel-id",
			AnnounceMessage:   "Congratulations {user}, you reached level {level}!",
		},
		AutoMod: AutoModSettings{
			Enabled:         true,
			FilterProfanity: true,
			FilterInvites:   true,
			FilterLinks:     false,
			FilterSpam:      true,
		},
	}
}

type Command struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Category            string   `json:"category,omitempty"`
	Usage               string   `json:"usage"`
	Cooldown            int      `json:"cooldown"`
	RequiredPermissions []string `json:"required_permissions"`
	Examples            []string `json:"examples,omitempty"`
}

type CommandList struct {
	Total      int       `json:"total"`
	Categories []string  `json:"categories"`
	Commands   []Command `json:"commands"`
}

type CategoryCommands struct {
	Category string    `json:"category"`
	Total    int       `json:"total"`
	Commands []Command `json:"commands"`
}

var categories = []string{"moderation", "music", "fun", "economy", "levels", "games", "utility", "admin"}

var (
	cmdBan = Command{
		Name:                "ban",
		Description:         "Ban a user from the server",
		Category:            "moderation",
		Usage:               "ban @user [reason]",
		Cooldown:            5,
		RequiredPermissions: []string{"BAN_MEMBERS"},
	}
	cmdPlay = Command{
		Name:                "play",
		Description:         "Play a song from YouTube, Spotify, or SoundCloud",
		Category:            "music",
		Usage:               "play <song name or URL>",
		Cooldown:            3,
		RequiredPermissions: []string{},
	}
	cmdProfile = Command{
		Name:                "profile",
		Description:         "View your or someone else's profile",
		Category:            "utility",
		Usage:               "profile [@user]",
		Cooldown:            5,
		RequiredPermissions: []string{},
	}
)

func Commands() CommandList {
	return CommandList{
		Total:      400,
		Categories: slices.Clone(categories),
		Commands:   []Command{cmdBan, cmdPlay, cmdProfile},
	}
}

// byCategory entries omit the category field; it is the enclosing key.
var byCategory = map[string][]Command{
	"moderation": {
		{Name: "ban", Description: "Ban a user from the server", Usage: "ban @user [reason]", Cooldown: 5, RequiredPermissions: []string{"BAN_MEMBERS"}},
		{Name: "kick", Description: "Kick a user from the server", Usage: "kick @user [reason]", Cooldown: 5, RequiredPermissions: []string{"KICK_MEMBERS"}},
		{Name: "mute", Description: "Mute a user in the server", Usage: "mute @user [duration] [reason]", Cooldown: 5, RequiredPermissions: []string{"MANAGE_ROLES"}},
	},
	"music": {
		{Name: "play", Description: "Play a song from YouTube, Spotify, or SoundCloud", Usage: "play <song name or URL>", Cooldown: 3, RequiredPermissions: []string{}},
		{Name: "skip", Description: "Skip the current song", Usage: "skip", Cooldown: 2, RequiredPermissions: []string{}},
		{Name: "queue", Description: "View the current music queue", Usage: "queue [page]", Cooldown: 3, RequiredPermissions: []string{}},
	},
}

func Category(name string) (CategoryCommands, error) {
	cmds, ok := byCategory[name]
	if !ok {
		return CategoryCommands{}, ErrCategoryNotFound
	}
	return CategoryCommands{Category: name, Total: len(cmds), Commands: slices.Clone(cmds)}, nil
}

func CommandByName(name string) (Command, error) {
	var c Command
	switch name {
	case "ban":
		c = cmdBan
		c.Examples = []string{"ban @User breaking rules", "ban @User spamming"}
	case "play":
		c = cmdPlay
		c.Examples = []string{"play despacito", "play https://www.youtube.com/watch?v=dQw4w9WgXcQ"}
	default:
		return Command{}, ErrCommandNotFound
	}
	return c, nil
}

type Toggle struct {
	Message string `json:"message"`
	Command string `json:"command"`
	Enabled bool   `json:"enabled"`
	Scope   string `json:"scope"`
	GuildID string `json:"guild_id,omitempty"`
}

func ToggleCommand(name string, enabled bool, guildID string) Toggle {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	t := Toggle{Command: name, Enabled: enabled, Scope: "global", GuildID: guildID}
	where := "globally"
	if guildID != "" {
		t.Scope = "guild"
		where = "for guild " + guildID
	}
	t.Message = fmt.Sprintf("Command %s has been %s %s", name, state, where)
	return t
}
