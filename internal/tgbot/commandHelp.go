package tgbot

import (
	"context"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type HelpCommand struct {
	commands map[string]Command
}

func (c *HelpCommand) Run(ctx context.Context, chat *Chat, args string) (string, error) {
	role, err := chat.Role(ctx)
	if err != nil {
		return "", err
	}
	args = strings.TrimPrefix(args, "/")
	if command, ok := c.commands[args]; ok && command.Visibility().Contains(role) {
		return command.Help(), nil
	}
	names := make([]string, 0, len(c.commands))
	for name, command := range c.commands {
		if name == "start" || !command.Visibility().Contains(role) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Comandos disponibles:\n")
	for _, name := range names {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("\n")
	}
	b.WriteString("Ayuda de un comando: /help <comando>")
	return b.String(), nil
}

func (c *HelpCommand) Help() string {
	return "Lista los comandos disponibles"
}

func (c *HelpCommand) Permission() mapset.Set[Role] {
	return roles(everyone)
}

func (c *HelpCommand) Visibility() mapset.Set[Role] {
	return roles(everyone)
}
