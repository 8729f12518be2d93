package domain

import (
	"regexp"
	"strings"
)

// CommandKind тип команды, распознанной в тексте сообщения
type CommandKind string

const (
	CommandStart  CommandKind = "start"
	CommandStatus CommandKind = "status"
	CommandAsk    CommandKind = "ask"
	CommandText   CommandKind = "text"
)

// askPrefix срезает ведущий "/ask" или одиночный "/" вместе с пробелами после него
var askPrefix = regexp.MustCompile(`^/(ask)?\s*`)

// Command результат классификации входящего текста
type Command struct {
	Kind     CommandKind
	Argument string // Текст, который уйдёт в модель (для ask и text)
}

// ParseCommand классифицирует текст сообщения
// Сопоставление по префиксу: "/startx" считается "/start"
// Любая другая команда со слэшем трактуется как вопрос к модели
func ParseCommand(text string) Command {
	switch {
	case strings.HasPrefix(text, "/start"), strings.HasPrefix(text, "/help"):
		return Command{Kind: CommandStart}
	case strings.HasPrefix(text, "/status"):
		return Command{Kind: CommandStatus}
	case strings.HasPrefix(text, "/"):
		return Command{Kind: CommandAsk, Argument: askPrefix.ReplaceAllString(text, "")}
	default:
		return Command{Kind: CommandText, Argument: text}
	}
}

// Prompt возвращает запрос к модели или пустую строку, если отправлять нечего
func (c Command) Prompt() string {
	switch c.Kind {
	case CommandAsk, CommandText:
		if strings.TrimSpace(c.Argument) == "" {
			return ""
		}
		return c.Argument
	default:
		return ""
	}
}
