package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// maxMessageLen ограничение Discord на длину сообщения
const maxMessageLen = 2000

// handleTimeout время на обработку одной команды
const handleTimeout = 15 * time.Second

// messenger часть discordgo.Session, через которую идут сообщения
type messenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

// Bot принимает команды в личных сообщениях Discord.
// ID чата пользователя - это его Discord user ID
type Bot struct {
	session *discordgo.Session
	router  *Router
	logger  Logger
}

// New создает сессию Discord. Соединение открывается в Start
func New(token string, router *Router, logger Logger) (*Bot, error) {
	if token == "" {
		return nil, errors.New("bot: empty token")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("bot: create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	b := &Bot{session: session, router: router, logger: logger}
	session.AddHandler(b.onMessage)
	return b, nil
}

// Session сессия для отправки уведомлений
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("bot: open session: %w", err)
	}
	b.logger.Info("Discord bot connected")
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// только личные сообщения от людей
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	b.dispatch(s, m.ChannelID, m.Author.ID, m.Content)
}

func (b *Bot) dispatch(s messenger, channelID, userID, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	reply := b.router.Handle(ctx, userID, content)
	if reply == "" {
		return
	}
	if err := send(ctx, s, channelID, reply); err != nil {
		b.logger.Error("bot: reply to user=%s failed: %v", userID, err)
	}
}

// Sender отправляет уведомления в личные сообщения Discord
type Sender struct {
	session messenger
}

func NewSender(session *discordgo.Session) *Sender {
	return &Sender{session: session}
}

// Send chatID - Discord user ID получателя
func (s *Sender) Send(ctx context.Context, chatID string, text string) error {
	if s.session == nil {
		return errors.New("discord session is nil")
	}
	ch, err := s.session.UserChannelCreate(chatID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	return send(ctx, s.session, ch.ID, text)
}

func send(ctx context.Context, s messenger, channelID, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if _, err := s.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx)); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage режет текст по строкам так, чтобы каждая часть влезала в limit символов
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		if curLen+len(runes) > limit {
			flush()
		}
		cur.WriteString(string(runes))
		curLen += len(runes)
	}
	flush()
	return chunks
}
