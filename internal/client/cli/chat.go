package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/launchpad/internal/client/models"
	"github.com/dmitrijs2005/launchpad/internal/client/services"
)

// Chat opens the conversation with a connected user and prints its history.
func (a *App) Chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("chat <user-id> [conversation-id]")
	}
	convID := ""
	if len(args) > 1 {
		convID = args[1]
	}
	cs, err := a.chat.Open(ctx, args[0], convID)
	if err != nil {
		return err
	}
	a.current = cs
	printf("Conversation %s opened.", cs.ID())
	a.printMessages(cs.Messages())
	return nil
}

// Send posts a message to the open conversation. Without arguments the text
// is asked for. A failed send keeps the draft for the next attempt.
func (a *App) Send(ctx context.Context, args []string) error {
	cs := a.current
	if cs == nil {
		return services.ErrNoChat
	}
	if len(args) > 0 {
		cs.SetDraft(joinArgs(args))
	} else if cs.Draft() == "" {
		text, err := getSimpleText(a.reader, "Message", a.out)
		if err != nil {
			return err
		}
		cs.SetDraft(text)
	}
	m, err := cs.Send(ctx)
	if err != nil {
		if cs.Draft() != "" {
			printlnFn("Draft kept. Type 'send' to retry.")
		}
		return err
	}
	a.printMessages([]models.Message{*m})
	return nil
}

// Poll fetches messages that arrived since the last load.
func (a *App) Poll(ctx context.Context) error {
	cs := a.current
	if cs == nil {
		return services.ErrNoChat
	}
	fresh, err := cs.Poll(ctx)
	if err != nil {
		return err
	}
	if len(fresh) == 0 {
		printlnFn("No new messages.")
		return nil
	}
	a.printMessages(fresh)
	return nil
}

// History prints the whole open conversation.
func (a *App) History(ctx context.Context) error {
	cs := a.current
	if cs == nil {
		return services.ErrNoChat
	}
	a.printMessages(cs.Messages())
	return nil
}

func (a *App) printMessages(msgs []models.Message) {
	cs := a.current
	names := cs.Conversation().ParticipantNames
	for _, m := range msgs {
		who := names[m.SenderID]
		if cs.IsMine(m) {
			who = "you"
		} else if who == "" {
			who = shortID(m.SenderID)
		}
		printf("[%s] %s: %s", m.Timestamp.Local().Format("15:04"), who, m.Content)
	}
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
