package main

import (
	"context"
	"log"

	"github.com/adirkandabi/LinkSpark/internal/api"
	"github.com/adirkandabi/LinkSpark/internal/auth"
	"github.com/adirkandabi/LinkSpark/internal/chat"
	"github.com/adirkandabi/LinkSpark/internal/config"
	"github.com/adirkandabi/LinkSpark/internal/models"
	"github.com/adirkandabi/LinkSpark/internal/socket"
	"github.com/adirkandabi/LinkSpark/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	config.LoadConfig(".env")
	if config.Cfg == nil {
		log.Fatal("Error: Configuration not loaded.")
	}
	if config.Cfg.Username == "" || config.Cfg.Password == "" {
		log.Fatal("LINKSPARK_USER and LINKSPARK_PASSWORD must be set.")
	}

	log.Println("LinkSpark Messenger Starting...")
	ctx := context.Background()

	client := api.NewClient(config.Cfg.APIBaseURL, config.Cfg.RequestTimeout)

	loginCtx, cancel := context.WithTimeout(ctx, config.Cfg.RequestTimeout)
	session, err := client.Login(loginCtx, models.LoginRequest{
		Username: config.Cfg.Username,
		Password: config.Cfg.Password,
	})
	cancel()
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	client.SetToken(session.Token)

	claims, err := auth.ParseToken(session.Token)
	if err != nil {
		log.Fatalf("Session token rejected: %v", err)
	}
	selfID := claims.UserID
	log.Printf("Logged in as %s", selfID)

	dialCtx, cancel := context.WithTimeout(ctx, config.Cfg.RequestTimeout)
	conn, err := socket.Dial(dialCtx, config.Cfg.SocketURL, session.Token)
	cancel()
	if err != nil {
		log.Fatalf("Unable to connect to messaging server: %v", err)
	}
	defer conn.Close()

	unread := chat.NewUnreadStore(func(ctx context.Context) ([]models.UnreadEntry, error) {
		return client.UnreadSummary(ctx, selfID)
	})
	detachUnread := unread.Bind(conn)
	defer detachUnread()

	refreshCtx, cancel := context.WithTimeout(ctx, config.Cfg.RequestTimeout)
	if err := unread.Refresh(refreshCtx); err != nil {
		// Degraded start: badges appear after the first push-triggered refetch.
		log.Printf("Warning: Initial unread fetch failed: %v", err)
	}
	cancel()

	friendsCtx, cancel := context.WithTimeout(ctx, config.Cfg.RequestTimeout)
	friends, err := client.Friends(friendsCtx, selfID)
	cancel()
	if err != nil {
		log.Printf("Warning: Friend list fetch failed: %v", err)
	}

	chatSession, err := chat.NewSession(conn, client, unread, selfID)
	if err != nil {
		log.Fatalf("Unable to create chat session: %v", err)
	}
	defer chatSession.Close()

	program := tea.NewProgram(tui.New(chatSession, unread, friends, selfID), tea.WithAltScreen())

	chatSession.OnUpdate = func() {
		program.Send(tui.SessionUpdated{})
	}
	unreadCh, cancelSub := unread.Subscribe()
	defer cancelSub()
	go func() {
		for {
			select {
			case <-unreadCh:
				program.Send(tui.UnreadUpdated{})
			case <-conn.Done():
				return
			}
		}
	}()

	if _, err := program.Run(); err != nil {
		log.Fatalf("Messenger exited with error: %v", err)
	}
	log.Println("Messenger exiting")
}
