// chatctl is a terminal client for the plv chat service: login, join a chat
// room, exchange messages, and watch presence and typing indicators.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Selva2621/plv/internal/api"
	"github.com/Selva2621/plv/internal/config"
	"github.com/Selva2621/plv/internal/event"
	"github.com/Selva2621/plv/internal/gateway"
	"github.com/Selva2621/plv/internal/model"
	"github.com/Selva2621/plv/internal/token"
	"github.com/Selva2621/plv/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/chatctl.yaml", "path to config file")
	loginEmail := flag.String("login", "", "log in with this email before connecting")
	recipient := flag.String("recipient", "", "user id to chat with")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// .env is optional; explicit environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting chatctl",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	store := token.NewFileStore(cfg.Auth.TokenPath)

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, cfg.API.RetryBackoff),
	)

	if *loginEmail != "" {
		if err := login(ctx, apiClient, store, *loginEmail); err != nil {
			logger.Error("login failed", "error", err)
			os.Exit(1)
		}
	}

	registry := event.NewRegistry(logger)
	manager := gateway.NewManager(gateway.Config{
		URL:               cfg.Gateway.URL,
		HandshakeTimeout:  cfg.Gateway.HandshakeTimeout,
		WriteTimeout:      cfg.Gateway.WriteTimeout,
		PingInterval:      cfg.Gateway.PingInterval,
		ReconnectAttempts: cfg.Gateway.ReconnectAttempts,
		ReconnectDelay:    cfg.Gateway.ReconnectDelay,
		TokenRetries:      cfg.Auth.TokenRetries,
		TokenRetryDelay:   cfg.Auth.TokenRetryDelay,
		TypingExpiry:      cfg.Typing.Expiry,
		BufferSize:        256,
	}, store, registry, logger)

	subscribe(registry)

	if err := manager.Connect(ctx, ""); err != nil {
		logger.Error("failed to connect to gateway", "error", err)
		os.Exit(1)
	}
	defer manager.Disconnect()

	if *recipient != "" {
		if err := manager.JoinRoom(*recipient); err != nil {
			logger.Warn("failed to join room", "recipient", *recipient, "error", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return inputLoop(ctx, manager, *recipient)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		logger.Error("chatctl exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
}

// login authenticates, persists the token, and leaves the API client ready.
func login(ctx context.Context, client *api.Client, store token.Store, email string) error {
	fmt.Fprint(os.Stderr, "password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	resp, err := client.Login(ctx, email, strings.TrimSpace(password))
	if err != nil {
		return err
	}

	if err := store.Set(ctx, token.AuthTokenKey, resp.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	fmt.Printf("logged in as %s\n", resp.User.FullName)
	return nil
}

// subscribe registers terminal render listeners for the gateway events.
func subscribe(registry *event.Registry) {
	registry.On(event.NewMessage, func(data any) {
		msg, ok := data.(model.Message)
		if !ok {
			return
		}
		fmt.Printf("[%s] %s: %s\n", msg.CreatedAt.Format("15:04"), msg.Sender.FullName, msg.Content)
	})

	registry.On(event.UserTyping, func(data any) {
		ev, ok := data.(model.TypingEvent)
		if !ok {
			return
		}
		if ev.IsTyping {
			fmt.Printf("%s is typing...\n", ev.UserID)
		}
	})

	registry.On(event.UserOnline, func(data any) {
		if u, ok := data.(model.ActiveUser); ok {
			fmt.Printf("* %s is online\n", u.UserID)
		}
	})

	registry.On(event.UserOffline, func(data any) {
		if u, ok := data.(model.ActiveUser); ok {
			fmt.Printf("* %s went offline\n", u.UserID)
		}
	})

	registry.On(event.Disconnected, func(data any) {
		fmt.Printf("! disconnected: %v\n", data)
	})

	registry.On(event.Error, func(data any) {
		fmt.Printf("! gateway error: %v\n", data)
	})
}

// inputLoop reads stdin lines: /commands or plain messages to the recipient.
// The raw read runs in its own goroutine so a signal can end the loop even
// while Scan is blocked.
func inputLoop(ctx context.Context, manager *gateway.Manager, recipient string) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-lines:
			if !ok {
				return io.EOF
			}
			line = strings.TrimSpace(text)
		}

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := command(manager, line); quit {
				return nil
			}
			continue
		}

		if recipient == "" {
			fmt.Println("no recipient set; start with -recipient or use /join <user-id>")
			continue
		}

		if err := manager.SendMessage(recipient, line, model.MessageText); err != nil {
			fmt.Printf("! send failed: %v\n", err)
		}
	}
}

// command handles one /slash command, returning true on /quit.
func command(manager *gateway.Manager, line string) bool {
	fields := strings.Fields(line)
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	var err error
	switch fields[0] {
	case "/quit":
		return true
	case "/join":
		err = manager.JoinRoom(arg(1))
	case "/leave":
		err = manager.LeaveRoom(arg(1))
	case "/invite":
		err = manager.SendChatInvitation(arg(1), strings.Join(fields[2:], " "))
	case "/accept", "/reject":
		var id uuid.UUID
		if id, err = uuid.Parse(arg(1)); err == nil {
			if fields[0] == "/accept" {
				err = manager.AcceptChatInvitation(id)
			} else {
				err = manager.RejectChatInvitation(id)
			}
		}
	case "/users":
		if err = manager.RequestActiveUsers(); err == nil {
			for _, u := range manager.ActiveUsers() {
				fmt.Printf("* %s (since %s)\n", u.UserID, u.ConnectedAt.Format("15:04"))
			}
		}
	case "/status":
		status := manager.Status()
		fmt.Printf("state=%s connected=%t user=%s reconnects=%d\n",
			status.State, status.Connected, status.UserID, status.ReconnectAttempts)
	default:
		fmt.Printf("unknown command %s\n", fields[0])
	}

	if err != nil {
		fmt.Printf("! %s failed: %v\n", fields[0], err)
	}
	return false
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
