// Command console is the operator's voice console: it dials the AI
// receptionist through LiveKit and drives the call from stdin commands.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/glowdesk/voice-console/internal/config"
	"github.com/glowdesk/voice-console/internal/domain/call"
	"github.com/glowdesk/voice-console/internal/infrastructure/livekit"
	"github.com/glowdesk/voice-console/internal/infrastructure/logger"
	"github.com/glowdesk/voice-console/internal/infrastructure/tokenclient"
)

func main() {
	loadEnvFiles()

	cfg, err := config.LoadConsole()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokens := tokenclient.New(cfg.BackendURL, log)
	sinks := livekit.NewOggSinkFactory(cfg.AudioOutDir)
	dialer := livekit.NewDialer(cfg.LiveKitWsURL, cfg.MicSource, sinks, log)

	callbacks := call.Callbacks{
		OnConnectionChange: func(connected bool) {
			if connected {
				fmt.Println("* call connected")
			} else {
				fmt.Println("* call ended")
			}
		},
		OnVoiceDetected: func(active bool) {
			if active {
				fmt.Println("* voice activity")
			}
		},
	}

	controller := call.NewController(tokens, dialer, callbacks, call.Options{
		RoomPrefix:     cfg.RoomPrefix,
		ConnectTimeout: cfg.ConnectTimeout,
	}, log)
	// Whatever ends the program, the session must not outlive it.
	defer controller.Disconnect()

	fmt.Println("voice console ready. commands: call, mute, hangup, transcript, state, quit")
	runLoop(ctx, controller)
}

func runLoop(ctx context.Context, controller *call.Controller) {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if quit := runCommand(ctx, controller, line); quit {
				return
			}
		}
	}
}

func runCommand(ctx context.Context, controller *call.Controller, line string) (quit bool) {
	switch line {
	case "":
	case "call":
		if err := controller.Connect(ctx); err != nil {
			if errors.Is(err, call.ErrCallActive) {
				fmt.Println("a call is already in progress")
			} else {
				fmt.Printf("call failed: %v\n", err)
			}
		}
		printTranscript(controller)

	case "mute":
		if err := controller.ToggleMute(); err != nil {
			if errors.Is(err, call.ErrNotConnected) {
				fmt.Println("not connected")
			} else {
				fmt.Printf("mute failed: %v\n", err)
			}
			break
		}
		if controller.Muted() {
			fmt.Println("microphone muted")
		} else {
			fmt.Println("microphone unmuted")
		}

	case "hangup":
		controller.Disconnect()

	case "transcript":
		printTranscript(controller)

	case "state":
		fmt.Printf("state: %s, muted: %v\n", controller.State(), controller.Muted())

	case "quit", "exit":
		return true

	default:
		fmt.Printf("unknown command %q\n", line)
	}
	return false
}

func printTranscript(controller *call.Controller) {
	entries := controller.Transcript()
	if len(entries) == 0 {
		fmt.Println("(transcript empty)")
		return
	}
	for _, e := range entries {
		fmt.Println(e.Text)
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
