package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/mgoltzsche/ai-assistant-chat/internal/audio/device"
	"github.com/mgoltzsche/ai-assistant-chat/internal/cli"
	"github.com/mgoltzsche/ai-assistant-chat/internal/model"
	"github.com/mgoltzsche/ai-assistant-chat/internal/request"
	"github.com/mgoltzsche/ai-assistant-chat/internal/session"
	"github.com/mgoltzsche/ai-assistant-chat/internal/transport"
	"github.com/mgoltzsche/ai-assistant-chat/pkg/config"
)

const usage = `Type a message and press enter to send it. Commands:
  /audio <file>      send an audio file
  /record <duration> record audio from the microphone and send it, e.g. /record 5s
  /history           print the conversation
  /devices           list audio devices
  /quit              exit
`

func main() {
	cli.LoadDotEnv()

	var cfg config.Configuration

	err := config.AddFlags(flag.CommandLine, &cfg, "/etc/ai-assistant-chat/config.yaml")
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	flag.StringVar(&cfg.InputDevice, "input-device", cfg.InputDevice, "name or ID or the audio input device")
	flag.StringVar(&cfg.OutputDevice, "output-device", cfg.OutputDevice, "name or ID or the audio output device")
	flag.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "sample rate of recorded audio")
	flag.BoolVar(&cfg.PlayAudio, "play", cfg.PlayAudio, "play audio responses")
	flag.StringVar(&cfg.AudioDir, "audio-dir", cfg.AudioDir, "directory audio responses are written to")
	cli.ParseFlagsWithEnvVars(flag.CommandLine, "CHAT_")

	portaudio.Initialize()
	defer portaudio.Terminate()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = runChat(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

type chat struct {
	cfg        config.Configuration
	controller *session.Controller
	recorder   *device.Recorder
	player     *device.Player
	out        io.Writer
}

func runChat(ctx context.Context, cfg config.Configuration, in io.Reader, out io.Writer) error {
	client := transport.NewClient(cfg.Endpoint, time.Duration(cfg.Timeout))
	client.MaxResponseBytes = cfg.MaxResponseBytes

	c := &chat{
		cfg:        cfg,
		controller: session.NewController(client),
		recorder:   &device.Recorder{Device: cfg.InputDevice, SampleRate: cfg.SampleRate},
		player:     &device.Player{Device: cfg.OutputDevice},
		out:        out,
	}

	fmt.Fprintf(out, "Chatting as %q with %s\n%s", cfg.UserID, cfg.Endpoint, usage)

	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(out, "> ")

		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}

			quit, err := c.handle(ctx, strings.TrimSpace(line))
			if err != nil {
				fmt.Fprintf(out, "WARNING: %s\n", err)
			}

			if quit {
				return nil
			}
		}
	}
}

func (c *chat) handle(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprint(c.out, usage)
		return false, nil
	case "/history":
		for msg := range c.controller.History() {
			fmt.Fprintln(c.out, cli.FormatMessage(msg))
		}
		return false, nil
	case "/devices":
		device.PrintAvailableDevices()
		return false, nil
	case "/audio":
		if arg == "" {
			return false, fmt.Errorf("usage: /audio <file>")
		}

		b, err := os.ReadFile(arg)
		if err != nil {
			return false, fmt.Errorf("read audio file: %w", err)
		}

		return false, c.send(ctx, request.AudioInput(b))
	case "/record":
		duration, err := time.ParseDuration(arg)
		if err != nil || duration <= 0 {
			return false, fmt.Errorf("usage: /record <duration>, e.g. /record 5s")
		}

		fmt.Fprintf(c.out, "recording for %s...\n", duration)

		b, err := c.recorder.Record(ctx, duration)
		if err != nil {
			return false, fmt.Errorf("record audio: %w", err)
		}

		return false, c.send(ctx, request.AudioInput(b))
	}

	return false, c.send(ctx, request.TextInput(line))
}

func (c *chat) send(ctx context.Context, input request.Input) error {
	fmt.Fprintln(c.out, "AI is thinking...")

	turn, err := c.controller.Send(ctx, c.cfg.UserID, input)
	if err != nil {
		return err
	}

	for i, msg := range turn.Messages() {
		fmt.Fprintln(c.out, cli.FormatMessage(msg))

		if msg.Role() == model.RoleAssistant && msg.Modality() == model.ModalityAudio {
			c.presentAudio(ctx, turn.Index+i, msg)
		}
	}

	return nil
}

func (c *chat) presentAudio(ctx context.Context, index int, msg model.Message) {
	if c.cfg.AudioDir != "" {
		file, err := cli.SaveAudio(c.cfg.AudioDir, index, msg)
		if err != nil {
			slog.Warn(err.Error())
		} else {
			fmt.Fprintf(c.out, "  saved to %s\n", file)
		}
	}

	if c.cfg.PlayAudio {
		err := c.player.Play(ctx, msg.Audio())
		if err != nil {
			slog.Warn(fmt.Sprintf("play audio: %s", err))
		}
	}
}
