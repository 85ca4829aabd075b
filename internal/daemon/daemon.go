// Package daemon runs the long-lived s2t process: it owns the session
// controller and the transcript, watches the config file, and serves the
// control socket the CLI talks to.
package daemon

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/SidoJain/speech-to-text/internal/bus"
	"github.com/SidoJain/speech-to-text/internal/config"
	"github.com/SidoJain/speech-to-text/internal/export"
	"github.com/SidoJain/speech-to-text/internal/language"
	"github.com/SidoJain/speech-to-text/internal/notify"
	"github.com/SidoJain/speech-to-text/internal/permission"
	"github.com/SidoJain/speech-to-text/internal/recognizer"
	"github.com/SidoJain/speech-to-text/internal/session"
	"github.com/SidoJain/speech-to-text/internal/transcript"
)

// Options tune daemon construction. Demo swaps the configured provider for
// the scripted one so the whole flow can be exercised without an API key or
// a microphone. ConfigPath overrides the default config location.
type Options struct {
	Demo       bool
	ConfigPath string
}

type Daemon struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfgMgr   *config.Manager
	ctrl     *session.Controller
	notifier notify.Notifier
}

func New(opts Options) (*Daemon, error) {
	var cfgMgr *config.Manager
	var err error
	if opts.ConfigPath != "" {
		cfgMgr, err = config.NewManagerAt(opts.ConfigPath)
	} else {
		cfgMgr, err = config.NewManager()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := cfgMgr.GetConfig()
	provider := cfg.Recognizer.Provider
	if opts.Demo {
		provider = "script"
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Daemon{
		ctx:      ctx,
		cancel:   cancel,
		cfgMgr:   cfgMgr,
		notifier: notify.New(cfg.Notifications.Enabled, cfg.Notifications.Type),
	}

	var perms permission.Provider
	if provider == "script" {
		perms = permission.Static{}
	} else {
		mic := permission.NewMicrophone()
		if cfg.Recognizer.Timeout > 0 {
			mic.Timeout = cfg.Recognizer.Timeout
		}
		perms = mic
	}

	factory := func(lang language.Language) (recognizer.Recognizer, error) {
		c := d.cfgMgr.GetConfig()
		return recognizer.New(provider, recognizer.Config{
			Language:   lang.Tag,
			APIKey:     c.Recognizer.APIKey,
			Model:      c.Recognizer.Model,
			BaseURL:    c.Recognizer.BaseURL,
			SampleRate: c.Recognizer.SampleRate,
			Device:     c.Recognizer.Device,
		})
	}

	probe := func() error {
		if !recognizer.Supported(provider) {
			return fmt.Errorf("unknown recognizer provider: %s", provider)
		}
		if provider == "deepgram" {
			if d.cfgMgr.GetConfig().Recognizer.APIKey == "" {
				return fmt.Errorf("deepgram API key required: set recognizer.api_key or DEEPGRAM_API_KEY")
			}
			return recognizer.CaptureAvailable()
		}
		return nil
	}

	d.ctrl = session.New(session.Options{
		Factory:     factory,
		Permissions: perms,
		Transcript:  transcript.New(),
		Notifier:    d.notifier,
		Probe:       probe,
	})
	if err := d.ctrl.Configure(language.FromTag(cfg.Session.Language)); err != nil {
		log.Printf("daemon: initial language: %v", err)
	}

	cfgMgr.SetOnReload(func(cfg *config.Config) {
		if err := d.ctrl.Configure(language.FromTag(cfg.Session.Language)); err != nil {
			log.Printf("daemon: config reload: %v", err)
		}
	})

	return d, nil
}

func (d *Daemon) Run() error {
	if err := bus.CheckExistingDaemon(); err != nil {
		return err
	}

	ln, err := bus.Listen()
	if err != nil {
		return err
	}
	defer ln.Close()

	if err := bus.CreatePidFile(); err != nil {
		return fmt.Errorf("failed to create PID file: %w", err)
	}
	defer bus.RemovePidFile()

	if err := d.cfgMgr.StartWatching(d.ctx); err != nil {
		log.Printf("daemon: config watch disabled: %v", err)
	}
	defer d.cfgMgr.Stop()
	defer d.ctrl.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Printf("daemon: received signal %v, shutting down", sig)
		d.cancel()
	}()

	// Close the listener when context is done
	go func() {
		<-d.ctx.Done()
		ln.Close()
	}()

	log.Printf("daemon: listening on control socket")

	for {
		c, err := ln.Accept()
		if err != nil {
			if d.ctx.Err() != nil {
				log.Printf("daemon: shutdown requested")
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		go d.handle(c)
	}
}

func (d *Daemon) handle(c net.Conn) {
	defer c.Close()

	line, err := bufio.NewReader(c).ReadString('\n')
	if err != nil {
		fmt.Fprintf(c, "ERR read_error: %v\n", err)
		return
	}
	cmd, arg, err := bus.ParseRequest(line)
	if err != nil {
		fmt.Fprintf(c, "ERR %v\n", err)
		return
	}

	switch cmd {
	case bus.CmdStart:
		d.start(c)

	case bus.CmdStop:
		d.ctrl.Stop()
		fmt.Fprint(c, "OK stopping\n")

	case bus.CmdToggle:
		switch d.ctrl.State() {
		case session.Listening, session.AcquiringPermission:
			d.ctrl.Stop()
			fmt.Fprint(c, "OK stopping\n")
		default:
			d.start(c)
		}

	case bus.CmdStatus:
		d.status(c)

	case bus.CmdTranscript:
		fmt.Fprint(c, d.ctrl.Transcript().Text())

	case bus.CmdEdit:
		d.ctrl.Transcript().SetText(arg)
		fmt.Fprint(c, "OK edited\n")

	case bus.CmdClear:
		d.ctrl.Transcript().Clear()
		fmt.Fprint(c, "OK cleared\n")

	case bus.CmdCopy:
		if err := export.Clipboard(d.ctrl.Transcript().Text()); err != nil {
			fmt.Fprintf(c, "ERR copy: %v\n", err)
			return
		}
		fmt.Fprint(c, "OK copied\n")

	case bus.CmdExport:
		dir := d.cfgMgr.GetConfig().Export.Directory
		if arg != "" {
			dir = arg
		}
		path, err := export.File(dir, d.ctrl.Transcript().Text(), time.Now())
		if err != nil {
			fmt.Fprintf(c, "ERR export: %v\n", err)
			return
		}
		fmt.Fprintf(c, "OK exported path=%s\n", path)

	case bus.CmdLanguage:
		if arg == "" {
			fmt.Fprintf(c, "STATUS language=%s\n", d.ctrl.Language().Tag)
			return
		}
		if !language.IsValidTag(arg) {
			fmt.Fprintf(c, "ERR unknown language tag: %s\n", arg)
			return
		}
		if err := d.ctrl.Configure(language.FromTag(arg)); err != nil {
			fmt.Fprintf(c, "ERR language: %v\n", err)
			return
		}
		fmt.Fprintf(c, "OK language=%s\n", arg)

	case bus.CmdLanguages:
		for _, l := range language.List() {
			fmt.Fprintf(c, "%s\t%s\t%s\n", l.Tag, l.Name, l.NativeName)
		}

	case bus.CmdVersion:
		fmt.Fprintf(c, "STATUS proto=%s\n", bus.ProtoVer)

	case bus.CmdQuit:
		fmt.Fprint(c, "OK quitting\n")
		d.cancel()

	default:
		fmt.Fprintf(c, "ERR unknown=%q\n", cmd)
	}
}

func (d *Daemon) start(c net.Conn) {
	if err := d.ctrl.Start(d.ctx); err != nil {
		fmt.Fprintf(c, "ERR start: %v\n", err)
		return
	}
	fmt.Fprint(c, "OK starting\n")
}

func (d *Daemon) status(c net.Conn) {
	var b strings.Builder
	fmt.Fprintf(&b, "STATUS state=%s language=%s", d.ctrl.State(), d.ctrl.Language().Tag)
	if conf, ok := d.ctrl.Transcript().Confidence(); ok {
		fmt.Fprintf(&b, " confidence=%.2f", conf)
	}
	if serr := d.ctrl.LastError(); serr != nil {
		fmt.Fprintf(&b, " error=%q", serr.Error())
	}
	b.WriteByte('\n')
	fmt.Fprint(c, b.String())
}
