// Command pet-feeder drives a two-button, four-LED feeding reminder and
// publishes feeding state changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sweeney/pet-feeder/internal/clock"
	"github.com/sweeney/pet-feeder/internal/config"
	"github.com/sweeney/pet-feeder/internal/gpio"
	"github.com/sweeney/pet-feeder/internal/logic"
	"github.com/sweeney/pet-feeder/internal/metrics"
	"github.com/sweeney/pet-feeder/internal/mqtt"
	"github.com/sweeney/pet-feeder/internal/status"
	"github.com/sweeney/pet-feeder/internal/web"
)

// clientID is the MQTT client identifier.
const clientID = "pet-feeder"

func main() {
	cfg := config.Default()

	flag.IntVar(&cfg.FeedHours, "feed-hours", cfg.FeedHours, "Hours after feeding before the pet is hungry again")
	flag.IntVar(&cfg.FeedMinutes, "feed-minutes", cfg.FeedMinutes, "Extra minutes added to -feed-hours")
	flag.DurationVar(&cfg.Blink, "blink", cfg.Blink, "Full blink period of the hungry LED")
	flag.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "Button debounce interval")
	flag.DurationVar(&cfg.Poll, "poll", cfg.Poll, "Polling interval")
	flag.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "Heartbeat interval (0 to disable)")
	flag.IntVar(&cfg.TickBits, "tick-bits", cfg.TickBits, "Width of the millisecond counter in bits")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "Panel backend: cdev, rpio or term")
	flag.StringVar(&cfg.Chip, "chip", cfg.Chip, "GPIO chip for the cdev backend")
	flag.IntVar(&cfg.Pins.AMFed, "pin-am-fed", cfg.Pins.AMFed, "BCM pin for the AM fed LED")
	flag.IntVar(&cfg.Pins.AMHungry, "pin-am-hungry", cfg.Pins.AMHungry, "BCM pin for the AM hungry LED")
	flag.IntVar(&cfg.Pins.PMFed, "pin-pm-fed", cfg.Pins.PMFed, "BCM pin for the PM fed LED")
	flag.IntVar(&cfg.Pins.PMHungry, "pin-pm-hungry", cfg.Pins.PMHungry, "BCM pin for the PM hungry LED")
	flag.IntVar(&cfg.Pins.AMButton, "pin-am-button", cfg.Pins.AMButton, "BCM pin for the AM fed button")
	flag.IntVar(&cfg.Pins.PMButton, "pin-pm-button", cfg.Pins.PMButton, "BCM pin for the PM fed button")
	flag.StringVar(&cfg.Broker, "broker", cfg.Broker, "MQTT broker address (empty to disable)")
	flag.StringVar(&cfg.HTTP, "http", cfg.HTTP, "HTTP status address (empty to disable)")
	flag.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Env file with network state (empty to skip)")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Log elapsed time every second")
	printState := flag.Bool("print-state", false, "Print current button levels and exit")

	flag.Parse()

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config, printState bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.LoadEnvFile(cfg.EnvFile); err != nil {
		log.Printf("warning: %v", err)
	}

	panel, quit, err := openPanel(cfg)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer panel.Close()

	// Print state mode
	if printState {
		am, pm, err := panel.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("AM: %s (%s), PM: %s (%s)\n", am, pressedString(am), pm, pressedString(pm))
		return nil
	}

	// Initialize MQTT
	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	}
	if cfg.Broker == "" {
		publisher = mqtt.NopPublisher{}
	} else {
		publisher = mqtt.NewRealPublisher(cfg.Broker, clientID)
	}
	defer publisher.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(uuid.NewString(), time.Now(), statusConfig(cfg))
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event (boot %s)", snap.BootID)
	}

	// Start HTTP status server
	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker, reg)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	log.Printf("started: backend=%s feed=%dh%02dm blink=%v debounce=%v poll=%v broker=%q heartbeat=%v",
		cfg.Backend, cfg.FeedHours, cfg.FeedMinutes, cfg.Blink, cfg.Debounce, cfg.Poll, cfg.Broker, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	if quit != nil {
		go func() {
			<-quit
			sigCh <- syscall.SIGINT
		}()
	}

	lc := loopConfig{
		Settings:  cfg.Settings(),
		Heartbeat: cfg.Heartbeat,
		Verbose:   cfg.Verbose,
	}
	clk := clock.NewWrapping(cfg.TickMax(), time.Now)
	return runLoop(panel, publisher, publisher, tracker, m, lc, clk, time.Now, ticker.C, sigCh)
}

// openPanel opens the configured backend. The returned channel is closed
// when the user quits the terminal panel; it is nil for hardware backends.
func openPanel(cfg config.Config) (gpio.Panel, <-chan struct{}, error) {
	switch cfg.Backend {
	case config.BackendRpio:
		p, err := gpio.NewRpioPanel(cfg.Pins)
		return p, nil, err
	case config.BackendTerm:
		// The screen owns the terminal, so logs go to a file.
		logPath := filepath.Join(os.TempDir(), "pet-feeder.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "logging to %s\n", logPath)
		log.SetOutput(f)

		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, nil, fmt.Errorf("open terminal: %w", err)
		}
		p, err := gpio.NewTermPanel(screen, time.Now, gpio.DefaultKeyHold)
		if err != nil {
			return nil, nil, fmt.Errorf("init terminal: %w", err)
		}
		return p, p.Done(), nil
	default:
		p, err := gpio.NewRealPanel(cfg.Chip, cfg.Pins)
		return p, nil, err
	}
}

// loopConfig holds the runLoop parameters that come from flags.
type loopConfig struct {
	Settings  logic.Settings
	Heartbeat time.Duration
	Verbose   bool
}

func runLoop(panel gpio.Panel, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, m *metrics.Metrics, lc loopConfig, clk clock.Source, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	device := logic.NewDevice(lc.Settings, clk.Millis(), now())

	// Startup indication: AM hungry lit before the first poll.
	writeIndicators(panel, m, device.Indicators())
	m.ObserveState(device.State(), device.Elapsed())

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			reason := signalName(s)
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    reason,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				tracker.Update(device)
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			am, pm, err := panel.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				m.GPIOErrors.WithLabelValues("read").Inc()
				continue
			}

			out := device.Process(logic.Input{
				AM:   am,
				PM:   pm,
				Tick: clk.Millis(),
				Time: t,
			})

			for _, event := range out.Events {
				log.Printf("event: %s %s -> %s (period=%s satiety=%s elapsed=%s)",
					event.Trigger, event.From, event.To, event.To.Period(), event.To.Satiety(), event.Elapsed)
				m.ObserveEvent(event)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					m.PublishErrors.Inc()
					// Don't crash on publish failure
				}
			}

			if out.Render {
				writeIndicators(panel, m, out.Indicators)
			}

			if out.Ticked && lc.Verbose {
				log.Printf("time: %s", device.Elapsed())
			}

			if out.Ticked || len(out.Events) > 0 {
				m.ObserveState(device.State(), device.Elapsed())
			}

			// Check for heartbeat
			if hb := device.CheckHeartbeat(t, lc.Heartbeat); hb != nil {
				log.Printf("heartbeat: uptime=%v state=%s elapsed=%s fed_am=%d fed_pm=%d timeouts=%d",
					hb.Uptime, hb.State, hb.Elapsed, hb.Counts.FedAM, hb.Counts.FedPM, hb.Counts.Timeouts)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hb.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.Update(device)
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
					m.PublishErrors.Inc()
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil && (out.Render || out.Ticked) {
				tracker.Update(device)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

func writeIndicators(panel gpio.Writer, m *metrics.Metrics, ind logic.Indicators) {
	if err := panel.Write(ind); err != nil {
		log.Printf("gpio write error: %v", err)
		m.GPIOErrors.WithLabelValues("write").Inc()
		return
	}
	m.ObserveIndicators(ind)
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func statusConfig(cfg config.Config) status.Config {
	return status.Config{
		FeedHours:   cfg.FeedHours,
		FeedMinutes: cfg.FeedMinutes,
		BlinkMs:     cfg.Blink.Milliseconds(),
		PollMs:      cfg.Poll.Milliseconds(),
		DebounceMs:  cfg.Debounce.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Backend:     cfg.Backend,
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTP,
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func pressedString(l logic.Level) string {
	if l == logic.Low {
		return "pressed"
	}
	return "released"
}
