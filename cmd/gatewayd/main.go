// Command gatewayd runs the energy-meter gateway: it reads a meter's
// wire protocol off a serial port, decodes and signs readings, uplinks
// them to a backend, exposes a local HTTP API and a BLE-style
// provisioning channel, and supervises Wi-Fi and firmware-update state.
// One process supervises a goroutine per task in place of a
// microcontroller's fixed RTOS task set.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/srcful/zap-gateway/pkg/backendapi"
	"github.com/srcful/zap-gateway/pkg/credentials"
	"github.com/srcful/zap-gateway/pkg/flasher"
	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/ingest"
	"github.com/srcful/zap-gateway/pkg/localserver"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
	"github.com/srcful/zap-gateway/pkg/meterserial"
	"github.com/srcful/zap-gateway/pkg/modbus"
	"github.com/srcful/zap-gateway/pkg/ota"
	"github.com/srcful/zap-gateway/pkg/provisioning"
	"github.com/srcful/zap-gateway/pkg/radio"
	"github.com/srcful/zap-gateway/pkg/reqhandler"
	"github.com/srcful/zap-gateway/pkg/routes"
	"github.com/srcful/zap-gateway/pkg/scheduler"
	"github.com/srcful/zap-gateway/pkg/signer"
	"github.com/srcful/zap-gateway/pkg/subscription"
	"github.com/srcful/zap-gateway/pkg/supervisor"
	"github.com/srcful/zap-gateway/pkg/uplink"
	"github.com/srcful/zap-gateway/pkg/version"
	"github.com/srcful/zap-gateway/pkg/wifisup"
)

var tag = gwlog.NewTag("gatewayd", gwlog.LevelInfo)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "gatewayd",
		Short: "Run the energy-meter gateway daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "", "path to a YAML config file")
	flags.String("serial-device", "/dev/ttyUSB0", "meter serial device path")
	flags.Int("serial-baud", 115200, "meter serial baud rate (0 leaves the line as configured)")
	flags.String("device-id", "", "this gateway's device/meter serial number")
	flags.String("key-file", "/etc/gatewayd/device.key", "path to the 64-hex-character ECDSA private key")
	flags.String("data-endpoint", "", "backend data-ingest URL")
	flags.String("subscription-url", "", "backend GraphQL subscription URL (wss://...)")
	flags.String("graphql-endpoint", "", "backend GraphQL HTTP endpoint")
	flags.String("ota-base-url", "", "backend firmware-metadata base URL")
	flags.Bool("insecure-skip-verify", false, "accept self-signed backend certificates")
	flags.String("local-addr", ":8080", "local HTTP API listen address")
	flags.String("provisioning-addr", "127.0.0.1:7878", "local provisioning transport listen address")
	flags.String("credentials-path", "/var/lib/gatewayd/credentials.json", "Wi-Fi credentials store path")
	flags.String("scheduler-state-path", "/var/lib/gatewayd/scheduler.cbor", "scheduled-action persistence path")
	flags.String("ota-image-path", "/var/lib/gatewayd/firmware.bin", "path to stage downloaded firmware images")
	flags.Duration("ota-poll-interval", time.Hour, "interval between firmware-update checks")
	flags.String("wifi-interface", "wlan0", "network interface nmcli manages")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("audit-log-path", "", "optional CBOR audit log path")

	_ = v.BindPFlags(flags)
	v.SetEnvPrefix("GATEWAYD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return cmd
}

// appConfig is the resolved configuration, populated from flag defaults,
// a YAML file, GATEWAYD_* environment variables and explicitly set
// flags, in that increasing order of precedence.
type appConfig struct {
	SerialDevice       string
	SerialBaud         int
	DeviceID           string
	KeyFile            string
	DataEndpoint       string
	SubscriptionURL    string
	GraphQLEndpoint    string
	OTABaseURL         string
	InsecureSkipVerify bool
	LocalAddr          string
	ProvisioningAddr   string
	CredentialsPath    string
	SchedulerStatePath string
	OTAImagePath       string
	OTAPollInterval    time.Duration
	WifiInterface      string
	LogLevel           string
	AuditLogPath       string
}

func loadConfig(v *viper.Viper) (appConfig, error) {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return appConfig{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := appConfig{
		SerialDevice:       v.GetString("serial-device"),
		SerialBaud:         v.GetInt("serial-baud"),
		DeviceID:           v.GetString("device-id"),
		KeyFile:            v.GetString("key-file"),
		DataEndpoint:       v.GetString("data-endpoint"),
		SubscriptionURL:    v.GetString("subscription-url"),
		GraphQLEndpoint:    v.GetString("graphql-endpoint"),
		OTABaseURL:         v.GetString("ota-base-url"),
		InsecureSkipVerify: v.GetBool("insecure-skip-verify"),
		LocalAddr:          v.GetString("local-addr"),
		ProvisioningAddr:   v.GetString("provisioning-addr"),
		CredentialsPath:    v.GetString("credentials-path"),
		SchedulerStatePath: v.GetString("scheduler-state-path"),
		OTAImagePath:       v.GetString("ota-image-path"),
		OTAPollInterval:    v.GetDuration("ota-poll-interval"),
		WifiInterface:      v.GetString("wifi-interface"),
		LogLevel:           v.GetString("log-level"),
		AuditLogPath:       v.GetString("audit-log-path"),
	}

	if cfg.DeviceID == "" {
		return cfg, fmt.Errorf("device-id is required")
	}
	return cfg, nil
}

func run(v *viper.Viper) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	gwlog.SetLevel(gwlog.ParseLevel(cfg.LogLevel))
	if cfg.AuditLogPath != "" {
		auditLogger, err := gwlog.NewFileLogger(cfg.AuditLogPath)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer auditLogger.Close()
		gwlog.SetAuditLogger(auditLogger)
	}

	keyBytes, err := os.ReadFile(cfg.KeyFile)
	if err != nil {
		return fmt.Errorf("read key file: %w", err)
	}
	sign, err := signer.New(strings.TrimSpace(string(keyBytes)))
	if err != nil {
		return fmt.Errorf("load signing key: %w", err)
	}

	if err := meterserial.ConfigureLine(cfg.SerialDevice, cfg.SerialBaud); err != nil {
		gwlog.Warnf(tag, "failed to configure serial line %s: %v", cfg.SerialDevice, err)
	}
	port, err := meterserial.OpenDevice(cfg.SerialDevice)
	if err != nil {
		return fmt.Errorf("open meter serial device: %w", err)
	}
	defer port.Close()

	buf := meterbuf.New(4096)
	detector := framedetect.New([]framedetect.DelimiterPair{
		{Start: '/', End: '!', Type: framedetect.FrameTypeASCII},
		{Start: 0x7E, End: 0x7E, Type: framedetect.FrameTypeHDLC},
		{Start: 0x68, End: 0x16, Type: framedetect.FrameTypeMBus},
	}, framedetect.DefaultInterFrameTimeout)
	ingestTask := ingest.New(port, buf, detector)

	credStore := credentials.NewStore(cfg.CredentialsPath)
	sched := scheduler.New()

	backendClient := backendapi.New(backendapi.Config{Endpoint: cfg.GraphQLEndpoint})

	uplinkTask := uplink.New(sign, uplink.Config{
		Endpoint:     cfg.DataEndpoint,
		SerialNumber: cfg.DeviceID,
	}, ingestTask.Readings())

	nmcliRadio := wifisup.NewNmcliRadio(cfg.WifiInterface)
	wifiMgr := wifisup.New(wifisup.Config{
		Radio:       nmcliRadio,
		Credentials: credStore,
		MDNS: wifisup.MDNSConfig{
			Hostname:    cfg.DeviceID,
			ServiceType: "_zapgw._tcp",
			Port:        localAddrPort(cfg.LocalAddr),
		},
	})

	var otaMgr *ota.Manager
	checker := ota.NewChecker(ota.CheckerConfig{
		BaseURL:  cfg.OTABaseURL,
		DeviceID: cfg.DeviceID,
		Current:  version.Current,
	}, func(req ota.UpdateRequest) error { return otaMgr.Enqueue(req) })
	otaMgr = ota.NewManager(flasher.NewFileFlasher(cfg.OTAImagePath), nil, sched, checker.Poll)

	modbusClient := modbus.NewClient()
	publicKeyHex := sign.PublicKeyHex()

	table := routes.NewTable(
		routes.Route{Verb: "POST", Path: routes.WifiConfigPath, Handler: routes.NewWifiConfigHandler(wifiMgr, credStore)},
		routes.Route{Verb: "DELETE", Path: routes.WifiResetPath, Handler: routes.NewWifiResetHandler(credStore, sched)},
		routes.Route{Verb: "GET", Path: routes.WifiStatusPath, Handler: routes.NewWifiStatusHandler(wifiMgr)},
		routes.Route{Verb: "POST", Path: routes.WifiScanPath, Handler: routes.NewWifiScanHandler(wifiMgr)},
		routes.Route{Verb: "GET", Path: routes.SystemInfoPath, Handler: routes.NewSystemInfoHandler(routes.SystemInfoConfig{
			DeviceID:        cfg.DeviceID,
			PublicKeyHex:    publicKeyHex,
			FirmwareVersion: version.Current.String(),
			StartedAt:       time.Now(),
			Wifi:            wifiMgr,
		})},
		routes.Route{Verb: "POST", Path: routes.SystemRebootPath, Handler: routes.NewSystemRebootHandler(sched)},
		routes.Route{Verb: "GET", Path: routes.DebugPath, Handler: routes.NewDebugHandler(supervisor.DebugProvider{Scheduler: sched, Detector: detector})},
		routes.Route{Verb: "GET", Path: routes.CryptoInfoPath, Handler: routes.NewCryptoInfoHandler(cfg.DeviceID, publicKeyHex)},
		routes.Route{Verb: "POST", Path: routes.CryptoSignPath, Handler: routes.NewCryptoSignHandler(sign, cfg.DeviceID)},
		routes.Route{Verb: "GET", Path: routes.NameInfoPath, Handler: routes.NewNameInfoHandler(backendClient, cfg.DeviceID)},
		routes.Route{Verb: "POST", Path: routes.BLEStopPath, Handler: routes.NewBLEStopHandler(sched)},
		routes.Route{Verb: "POST", Path: routes.EchoPath, Handler: routes.NewEchoHandler()},
		routes.Route{Verb: "POST", Path: routes.OTAUpdatePath, Handler: routes.NewOTAUpdateHandler(otaMgr)},
		routes.Route{Verb: "GET", Path: routes.OTAStatusPath, Handler: routes.NewOTAStatusHandler(otaMgr)},
		routes.Route{Verb: "GET", Path: routes.P1DataPath, Handler: routes.NewP1DataHandler(supervisor.NewLastReadingProvider(ingestTask))},
		routes.Route{Verb: "POST", Path: routes.ModbusTCPPath, Handler: routes.NewModbusHandler(modbusClient)},
	)

	reqHandler := reqhandler.New(table, backendClient, sign, cfg.DeviceID)
	subClient := subscription.New(subscription.Config{
		URL:                cfg.SubscriptionURL,
		SerialNumber:       cfg.DeviceID,
		Signer:             sign,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		OnRequest: func(data json.RawMessage) {
			reqHandler.HandleConfigData(context.Background(), data)
		},
		OnSettings: func(data json.RawMessage) {
			gwlog.Debugf(tag, "settings update received: %s", data)
		},
	})

	localSrv := localserver.New(localserver.Config{
		Addr:         cfg.LocalAddr,
		Table:        table,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	provTransport, err := radio.NewTCPLoopback(cfg.ProvisioningAddr)
	if err != nil {
		return fmt.Errorf("start provisioning transport: %w", err)
	}
	provSvc := provisioning.New(provTransport, table)

	sup := supervisor.New(supervisor.Config{
		Ingest:       ingestTask,
		Uplink:       uplinkTask,
		Subscription: subClient,
		LocalServer:  localSrv,
		Provisioning: provSvc,
		Wifi:         wifiMgr,
		OTAManager:   otaMgr,
		OTAChecker:   checker,
		OTAPoll:      cfg.OTAPollInterval,
		Scheduler:    sched,
		StatePath:    cfg.SchedulerStatePath,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		gwlog.Infof(tag, "received signal %v, shutting down", sig)
		cancel()
	}()

	if err := wifiMgr.AutoConnect(ctx); err != nil {
		gwlog.Warnf(tag, "auto-connect failed: %v", err)
	}

	gwlog.Infof(tag, "gatewayd %s starting, device=%s", version.Current, cfg.DeviceID)
	if err := sup.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	gwlog.Infof(tag, "gatewayd stopped")
	return nil
}

// localAddrPort extracts the numeric port from a ":8080"-style address,
// for the service port the mDNS registration advertises.
func localAddrPort(addr string) int {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return 0
	}
	port := 0
	for _, c := range addr[idx+1:] {
		if c < '0' || c > '9' {
			return 0
		}
		port = port*10 + int(c-'0')
	}
	return port
}
