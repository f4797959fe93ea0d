//go:build linux

// Command phydump inspects an Ethernet PHY reachable through a kernel
// network device: it dumps the 32-register management space and reports
// link status. With -reset it runs the full driver initialization sequence
// instead (reset, interrupt configuration, initial link evaluation).
//
// Configuration may come from flags or a YAML file:
//
//	netdev: eth0
//	phyaddr: -1      # -1 asks the kernel for the attached PHY address
//	driver: dp83826
//	loglevel: debug
//	reset: false
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soypat/ephy"
	_ "github.com/soypat/ephy/dp83826" // registers the dp83826 driver.
	"github.com/soypat/ephy/mdio"
	"github.com/soypat/ephy/mii"
)

type config struct {
	Netdev   string `yaml:"netdev"`
	PHYAddr  int    `yaml:"phyaddr"`
	Driver   string `yaml:"driver"`
	LogLevel string `yaml:"loglevel"`
	Reset    bool   `yaml:"reset"`
}

func defaultConfig() config {
	return config{PHYAddr: -1, Driver: "dp83826", LogLevel: "debug"}
}

func loadConfig(b []byte) (config, error) {
	cfg := defaultConfig()
	err := yaml.Unmarshal(b, &cfg)
	if err != nil {
		return cfg, err
	}
	if cfg.Netdev == "" {
		return cfg, errors.New("config missing netdev")
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(s))
	return lvl, err
}

type logSink struct {
	log *slog.Logger
}

func (s logSink) PHYEvent(ifc *ephy.Interface) {
	s.log.Info("phy event pending")
}

func (s logSink) LinkChange(ifc *ephy.Interface) {
	s.log.Info("link change",
		slog.Bool("up", ifc.LinkState),
		slog.String("speed", ifc.LinkSpeed.String()),
		slog.String("duplex", ifc.Duplex.String()),
	)
}

func main() {
	var (
		flagConfig string
		flags      = defaultConfig()
	)
	flag.StringVar(&flagConfig, "c", "", "YAML config file path")
	flag.StringVar(&flags.Netdev, "i", "", "network device name")
	flag.IntVar(&flags.PHYAddr, "p", -1, "PHY address 0-31, -1 to ask the kernel")
	flag.StringVar(&flags.Driver, "d", "dp83826", "registered PHY driver name")
	flag.StringVar(&flags.LogLevel, "l", "debug", "log level (debug|info|warn|error)")
	flag.BoolVar(&flags.Reset, "reset", false, "run full driver init (resets the PHY)")
	flag.Parse()

	cfg := flags
	if flagConfig != "" {
		b, err := os.ReadFile(flagConfig)
		if err != nil {
			fatal(err)
		}
		cfg, err = loadConfig(b)
		if err != nil {
			fatal(err)
		}
		// Explicitly passed flags override the file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "i":
				cfg.Netdev = flags.Netdev
			case "p":
				cfg.PHYAddr = flags.PHYAddr
			case "d":
				cfg.Driver = flags.Driver
			case "l":
				cfg.LogLevel = flags.LogLevel
			case "reset":
				cfg.Reset = flags.Reset
			}
		})
	}
	if cfg.Netdev == "" {
		fatal(errors.New("missing network device name, pass -i or a config file"))
	}
	lvl, err := parseLevel(cfg.LogLevel)
	if err != nil {
		fatal(err)
	}
	lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))

	nd, err := mdio.NewNetdev(cfg.Netdev, lg)
	if err != nil {
		fatal(err)
	}
	defer nd.Close()
	phyaddr := cfg.PHYAddr
	if phyaddr < 0 {
		addr, err := nd.PHYAddr()
		if err != nil {
			fatal(err)
		}
		phyaddr = int(addr)
		lg.Info("kernel reported PHY address", slog.Int("phyaddr", phyaddr))
	}

	var ifc ephy.Interface
	err = ifc.Configure(ephy.InterfaceConfig{
		PHYAddr: uint8(phyaddr),
		MAC:     nd,
		Events:  logSink{log: lg},
		Logger:  lg,
	})
	if err != nil {
		fatal(err)
	}

	if cfg.Reset {
		drv, err := ephy.LookupDriver(cfg.Driver)
		if err != nil {
			fatal(err)
		}
		// Init dumps the register space itself after reset completes.
		if err := drv.Init(&ifc); err != nil {
			fatal(err)
		}
		drv.HandleEvent(&ifc)
		return
	}
	ifc.DumpRegisters()
	bmsr := mii.BMSR(ifc.ReadPHYReg(mii.AddrBMSR))
	fmt.Printf("netdev=%s phyaddr=%d link=%v autoneg-complete=%v\n",
		cfg.Netdev, phyaddr, bmsr.LinkUp(), bmsr.AutoNegotiationComplete())
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "phydump:", err)
	os.Exit(1)
}
