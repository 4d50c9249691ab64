// daylog-demo is a diagnostic tool that exercises the logging facility:
// it emits a burst of leveled records, forces a rotation, and prints the
// resulting log directory contents.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/egliette/daylog"
	"github.com/egliette/daylog/config"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file")
	service := flag.String("service", "demo", "service name / filename prefix")
	dir := flag.String("dir", "logs", "log directory")
	keep := flag.Int("keep", 3, "rotated files to retain")
	flag.Parse()

	var cfg *config.Config
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = c
	} else {
		cfg = config.Default()
		cfg.Service = *service
		cfg.Dir = *dir
		cfg.MaxFiles = *keep
	}

	log, err := daylog.Init(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("daylog demo starting")
	log.Debug("debug record, hidden at the default level")
	log.Warn("something looks off")
	log.Exception(fmt.Errorf("simulated failure"), "demo loop")

	start := time.Now()
	time.Sleep(25 * time.Millisecond)
	log.Perf("demo_sleep", time.Since(start), zap.String("note", "warmup"))

	if err := log.Rotate(); err != nil {
		fmt.Fprintf(os.Stderr, "forced rotation failed: %v\n", err)
	}
	log.Info("first record of the fresh file")

	fmt.Printf("[daylog-demo] contents of %s:\n", cfg.Dir)
	entries, err := os.ReadDir(cfg.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read log directory: %v\n", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Printf("  %s\n", e.Name())
	}
}
