package main

import (
	"flag"
	"fmt"

	"github.com/aigarth-label/qubic-bridge/config"
	"github.com/aigarth-label/qubic-bridge/logger"
	"github.com/aigarth-label/qubic-bridge/rpc/bridgeclient"
)

var Log = logger.New()

var default_bridge = fmt.Sprintf("http://127.0.0.1:%d", config.RPC_BIND_PORT)

func main() {
	log_level := flag.Uint("log-level", 1, "sets the log level (range: 0-3)")
	bridge_address := flag.String("bridge-address", default_bridge, "sets the bridge daemon address")
	flag.Parse()

	Log.SetLogLevel(uint8(*log_level))

	Log.Infof("starting %s CLI v%d.%d.%d", config.NAME,
		config.VERSION_MAJOR, config.VERSION_MINOR, config.VERSION_PATCH)
	Log.Info("bridge daemon:", *bridge_address)

	c := bridgeclient.New(*bridge_address)

	prompts(c)
}
