package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aigarth-label/qubic-bridge/config"
	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/journal"
	"github.com/aigarth-label/qubic-bridge/keyfile"
	"github.com/aigarth-label/qubic-bridge/logger"
	"github.com/aigarth-label/qubic-bridge/qubic"
	"github.com/aigarth-label/qubic-bridge/rpc/nodeclient"
	"github.com/aigarth-label/qubic-bridge/rpc/proxysrv"
	"github.com/aigarth-label/qubic-bridge/treasury"
	"github.com/aigarth-label/qubic-bridge/util"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

var Log = logger.New()

func main() {
	version := flag.Bool("version", false, "prints version and exits")
	log_level := flag.Uint("log-level", 1, "sets the log level")
	env_file := flag.String("env-file", ".env", "environment file to load before reading settings")
	create_keyfile := flag.String("create-keyfile", "", "generate a fresh treasury seed, seal it to the given path and exit")
	flag.Parse()

	if *version {
		fmt.Printf("%s daemon v%d.%d.%d\n", config.NAME,
			config.VERSION_MAJOR, config.VERSION_MINOR, config.VERSION_PATCH)
		os.Exit(0)
	}

	Log.SetLogLevel(uint8(*log_level))

	if err := godotenv.Load(*env_file); err != nil && !os.IsNotExist(err) {
		Log.Fatal("loading env file:", err)
	}
	rt := config.FromEnv()

	if *create_keyfile != "" {
		createKeyfile(*create_keyfile)
		return
	}

	seed := resolveSeed(rt)
	Log.Infof("starting %s v%d.%d.%d", config.NAME,
		config.VERSION_MAJOR, config.VERSION_MINOR, config.VERSION_PATCH)
	Log.Info("treasury identity:", util.Short(seed.Identity().String()))
	if rt.DemoMode {
		Log.Warn("demo mode: failed broadcasts return SIMULATED transaction ids")
	}

	store := treasury.NewStore(config.CATEGORIES, config.CATEGORY_OPENING_BALANCE)

	jrnl, err := journal.Open(rt.JournalPath)
	if err != nil {
		Log.Fatal("opening transfer journal:", err)
	}
	defer jrnl.Close()

	node := nodeclient.New(nodeclient.DefaultRegistry(), rt.DemoMode, Log)

	bridge, err := qubic.New(node, seed, rt.TickOffset, Log)
	if err != nil {
		Log.Fatal(err)
	}

	srv := proxysrv.New(proxysrv.Config{
		Bind:      rt.Bind,
		RateLimit: rt.RateLimit,
	}, node, bridge, store, jrnl, Log)

	go func() {
		if err := srv.Run(); err != nil {
			Log.Fatal(err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Log.Err("shutdown:", err)
	}
}

// resolveSeed picks the treasury seed: keyfile wins, then the environment,
// then an ephemeral seed good for demos only.
func resolveSeed(rt config.Runtime) identity.Seed {
	if rt.KeyfilePath != "" {
		pass := promptPass("keyfile passphrase: ")
		seed, err := keyfile.Open(rt.KeyfilePath, pass)
		if err != nil {
			Log.Fatal(err)
		}
		return seed
	}

	if rt.TreasurySeed != "" {
		seed := identity.Seed(rt.TreasurySeed)
		if !seed.Valid() {
			Log.Fatal("QB_TREASURY_SEED is not a valid seed")
		}
		Log.Warn("treasury seed loaded from plaintext environment; use a keyfile in production")
		return seed
	}

	_, seed := identity.NewMnemonic()
	Log.Warn("no treasury seed configured, generated an ephemeral one")
	Log.Warn("funds sent to this identity are lost on restart")
	return seed
}

func createKeyfile(path string) {
	pass := promptPass("new keyfile passphrase: ")
	if string(pass) != string(promptPass("repeat passphrase: ")) {
		Log.Fatal("passphrases do not match")
	}

	mnemonic, seed := identity.NewMnemonic()
	if err := keyfile.Create(path, seed, pass); err != nil {
		Log.Fatal(err)
	}

	Log.Info("keyfile written to", path)
	Log.Info("treasury identity:", seed.Identity().String())
	Log.Info("recovery mnemonic (write it down, it is not stored):")
	fmt.Println("\n    " + mnemonic + "\n")
}

func promptPass(prompt string) []byte {
	fmt.Print(prompt)
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		Log.Fatal("reading passphrase:", err)
	}
	return pass
}
