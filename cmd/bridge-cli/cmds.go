package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aigarth-label/qubic-bridge/config"
	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/qubic"
	"github.com/aigarth-label/qubic-bridge/rpc/bridgeclient"
	"github.com/aigarth-label/qubic-bridge/util"

	"github.com/ergochat/readline"
)

type Cmd struct {
	Names  []string
	Action func(args []string)
	Args   string
}

var commands = Commands{}

type Commands []Cmd

func (c Commands) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if len(line) == 0 {
		return [][]rune{}, 0
	}

	lineStr := string(line)

	sols := [][]rune{}

	for _, v := range c {
		if len(v.Names[0]) >= len(lineStr) {
			sol := v.Names[0][:len(lineStr)]

			if lineStr == sol {
				sols = append(sols, []rune(v.Names[0][len(lineStr):]))
			}
		}
	}

	return sols, pos
}

// session is the CLI state: the daemon client plus an optional locally held
// seed for signing sends. The seed never leaves the process.
type session struct {
	client *bridgeclient.Client
	bridge *qubic.Bridge // nil until a seed is loaded
	seed   identity.Seed
	id     identity.Identity
}

func (s *session) loadSeed(seed identity.Seed) error {
	b, err := qubic.New(s.client, seed, config.TICK_OFFSET, Log)
	if err != nil {
		return err
	}
	s.bridge = b
	s.seed = seed
	s.id = seed.Identity()
	return nil
}

func ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func prompts(client *bridgeclient.Client) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32m>\033[0m ",
		AutoComplete:    commands,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	Log.SetOutput(l.Stdout(), l.Stderr())

	maskCfg := l.GeneratePasswordConfig()
	maskCfg.MaskRune = '*'

	s := &session{client: client}

	commands = append(commands, []Cmd{{
		Names: []string{"status", "info"},
		Args:  "",
		Action: func(args []string) {
			c, cancel := ctx()
			defer cancel()

			st, err := s.client.Status(c)
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("network online: %v (epoch %d, tick %s, via %s)",
				st.Network.Online, st.Network.Epoch,
				util.FormatUint(st.Network.Tick), st.Network.RpcSource)
			Log.Info("treasury:", st.TreasuryID)
			for cat, bal := range st.Categories {
				Log.Infof("  %-20s %s QU", cat, util.FormatInt(bal))
			}
			if s.bridge != nil {
				Log.Info("local identity:", s.id.String())
			}
		},
	}, {
		Names: []string{"tick"},
		Args:  "",
		Action: func(args []string) {
			c, cancel := ctx()
			defer cancel()

			res, err := s.client.GetTickInfo(c)
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("tick %s, epoch %d (%s via %s)",
				util.FormatUint(res.Tick), res.Epoch, res.RpcStatus, res.RpcSource)
		},
	}, {
		Names: []string{"balance"},
		Args:  "[identity]",
		Action: func(args []string) {
			id := ""
			if len(args) > 0 {
				id = args[0]
			} else if s.bridge != nil {
				id = s.id.String()
			} else {
				Log.Err("Usage: balance <identity> (or load a seed first)")
				return
			}

			c, cancel := ctx()
			defer cancel()

			res, err := s.client.GetBalance(c, id)
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("%s: %s QU (%s via %s)", util.Short(res.ID), res.Amount,
				res.RpcStatus, res.RpcSource)
		},
	}, {
		Names: []string{"send", "transfer"},
		Args:  "<destination> <amount>",
		Action: func(args []string) {
			if s.bridge == nil {
				Log.Err("no seed loaded, run 'seed new' or 'seed import' first")
				return
			}
			if len(args) < 2 {
				Log.Err("Usage: send <destination> <amount>")
				return
			}

			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || amount <= 0 {
				Log.Err("invalid amount:", args[1])
				return
			}

			c, cancel := ctx()
			defer cancel()

			res := s.bridge.SendTransaction(c, args[0], amount, s.seed)
			if !res.Success {
				Log.Err("transfer failed:", res.Error)
				return
			}
			Log.Info("transfer broadcast, txid:", res.TxID)
			Log.Infof("scheduled for tick %s via %s",
				util.FormatUint(res.Debug.TargetTick), res.Debug.RpcSource)
		},
	}, {
		Names: []string{"fund"},
		Args:  "<category> <amount>",
		Action: func(args []string) {
			if len(args) < 2 {
				Log.Err("Usage: fund <category> <amount>")
				return
			}

			amount, err := strconv.ParseInt(args[len(args)-1], 10, 64)
			if err != nil || amount <= 0 {
				Log.Err("invalid amount:", args[len(args)-1])
				return
			}
			category := strings.Join(args[:len(args)-1], " ")

			c, cancel := ctx()
			defer cancel()

			balance, err := s.client.Fund(c, category, amount)
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("%q pool balance: %s QU", category, util.FormatInt(balance))
		},
	}, {
		Names: []string{"payout"},
		Args:  "<category> <worker identity> <amount>",
		Action: func(args []string) {
			if len(args) < 3 {
				Log.Err("Usage: payout <category> <worker identity> <amount>")
				return
			}

			amount, err := strconv.ParseInt(args[len(args)-1], 10, 64)
			if err != nil || amount <= 0 {
				Log.Err("invalid amount:", args[len(args)-1])
				return
			}
			worker := args[len(args)-2]
			category := strings.Join(args[:len(args)-2], " ")

			c, cancel := ctx()
			defer cancel()

			res, err := s.client.Payout(c, category, worker, amount)
			if err != nil {
				Log.Err(err)
				return
			}
			Log.Infof("paid %s QU to %s via %s", util.FormatInt(res.Amount),
				util.Short(worker), res.RpcSource)
			Log.Info("txid:", res.TxID)
		},
	}, {
		Names: []string{"payworker"},
		Args:  "<worker identity> <amount>",
		Action: func(args []string) {
			if s.bridge == nil {
				Log.Err("no seed loaded, run 'seed new' or 'seed import' first")
				return
			}
			if len(args) < 2 {
				Log.Err("Usage: payworker <worker identity> <amount>")
				return
			}

			amount, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || amount <= 0 {
				Log.Err("invalid amount:", args[1])
				return
			}

			c, cancel := ctx()
			defer cancel()

			res := s.bridge.PayWorker(c, args[0], amount)
			if !res.Success {
				Log.Err("payment failed:", res.Error)
				return
			}
			Log.Info("payment broadcast, txid:", res.TxID)
			Log.Infof("scheduled for tick %s via %s",
				util.FormatUint(res.Debug.TargetTick), res.Debug.RpcSource)
		},
	}, {
		Names: []string{"history"},
		Args:  "[count]",
		Action: func(args []string) {
			limit := 10
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					Log.Err("invalid count:", args[0])
					return
				}
				limit = n
			}

			c, cancel := ctx()
			defer cancel()

			entries, err := s.client.History(c, limit)
			if err != nil {
				Log.Err(err)
				return
			}
			if len(entries) == 0 {
				Log.Info("no transfers recorded")
				return
			}
			for _, e := range entries {
				status := "ok"
				if !e.Success {
					status = "FAILED: " + e.Error
				}
				Log.Infof("%s  %s QU -> %s  tick %s  [%s] %s",
					time.UnixMilli(e.Time).Format("2006-01-02 15:04:05"),
					util.FormatInt(e.Amount), util.Short(e.Destination),
					util.FormatUint(e.TargetTick), e.RpcSource, status)
			}
		},
	}, {
		Names: []string{"seed"},
		Args:  "new | import",
		Action: func(args []string) {
			if len(args) < 1 {
				Log.Err("Usage: seed new | seed import")
				return
			}

			switch args[0] {
			case "new":
				mnemonic, seed := identity.NewMnemonic()
				if err := s.loadSeed(seed); err != nil {
					Log.Err(err)
					return
				}
				Log.Info("identity:", s.id.String())
				Log.Info("recovery mnemonic (write it down, it is not stored):")
				fmt.Fprintln(l.Stdout(), "\n    "+mnemonic+"\n")

			case "import":
				fmt.Fprint(l.Stdout(), "seed or mnemonic: ")
				line, err := l.ReadLineWithConfig(maskCfg)
				if err != nil {
					Log.Err(err)
					return
				}

				seed := identity.Seed(strings.TrimSpace(line))
				if !seed.Valid() {
					seed, err = identity.SeedFromMnemonic(line)
					if err != nil {
						Log.Err("not a valid seed or mnemonic")
						return
					}
				}
				if err := s.loadSeed(seed); err != nil {
					Log.Err(err)
					return
				}
				Log.Info("identity:", s.id.String())

			default:
				Log.Err("Usage: seed new | seed import")
			}
		},
	}, {
		Names: []string{"help"},
		Args:  "",
		Action: func(args []string) {
			Log.Info("List of available commands:")
			for _, v := range commands {
				Log.Infof("%-10s %s", v.Names[0], v.Args)
			}
		},
	}, {
		Names: []string{"exit", "quit"},
		Args:  "",
		Action: func(args []string) {
			os.Exit(0)
		},
	}}...)

	for {
		line, err := l.ReadLine()
		if err != nil {
			Log.Err(err)
			os.Exit(0)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		cmd := strings.ToLower(fields[0])
		found := false
		for _, v := range commands {
			for _, name := range v.Names {
				if name == cmd {
					v.Action(fields[1:])
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			Log.Err("unknown command, type 'help' for the command list")
		}
	}
}
