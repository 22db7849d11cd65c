package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schain/schain"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	varHome   *string
	varConfig *string
)

func init() {
	defaults := DefaultConfig()
	varHome = flag.String("home", defaults.Home, "directory to store files under")
	varConfig = flag.String("config", "", "TOML configuration file (default $home/config/smultisigd.toml)")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("smultisigd")
	fmt.Println("          Multisig governance node")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize app options in genesis file")
	fmt.Println("start     Run the abci server")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.smultisig")
  -config string
        TOML configuration file (default "$home/config/smultisigd.toml")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "smultisig")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	if err := run(logger, cmd, rest); err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func run(logger log.Logger, cmd string, args []string) error {
	home := *varHome
	confPath := *varConfig
	if confPath == "" {
		confPath = filepath.Join(home, "config", "smultisigd.toml")
	}

	switch cmd {
	case "help":
		helpMessage()
		return nil
	case "init":
		return InitCmd(logger, home, os.Stdout, args)
	case "start":
		cfg, err := loadConfig(confPath)
		if err != nil {
			return err
		}
		if isFlagSet("home") {
			cfg.Home = home
		}
		return StartCmd(cfg, logger, args)
	case "version":
		fmt.Println(schain.Version())
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func isFlagSet(name string) bool {
	var found bool
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
