/*
 * MIT License
 *
 * Copyright (c) 2024 Necromancer Labs
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// edb-agent is the embbridge device-side agent.
//
//	edb-agent -c <host:port>   connect to a listening controller (reverse)
//	edb-agent -l <port>        listen for a controller (bind)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	libagt "github.com/Necromancer-Labs/embbridge/agent"
	libptl "github.com/Necromancer-Labs/embbridge/protocol"
)

var (
	flgConnect string
	flgListen  uint16
	flgConfig  string
	flgLevel   string
	flgJSON    bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "edb-agent",
		Short:         fmt.Sprintf("embbridge agent v%d", libptl.Version),
		Long:          "Remote debug bridge agent for embedded Linux devices.",
		SilenceUsage:  false,
		SilenceErrors: true,
		Example: "  edb-agent -c 192.168.1.100:1337\n" +
			"  edb-agent -l 1337",
		RunE: run,
	}

	cmd.Flags().StringVarP(&flgConnect, "connect", "c", "", "connect to controller at host:port (reverse mode)")
	cmd.Flags().Uint16VarP(&flgListen, "listen", "l", 0, "listen for controller on port (bind mode)")
	cmd.Flags().StringVar(&flgConfig, "config", "", "optional config file")
	cmd.Flags().StringVar(&flgLevel, "log-level", "info", "log level (panic, fatal, error, warn, info, debug, trace)")
	cmd.Flags().BoolVar(&flgJSON, "log-json", false, "log as json instead of text")

	cmd.MarkFlagsMutuallyExclusive("connect", "listen")

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	log, err := setupLogger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	agt, er := libagt.New(cfg, log)
	if er != nil {
		return er
	}

	cmd.SilenceUsage = true

	if er = agt.Run(context.Background()); er != nil {
		return er
	}

	return nil
}

func setupLogger() (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(flgLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level '%s'", flgLevel)
	}

	log := logrus.New()
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)

	if flgJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logrus.NewEntry(log), nil
}

// loadConfig merges the optional config file with the CLI flags; flags
// win. The file may carry mode/remote/port under the "agent" key.
func loadConfig() (libagt.Config, error) {
	var cfg = libagt.Config{
		Port: libagt.DefaultPort,
	}

	if flgConfig != "" {
		vpr := viper.New()
		vpr.SetConfigFile(flgConfig)

		if err := vpr.ReadInConfig(); err != nil {
			return cfg, err
		}

		if err := vpr.UnmarshalKey("agent", &cfg, func(dc *mapstructure.DecoderConfig) {
			dc.TagName = "mapstructure"
		}); err != nil {
			return cfg, err
		}
	}

	switch {
	case flgConnect != "":
		cfg.Mode = libagt.ModeConnect
		cfg.Remote = flgConnect
	case flgListen != 0:
		cfg.Mode = libagt.ModeListen
		cfg.Port = flgListen
	case cfg.Mode == "":
		return cfg, fmt.Errorf("one of -c <host:port> or -l <port> is required")
	}

	return cfg, nil
}
